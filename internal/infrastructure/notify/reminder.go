package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
)

// Reminder 定期扫描逾期未还的借阅，发布loan.overdue
type Reminder struct {
	loans    loan.Repository
	events   event.Publisher
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewReminder(loans loan.Repository, events event.Publisher, interval time.Duration, log *slog.Logger) *Reminder {
	metrics.InitMetrics()
	return &Reminder{
		loans:    loans,
		events:   events,
		interval: interval,
		log:      log.With(slog.String("component", "overdue_reminder")),
		now:      time.Now,
	}
}

// Run 阻塞运行直到ctx取消，启动时先扫描一次
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("overdue reminder started", slog.Duration("interval", r.interval))
	for {
		if _, err := r.Scan(ctx); err != nil {
			r.log.ErrorContext(ctx, "overdue scan failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			r.log.Info("overdue reminder stopped")
			return
		case <-ticker.C:
		}
	}
}

// Scan 扫描一次，返回逾期借阅数
// 单条通知发送失败不影响其他借阅
func (r *Reminder) Scan(ctx context.Context) (int, error) {
	now := r.now()
	overdue, err := r.loans.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	metrics.SetGauge(metrics.OverdueLoans, float64(len(overdue)))

	failed := 0
	for _, l := range overdue {
		e := event.New(event.LoanOverdue, now)
		e.UserID = l.UserID
		e.BookID = l.BookID
		e.LoanID = l.ID
		e.DueDate = loan.FormatDate(l.DueDate)

		if err := r.events.Publish(ctx, e); err != nil {
			failed++
			r.log.WarnContext(ctx, "overdue notification failed",
				slog.String("issue_record_id", l.ID),
				slog.Any("error", err),
			)
		}
	}

	r.log.InfoContext(ctx, "overdue scan finished",
		slog.Int("overdue", len(overdue)),
		slog.Int("failed", failed),
	)
	return len(overdue), nil
}
