// Package circulation 借阅流转: 借书、还书、续借
//
// 借阅流转同时维护两个计数: 图书的可借数量和用户的借阅资格(没有未结清罚款)。
// 每个操作在一个作用域事务内完成读写，通知在提交后发送，发送失败只记录日志。
package circulation

import (
	"context"
	"log/slog"
	"time"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/txn"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/circulation"

// Service 借阅流转用例
type Service struct {
	tx       txn.Manager
	users    user.Repository
	books    book.Repository
	loans    loan.Repository
	payments payment.Repository
	events   event.Publisher
	policy   loan.Policy
	cache    bookapp.Cache
	log      *slog.Logger
	now      func() time.Time
}

// Option 服务选项
type Option func(*Service)

// WithBookCache 可借数量变化后删除图书详情缓存
func WithBookCache(c bookapp.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService 创建借阅流转用例
func NewService(
	tx txn.Manager,
	users user.Repository,
	books book.Repository,
	loans loan.Repository,
	payments payment.Repository,
	events event.Publisher,
	policy loan.Policy,
	log *slog.Logger,
	opts ...Option,
) *Service {
	metrics.InitMetrics()
	s := &Service{
		tx:       tx,
		users:    users,
		books:    books,
		loans:    loans,
		payments: payments,
		events:   events,
		policy:   policy,
		cache:    bookapp.NopCache{},
		log:      log.With(slog.String("component", "circulation")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueRequest 借书请求
type IssueRequest struct {
	UserID string
	BookID string
}

// Issue 借书
//
// 前置检查按顺序进行，第一个失败的检查决定返回的错误:
//  1. 用户存在(404)
//  2. 用户不是管理员(403)
//  3. 用户没有PENDING罚款(403)
//  4. 图书存在(404)
//  5. 可借数量大于0(400)
//  6. 该书没有未归还的借阅(400)
//
// 检查全部通过后在同一事务内扣减数量并创建借阅，应还日期为借出日期+借期。
func (s *Service) Issue(ctx context.Context, req IssueRequest) (_ *LoanView, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "circulation.Issue")
	defer func(start time.Time) {
		tracing.EndSpan(span, err)
		s.observe("issue", start, err)
	}(time.Now())

	now := s.now()
	var issued *loan.Loan

	err = txn.Do(ctx, s.tx, s.log, func(ctx context.Context, hooks *txn.Hooks) error {
		u, err := s.users.FindByID(ctx, req.UserID)
		if err != nil {
			return err
		}
		if err := u.EnsureCanBorrow(); err != nil {
			return err
		}
		if err := s.ensureNoPendingFine(ctx, u.ID); err != nil {
			return err
		}

		// 锁住图书行，并发借同一本书时在这里排队
		b, err := s.books.LockByID(ctx, req.BookID)
		if err != nil {
			return err
		}
		if err := b.EnsureAvailable(); err != nil {
			return err
		}

		open, err := s.loans.FindOpenByBook(ctx, b.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return loan.ErrAlreadyIssued.WithDetails(map[string]any{
				"book_id":         b.ID,
				"issue_record_id": open.ID,
				"due_date":        loan.FormatDate(open.DueDate),
			})
		}

		if err := s.books.UpdateQuantity(ctx, b.ID, -1); err != nil {
			return err
		}

		l := loan.NewLoan(u.ID, b.ID, now, s.policy)
		if err := s.loans.Create(ctx, l); err != nil {
			return err
		}
		issued = l

		hooks.OnCommit("cache.invalidate", s.invalidate(b.ID))
		hooks.OnCommit("notify."+string(event.LoanIssued), s.publish(loanEvent(event.LoanIssued, l, now)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "book issued",
		slog.String("issue_record_id", issued.ID),
		slog.String("user_id", issued.UserID),
		slog.String("book_id", issued.BookID),
	)
	view := NewLoanView(issued, now)
	return &view, nil
}

// ReturnRequest 还书请求
// ReturnDate格式为YYYY-MM-DD
type ReturnRequest struct {
	LoanID     string
	ReturnDate string
}

// ReturnResult 还书结果，逾期时附带新产生的罚款
type ReturnResult struct {
	Loan LoanView  `json:"issue_record"`
	Fine *FineView `json:"fine,omitempty"`
}

// Return 还书
// 1. 借阅不存在(404)、已归还(400)、归还日期早于借出日期(400)
// 2. 归还日期晚于应还日期时创建一条PENDING罚款并记录到借阅上
// 3. 默认不恢复可借数量，circulation.restock_on_return开启时在同一事务内加1
func (s *Service) Return(ctx context.Context, req ReturnRequest) (_ *ReturnResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "circulation.Return")
	defer func(start time.Time) {
		tracing.EndSpan(span, err)
		s.observe("return", start, err)
	}(time.Now())

	returnDate, err := loan.ParseDate(req.ReturnDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		returned *loan.Loan
		fine     *payment.Payment
	)

	err = txn.Do(ctx, s.tx, s.log, func(ctx context.Context, hooks *txn.Hooks) error {
		// 锁住借阅行，并发归还同一借阅时第二个请求会看到已归还
		l, err := s.loans.LockByID(ctx, req.LoanID)
		if err != nil {
			return err
		}

		late, err := l.Return(returnDate)
		if err != nil {
			return err
		}

		if late {
			f := payment.NewFine(l.UserID, s.policy.FineAmount)
			if err := s.payments.Create(ctx, f); err != nil {
				return err
			}
			l.AttachFine(f.ID)
			fine = f

			e := event.New(event.FineCreated, now)
			e.UserID = f.UserID
			e.LoanID = l.ID
			e.PaymentID = f.ID
			e.Amount = f.Amount.StringFixed(2)
			hooks.OnCommit("notify."+string(event.FineCreated), s.publish(e))
		}

		if err := s.loans.Update(ctx, l); err != nil {
			return err
		}

		if s.policy.RestockOnReturn {
			if err := s.books.UpdateQuantity(ctx, l.BookID, 1); err != nil {
				return err
			}
			hooks.OnCommit("cache.invalidate", s.invalidate(l.BookID))
		}

		returned = l
		hooks.OnCommit("notify."+string(event.LoanReturned), s.publish(loanEvent(event.LoanReturned, l, now)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("issue_record_id", returned.ID),
		slog.String("return_date", loan.FormatDate(returnDate)),
	}
	if fine != nil {
		metrics.IncCounter(metrics.FinesCreatedTotal)
		attrs = append(attrs, slog.String("payment_id", fine.ID))
	}
	s.log.InfoContext(ctx, "book returned", attrs...)

	result := &ReturnResult{Loan: NewLoanView(returned, now)}
	if fine != nil {
		fv := NewFineView(fine)
		result.Fine = &fv
	}
	return result, nil
}

// RenewRequest 续借请求，Requester来自认证信息
type RenewRequest struct {
	LoanID        string
	RequesterID   string
	RequesterRole user.Role
}

// Renew 续借
// 1. 借阅不存在(404)、已归还(400)
// 2. 请求者既不是借阅人也不是管理员(403)
// 3. 借阅人有PENDING罚款(403)
// 应还日期重置为今天+借期，不改变可借数量
func (s *Service) Renew(ctx context.Context, req RenewRequest) (_ *LoanView, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "circulation.Renew")
	defer func(start time.Time) {
		tracing.EndSpan(span, err)
		s.observe("renew", start, err)
	}(time.Now())

	now := s.now()
	var renewed *loan.Loan

	err = txn.Do(ctx, s.tx, s.log, func(ctx context.Context, hooks *txn.Hooks) error {
		l, err := s.loans.LockByID(ctx, req.LoanID)
		if err != nil {
			return err
		}
		if err := l.EnsureOpen(); err != nil {
			return err
		}
		if !l.IsOwnedBy(req.RequesterID) && !req.RequesterRole.IsAdmin() {
			return loan.ErrNotLoanOwner.WithDetails(map[string]any{
				"user_id":       req.RequesterID,
				"issue_user_id": l.UserID,
			})
		}
		if err := s.ensureNoPendingFine(ctx, l.UserID); err != nil {
			return err
		}

		if err := l.Renew(now, s.policy); err != nil {
			return err
		}
		if err := s.loans.Update(ctx, l); err != nil {
			return err
		}
		renewed = l

		hooks.OnCommit("notify."+string(event.LoanRenewed), s.publish(loanEvent(event.LoanRenewed, l, now)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "loan renewed",
		slog.String("issue_record_id", renewed.ID),
		slog.String("due_date", loan.FormatDate(renewed.DueDate)),
	)
	view := NewLoanView(renewed, now)
	return &view, nil
}

func (s *Service) ensureNoPendingFine(ctx context.Context, userID string) error {
	p, err := s.payments.FindPendingByUser(ctx, userID)
	if err != nil {
		return err
	}
	if p != nil {
		return loan.ErrPendingPayment.WithDetails(map[string]any{
			"user_id":    userID,
			"payment_id": p.ID,
			"amount":     p.Amount.StringFixed(2),
		})
	}
	return nil
}

func (s *Service) publish(e event.Event) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return s.events.Publish(ctx, e)
	}
}

func (s *Service) invalidate(bookID string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return s.cache.Delete(ctx, bookID)
	}
}

// observe 记录操作结果与耗时，失败按错误Reason分类
func (s *Service) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = apperrors.GetAppError(err).Reason
	}
	metrics.IncCounterVec(metrics.CirculationOpsTotal, map[string]string{"operation": op, "result": result})
	metrics.ObserveHistogramVec(metrics.CirculationDuration, map[string]string{"operation": op}, time.Since(start).Seconds())
}

func loanEvent(t event.Type, l *loan.Loan, now time.Time) event.Event {
	e := event.New(t, now)
	e.UserID = l.UserID
	e.BookID = l.BookID
	e.LoanID = l.ID
	e.DueDate = loan.FormatDate(l.DueDate)
	return e
}
