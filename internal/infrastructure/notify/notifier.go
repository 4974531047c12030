// Package notify 借阅通知的发送、消费与逾期提醒
//
// 事件以type作为routing key发布到topic exchange，notifier命令消费并记录投递。
// MQ未启用时使用LogNotifier，事件只写日志。
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
)

// Sender 消息发送，*mq.Publisher实现了该接口
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQNotifier 通过消息队列发送通知
// 连续失败后熔断，熔断期间直接返回错误，不再等待broker超时
type MQNotifier struct {
	sender   Sender
	exchange string
	breaker  *circuitbreaker.CircuitBreaker
	log      *slog.Logger
}

// NewMQNotifier breakerOpen是熔断后保持打开的时长
func NewMQNotifier(sender Sender, exchange string, breakerOpen time.Duration, log *slog.Logger) *MQNotifier {
	metrics.InitMetrics()
	log = log.With(slog.String("component", "notifier"))

	breaker := circuitbreaker.NewCircuitBreaker("notifier", circuitbreaker.Config{
		Timeout:     breakerOpen,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 3 },
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
	})

	return &MQNotifier{
		sender:   sender,
		exchange: exchange,
		breaker:  breaker,
		log:      log,
	}
}

// Publish 发送事件
func (n *MQNotifier) Publish(ctx context.Context, e event.Event) error {
	err := n.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		return n.sender.Publish(ctx, string(e.Type), e)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": n.breaker.Name(), "result": result})

	if err != nil {
		return err
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"exchange": n.exchange, "routing_key": string(e.Type)})
	return nil
}

// LogNotifier 只写日志
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(slog.String("component", "notifier"))}
}

func (n *LogNotifier) Publish(ctx context.Context, e event.Event) error {
	n.log.InfoContext(ctx, "notification", eventAttrs(e)...)
	return nil
}

func eventAttrs(e event.Event) []any {
	attrs := []any{
		slog.String("event_id", e.ID),
		slog.String("type", string(e.Type)),
	}
	add := func(key, value string) {
		if value != "" {
			attrs = append(attrs, slog.String(key, value))
		}
	}
	add("user_id", e.UserID)
	add("book_id", e.BookID)
	add("issue_record_id", e.LoanID)
	add("payment_id", e.PaymentID)
	add("amount", e.Amount)
	add("status", e.Status)
	add("due_date", e.DueDate)
	return attrs
}
