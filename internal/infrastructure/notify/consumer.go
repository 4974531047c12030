package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

// RoutingKeys notifier命令订阅的事件
var RoutingKeys = []string{"loan.*", "fine.*", "payment.*"}

// DeliveryHandler 消费通知事件并记录一条投递日志
// 无法解析的消息直接确认丢弃，避免反复重新入队
func DeliveryHandler(queue string, log *slog.Logger) mq.Handler {
	metrics.InitMetrics()
	log = log.With(slog.String("component", "notification_consumer"))

	return func(ctx context.Context, d mq.Delivery) error {
		start := time.Now()
		defer func() {
			metrics.ObserveHistogram(metrics.MessageProcessingDuration, time.Since(start).Seconds())
		}()

		var e event.Event
		if err := json.Unmarshal(d.Body, &e); err != nil {
			log.ErrorContext(ctx, "malformed notification dropped",
				slog.String("routing_key", d.RoutingKey),
				slog.Any("error", err),
			)
			metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": queue, "result": "dropped"})
			return nil
		}

		attrs := append(eventAttrs(e), slog.Time("occurred_at", e.OccurredAt))
		log.InfoContext(ctx, "notification delivered", attrs...)
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": queue, "result": "ok"})
		return nil
	}
}
