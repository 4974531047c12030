package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/notify"
	"github.com/xiebiao/library/pkg/mq"
)

func newNotifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "消费借阅、罚款、付款通知",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := mq.NewConsumer(
				cfg.MQ.URL,
				cfg.MQ.Exchange,
				cfg.MQ.ExchangeType,
				cfg.MQ.Queue,
				notify.RoutingKeys,
				log,
			)
			if err != nil {
				return err
			}
			defer consumer.Close()

			log.Info("notifier started",
				slog.String("queue", consumer.Queue()),
				slog.Any("routing_keys", notify.RoutingKeys),
			)
			err = consumer.Consume(ctx, notify.DeliveryHandler(consumer.Queue(), log))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
