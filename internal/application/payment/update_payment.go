package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/application/txn"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
)

// UpdatePaymentRequest 付款人或管理员提交支付结果
// Status为空时保持原状态
type UpdatePaymentRequest struct {
	ID            string
	Status        string
	PaymentMethod string
	TransactionID string
	Requester     user.Requester
}

// UpdatePaymentUseCase 修改付款
// 1. UpdatePayment: 付款人或管理员，可同时修改状态、支付方式、交易号
// 2. ChangeStatus: 管理员直接修改状态
// 状态没有实际变化时不发布通知
type UpdatePaymentUseCase struct {
	tx       txn.Manager
	payments payment.Repository
	events   event.Publisher
	log      *slog.Logger
	now      func() time.Time
}

func NewUpdatePaymentUseCase(tx txn.Manager, payments payment.Repository, events event.Publisher, log *slog.Logger) *UpdatePaymentUseCase {
	return &UpdatePaymentUseCase{
		tx:       tx,
		payments: payments,
		events:   events,
		log:      log.With(slog.String("component", "payment")),
		now:      time.Now,
	}
}

func (uc *UpdatePaymentUseCase) UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (*PaymentView, error) {
	var status payment.Status
	if req.Status != "" {
		s, err := payment.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	return uc.apply(ctx, req.ID, func(p *payment.Payment) (bool, error) {
		if !req.Requester.CanAccess(p.UserID) {
			return false, payment.ErrNotPaymentOwner.WithDetails(map[string]any{
				"user_id":       req.Requester.UserID,
				"payment_owner": p.UserID,
			})
		}
		target := status
		if target == 0 {
			target = p.Status
		}
		return p.Settle(target, req.PaymentMethod, req.TransactionID)
	})
}

// ChangeStatus 管理员修改状态，任意状态之间都允许
func (uc *UpdatePaymentUseCase) ChangeStatus(ctx context.Context, id, status string) (*PaymentView, error) {
	s, err := payment.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, id, func(p *payment.Payment) (bool, error) {
		return p.ChangeStatus(s)
	})
}

func (uc *UpdatePaymentUseCase) apply(ctx context.Context, id string, mutate func(p *payment.Payment) (bool, error)) (*PaymentView, error) {
	var (
		updated *payment.Payment
		from    payment.Status
		changed bool
	)

	err := txn.Do(ctx, uc.tx, uc.log, func(ctx context.Context, hooks *txn.Hooks) error {
		p, err := uc.payments.FindByID(ctx, id)
		if err != nil {
			return err
		}
		from = p.Status

		changed, err = mutate(p)
		if err != nil {
			return err
		}
		if err := uc.payments.Update(ctx, p); err != nil {
			return err
		}
		updated = p

		if changed {
			hooks.OnCommit("notify."+string(event.PaymentStatusChanged),
				publish(uc.events, paymentEvent(event.PaymentStatusChanged, p, uc.now())))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.log.InfoContext(ctx, "payment status changed",
			slog.String("payment_id", updated.ID),
			slog.String("from", from.String()),
			slog.String("to", updated.Status.String()),
		)
	}
	view := NewPaymentView(updated)
	return &view, nil
}
