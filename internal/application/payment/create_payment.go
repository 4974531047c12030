// Package payment 付款与罚款用例
//
// 逾期罚款由借阅流转创建，这里负责用户发起的付款和管理员对状态的修改。
// 创建和状态变化在事务提交后发布payment.*通知。
package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/library/internal/application/txn"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
)

// CreatePaymentRequest 创建付款
// UserID为空时为请求者本人，只有管理员可以为其他用户创建
type CreatePaymentRequest struct {
	UserID      string
	Amount      decimal.Decimal
	Description string
	Requester   user.Requester
}

// CreatePaymentUseCase 创建付款，状态固定为PENDING
type CreatePaymentUseCase struct {
	tx       txn.Manager
	users    user.Repository
	payments payment.Repository
	events   event.Publisher
	log      *slog.Logger
	now      func() time.Time
}

func NewCreatePaymentUseCase(
	tx txn.Manager,
	users user.Repository,
	payments payment.Repository,
	events event.Publisher,
	log *slog.Logger,
) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		tx:       tx,
		users:    users,
		payments: payments,
		events:   events,
		log:      log.With(slog.String("component", "payment")),
		now:      time.Now,
	}
}

func (uc *CreatePaymentUseCase) Execute(ctx context.Context, req CreatePaymentRequest) (*PaymentView, error) {
	userID := req.UserID
	if userID == "" {
		userID = req.Requester.UserID
	}
	if !req.Requester.CanAccess(userID) {
		return nil, payment.ErrNotPaymentOwner.WithDetails(map[string]any{
			"user_id":        req.Requester.UserID,
			"requested_user": userID,
		})
	}

	p, err := payment.NewPayment(userID, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}

	err = txn.Do(ctx, uc.tx, uc.log, func(ctx context.Context, hooks *txn.Hooks) error {
		if _, err := uc.users.FindByID(ctx, userID); err != nil {
			return err
		}
		if err := uc.payments.Create(ctx, p); err != nil {
			return err
		}
		hooks.OnCommit("notify."+string(event.PaymentCreated), publish(uc.events, paymentEvent(event.PaymentCreated, p, uc.now())))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "payment created",
		slog.String("payment_id", p.ID),
		slog.String("user_id", p.UserID),
		slog.String("amount", p.Amount.StringFixed(2)),
	)
	view := NewPaymentView(p)
	return &view, nil
}

func publish(events event.Publisher, e event.Event) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return events.Publish(ctx, e)
	}
}

func paymentEvent(t event.Type, p *payment.Payment, now time.Time) event.Event {
	e := event.New(t, now)
	e.UserID = p.UserID
	e.PaymentID = p.ID
	e.Amount = p.Amount.StringFixed(2)
	e.Status = p.Status.String()
	return e
}
