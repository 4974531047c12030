package payment

import (
	"context"

	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
)

// ListPaymentsUseCase 全部付款(管理员)，可按状态过滤
type ListPaymentsUseCase struct {
	payments payment.Repository
}

func NewListPaymentsUseCase(payments payment.Repository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{payments: payments}
}

// Execute status为空时不过滤
func (uc *ListPaymentsUseCase) Execute(ctx context.Context, status string) ([]PaymentView, error) {
	var filter payment.Filter
	if status != "" {
		s, err := payment.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = s
	}

	list, err := uc.payments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return NewPaymentViews(list), nil
}

// ListUserPaymentsUseCase 用户的付款记录，本人或管理员
type ListUserPaymentsUseCase struct {
	users    user.Repository
	payments payment.Repository
}

func NewListUserPaymentsUseCase(users user.Repository, payments payment.Repository) *ListUserPaymentsUseCase {
	return &ListUserPaymentsUseCase{users: users, payments: payments}
}

func (uc *ListUserPaymentsUseCase) Execute(ctx context.Context, userID string, who user.Requester) ([]PaymentView, error) {
	if !who.CanAccess(userID) {
		return nil, payment.ErrNotPaymentOwner.WithDetails(map[string]any{
			"user_id":        who.UserID,
			"requested_user": userID,
		})
	}
	if _, err := uc.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	list, err := uc.payments.List(ctx, payment.Filter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return NewPaymentViews(list), nil
}

// DeletePaymentUseCase 删除付款(管理员)
type DeletePaymentUseCase struct {
	payments payment.Repository
}

func NewDeletePaymentUseCase(payments payment.Repository) *DeletePaymentUseCase {
	return &DeletePaymentUseCase{payments: payments}
}

func (uc *DeletePaymentUseCase) Execute(ctx context.Context, id string) error {
	return uc.payments.Delete(ctx, id)
}
