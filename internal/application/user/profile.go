package user

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application/circulation"
	apppayment "github.com/xiebiao/library/internal/application/payment"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
)

// ProfileHistoryLimit 个人主页展示的历史记录条数
const ProfileHistoryLimit = 10

// ProfileResponse 个人主页
type ProfileResponse struct {
	User            UserView                 `json:"user"`
	CurrentLoans    []circulation.LoanView   `json:"current_issues"`
	ReturnedLoans   []circulation.LoanView   `json:"returned_issues"`
	PendingPayments []apppayment.PaymentView `json:"pending_payments"`
	PaidPayments    []apppayment.PaymentView `json:"paid_payments"`
}

// ProfileUseCase 当前用户的资料、借阅和付款概览
type ProfileUseCase struct {
	users    user.Repository
	loans    loan.Repository
	payments payment.Repository
	now      func() time.Time
}

func NewProfileUseCase(users user.Repository, loans loan.Repository, payments payment.Repository) *ProfileUseCase {
	return &ProfileUseCase{users: users, loans: loans, payments: payments, now: time.Now}
}

func (uc *ProfileUseCase) Execute(ctx context.Context, userID string) (*ProfileResponse, error) {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	open, returned := false, true
	current, err := uc.loans.List(ctx, loan.Filter{UserID: userID, Returned: &open})
	if err != nil {
		return nil, err
	}
	history, err := uc.loans.List(ctx, loan.Filter{UserID: userID, Returned: &returned, Limit: ProfileHistoryLimit})
	if err != nil {
		return nil, err
	}

	pending, err := uc.payments.List(ctx, payment.Filter{UserID: userID, Status: payment.StatusPending})
	if err != nil {
		return nil, err
	}
	paid, err := uc.payments.List(ctx, payment.Filter{UserID: userID, Status: payment.StatusPaid, Limit: ProfileHistoryLimit})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	return &ProfileResponse{
		User:            NewUserView(u),
		CurrentLoans:    circulation.NewLoanViews(current, now),
		ReturnedLoans:   circulation.NewLoanViews(history, now),
		PendingPayments: apppayment.NewPaymentViews(pending),
		PaidPayments:    apppayment.NewPaymentViews(paid),
	}, nil
}
