package circulation

import (
	"context"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
)

// Get 查询单条借阅，只有借阅人和管理员可见
func (s *Service) Get(ctx context.Context, id string, who user.Requester) (*LoanView, error) {
	l, err := s.loans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(l.UserID) {
		return nil, loan.ErrNotLoanOwner.WithDetails(map[string]any{
			"user_id":       who.UserID,
			"issue_user_id": l.UserID,
		})
	}
	view := NewLoanView(l, s.now())
	return &view, nil
}

// List 全部借阅(管理员)
func (s *Service) List(ctx context.Context, filter loan.Filter) ([]LoanView, error) {
	loans, err := s.loans.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return NewLoanViews(loans, s.now()), nil
}

// ListByUser 用户的借阅，本人或管理员
func (s *Service) ListByUser(ctx context.Context, userID string, who user.Requester) ([]LoanView, error) {
	if !who.CanAccess(userID) {
		return nil, loan.ErrNotLoanOwner.WithDetails(map[string]any{
			"user_id":        who.UserID,
			"requested_user": userID,
		})
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.List(ctx, loan.Filter{UserID: userID})
}

// ListByBook 图书的借阅记录
func (s *Service) ListByBook(ctx context.Context, bookID string) ([]LoanView, error) {
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.List(ctx, loan.Filter{BookID: bookID})
}
