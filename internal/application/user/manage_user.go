package user

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/application/txn"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ListUsersRequest 用户列表查询
type ListUsersRequest struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
}

// ListUsersResponse 用户列表
type ListUsersResponse struct {
	List     []UserView `json:"list"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ListUsersUseCase 用户列表(管理员)
type ListUsersUseCase struct {
	users user.Repository
}

func NewListUsersUseCase(users user.Repository) *ListUsersUseCase {
	return &ListUsersUseCase{users: users}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := user.ListParams{Page: req.Page, PageSize: req.PageSize, Keyword: req.Keyword}
	if req.Role != "" {
		role, err := user.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		params.Role = &role
	}

	list, total, err := uc.users.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &ListUsersResponse{
		List:     NewUserViews(list),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetUserUseCase 用户详情，本人或管理员
type GetUserUseCase struct {
	users user.Repository
}

func NewGetUserUseCase(users user.Repository) *GetUserUseCase {
	return &GetUserUseCase{users: users}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, id string, who user.Requester) (*UserView, error) {
	if !who.CanAccess(id) {
		return nil, forbidden(who, id)
	}
	u, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewUserView(u)
	return &view, nil
}

// UpdateUserRequest 部分更新，nil表示不修改
type UpdateUserRequest struct {
	ID        string
	Name      *string
	Email     *string
	Phone     *string
	Role      *string
	Password  *string
	Requester user.Requester
}

// UpdateUserUseCase 修改用户资料
// 1. 本人或管理员可以修改
// 2. 只有管理员可以修改角色
// 3. 邮箱唯一性由数据库索引保证
type UpdateUserUseCase struct {
	userService user.Service
	users       user.Repository
	log         *slog.Logger
}

func NewUpdateUserUseCase(userService user.Service, users user.Repository, log *slog.Logger) *UpdateUserUseCase {
	return &UpdateUserUseCase{userService: userService, users: users, log: log}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, req UpdateUserRequest) (*UserView, error) {
	if !req.Requester.CanAccess(req.ID) {
		return nil, forbidden(req.Requester, req.ID)
	}

	u, err := uc.users.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	patch := user.Patch{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if req.Name != nil {
		if err := user.ValidateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil && !user.IsValidEmail(*req.Email) {
		return nil, user.ErrInvalidEmail
	}
	if req.Role != nil {
		role, err := user.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		if role != u.Role && !req.Requester.Role.IsAdmin() {
			return nil, user.ErrRoleChangeForbidden
		}
		patch.Role = &role
	}
	if req.Password != nil {
		hashed, err := uc.userService.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hashed
	}

	u.Apply(patch)
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "user updated",
		slog.String("user_id", u.ID),
		slog.String("by", req.Requester.UserID),
	)
	view := NewUserView(u)
	return &view, nil
}

// DeleteUserUseCase 删除用户(管理员)
// 有未归还借阅或PENDING付款时拒绝删除，否则在同一事务内
// 清理已归还借阅和已结算付款，再删除用户
type DeleteUserUseCase struct {
	tx       txn.Manager
	users    user.Repository
	loans    loan.Repository
	payments payment.Repository
	sessions SessionStore
	log      *slog.Logger
}

func NewDeleteUserUseCase(
	tx txn.Manager,
	users user.Repository,
	loans loan.Repository,
	payments payment.Repository,
	sessions SessionStore,
	log *slog.Logger,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		tx:       tx,
		users:    users,
		loans:    loans,
		payments: payments,
		sessions: sessions,
		log:      log,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, id string) error {
	err := txn.Do(ctx, uc.tx, uc.log, func(ctx context.Context, hooks *txn.Hooks) error {
		if _, err := uc.users.FindByID(ctx, id); err != nil {
			return err
		}

		open, err := uc.loans.CountOpenByUser(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return user.ErrHasActiveLoans.WithDetails(map[string]any{
				"user_id":     id,
				"open_issues": open,
			})
		}

		pending, err := uc.payments.FindPendingByUser(ctx, id)
		if err != nil {
			return err
		}
		if pending != nil {
			return user.ErrHasPendingPayments.WithDetails(map[string]any{
				"user_id":    id,
				"payment_id": pending.ID,
			})
		}

		if err := uc.loans.DeleteReturnedByUser(ctx, id); err != nil {
			return err
		}
		if err := uc.payments.DeleteSettledByUser(ctx, id); err != nil {
			return err
		}
		if err := uc.users.Delete(ctx, id); err != nil {
			return err
		}

		hooks.OnCommit("session.delete", func(ctx context.Context) error {
			return uc.sessions.DeleteSession(ctx, id)
		})
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.InfoContext(ctx, "user deleted", slog.String("user_id", id))
	return nil
}

func forbidden(who user.Requester, target string) error {
	return apperrors.ErrForbidden.WithDetails(map[string]any{
		"user_id":        who.UserID,
		"requested_user": target,
	})
}
