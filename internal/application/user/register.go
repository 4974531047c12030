// Package user 用户与认证用例
package user

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 管理员创建用户与自助注册共用这一用例
type RegisterUseCase struct {
	userService user.Service
	log         *slog.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, log *slog.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		log:         log,
	}
}

// Execute 执行注册
// Role为空时默认为STUDENT
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserView, error) {
	var role user.Role
	if req.Role != "" {
		r, err := user.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}

	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
		slog.String("role", u.Role.String()),
	)

	view := NewUserView(u)
	return &view, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}
