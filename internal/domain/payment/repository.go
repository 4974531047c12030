package payment

import (
	"context"
)

// Repository 付款仓储接口
type Repository interface {
	// Create 创建并回填ID
	Create(ctx context.Context, p *Payment) error

	// FindByID 不存在时返回ErrPaymentNotFound
	FindByID(ctx context.Context, id string) (*Payment, error)

	Update(ctx context.Context, p *Payment) error

	Delete(ctx context.Context, id string) error

	// List 按创建时间倒序
	List(ctx context.Context, filter Filter) ([]*Payment, error)

	// FindPendingByUser 用户任意一条PENDING记录，没有时返回(nil, nil)
	FindPendingByUser(ctx context.Context, userID string) (*Payment, error)

	// DeleteSettledByUser 删除用户时清理非PENDING的历史记录
	DeleteSettledByUser(ctx context.Context, userID string) error
}

// Filter 列表过滤条件，零值表示不过滤
type Filter struct {
	UserID string
	Status Status
	Limit  int
}
