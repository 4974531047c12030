package lostdamaged

import (
	"context"
)

// Repository 遗失/损坏登记仓储
type Repository interface {
	Create(ctx context.Context, r *Record) error

	// FindByID 不存在时返回ErrRecordNotFound
	FindByID(ctx context.Context, id string) (*Record, error)

	// FindByBook 没有时返回(nil, nil)
	FindByBook(ctx context.Context, bookID string) (*Record, error)

	// LockByID 悲观锁查询，必须在事务中调用
	LockByID(ctx context.Context, id string) (*Record, error)

	Update(ctx context.Context, r *Record) error

	Delete(ctx context.Context, id string) error

	List(ctx context.Context) ([]*Record, error)
}
