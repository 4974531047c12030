package loan

import (
	"context"
	"time"
)

// Repository 借阅仓储接口
type Repository interface {
	// Create 创建借阅并回填ID
	Create(ctx context.Context, loan *Loan) error

	// FindByID 不存在时返回ErrLoanNotFound
	FindByID(ctx context.Context, id string) (*Loan, error)

	// LockByID 悲观锁查询，必须在事务中调用
	LockByID(ctx context.Context, id string) (*Loan, error)

	Update(ctx context.Context, loan *Loan) error

	// FindOpenByBook 该书未归还的借阅，没有时返回(nil, nil)
	FindOpenByBook(ctx context.Context, bookID string) (*Loan, error)

	List(ctx context.Context, filter Filter) ([]*Loan, error)

	// ListOverdue 未归还且应还日期早于asOf的借阅
	ListOverdue(ctx context.Context, asOf time.Time) ([]*Loan, error)

	CountOpenByUser(ctx context.Context, userID string) (int64, error)

	// DeleteReturnedByUser 删除用户时清理已归还的历史记录
	DeleteReturnedByUser(ctx context.Context, userID string) error
}

// Filter 列表过滤条件，零值表示不过滤
// 结果按借出日期倒序
type Filter struct {
	UserID   string
	BookID   string
	Returned *bool
	Limit    int
}
