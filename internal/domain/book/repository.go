package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口，infrastructure层实现，便于Mock测试
type Repository interface {
	// Create 创建图书并回填ID
	Create(ctx context.Context, book *Book) error

	// FindByID 不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	Update(ctx context.Context, book *Book) error

	Delete(ctx context.Context, id string) error

	// List 分页查询，Keyword匹配标题、作者、出版社
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Search 不区分大小写匹配标题、ISBN、作者、出版社、分类
	Search(ctx context.Context, query string) ([]*Book, error)

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE)，必须在事务中调用
	LockByID(ctx context.Context, id string) (*Book, error)

	// UpdateQuantity 原子调整可借数量
	// delta为正数表示增加，负数表示减少；结果会小于0时返回ErrBookUnavailable
	UpdateQuantity(ctx context.Context, id string, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Keyword  string
	Category string
	SortBy   string // title_asc, quantity_desc, created_at_desc(默认)
}
