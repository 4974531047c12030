package rdb

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. ISBN唯一索引冲突转换为book.ErrISBNDuplicate
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		id, err := nextID(tx, prefixBook)
		if err != nil {
			return apperrors.WrapDB(err, "generate book id failed")
		}
		model.ID = id
		if err := tx.Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return book.ErrISBNDuplicate.WithDetails(map[string]any{"isbn": b.ISBN})
			}
			return apperrors.WrapDB(err, "create book failed")
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).Where("book_id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound.WithDetails(map[string]any{"book_id": id})
		}
		return nil, apperrors.WrapDB(err, "query book failed")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "query book failed")
	}
	return toBookEntity(&model), nil
}

// Update 使用Save更新所有字段
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate.WithDetails(map[string]any{"isbn": b.ISBN})
		}
		return apperrors.WrapDB(err, "update book failed")
	}
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("book_id = ?", id).Delete(&BookModel{})
	if res.Error != nil {
		return apperrors.WrapDB(res.Error, "delete book failed")
	}
	if res.RowsAffected == 0 {
		return book.ErrBookNotFound.WithDetails(map[string]any{"book_id": id})
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := conn(ctx, r.db).Model(&BookModel{})

	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(publication) LIKE ?", kw, kw, kw)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "count books failed")
	}

	switch params.SortBy {
	case "title_asc":
		query = query.Order("title ASC")
	case "quantity_desc":
		query = query.Order("quantity DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("book_id ASC")

	if params.PageSize > 0 {
		page := max(params.Page, 1)
		query = query.Limit(params.PageSize).Offset((page - 1) * params.PageSize)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "list books failed")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// Search 不区分大小写的子串匹配
func (r *bookRepository) Search(ctx context.Context, q string) ([]*book.Book, error) {
	var models []BookModel
	kw := likePattern(q)
	err := conn(ctx, r.db).
		Where("LOWER(title) LIKE ? OR LOWER(isbn) LIKE ? OR LOWER(author) LIKE ? OR LOWER(publication) LIKE ? OR LOWER(category) LIKE ?",
			kw, kw, kw, kw, kw).
		Order("title ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "search books failed")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// LockByID SELECT ... FOR UPDATE
// SQLite不支持行锁，GORM会忽略Locking子句，由单连接保证串行
func (r *bookRepository) LockByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("book_id = ?", id).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound.WithDetails(map[string]any{"book_id": id})
		}
		return nil, apperrors.WrapDB(err, "lock book failed")
	}
	return toBookEntity(&model), nil
}

// UpdateQuantity 原子更新可借数量
// UPDATE books SET quantity = quantity + ? WHERE book_id = ? AND quantity + ? >= 0
func (r *bookRepository) UpdateQuantity(ctx context.Context, id string, delta int) error {
	db := conn(ctx, r.db)
	res := db.Model(&BookModel{}).
		Where("book_id = ?", id).
		Where("quantity + ? >= 0", delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": db.NowFunc(),
		})
	if res.Error != nil {
		return apperrors.WrapDB(res.Error, "update book quantity failed")
	}

	if res.RowsAffected == 0 {
		// 图书不存在或数量不足，再查一次确定原因
		b, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return book.ErrBookUnavailable.WithDetails(map[string]any{
			"book_id":            id,
			"available_quantity": b.Quantity,
		})
	}
	return nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		ISBN:        b.ISBN,
		Author:      b.Author,
		Publication: b.Publisher,
		Category:    b.Category,
		Quantity:    b.Quantity,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:        m.ID,
		Title:     m.Title,
		ISBN:      m.ISBN,
		Author:    m.Author,
		Publisher: m.Publication,
		Category:  m.Category,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
