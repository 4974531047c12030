package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
)

// Cache 图书详情缓存
// 未命中时Get返回(nil, nil)
type Cache interface {
	Get(ctx context.Context, id string) (*book.Book, error)
	Set(ctx context.Context, b *book.Book) error
	Delete(ctx context.Context, id string) error
}

// GetBookUseCase 图书详情，先读缓存
// 缓存故障只记录日志，降级为直接查库
type GetBookUseCase struct {
	repo  book.Repository
	cache Cache
	log   *slog.Logger
}

func NewGetBookUseCase(repo book.Repository, cache Cache, log *slog.Logger) *GetBookUseCase {
	return &GetBookUseCase{repo: repo, cache: cache, log: log}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookView, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.log.WarnContext(ctx, "book cache read failed", slog.String("book_id", id), slog.Any("error", err))
	}
	if cached != nil {
		view := NewBookView(cached)
		return &view, nil
	}

	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, b); err != nil {
		uc.log.WarnContext(ctx, "book cache write failed", slog.String("book_id", id), slog.Any("error", err))
	}

	view := NewBookView(b)
	return &view, nil
}

// UpdateBookRequest 部分更新，nil表示不修改
type UpdateBookRequest struct {
	ID        string
	Title     *string
	ISBN      *string
	Author    *string
	Publisher *string
	Category  *string
	Quantity  *int
}

// UpdateBookUseCase 修改图书(管理员)
type UpdateBookUseCase struct {
	bookService book.Service
	cache       Cache
	log         *slog.Logger
}

func NewUpdateBookUseCase(bookService book.Service, cache Cache, log *slog.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, cache: cache, log: log}
}

func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookView, error) {
	b, err := uc.bookService.Update(ctx, req.ID, book.Patch{
		Title:     req.Title,
		ISBN:      req.ISBN,
		Author:    req.Author,
		Publisher: req.Publisher,
		Category:  req.Category,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.log, b.ID)
	view := NewBookView(b)
	return &view, nil
}

// DeleteBookUseCase 删除图书(管理员)
// 有未归还借阅时拒绝
type DeleteBookUseCase struct {
	books book.Repository
	loans loan.Repository
	cache Cache
	log   *slog.Logger
}

func NewDeleteBookUseCase(books book.Repository, loans loan.Repository, cache Cache, log *slog.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{books: books, loans: loans, cache: cache, log: log}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) error {
	if _, err := uc.books.FindByID(ctx, id); err != nil {
		return err
	}

	open, err := uc.loans.FindOpenByBook(ctx, id)
	if err != nil {
		return err
	}
	if open != nil {
		return book.ErrBookOnLoan.WithDetails(map[string]any{
			"book_id":         id,
			"issue_record_id": open.ID,
		})
	}

	if err := uc.books.Delete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, uc.cache, uc.log, id)
	uc.log.InfoContext(ctx, "book deleted", slog.String("book_id", id))
	return nil
}

func invalidate(ctx context.Context, cache Cache, log *slog.Logger, id string) {
	if err := cache.Delete(ctx, id); err != nil {
		log.WarnContext(ctx, "book cache invalidation failed", slog.String("book_id", id), slog.Any("error", err))
	}
}

// NopCache 不缓存，Redis关闭时使用
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*book.Book, error) { return nil, nil }
func (NopCache) Set(context.Context, *book.Book) error           { return nil }
func (NopCache) Delete(context.Context, string) error            { return nil }
