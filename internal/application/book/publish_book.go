package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/book"
)

// PublishBookUseCase 图书入库用例(管理员)
// 编目规则由领域服务负责，应用层只做编排
type PublishBookUseCase struct {
	bookService book.Service
	log         *slog.Logger
}

// NewPublishBookUseCase 创建入库用例
func NewPublishBookUseCase(bookService book.Service, log *slog.Logger) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, log: log}
}

// PublishBookRequest 入库请求DTO
type PublishBookRequest struct {
	Title     string
	ISBN      string
	Author    string
	Publisher string
	Category  string
	Quantity  int
}

// Execute 执行入库
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookView, error) {
	b, err := uc.bookService.Create(ctx, book.CreateParams{
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

	uc.log.InfoContext(ctx, "book added", slog.String("book_id", b.ID), slog.String("isbn", b.ISBN))
	view := NewBookView(b)
	return &view, nil
}
