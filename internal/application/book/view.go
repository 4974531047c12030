package book

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// BookView 图书响应DTO
type BookView struct {
	ID        string `json:"book_id"`
	Title     string `json:"title"`
	ISBN      string `json:"isbn"`
	Author    string `json:"author"`
	Publisher string `json:"publication"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewBookView(b *book.Book) BookView {
	return BookView{
		ID:        b.ID,
		Title:     b.Title,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Publisher: b.Publisher,
		Category:  b.Category,
		Quantity:  b.Quantity,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

func NewBookViews(books []*book.Book) []BookView {
	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = NewBookView(b)
	}
	return views
}
