package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// 1. ID形如B1、B2，由持久层的序列生成
// 2. ISBN业务唯一(数据库UNIQUE索引保证)
// 3. Quantity是当前可借数量，只由借书流程和遗失/损坏登记修改
type Book struct {
	ID        string
	Title     string
	ISBN      string
	Author    string
	Publisher string
	Category  string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)，字段需先经过Service校验
func NewBook(title, isbn, author, publisher, category string, quantity int) *Book {
	now := time.Now()
	return &Book{
		Title:     strings.TrimSpace(title),
		ISBN:      strings.TrimSpace(isbn),
		Author:    strings.TrimSpace(author),
		Publisher: strings.TrimSpace(publisher),
		Category:  category,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAvailable 可借数量大于0
func (b *Book) IsAvailable() bool {
	return b.Quantity > 0
}

// EnsureAvailable 不可借时返回带当前数量的错误
func (b *Book) EnsureAvailable() error {
	if b.IsAvailable() {
		return nil
	}
	return ErrBookUnavailable.WithDetails(map[string]any{
		"book_id":            b.ID,
		"available_quantity": b.Quantity,
	})
}

// Patch 部分更新，nil字段保持不变
type Patch struct {
	Title     *string
	ISBN      *string
	Author    *string
	Publisher *string
	Category  *string
	Quantity  *int
}

// Apply 校验并应用部分更新
func (b *Book) Apply(p Patch) error {
	if p.Category != nil && !IsValidCategory(*p.Category) {
		return ErrInvalidCategory.WithDetails(map[string]any{"category": *p.Category})
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if p.ISBN != nil && !IsValidISBN(*p.ISBN) {
		return ErrInvalidISBN
	}

	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.ISBN != nil {
		b.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.Publisher != nil {
		b.Publisher = strings.TrimSpace(*p.Publisher)
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Quantity != nil {
		b.Quantity = *p.Quantity
	}
	b.UpdatedAt = time.Now()
	return nil
}
