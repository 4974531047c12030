package book

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Service 图书领域服务
// 封装编目规则：必填字段、分类、ISBN格式与唯一性、数量非负
type Service interface {
	// Create 新增图书
	Create(ctx context.Context, params CreateParams) (*Book, error)

	// Update 部分更新，修改ISBN时检查唯一性
	Update(ctx context.Context, id string, patch Patch) (*Book, error)

	GetByID(ctx context.Context, id string) (*Book, error)
}

// CreateParams 新增图书参数
type CreateParams struct {
	Title     string
	ISBN      string
	Author    string
	Publisher string
	Category  string
	Quantity  int
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, p CreateParams) (*Book, error) {
	// 1. 必填字段
	if blank(p.Title) || blank(p.ISBN) || blank(p.Author) || blank(p.Publisher) || blank(p.Category) {
		return nil, ErrMissingFields
	}

	// 2. 分类、ISBN、数量
	if !IsValidCategory(p.Category) {
		return nil, ErrInvalidCategory.WithDetails(map[string]any{"category": p.Category})
	}
	if !IsValidISBN(p.ISBN) {
		return nil, ErrInvalidISBN
	}
	if p.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	// 3. ISBN唯一
	if err := s.ensureISBNFree(ctx, p.ISBN, ""); err != nil {
		return nil, err
	}

	b := NewBook(p.Title, p.ISBN, p.Author, p.Publisher, p.Category, p.Quantity)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id string, patch Patch) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ISBN != nil && strings.TrimSpace(*patch.ISBN) != b.ISBN {
		if err := s.ensureISBNFree(ctx, *patch.ISBN, b.ID); err != nil {
			return nil, err
		}
	}

	if err := b.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ensureISBNFree ISBN未被其他图书占用
// 并发插入由UNIQUE索引兜底，Repository转换为ErrISBNDuplicate
func (s *service) ensureISBNFree(ctx context.Context, isbn, selfID string) error {
	existing, err := s.repo.FindByISBN(ctx, strings.TrimSpace(isbn))
	if err == nil && existing.ID != selfID {
		return ErrISBNDuplicate.WithDetails(map[string]any{"isbn": isbn, "book_id": existing.ID})
	}
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return err
	}
	return nil
}

var nonDigit = regexp.MustCompile(`[^0-9Xx]`)

// IsValidISBN 校验ISBN格式
// 去除分隔符后为10位(末位可为X)或13位数字；不校验校验位
func IsValidISBN(isbn string) bool {
	clean := nonDigit.ReplaceAllString(isbn, "")
	switch len(clean) {
	case 10:
		return !strings.ContainsAny(clean[:9], "Xx")
	case 13:
		return !strings.ContainsAny(clean, "Xx")
	default:
		return false
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
