package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 支持分页、关键词、分类过滤和排序
type ListBooksUseCase struct {
	repo book.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(repo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{repo: repo}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 匹配标题、作者、出版社
	Category string
	SortBy   string // title_asc, quantity_desc, created_at_desc
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List     []BookView
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
// page默认1，pageSize默认20、最大100
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.repo.List(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Category: req.Category,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		List:     NewBookViews(books),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// SearchBooksUseCase 全文搜索(不分页)
type SearchBooksUseCase struct {
	repo book.Repository
}

func NewSearchBooksUseCase(repo book.Repository) *SearchBooksUseCase {
	return &SearchBooksUseCase{repo: repo}
}

// Execute 不区分大小写匹配标题、ISBN、作者、出版社、分类
func (uc *SearchBooksUseCase) Execute(ctx context.Context, query string) ([]BookView, error) {
	books, err := uc.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return NewBookViews(books), nil
}
