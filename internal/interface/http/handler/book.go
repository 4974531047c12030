package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooks   *appbook.ListBooksUseCase
	searchBooks *appbook.SearchBooksUseCase
	getBook     *appbook.GetBookUseCase
	publishBook *appbook.PublishBookUseCase
	updateBook  *appbook.UpdateBookUseCase
	deleteBook  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooks *appbook.ListBooksUseCase,
	searchBooks *appbook.SearchBooksUseCase,
	getBook *appbook.GetBookUseCase,
	publishBook *appbook.PublishBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooks:   listBooks,
		searchBooks: searchBooks,
		getBook:     getBook,
		publishBook: publishBook,
		updateBook:  updateBook,
		deleteBook:  deleteBook,
	}
}

// Categories 图书分类
// @Summary      图书分类列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/books/categories [get]
func (h *BookHandler) Categories(c *gin.Context) {
	response.Success(c, book.Categories())
}

// List 图书列表
// @Summary      图书列表
// @Description  分页查询，keyword匹配标题、作者、出版社
// @Tags         图书
// @Produce      json
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Param        keyword   query string false "关键字"
// @Param        category  query string false "分类"
// @Param        sort_by   query string false "排序" Enums(title_asc, quantity_desc, created_at_desc)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookView}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     q.Page,
		PageSize: q.PageSize,
		Keyword:  q.Keyword,
		Category: q.Category,
		SortBy:   q.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Search 图书搜索
// @Summary      图书搜索
// @Description  标题、ISBN、作者、出版社、分类不区分大小写匹配
// @Tags         图书
// @Produce      json
// @Param        query path string true "关键字"
// @Success      200 {object} response.Response{data=[]appbook.BookView}
// @Router       /api/books/search/{query} [get]
func (h *BookHandler) Search(c *gin.Context) {
	books, err := h.searchBooks.Execute(c.Request.Context(), c.Param("query"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID" example(B1)
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	b, err := h.getBook.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// Create 新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookView}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "需要管理员"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.publishBook.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:     req.Title,
		ISBN:      req.ISBN,
		Author:    req.Author,
		Publisher: req.Publication,
		Category:  req.Category,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Book created", b)
}

// Update 修改图书
// @Summary      修改图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.updateBook.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:        c.Param("id"),
		Title:     req.Title,
		ISBN:      req.ISBN,
		Author:    req.Author,
		Publisher: req.Publication,
		Category:  req.Category,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// Delete 删除图书
// @Summary      删除图书
// @Description  有未归还借阅时拒绝删除
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "图书借出中"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.deleteBook.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Book deleted", nil)
}
