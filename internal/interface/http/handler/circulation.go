package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/circulation"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// CirculationHandler 借书、还书、续借
type CirculationHandler struct {
	svc *circulation.Service
}

// NewCirculationHandler 创建借阅处理器
func NewCirculationHandler(svc *circulation.Service) *CirculationHandler {
	return &CirculationHandler{svc: svc}
}

// Issue 借书
// @Summary      借书
// @Description  用户必须存在且不是管理员、没有待付罚款，图书必须有可借数量且没有未归还借阅
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.IssueBookRequest true "借书信息"
// @Success      201 {object} response.Response{data=circulation.LoanView} "借出成功"
// @Failure      400 {object} response.Response "无可借数量或已借出"
// @Failure      403 {object} response.Response "管理员不能借书或有待付罚款"
// @Failure      404 {object} response.Response "用户或图书不存在"
// @Router       /api/issues [post]
func (h *CirculationHandler) Issue(c *gin.Context) {
	var req dto.IssueBookRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.svc.Issue(c.Request.Context(), circulation.IssueRequest{
		UserID: req.UserID,
		BookID: req.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Book issued", view)
}

// Return 还书
// @Summary      还书
// @Description  归还日期晚于应还日期时产生一笔PENDING罚款
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "借阅ID" example(I1)
// @Param        request body dto.ReturnBookRequest true "归还日期"
// @Success      200 {object} response.Response{data=circulation.ReturnResult}
// @Failure      400 {object} response.Response "已归还或日期无效"
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/issues/return/{id} [put]
func (h *CirculationHandler) Return(c *gin.Context) {
	var req dto.ReturnBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Return(c.Request.Context(), circulation.ReturnRequest{
		LoanID:     c.Param("id"),
		ReturnDate: req.ReturnDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Book returned", result)
}

// Renew 续借
// @Summary      续借
// @Description  借阅人本人或管理员，应还日期重置为今天起算
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "借阅ID" example(I1)
// @Success      200 {object} response.Response{data=circulation.LoanView}
// @Failure      400 {object} response.Response "已归还"
// @Failure      403 {object} response.Response "无权续借或有待付罚款"
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/issues/renew/{id} [put]
func (h *CirculationHandler) Renew(c *gin.Context) {
	who := middleware.GetRequester(c)
	view, err := h.svc.Renew(c.Request.Context(), circulation.RenewRequest{
		LoanID:        c.Param("id"),
		RequesterID:   who.UserID,
		RequesterRole: who.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Loan renewed", view)
}

// List 借阅列表
// @Summary      借阅列表(管理员)
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query string false "用户ID"
// @Param        book_id  query string false "图书ID"
// @Param        returned query bool   false "是否已归还"
// @Success      200 {object} response.Response{data=[]circulation.LoanView}
// @Router       /api/issues [get]
func (h *CirculationHandler) List(c *gin.Context) {
	var q dto.ListLoansQuery
	if !bindQuery(c, &q) {
		return
	}

	views, err := h.svc.List(c.Request.Context(), loan.Filter{
		UserID:   q.UserID,
		BookID:   q.BookID,
		Returned: q.Returned,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// Get 借阅详情
// @Summary      借阅详情
// @Description  借阅人本人或管理员
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "借阅ID"
// @Success      200 {object} response.Response{data=circulation.LoanView}
// @Failure      403 {object} response.Response "无权访问"
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/issues/{id} [get]
func (h *CirculationHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.GetRequester(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// ListByUser 用户的借阅
// @Summary      用户的借阅
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "用户ID"
// @Success      200 {object} response.Response{data=[]circulation.LoanView}
// @Failure      403 {object} response.Response "无权访问"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/issues/user/{id} [get]
func (h *CirculationHandler) ListByUser(c *gin.Context) {
	views, err := h.svc.ListByUser(c.Request.Context(), c.Param("id"), middleware.GetRequester(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// ListByBook 图书的借阅记录
// @Summary      图书的借阅记录(管理员)
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=[]circulation.LoanView}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/issues/book/{id} [get]
func (h *CirculationHandler) ListByBook(c *gin.Context) {
	views, err := h.svc.ListByBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}
