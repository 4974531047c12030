package handler

import (
	"github.com/gin-gonic/gin"

	apppayment "github.com/xiebiao/library/internal/application/payment"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// PaymentHandler 付款与罚款
type PaymentHandler struct {
	create     *apppayment.CreatePaymentUseCase
	update     *apppayment.UpdatePaymentUseCase
	list       *apppayment.ListPaymentsUseCase
	listByUser *apppayment.ListUserPaymentsUseCase
	remove     *apppayment.DeletePaymentUseCase
}

// NewPaymentHandler 创建付款处理器
func NewPaymentHandler(
	create *apppayment.CreatePaymentUseCase,
	update *apppayment.UpdatePaymentUseCase,
	list *apppayment.ListPaymentsUseCase,
	listByUser *apppayment.ListUserPaymentsUseCase,
	remove *apppayment.DeletePaymentUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		create:     create,
		update:     update,
		list:       list,
		listByUser: listByUser,
		remove:     remove,
	}
}

// Create 创建付款
// @Summary      创建付款
// @Description  user_id为空时为本人，为他人创建需要管理员
// @Tags         付款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePaymentRequest true "付款信息"
// @Success      201 {object} response.Response{data=apppayment.PaymentView}
// @Failure      400 {object} response.Response "金额无效"
// @Failure      403 {object} response.Response "无权为他人创建"
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.create.Execute(c.Request.Context(), apppayment.CreatePaymentRequest{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: req.Description,
		Requester:   middleware.GetRequester(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment created", view)
}

// Update 提交支付结果
// @Summary      提交支付结果
// @Description  付款人或管理员，status为空时保持原状态
// @Tags         付款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                   true "付款ID" example(P1)
// @Param        request body dto.UpdatePaymentRequest true "支付结果"
// @Success      200 {object} response.Response{data=apppayment.PaymentView}
// @Failure      403 {object} response.Response "无权修改"
// @Failure      404 {object} response.Response "付款不存在"
// @Router       /api/payments/update/{id} [post]
func (h *PaymentHandler) Update(c *gin.Context) {
	var req dto.UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.update.UpdatePayment(c.Request.Context(), apppayment.UpdatePaymentRequest{
		ID:            c.Param("id"),
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Requester:     middleware.GetRequester(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// ChangeStatus 修改付款状态
// @Summary      修改付款状态(管理员)
// @Tags         付款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                   true "付款ID"
// @Param        request body dto.PaymentStatusRequest true "新状态"
// @Success      200 {object} response.Response{data=apppayment.PaymentView}
// @Failure      404 {object} response.Response "付款不存在"
// @Router       /api/payments/status/{id} [put]
func (h *PaymentHandler) ChangeStatus(c *gin.Context) {
	var req dto.PaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.update.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// List 全部付款
// @Summary      付款列表(管理员)
// @Tags         付款
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "状态" Enums(PENDING, PAID, FAILED)
// @Success      200 {object} response.Response{data=[]apppayment.PaymentView}
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var q dto.ListPaymentsQuery
	if !bindQuery(c, &q) {
		return
	}

	views, err := h.list.Execute(c.Request.Context(), q.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// ListByUser 用户的付款记录
// @Summary      用户的付款记录
// @Tags         付款
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "用户ID"
// @Success      200 {object} response.Response{data=[]apppayment.PaymentView}
// @Failure      403 {object} response.Response "无权访问"
// @Router       /api/payments/user/{id} [get]
func (h *PaymentHandler) ListByUser(c *gin.Context) {
	views, err := h.listByUser.Execute(c.Request.Context(), c.Param("id"), middleware.GetRequester(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// Delete 删除付款
// @Summary      删除付款(管理员)
// @Tags         付款
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "付款ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "付款不存在"
// @Router       /api/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.remove.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Payment deleted", nil)
}
