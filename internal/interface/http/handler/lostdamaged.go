package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/lostdamaged"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// LostDamagedHandler 遗失/损坏登记(管理员)
type LostDamagedHandler struct {
	svc *lostdamaged.Service
}

func NewLostDamagedHandler(svc *lostdamaged.Service) *LostDamagedHandler {
	return &LostDamagedHandler{svc: svc}
}

// Record 登记遗失/损坏数量
// @Summary      登记遗失/损坏
// @Description  同一本书只有一条登记，再次登记时按差值调整可借数量
// @Tags         遗失损坏
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.LostDamagedRequest true "登记信息"
// @Success      200 {object} response.Response{data=lostdamaged.SaveResult}
// @Success      201 {object} response.Response{data=lostdamaged.SaveResult}
// @Failure      400 {object} response.Response "可借数量不足"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/lost-damaged [post]
func (h *LostDamagedHandler) Record(c *gin.Context) {
	var req dto.LostDamagedRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Record(c.Request.Context(), req.BookID, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Created {
		response.Created(c, "Record created", result)
		return
	}
	response.Success(c, result)
}

// Update 修改登记数量
// @Summary      修改登记数量
// @Description  数量改为0时删除登记并恢复可借数量
// @Tags         遗失损坏
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                       true "登记ID" example(LD1)
// @Param        request body dto.LostDamagedUpdateRequest true "新数量"
// @Success      200 {object} response.Response{data=lostdamaged.SaveResult}
// @Failure      404 {object} response.Response "登记不存在"
// @Router       /api/lost-damaged/{id} [put]
func (h *LostDamagedHandler) Update(c *gin.Context) {
	var req dto.LostDamagedUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除登记，不恢复可借数量
// @Summary      删除登记
// @Tags         遗失损坏
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "登记ID"
// @Success      200 {object} response.Response
// @Router       /api/lost-damaged/{id} [delete]
func (h *LostDamagedHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Record deleted", nil)
}

// Get 登记详情
// @Summary      登记详情
// @Tags         遗失损坏
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "登记ID"
// @Success      200 {object} response.Response{data=lostdamaged.RecordView}
// @Router       /api/lost-damaged/{id} [get]
func (h *LostDamagedHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// List 全部登记
// @Summary      登记列表
// @Tags         遗失损坏
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]lostdamaged.RecordView}
// @Router       /api/lost-damaged [get]
func (h *LostDamagedHandler) List(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}
