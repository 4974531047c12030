package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/dashboard"
	"github.com/xiebiao/library/pkg/response"
)

// DashboardHandler 管理后台统计
type DashboardHandler struct {
	svc *dashboard.Service
}

func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats 汇总统计
// @Summary      汇总统计(管理员)
// @Tags         统计
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dashboard.StatsView}
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// RecentIssues 最近借出
// @Summary      最近借出(管理员)
// @Tags         统计
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dashboard.RecentIssueView}
// @Router       /api/dashboard/recent-issues [get]
func (h *DashboardHandler) RecentIssues(c *gin.Context) {
	list, err := h.svc.RecentIssues(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
