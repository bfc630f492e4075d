package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/bakeryaid/backend/internal/application/report"
)

// DashboardHandler serves program statistics
type DashboardHandler struct {
	BaseHandler
	service *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats handles GET /dashboard/stats
// @ID           getDashboardStats
// @Summary      Get dashboard statistics
// @Description  Returns registry and delivery totals for today
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=report.DashboardStats}
// @Failure      500 {object} dto.Response
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
