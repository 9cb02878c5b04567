package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalehq/pricing-engine/internal/dto"
	"github.com/resalehq/pricing-engine/internal/service"
)

type ScheduleHandler struct {
	svc *service.FeeService
}

func NewScheduleHandler(svc *service.FeeService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	marketplace := c.Query("marketplace")
	if marketplace == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "marketplace is required"})
		return
	}
	categoryID := c.Query("category_id")

	schedule, usedFallback := h.svc.ResolveSchedule(c.Request.Context(), marketplace, categoryID)
	c.JSON(http.StatusOK, gin.H{
		"schedule":      schedule,
		"used_fallback": usedFallback,
	})
}
