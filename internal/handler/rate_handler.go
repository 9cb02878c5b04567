package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/dto"
	"github.com/resalehq/pricing-engine/internal/service"
)

type RateHandler struct {
	svc *service.ExchangeRateService
}

func NewRateHandler(svc *service.ExchangeRateService) *RateHandler {
	return &RateHandler{svc: svc}
}

func (h *RateHandler) GetRate(c *gin.Context) {
	from := c.DefaultQuery("from", "JPY")
	to := c.DefaultQuery("to", "USD")

	var override *decimal.Decimal
	if raw := c.Query("margin_override"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid margin_override"})
			return
		}
		override = &d
	}

	rate := h.svc.GetRate(c.Request.Context(), from, to, override)
	c.JSON(http.StatusOK, rate)
}
