package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalehq/pricing-engine/internal/dto"
	"github.com/resalehq/pricing-engine/internal/model"
	"github.com/resalehq/pricing-engine/internal/service"
)

// RecordLister reads back persisted calculation history.
type RecordLister interface {
	List(ctx context.Context, limit, offset int) ([]model.CalculationRecord, int, error)
}

type CalculationHandler struct {
	svc     *service.PricingService
	records RecordLister
}

func NewCalculationHandler(svc *service.PricingService, records RecordLister) *CalculationHandler {
	return &CalculationHandler{svc: svc, records: records}
}

func (h *CalculationHandler) Calculate(c *gin.Context) {
	var req dto.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	input := toCalculationInput(&req)
	result, err := h.svc.Calculate(c.Request.Context(), input)
	if err != nil {
		writeCalculationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CalculationHandler) Simulate(c *gin.Context) {
	var req dto.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	input := toCalculationInput(&req.CalculateRequest)
	scenarios, err := h.svc.Simulate(c.Request.Context(), input, req.MarginValues, req.ExchangeMarginValues)
	if err != nil {
		writeCalculationError(c, err)
		return
	}

	resp := dto.SimulateResponse{Scenarios: make([]dto.ScenarioResult, len(scenarios))}
	for i, sc := range scenarios {
		resp.Scenarios[i] = dto.ScenarioResult{ScenarioLabel: sc.Label, Result: sc.Result}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CalculationHandler) History(c *gin.Context) {
	p := dto.ParsePagination(c)

	records, total, err := h.records.List(c.Request.Context(), p.PageSize, p.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       records,
		"pagination": dto.NewPagination(p.Page, p.PageSize, total),
	})
}

func toCalculationInput(req *dto.CalculateRequest) *model.CalculationInput {
	return &model.CalculationInput{
		SourcingCostLocal:     req.SourcingCost,
		DomesticShippingLocal: req.DomesticShipping,
		OutsourceFeeLocal:     req.OutsourceFee,
		PackagingFeeLocal:     req.PackagingFee,
		AssumedSellPrice:      req.SellPrice,
		AssumedBuyerShipping:  req.BuyerShipping,
		CategoryID:            req.CategoryID,
		ItemCondition:         req.Condition,
		DaysSinceListing:      req.DaysSinceListing,
		Marketplace:           req.Marketplace,
		DestinationCountry:    req.DestinationCountry,
		Strategy:              req.Strategy,
		SourceCurrency:        req.SourceCurrency,
		SellCurrency:          req.SellCurrency,
	}
}

func writeCalculationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrPolicyResolution):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "no global default policy configured",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "calculation failed: " + err.Error()})
	}
}
