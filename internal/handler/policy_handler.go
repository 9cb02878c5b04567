package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/dto"
	"github.com/resalehq/pricing-engine/internal/model"
)

// PolicyAdmin is the store surface the policy endpoints need.
type PolicyAdmin interface {
	List(ctx context.Context) ([]model.ProfitPolicy, error)
	Insert(ctx context.Context, p *model.ProfitPolicy) error
}

type PolicyHandler struct {
	store PolicyAdmin
}

func NewPolicyHandler(store PolicyAdmin) *PolicyHandler {
	return &PolicyHandler{store: store}
}

func (h *PolicyHandler) List(c *gin.Context) {
	policies, err := h.store.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

func (h *PolicyHandler) Create(c *gin.Context) {
	var req dto.SavePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	settingType := model.PolicyType(req.SettingType)
	if settingType != model.PolicyGlobal && req.TargetValue == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "target_value is required for non-global policies"})
		return
	}
	if req.TargetMarginPercent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "target_margin_percent must be below 100"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	policy := &model.ProfitPolicy{
		SettingType:         settingType,
		TargetValue:         req.TargetValue,
		TargetMarginPercent: req.TargetMarginPercent,
		MinimumProfitAmount: req.MinimumProfitAmount,
		MaxPriceCap:         req.MaxPriceCap,
		Priority:            req.Priority,
		Active:              active,
	}
	if err := h.store.Insert(c.Request.Context(), policy); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.SavePolicyResponse{ID: policy.ID})
}
