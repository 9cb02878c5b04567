package dto

import (
	"github.com/resalehq/pricing-engine/internal/model"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type ScenarioResult struct {
	ScenarioLabel string                   `json:"scenario_label"`
	Result        *model.CalculationResult `json:"result"`
}

type SimulateResponse struct {
	Scenarios []ScenarioResult `json:"scenarios"`
}

type SavePolicyResponse struct {
	ID string `json:"id"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
