package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resalehq/pricing-engine/internal/dto"
	"github.com/resalehq/pricing-engine/internal/model"
)

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const calculateBody = `{
	"sourcing_cost": "15000",
	"domestic_shipping": "800",
	"sell_price": "120.00",
	"buyer_shipping": "15.00",
	"category_id": "293",
	"condition": "used",
	"marketplace": "ebay",
	"destination_country": "US",
	"strategy": "standard"
}`

func TestCalculationHandler_Calculate(t *testing.T) {
	router := setupRouter(&memPolicyStore{policies: defaultPolicies()}, &memRecordStore{})

	t.Run("happy: full calculation", func(t *testing.T) {
		w := postJSON(router, "/api/v1/calculations", calculateBody)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result model.CalculationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "101.33", result.TotalCostInSellCurrency.StringFixed(2))
		assert.Equal(t, "12.00", result.Fees.MarketplaceFee.StringFixed(2))
		assert.Equal(t, 1, result.Fees.TierApplied)
		assert.False(t, result.UsedFallback)
		assert.NotEmpty(t, result.Recommendations)
	})

	t.Run("bad: missing required fields", func(t *testing.T) {
		w := postJSON(router, "/api/v1/calculations", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: negative sourcing cost", func(t *testing.T) {
		body := `{
			"sourcing_cost": "-5",
			"sell_price": "120.00",
			"category_id": "293",
			"condition": "used",
			"marketplace": "ebay"
		}`
		w := postJSON(router, "/api/v1/calculations", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "sourcing_cost")
	})

	t.Run("bad: unknown condition value", func(t *testing.T) {
		body := `{
			"sourcing_cost": "15000",
			"sell_price": "120.00",
			"category_id": "293",
			"condition": "mint",
			"marketplace": "ebay"
		}`
		w := postJSON(router, "/api/v1/calculations", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("degraded: unknown category still succeeds on the default schedule", func(t *testing.T) {
		body := `{
			"sourcing_cost": "15000",
			"sell_price": "120.00",
			"category_id": "999999",
			"condition": "used",
			"marketplace": "ebay"
		}`
		w := postJSON(router, "/api/v1/calculations", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result model.CalculationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.UsedFallback)
		assert.Equal(t, "", result.FeeSchedule.CategoryID)
	})
}

func TestCalculationHandler_Calculate_NoGlobalPolicy(t *testing.T) {
	policies := &memPolicyStore{policies: []model.ProfitPolicy{{
		ID:          "cat-1",
		SettingType: model.PolicyCategory,
		TargetValue: "999",
		Priority:    10,
		Active:      true,
	}}}
	router := setupRouter(policies, &memRecordStore{})

	w := postJSON(router, "/api/v1/calculations", calculateBody)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCalculationHandler_Simulate(t *testing.T) {
	router := setupRouter(&memPolicyStore{policies: defaultPolicies()}, &memRecordStore{})

	t.Run("happy: margin sweep", func(t *testing.T) {
		body := `{
			"sourcing_cost": "15000",
			"sell_price": "120.00",
			"category_id": "293",
			"condition": "used",
			"marketplace": "ebay",
			"margin_values": ["20", "25", "30"]
		}`
		w := postJSON(router, "/api/v1/calculations/simulate", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp dto.SimulateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Scenarios, 3)
		assert.Equal(t, "target_margin=20%", resp.Scenarios[0].ScenarioLabel)
	})

	t.Run("bad: both sweep axes", func(t *testing.T) {
		body := `{
			"sourcing_cost": "15000",
			"sell_price": "120.00",
			"category_id": "293",
			"condition": "used",
			"marketplace": "ebay",
			"margin_values": ["20"],
			"exchange_margin_values": ["3"]
		}`
		w := postJSON(router, "/api/v1/calculations/simulate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCalculationHandler_History(t *testing.T) {
	records := &memRecordStore{records: []model.CalculationRecord{
		{ID: "rec-1", Marketplace: "ebay", CategoryID: "293"},
	}}
	router := setupRouter(&memPolicyStore{policies: defaultPolicies()}, records)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/calculations", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data       []model.CalculationRecord `json:"data"`
		Pagination dto.Pagination            `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Pagination.TotalItems)
}
