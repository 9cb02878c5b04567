package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resalehq/pricing-engine/internal/model"
)

func getPath(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateHandler_GetRate(t *testing.T) {
	router := setupRouter(&memPolicyStore{policies: defaultPolicies()}, &memRecordStore{})

	t.Run("happy: stored pair", func(t *testing.T) {
		w := getPath(router, "/api/v1/exchange-rates?from=JPY&to=USD")
		require.Equal(t, http.StatusOK, w.Code)

		var rate model.ExchangeRate
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rate))
		assert.False(t, rate.IsFallback)
		assert.Equal(t, "155.925", rate.EffectiveRate.String())
	})

	t.Run("happy: margin override changes the effective rate only for this call", func(t *testing.T) {
		w := getPath(router, "/api/v1/exchange-rates?from=JPY&to=USD&margin_override=10")
		require.Equal(t, http.StatusOK, w.Code)

		var rate model.ExchangeRate
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rate))
		assert.Equal(t, "163.35", rate.EffectiveRate.String())

		w = getPath(router, "/api/v1/exchange-rates?from=JPY&to=USD")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rate))
		assert.Equal(t, "155.925", rate.EffectiveRate.String())
	})

	t.Run("degraded: unknown pair returns the fallback rate", func(t *testing.T) {
		w := getPath(router, "/api/v1/exchange-rates?from=EUR&to=USD")
		require.Equal(t, http.StatusOK, w.Code)

		var rate model.ExchangeRate
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rate))
		assert.True(t, rate.IsFallback)
	})

	t.Run("bad: malformed margin override", func(t *testing.T) {
		w := getPath(router, "/api/v1/exchange-rates?from=JPY&to=USD&margin_override=abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScheduleHandler_GetSchedule(t *testing.T) {
	router := setupRouter(&memPolicyStore{policies: defaultPolicies()}, &memRecordStore{})

	t.Run("happy: known category", func(t *testing.T) {
		w := getPath(router, "/api/v1/fee-schedules?marketplace=ebay&category_id=293")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Schedule     model.FeeSchedule `json:"schedule"`
			UsedFallback bool              `json:"used_fallback"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.UsedFallback)
		assert.Equal(t, "293", resp.Schedule.CategoryID)
	})

	t.Run("degraded: unknown category resolves to the default", func(t *testing.T) {
		w := getPath(router, "/api/v1/fee-schedules?marketplace=ebay&category_id=404404")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Schedule     model.FeeSchedule `json:"schedule"`
			UsedFallback bool              `json:"used_fallback"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.UsedFallback)
	})

	t.Run("bad: missing marketplace", func(t *testing.T) {
		w := getPath(router, "/api/v1/fee-schedules?category_id=293")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
