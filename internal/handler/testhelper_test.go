package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/config"
	"github.com/resalehq/pricing-engine/internal/middleware"
	"github.com/resalehq/pricing-engine/internal/model"
	"github.com/resalehq/pricing-engine/internal/service"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type memRateStore struct{}

func (memRateStore) Latest(ctx context.Context, from, to string) (*model.StoredRate, error) {
	if from == "JPY" && to == "USD" {
		return &model.StoredRate{
			FromCurrency:        "JPY",
			ToCurrency:          "USD",
			BaseRate:            d("148.50"),
			SafetyMarginPercent: d("5.0"),
			RecordedAt:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}, nil
	}
	return nil, errors.New("no rows")
}

type memScheduleStore struct{}

func (memScheduleStore) ByCategory(ctx context.Context, marketplace, categoryID string) (*model.FeeSchedule, error) {
	if marketplace == "ebay" && categoryID == "293" {
		return &model.FeeSchedule{
			Marketplace:      "ebay",
			CategoryID:       "293",
			CategoryName:     "Consumer Electronics",
			Tier1RatePercent: d("10"),
			Tier1Threshold:   d("7500"),
			Tier2RatePercent: d("12.35"),
			InsertionFee:     d("0.35"),
		}, nil
	}
	return nil, errors.New("no rows")
}

func (s memScheduleStore) Default(ctx context.Context, marketplace string) (*model.FeeSchedule, error) {
	if marketplace != "ebay" {
		return nil, errors.New("no rows")
	}
	return &model.FeeSchedule{
		Marketplace:      "ebay",
		Tier1RatePercent: d("13.25"),
		Tier1Threshold:   d("7500"),
		Tier2RatePercent: d("2.35"),
		InsertionFee:     d("0.35"),
	}, nil
}

type memPolicyStore struct {
	policies  []model.ProfitPolicy
	insertErr error
}

func (s *memPolicyStore) ListActive(ctx context.Context) ([]model.ProfitPolicy, error) {
	var active []model.ProfitPolicy
	for _, p := range s.policies {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *memPolicyStore) List(ctx context.Context) ([]model.ProfitPolicy, error) {
	return s.policies, nil
}

func (s *memPolicyStore) Insert(ctx context.Context, p *model.ProfitPolicy) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	p.ID = "policy-1"
	p.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.policies = append(s.policies, *p)
	return nil
}

type memProfileStore struct{}

func (memProfileStore) ByCountry(ctx context.Context, countryCode string) (*model.MarketProfile, error) {
	if countryCode == "US" {
		return &model.MarketProfile{
			CountryCode:    "US",
			Currency:       "USD",
			DutyFreeAmount: d("800"),
		}, nil
	}
	return nil, errors.New("no rows")
}

type memRecordStore struct {
	mu      sync.Mutex
	records []model.CalculationRecord
}

func (s *memRecordStore) Record(ctx context.Context, result *model.CalculationResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, model.CalculationRecord{
		ID:          "rec-1",
		Marketplace: result.Input.Marketplace,
		CategoryID:  result.Input.CategoryID,
		SellPrice:   result.Input.AssumedSellPrice,
		NetProfit:   result.NetProfit,
	})
	return "rec-1", nil
}

func (s *memRecordStore) List(ctx context.Context, limit, offset int) ([]model.CalculationRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, len(s.records), nil
}

func defaultPolicies() []model.ProfitPolicy {
	return []model.ProfitPolicy{{
		ID:                  "global-1",
		SettingType:         model.PolicyGlobal,
		TargetMarginPercent: d("25"),
		MinimumProfitAmount: d("10"),
		Priority:            100,
		Active:              true,
	}}
}

func testConfig() *config.Config {
	return &config.Config{
		Fees: config.FeeConstants{
			PaymentRatePercent:      d("3.9"),
			PaymentFixedFee:         d("0.30"),
			InternationalFeePercent: d("1.35"),
			VolumeDiscountPercent:   d("0"),
			ConversionFeePercent:    d("2.5"),
		},
		Rates: config.RateConfig{
			CacheTTL:              time.Hour,
			FallbackBaseRate:      d("148.50"),
			FallbackMarginPercent: d("5.0"),
		},
		Locale: config.LocaleConfig{
			SellerCountry:      "JP",
			SourceCurrency:     "JPY",
			SellCurrency:       "USD",
			SettlementCurrency: "USD",
		},
	}
}

func setupRouter(policies *memPolicyStore, records *memRecordStore) *gin.Engine {
	cfg := testConfig()

	rateService := service.NewExchangeRateService(memRateStore{}, cfg.Rates)
	feeService := service.NewFeeService(memScheduleStore{})
	pricingService := service.NewPricingService(
		rateService, feeService, service.NewDutyService(), service.NewPolicyService(),
		policies, memProfileStore{}, records, cfg.Fees, cfg.Locale)

	calcHandler := NewCalculationHandler(pricingService, records)
	rateHandler := NewRateHandler(rateService)
	scheduleHandler := NewScheduleHandler(feeService)
	policyHandler := NewPolicyHandler(policies)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api/v1")
	api.POST("/calculations", calcHandler.Calculate)
	api.POST("/calculations/simulate", calcHandler.Simulate)
	api.GET("/calculations", calcHandler.History)
	api.GET("/exchange-rates", rateHandler.GetRate)
	api.GET("/fee-schedules", scheduleHandler.GetSchedule)
	api.GET("/policies", policyHandler.List)
	api.POST("/policies", policyHandler.Create)

	return router
}
