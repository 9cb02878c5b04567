package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/config"
	"github.com/resalehq/pricing-engine/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

type stubRateStore struct {
	rate  *model.StoredRate
	err   error
	calls int
}

func (s *stubRateStore) Latest(ctx context.Context, from, to string) (*model.StoredRate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rate, nil
}

type stubScheduleStore struct {
	schedules map[string]*model.FeeSchedule
}

func (s *stubScheduleStore) ByCategory(ctx context.Context, marketplace, categoryID string) (*model.FeeSchedule, error) {
	if sch, ok := s.schedules[marketplace+"/"+categoryID]; ok {
		return sch, nil
	}
	return nil, errors.New("no rows")
}

func (s *stubScheduleStore) Default(ctx context.Context, marketplace string) (*model.FeeSchedule, error) {
	return s.ByCategory(ctx, marketplace, "")
}

type stubPolicyStore struct {
	policies []model.ProfitPolicy
	err      error
}

func (s *stubPolicyStore) ListActive(ctx context.Context) ([]model.ProfitPolicy, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.policies, nil
}

type stubProfileStore struct {
	profiles map[string]*model.MarketProfile
}

func (s *stubProfileStore) ByCountry(ctx context.Context, countryCode string) (*model.MarketProfile, error) {
	if p, ok := s.profiles[countryCode]; ok {
		return p, nil
	}
	return nil, errors.New("no rows")
}

type stubRecordStore struct {
	recorded chan *model.CalculationResult
	err      error
}

func newStubRecordStore() *stubRecordStore {
	return &stubRecordStore{recorded: make(chan *model.CalculationResult, 8)}
}

func (s *stubRecordStore) Record(ctx context.Context, result *model.CalculationResult) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.recorded <- result
	return "rec-1", nil
}

func testFeeConstants() config.FeeConstants {
	return config.FeeConstants{
		PaymentRatePercent:      d("3.9"),
		PaymentFixedFee:         d("0.30"),
		InternationalFeePercent: d("1.35"),
		VolumeDiscountPercent:   d("0"),
		ConversionFeePercent:    d("2.5"),
	}
}

func testLocale() config.LocaleConfig {
	return config.LocaleConfig{
		SellerCountry:      "JP",
		SourceCurrency:     "JPY",
		SellCurrency:       "USD",
		SettlementCurrency: "USD",
	}
}

func testRateConfig() config.RateConfig {
	return config.RateConfig{
		CacheTTL:              time.Hour,
		FallbackBaseRate:      d("148.50"),
		FallbackMarginPercent: d("5.0"),
	}
}

func electronicsSchedule() *model.FeeSchedule {
	return &model.FeeSchedule{
		Marketplace:      "ebay",
		CategoryID:       "293",
		CategoryName:     "Consumer Electronics",
		Tier1RatePercent: d("10"),
		Tier1Threshold:   d("7500"),
		Tier2RatePercent: d("12.35"),
		InsertionFee:     d("0.35"),
	}
}

func globalPolicy(margin, minProfit string) model.ProfitPolicy {
	return model.ProfitPolicy{
		ID:                  "global-1",
		SettingType:         model.PolicyGlobal,
		TargetMarginPercent: d(margin),
		MinimumProfitAmount: d(minProfit),
		Priority:            100,
		Active:              true,
	}
}
