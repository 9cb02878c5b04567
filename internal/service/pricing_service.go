package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/config"
	"github.com/resalehq/pricing-engine/internal/model"
)

type PolicyStore interface {
	ListActive(ctx context.Context) ([]model.ProfitPolicy, error)
}

type ProfileStore interface {
	ByCountry(ctx context.Context, countryCode string) (*model.MarketProfile, error)
}

// RecordStore persists results for history/audit. Writes are fire-and-forget
// from the caller's perspective.
type RecordStore interface {
	Record(ctx context.Context, result *model.CalculationResult) (string, error)
}

// PricingService composes rate, fee, duty and policy resolution into the
// full profitability calculation. It is stateless between calls; the only
// shared state is the rate cache inside ExchangeRateService.
type PricingService struct {
	rates    *ExchangeRateService
	fees     *FeeService
	duty     *DutyService
	resolver *PolicyService

	policyStore  PolicyStore
	profileStore ProfileStore
	records      RecordStore

	feeCfg config.FeeConstants
	locale config.LocaleConfig
	now    func() time.Time
}

func NewPricingService(
	rates *ExchangeRateService,
	fees *FeeService,
	duty *DutyService,
	resolver *PolicyService,
	policyStore PolicyStore,
	profileStore ProfileStore,
	records RecordStore,
	feeCfg config.FeeConstants,
	locale config.LocaleConfig,
) *PricingService {
	return &PricingService{
		rates:        rates,
		fees:         fees,
		duty:         duty,
		resolver:     resolver,
		policyStore:  policyStore,
		profileStore: profileStore,
		records:      records,
		feeCfg:       feeCfg,
		locale:       locale,
		now:          time.Now,
	}
}

// snapshot is the read-only reference data one calculation runs against.
// Admin edits to policies or schedules take effect on the next call, never
// mid-calculation.
type snapshot struct {
	rate             model.ExchangeRate
	schedule         *model.FeeSchedule
	scheduleFallback bool
	policies         []model.ProfitPolicy
	policyFallback   bool
	profile          *model.MarketProfile
	profileMissing   bool
	crossBorder      bool
}

// Calculate runs the full pipeline and hands the result to the record store
// without waiting on it. Only validation failures and a missing global
// default policy are fatal; every other degraded condition is resolved via
// fallbacks and flagged on the result.
func (s *PricingService) Calculate(ctx context.Context, input *model.CalculationInput) (*model.CalculationResult, error) {
	s.applyDefaults(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	snap := s.loadSnapshot(ctx, input)
	result, err := s.compute(input, snap, nil)
	if err != nil {
		return nil, err
	}

	s.persist(result)
	return result, nil
}

// Scenario is one sweep point of a simulation.
type Scenario struct {
	Label  string
	Result *model.CalculationResult
}

// Simulate sweeps either the target margin or the exchange-rate safety
// margin over a base calculation. Exactly one axis must be given. Scenario
// results are advisory and never persisted.
func (s *PricingService) Simulate(ctx context.Context, input *model.CalculationInput, marginValues, exchangeMarginValues []decimal.Decimal) ([]Scenario, error) {
	s.applyDefaults(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if (len(marginValues) == 0) == (len(exchangeMarginValues) == 0) {
		return nil, validationError("sweep", "exactly one of margin_values or exchange_margin_values is required")
	}

	snap := s.loadSnapshot(ctx, input)

	var scenarios []Scenario
	if len(marginValues) > 0 {
		for _, m := range marginValues {
			m := m
			result, err := s.compute(input, snap, &m)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, Scenario{
				Label:  fmt.Sprintf("target_margin=%s%%", m.String()),
				Result: result,
			})
		}
		return scenarios, nil
	}

	for _, m := range exchangeMarginValues {
		m := m
		swept := snap
		swept.rate = s.rates.GetRate(ctx, input.SourceCurrency, input.SellCurrency, &m)
		result, err := s.compute(input, swept, nil)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, Scenario{
			Label:  fmt.Sprintf("exchange_margin=%s%%", m.String()),
			Result: result,
		})
	}
	return scenarios, nil
}

func (s *PricingService) applyDefaults(input *model.CalculationInput) {
	if input.SourceCurrency == "" {
		input.SourceCurrency = s.locale.SourceCurrency
	}
	if input.SellCurrency == "" {
		input.SellCurrency = s.locale.SellCurrency
	}
	if input.Strategy == "" {
		input.Strategy = "standard"
	}
}

func validateInput(input *model.CalculationInput) error {
	if !input.SourcingCostLocal.IsPositive() {
		return validationError("sourcing_cost", "must be positive")
	}
	if !input.AssumedSellPrice.IsPositive() {
		return validationError("sell_price", "must be positive")
	}
	for field, v := range map[string]decimal.Decimal{
		"domestic_shipping": input.DomesticShippingLocal,
		"outsource_fee":     input.OutsourceFeeLocal,
		"packaging_fee":     input.PackagingFeeLocal,
		"buyer_shipping":    input.AssumedBuyerShipping,
	} {
		if v.IsNegative() {
			return validationError(field, "must not be negative")
		}
	}
	if input.CategoryID == "" {
		return validationError("category_id", "is required")
	}
	if input.ItemCondition == "" {
		return validationError("condition", "is required")
	}
	if input.Marketplace == "" {
		return validationError("marketplace", "is required")
	}
	if input.DaysSinceListing < 0 {
		return validationError("days_since_listing", "must not be negative")
	}
	return nil
}

func (s *PricingService) loadSnapshot(ctx context.Context, input *model.CalculationInput) snapshot {
	snap := snapshot{
		rate:        s.rates.GetRate(ctx, input.SourceCurrency, input.SellCurrency, nil),
		crossBorder: input.DestinationCountry != "" && input.DestinationCountry != s.locale.SellerCountry,
	}

	snap.schedule, snap.scheduleFallback = s.fees.ResolveSchedule(ctx, input.Marketplace, input.CategoryID)

	policies, err := s.policyStore.ListActive(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("policy store unavailable, using fallback policy set")
		policies = fallbackPolicies()
		snap.policyFallback = true
	}
	snap.policies = policies

	if snap.crossBorder {
		profile, err := s.profileStore.ByCountry(ctx, input.DestinationCountry)
		if err != nil {
			log.Warn().Err(err).
				Str("country", input.DestinationCountry).
				Msg("no market profile for destination, skipping duty computation")
			snap.profileMissing = true
		}
		snap.profile = profile
	}

	return snap
}

// fallbackPolicies keeps calculations alive when the policy store is
// unreachable: a single conservative global default.
func fallbackPolicies() []model.ProfitPolicy {
	return []model.ProfitPolicy{{
		ID:                  "fallback-global",
		SettingType:         model.PolicyGlobal,
		TargetValue:         "",
		TargetMarginPercent: decimal.NewFromInt(25),
		MinimumProfitAmount: decimal.NewFromInt(10),
		Priority:            100,
		Active:              true,
	}}
}

func (s *PricingService) compute(input *model.CalculationInput, snap snapshot, targetMarginOverride *decimal.Decimal) (*model.CalculationResult, error) {
	policy, err := s.resolver.Resolve(snap.policies, input)
	if err != nil {
		return nil, err
	}
	if targetMarginOverride != nil {
		policy.TargetMarginPercent = *targetMarginOverride
		policy.AppliedLayer = "override"
	}

	localCost := input.SourcingCostLocal.
		Add(input.DomesticShippingLocal).
		Add(input.OutsourceFeeLocal).
		Add(input.PackagingFeeLocal)
	totalCost := localCost.Div(snap.rate.EffectiveRate)

	revenue := input.AssumedSellPrice.Add(input.AssumedBuyerShipping)

	feeComp := s.fees.ComputeMarketplaceFee(snap.schedule, input.AssumedSellPrice)
	insertionFee := snap.schedule.InsertionFee

	paymentFee := revenue.Mul(s.feeCfg.PaymentRatePercent).Div(oneHundred).
		Add(s.feeCfg.PaymentFixedFee)

	var internationalFee decimal.Decimal
	var duty model.DutyBreakdown
	if snap.crossBorder {
		intlRate := s.feeCfg.InternationalFeePercent.Sub(s.feeCfg.VolumeDiscountPercent)
		if intlRate.IsNegative() {
			intlRate = decimal.Zero
		}
		internationalFee = revenue.Mul(intlRate).Div(oneHundred)
		if snap.profile != nil {
			duty = s.duty.ComputeDutyAndVAT(snap.profile, revenue)
		}
	}

	var conversionFee decimal.Decimal
	if s.locale.SettlementCurrency != input.SellCurrency {
		conversionFee = revenue.Mul(s.feeCfg.ConversionFeePercent).Div(oneHundred)
	}

	totalFees := feeComp.Fee.Add(insertionFee).Add(paymentFee).
		Add(internationalFee).Add(conversionFee).Add(duty.Total)

	netProfit := revenue.Sub(totalCost).Sub(totalFees)
	margin := netProfit.Div(revenue).Mul(oneHundred)
	roi := netProfit.Div(totalCost).Mul(oneHundred)

	recommended, breakEven := s.solvePrices(input, policy, feeComp, totalCost,
		insertionFee.Add(s.feeCfg.PaymentFixedFee).Add(internationalFee).Add(conversionFee).Add(duty.Total))

	usedFallback := snap.rate.IsFallback || snap.scheduleFallback ||
		snap.policyFallback || snap.profileMissing

	result := &model.CalculationResult{
		Input:                   *input,
		ExchangeRate:            snap.rate,
		FeeSchedule:             *snap.schedule,
		AppliedPolicy:           policy,
		TotalCostInSellCurrency: totalCost.Round(2),
		TotalRevenue:            revenue.Round(2),
		Fees: model.FeeBreakdown{
			MarketplaceFee:        feeComp.Fee.Round(2),
			InsertionFee:          insertionFee.Round(2),
			PaymentProcessingFee:  paymentFee.Round(2),
			InternationalFee:      internationalFee.Round(2),
			CurrencyConversionFee: conversionFee.Round(2),
			DutyAndVAT:            duty.Total.Round(2),
			TierApplied:           feeComp.TierApplied,
			RateAppliedPercent:    feeComp.RateAppliedPercent,
			TotalFees:             totalFees.Round(2),
		},
		Duty: model.DutyBreakdown{
			TaxableBase:  duty.TaxableBase.Round(2),
			TariffAmount: duty.TariffAmount.Round(2),
			VATAmount:    duty.VATAmount.Round(2),
			Total:        duty.Total.Round(2),
		},
		NetProfit:           netProfit.Round(2),
		ProfitMarginPercent: margin.Round(2),
		ROIPercent:          roi.Round(2),
		RecommendedPrice:    recommended.Round(2),
		BreakEvenPrice:      breakEven.Round(2),
		UsedFallback:        usedFallback,
		CalculatedAt:        s.now().UTC(),
	}
	result.Recommendations = buildRecommendations(result, policy)

	return result, nil
}

// solvePrices inverts the fee formula for the price hitting the target
// margin, and for the break-even price. Insertion, international, currency
// conversion and duty amounts are treated as price-independent constants in
// the solve, a deliberate approximation; the revenue-proportional
// marketplace tier rate and payment rate are solved exactly so feeding the
// recommended price back reproduces the target margin within the same tier.
func (s *PricingService) solvePrices(input *model.CalculationInput, policy model.EffectivePolicy, feeComp FeeComputation, totalCost, fixedFees decimal.Decimal) (recommended, breakEven decimal.Decimal) {
	paymentRate := s.feeCfg.PaymentRatePercent.Div(oneHundred)
	tierRate := feeComp.RateAppliedPercent.Div(oneHundred)
	ship := input.AssumedBuyerShipping
	one := decimal.NewFromInt(1)

	floor := totalCost.Add(fixedFees).Add(policy.MinimumProfitAmount)

	solve := func(marginPercent decimal.Decimal) (decimal.Decimal, bool) {
		k := one.Sub(paymentRate).Sub(marginPercent.Div(oneHundred))
		den := k.Sub(tierRate)
		if !den.IsPositive() {
			return decimal.Zero, false
		}
		return totalCost.Add(fixedFees).Sub(ship.Mul(k)).Div(den), true
	}

	recommended, ok := solve(policy.TargetMarginPercent)
	if !ok {
		recommended = floor
	}
	if policy.MaxPriceCap != nil && recommended.GreaterThan(*policy.MaxPriceCap) {
		recommended = *policy.MaxPriceCap
	}
	// Never recommend below the policy's absolute profit floor.
	if recommended.LessThan(floor) {
		recommended = floor
	}

	breakEven, ok = solve(decimal.Zero)
	if !ok || breakEven.IsNegative() {
		breakEven = totalCost.Add(fixedFees)
	}
	return recommended, breakEven
}

func buildRecommendations(result *model.CalculationResult, policy model.EffectivePolicy) []string {
	recs := make([]string, 0, 4)

	margin := result.ProfitMarginPercent
	switch {
	case !result.NetProfit.IsPositive():
		recs = append(recs, fmt.Sprintf(
			"selling at a loss at the assumed price; price at %s %s or above to hit the %s%% target margin",
			result.RecommendedPrice.StringFixed(2), result.Input.SellCurrency,
			policy.TargetMarginPercent.String()))
	case margin.GreaterThanOrEqual(decimal.NewFromInt(30)):
		recs = append(recs, "margin is excellent; room to undercut competitors or absorb promotions")
	case margin.GreaterThanOrEqual(decimal.NewFromInt(20)):
		recs = append(recs, "margin is healthy for this category")
	case margin.GreaterThanOrEqual(decimal.NewFromInt(10)):
		recs = append(recs, fmt.Sprintf(
			"margin is thin; consider raising the price toward %s %s",
			result.RecommendedPrice.StringFixed(2), result.Input.SellCurrency))
	default:
		recs = append(recs, fmt.Sprintf(
			"margin is below 10%%; the recommended price of %s %s meets the resolved target",
			result.RecommendedPrice.StringFixed(2), result.Input.SellCurrency))
	}

	if result.NetProfit.IsPositive() && result.NetProfit.LessThan(policy.MinimumProfitAmount) {
		recs = append(recs, fmt.Sprintf(
			"net profit is under the policy minimum of %s %s",
			policy.MinimumProfitAmount.StringFixed(2), result.Input.SellCurrency))
	}
	if result.ExchangeRate.IsFallback {
		recs = append(recs, "exchange rate is a fallback value; verify the rate before listing")
	}

	return recs
}

func (s *PricingService) persist(result *model.CalculationResult) {
	if s.records == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.records.Record(ctx, result); err != nil {
			log.Warn().Err(err).Msg("failed to persist calculation record")
		}
	}()
}
