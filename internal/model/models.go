package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is an immutable snapshot of a currency-pair rate with the
// safety margin already applied. BaseRate is units of FromCurrency per one
// unit of ToCurrency (e.g. 148.50 JPY per USD), so converting a source-side
// cost into the sell currency divides by EffectiveRate.
type ExchangeRate struct {
	FromCurrency        string          `json:"from_currency"`
	ToCurrency          string          `json:"to_currency"`
	BaseRate            decimal.Decimal `json:"base_rate"`
	SafetyMarginPercent decimal.Decimal `json:"safety_margin_percent"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
	RecordedAt          time.Time       `json:"recorded_at"`
	IsFallback          bool            `json:"is_fallback"`
}

// StoredRate is the raw row kept in the reference store, before the safety
// margin is applied.
type StoredRate struct {
	FromCurrency        string
	ToCurrency          string
	BaseRate            decimal.Decimal
	SafetyMarginPercent decimal.Decimal
	RecordedAt          time.Time
}

// FeeSchedule is the two-tier commission model for one marketplace category.
// Rates are percentages; Tier1Threshold is in the sell currency. A schedule
// with an empty CategoryID is the marketplace-wide default.
type FeeSchedule struct {
	Marketplace      string          `json:"marketplace"`
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name,omitempty"`
	Tier1RatePercent decimal.Decimal `json:"tier1_rate_percent"`
	Tier1Threshold   decimal.Decimal `json:"tier1_threshold"`
	Tier2RatePercent decimal.Decimal `json:"tier2_rate_percent"`
	InsertionFee     decimal.Decimal `json:"insertion_fee"`
}

// MarketProfile describes a destination country for cross-border sales.
type MarketProfile struct {
	CountryCode                  string          `json:"country_code"`
	CountryName                  string          `json:"country_name"`
	Currency                     string          `json:"currency"`
	ConversionRate               decimal.Decimal `json:"conversion_rate"`
	TariffRatePercent            decimal.Decimal `json:"tariff_rate_percent"`
	VATRatePercent               decimal.Decimal `json:"vat_rate_percent"`
	DutyFreeAmount               decimal.Decimal `json:"duty_free_amount"`
	MarketplaceCommissionPercent decimal.Decimal `json:"marketplace_commission_percent"`
}

type PolicyType string

const (
	PolicyGlobal    PolicyType = "global"
	PolicyCategory  PolicyType = "category"
	PolicyCondition PolicyType = "condition"
	PolicyPeriod    PolicyType = "period"
	PolicyStrategy  PolicyType = "strategy"
)

// ProfitPolicy is one layer entry of the target-margin policy set.
// TargetValue is interpreted per SettingType: a category id, a condition
// name, a listing-age threshold in days, or a strategy name. For strategy
// policies TargetMarginPercent holds the flat percentage-point delta.
type ProfitPolicy struct {
	ID                  string           `json:"id"`
	SettingType         PolicyType       `json:"setting_type"`
	TargetValue         string           `json:"target_value"`
	TargetMarginPercent decimal.Decimal  `json:"target_margin_percent"`
	MinimumProfitAmount decimal.Decimal  `json:"minimum_profit_amount"`
	MaxPriceCap         *decimal.Decimal `json:"max_price_cap,omitempty"`
	Priority            int              `json:"priority"`
	Active              bool             `json:"active"`
	CreatedAt           time.Time        `json:"created_at"`
}

// EffectivePolicy is the single resolved policy applied to a calculation,
// with the winning layer and strategy reported for audit.
type EffectivePolicy struct {
	TargetMarginPercent  decimal.Decimal  `json:"target_margin_percent"`
	MinimumProfitAmount  decimal.Decimal  `json:"minimum_profit_amount"`
	MaxPriceCap          *decimal.Decimal `json:"max_price_cap,omitempty"`
	AppliedLayer         string           `json:"applied_layer"`
	AppliedStrategy      string           `json:"applied_strategy"`
	StrategyDeltaPercent decimal.Decimal  `json:"strategy_delta_percent"`
}

// CalculationInput carries everything a single profitability calculation
// needs. Local-currency fields are in SourceCurrency, price fields in
// SellCurrency.
type CalculationInput struct {
	SourcingCostLocal     decimal.Decimal `json:"sourcing_cost_local"`
	DomesticShippingLocal decimal.Decimal `json:"domestic_shipping_local"`
	OutsourceFeeLocal     decimal.Decimal `json:"outsource_fee_local"`
	PackagingFeeLocal     decimal.Decimal `json:"packaging_fee_local"`
	AssumedSellPrice      decimal.Decimal `json:"assumed_sell_price"`
	AssumedBuyerShipping  decimal.Decimal `json:"assumed_buyer_shipping"`
	CategoryID            string          `json:"category_id"`
	ItemCondition         string          `json:"item_condition"`
	DaysSinceListing      int             `json:"days_since_listing"`
	Marketplace           string          `json:"marketplace"`
	DestinationCountry    string          `json:"destination_country"`
	Strategy              string          `json:"strategy"`
	SourceCurrency        string          `json:"source_currency"`
	SellCurrency          string          `json:"sell_currency"`
}

// FeeBreakdown itemizes everything deducted from revenue.
type FeeBreakdown struct {
	MarketplaceFee        decimal.Decimal `json:"marketplace_fee"`
	InsertionFee          decimal.Decimal `json:"insertion_fee"`
	PaymentProcessingFee  decimal.Decimal `json:"payment_processing_fee"`
	InternationalFee      decimal.Decimal `json:"international_fee"`
	CurrencyConversionFee decimal.Decimal `json:"currency_conversion_fee"`
	DutyAndVAT            decimal.Decimal `json:"duty_and_vat"`
	TierApplied           int             `json:"tier_applied"`
	RateAppliedPercent    decimal.Decimal `json:"rate_applied_percent"`
	TotalFees             decimal.Decimal `json:"total_fees"`
}

// DutyBreakdown details the cross-border tax portion of the fee stack.
// VAT is charged on the tariff-inclusive base.
type DutyBreakdown struct {
	TaxableBase  decimal.Decimal `json:"taxable_base"`
	TariffAmount decimal.Decimal `json:"tariff_amount"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	Total        decimal.Decimal `json:"total"`
}

type CalculationResult struct {
	Input                   CalculationInput `json:"input"`
	ExchangeRate            ExchangeRate     `json:"exchange_rate"`
	FeeSchedule             FeeSchedule      `json:"fee_schedule"`
	AppliedPolicy           EffectivePolicy  `json:"applied_policy"`
	TotalCostInSellCurrency decimal.Decimal  `json:"total_cost_in_sell_currency"`
	TotalRevenue            decimal.Decimal  `json:"total_revenue"`
	Fees                    FeeBreakdown     `json:"fee_breakdown"`
	Duty                    DutyBreakdown    `json:"duty_breakdown"`
	NetProfit               decimal.Decimal  `json:"net_profit"`
	ProfitMarginPercent     decimal.Decimal  `json:"profit_margin_percent"`
	ROIPercent              decimal.Decimal  `json:"roi_percent"`
	RecommendedPrice        decimal.Decimal  `json:"recommended_price"`
	BreakEvenPrice          decimal.Decimal  `json:"break_even_price"`
	Recommendations         []string         `json:"recommendations"`
	UsedFallback            bool             `json:"used_fallback"`
	CalculatedAt            time.Time        `json:"calculated_at"`
}

// CalculationRecord is the persisted audit row for one result.
type CalculationRecord struct {
	ID                  string          `json:"id"`
	Marketplace         string          `json:"marketplace"`
	CategoryID          string          `json:"category_id"`
	DestinationCountry  string          `json:"destination_country,omitempty"`
	SellPrice           decimal.Decimal `json:"sell_price"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalFees           decimal.Decimal `json:"total_fees"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`
	ROIPercent          decimal.Decimal `json:"roi_percent"`
	RecommendedPrice    decimal.Decimal `json:"recommended_price"`
	UsedFallback        bool            `json:"used_fallback"`
	CalculatedAt        time.Time       `json:"calculated_at"`
	CreatedAt           time.Time       `json:"created_at"`
}
