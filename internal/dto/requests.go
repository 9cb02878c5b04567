package dto

import (
	"github.com/shopspring/decimal"
)

// CalculateRequest mirrors the calculate action. Monetary fields accept JSON
// numbers or decimal strings; decimal strings are preferred on the wire so
// fee-threshold comparisons never see float drift.
type CalculateRequest struct {
	SourcingCost     decimal.Decimal `json:"sourcing_cost" binding:"required"`
	DomesticShipping decimal.Decimal `json:"domestic_shipping"`
	OutsourceFee     decimal.Decimal `json:"outsource_fee"`
	PackagingFee     decimal.Decimal `json:"packaging_fee"`
	SellPrice        decimal.Decimal `json:"sell_price" binding:"required"`
	BuyerShipping    decimal.Decimal `json:"buyer_shipping"`

	CategoryID         string `json:"category_id" binding:"required"`
	Condition          string `json:"condition" binding:"required,oneof=new used refurbished for-parts"`
	Marketplace        string `json:"marketplace" binding:"required"`
	DestinationCountry string `json:"destination_country"`
	DaysSinceListing   int    `json:"days_since_listing" binding:"gte=0"`
	Strategy           string `json:"strategy" binding:"omitempty,oneof=quick premium volume standard"`

	SourceCurrency string `json:"source_currency"`
	SellCurrency   string `json:"sell_currency"`
}

// SimulateRequest sweeps one axis over a base calculation: either a set of
// target-margin values or a set of exchange-rate safety margins. Exactly one
// axis must be supplied.
type SimulateRequest struct {
	CalculateRequest
	MarginValues         []decimal.Decimal `json:"margin_values"`
	ExchangeMarginValues []decimal.Decimal `json:"exchange_margin_values"`
}

type SavePolicyRequest struct {
	SettingType         string           `json:"setting_type" binding:"required,oneof=global category condition period strategy"`
	TargetValue         string           `json:"target_value"`
	TargetMarginPercent decimal.Decimal  `json:"target_margin_percent"`
	MinimumProfitAmount decimal.Decimal  `json:"minimum_profit_amount"`
	MaxPriceCap         *decimal.Decimal `json:"max_price_cap"`
	Priority            int              `json:"priority"`
	Active              *bool            `json:"active"`
}
