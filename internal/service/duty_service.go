package service

import (
	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/model"
)

// DutyService computes destination-side import charges. The orchestrator
// decides whether a sale is cross-border at all; domestic sales never reach
// this component.
type DutyService struct{}

func NewDutyService() *DutyService {
	return &DutyService{}
}

// ComputeDutyAndVAT charges the tariff on the revenue above the duty-free
// allowance and VAT on the tariff-inclusive base. The ordering matters:
// VAT applies after the tariff has been added, not alongside it.
func (s *DutyService) ComputeDutyAndVAT(profile *model.MarketProfile, revenue decimal.Decimal) model.DutyBreakdown {
	taxableBase := revenue.Sub(profile.DutyFreeAmount)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	tariff := taxableBase.Mul(profile.TariffRatePercent).Div(oneHundred)
	vat := taxableBase.Add(tariff).Mul(profile.VATRatePercent).Div(oneHundred)

	return model.DutyBreakdown{
		TaxableBase:  taxableBase,
		TariffAmount: tariff,
		VATAmount:    vat,
		Total:        tariff.Add(vat),
	}
}
