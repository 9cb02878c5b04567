package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/model"
)

// ScheduleStore is the reference store of per-category fee schedules.
type ScheduleStore interface {
	ByCategory(ctx context.Context, marketplace, categoryID string) (*model.FeeSchedule, error)
	Default(ctx context.Context, marketplace string) (*model.FeeSchedule, error)
}

type FeeService struct {
	store ScheduleStore
}

func NewFeeService(store ScheduleStore) *FeeService {
	return &FeeService{store: store}
}

// FeeComputation reports the commission applied to a sell price. The
// insertion fee is flat per listing and intentionally not part of Fee.
type FeeComputation struct {
	Fee                decimal.Decimal
	TierApplied        int
	RateAppliedPercent decimal.Decimal
}

// ResolveSchedule returns the schedule for the category, degrading to the
// marketplace default when the category is unknown and to a built-in
// conservative schedule when the marketplace itself has no rows. The second
// return reports whether a fallback was used; resolution never errors.
func (s *FeeService) ResolveSchedule(ctx context.Context, marketplace, categoryID string) (*model.FeeSchedule, bool) {
	if categoryID != "" {
		schedule, err := s.store.ByCategory(ctx, marketplace, categoryID)
		if err == nil {
			return schedule, false
		}
	}

	schedule, err := s.store.Default(ctx, marketplace)
	if err == nil {
		log.Info().
			Str("marketplace", marketplace).
			Str("category_id", categoryID).
			Msg("unknown category, using marketplace default schedule")
		return schedule, true
	}

	log.Warn().Err(err).
		Str("marketplace", marketplace).
		Msg("no fee schedule rows for marketplace, using built-in default")
	return builtinSchedule(marketplace), true
}

// ComputeMarketplaceFee applies the two-tier threshold model: the tier-1
// rate up to and including the threshold, the tier-2 rate on the portion
// above it.
func (s *FeeService) ComputeMarketplaceFee(schedule *model.FeeSchedule, sellPrice decimal.Decimal) FeeComputation {
	if sellPrice.LessThanOrEqual(schedule.Tier1Threshold) {
		return FeeComputation{
			Fee:                sellPrice.Mul(schedule.Tier1RatePercent).Div(oneHundred),
			TierApplied:        1,
			RateAppliedPercent: schedule.Tier1RatePercent,
		}
	}

	tier1Part := schedule.Tier1Threshold.Mul(schedule.Tier1RatePercent).Div(oneHundred)
	tier2Part := sellPrice.Sub(schedule.Tier1Threshold).Mul(schedule.Tier2RatePercent).Div(oneHundred)
	return FeeComputation{
		Fee:                tier1Part.Add(tier2Part),
		TierApplied:        2,
		RateAppliedPercent: schedule.Tier2RatePercent,
	}
}

func builtinSchedule(marketplace string) *model.FeeSchedule {
	return &model.FeeSchedule{
		Marketplace:      marketplace,
		CategoryID:       "",
		CategoryName:     "Built-in Default",
		Tier1RatePercent: decimal.RequireFromString("13.25"),
		Tier1Threshold:   decimal.RequireFromString("7500.00"),
		Tier2RatePercent: decimal.RequireFromString("2.35"),
		InsertionFee:     decimal.RequireFromString("0.35"),
	}
}
