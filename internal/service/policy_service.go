package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resalehq/pricing-engine/internal/model"
)

// PolicyService resolves the single effective target-margin policy for a
// calculation out of the layered policy set. Layers override, they never
// blend: the first layer with an active matching policy wins outright.
// Order: period (longer-aged tiers first), condition, category, global.
type PolicyService struct{}

func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

var builtinStrategyDeltas = map[string]decimal.Decimal{
	"quick":    decimal.NewFromInt(-5),
	"premium":  decimal.NewFromInt(10),
	"volume":   decimal.NewFromInt(-3),
	"standard": decimal.Zero,
}

func (s *PolicyService) Resolve(policies []model.ProfitPolicy, input *model.CalculationInput) (model.EffectivePolicy, error) {
	winner, layer := resolveLayer(policies, input)
	if winner == nil {
		return model.EffectivePolicy{}, ErrPolicyResolution
	}

	strategy := input.Strategy
	if strategy == "" {
		strategy = "standard"
	}
	delta := strategyDelta(policies, strategy)

	return model.EffectivePolicy{
		TargetMarginPercent:  winner.TargetMarginPercent.Add(delta),
		MinimumProfitAmount:  winner.MinimumProfitAmount,
		MaxPriceCap:          winner.MaxPriceCap,
		AppliedLayer:         layer,
		AppliedStrategy:      strategy,
		StrategyDeltaPercent: delta,
	}, nil
}

func resolveLayer(policies []model.ProfitPolicy, input *model.CalculationInput) (*model.ProfitPolicy, string) {
	if p := matchPeriod(policies, input.DaysSinceListing); p != nil {
		return p, "period:" + p.TargetValue
	}
	if p := matchValue(policies, model.PolicyCondition, input.ItemCondition); p != nil {
		return p, "condition:" + p.TargetValue
	}
	if p := matchValue(policies, model.PolicyCategory, input.CategoryID); p != nil {
		return p, "category:" + p.TargetValue
	}
	if p := matchGlobal(policies); p != nil {
		return p, "global"
	}
	return nil, ""
}

// matchPeriod selects among age-threshold policies whose threshold the
// listing has reached, longest-aged tier first (a 60-day policy beats a
// 30-day one for a 70-day-old listing). Ties resolve by ascending priority.
func matchPeriod(policies []model.ProfitPolicy, daysSinceListing int) *model.ProfitPolicy {
	type candidate struct {
		policy    model.ProfitPolicy
		threshold int
	}
	var candidates []candidate
	for _, p := range policies {
		if p.SettingType != model.PolicyPeriod || !p.Active {
			continue
		}
		threshold, err := strconv.Atoi(strings.TrimSpace(p.TargetValue))
		if err != nil || daysSinceListing < threshold {
			continue
		}
		candidates = append(candidates, candidate{policy: p, threshold: threshold})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].threshold != candidates[j].threshold {
			return candidates[i].threshold > candidates[j].threshold
		}
		return candidates[i].policy.Priority < candidates[j].policy.Priority
	})
	return &candidates[0].policy
}

func matchValue(policies []model.ProfitPolicy, settingType model.PolicyType, value string) *model.ProfitPolicy {
	if value == "" {
		return nil
	}
	var best *model.ProfitPolicy
	for i, p := range policies {
		if p.SettingType != settingType || !p.Active || !strings.EqualFold(p.TargetValue, value) {
			continue
		}
		if best == nil || p.Priority < best.Priority {
			best = &policies[i]
		}
	}
	return best
}

func matchGlobal(policies []model.ProfitPolicy) *model.ProfitPolicy {
	var best *model.ProfitPolicy
	for i, p := range policies {
		if p.SettingType != model.PolicyGlobal || !p.Active {
			continue
		}
		if best == nil || p.Priority < best.Priority {
			best = &policies[i]
		}
	}
	return best
}

// strategyDelta prefers a stored strategy policy over the built-in table so
// admins can retune adjustments without a deploy.
func strategyDelta(policies []model.ProfitPolicy, strategy string) decimal.Decimal {
	for _, p := range policies {
		if p.SettingType == model.PolicyStrategy && p.Active && strings.EqualFold(p.TargetValue, strategy) {
			return p.TargetMarginPercent
		}
	}
	if delta, ok := builtinStrategyDeltas[strings.ToLower(strategy)]; ok {
		return delta
	}
	return decimal.Zero
}
