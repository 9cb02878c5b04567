package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type scheduleSeed struct {
	Marketplace    string
	CategoryID     string
	CategoryName   string
	Tier1Rate      string
	Tier1Threshold string
	Tier2Rate      string
	InsertionFee   string
}

// Category schedules follow the published final-value-fee tables of each
// marketplace; the empty-category row is the marketplace-wide default used
// when a category is unknown.
var feeScheduleSeeds = []scheduleSeed{
	{"ebay", "", "Default", "13.25", "7500.00", "2.35", "0.35"},
	{"ebay", "293", "Consumer Electronics", "10.00", "7500.00", "12.35", "0.35"},
	{"ebay", "11450", "Clothing & Accessories", "15.00", "2000.00", "9.00", "0.35"},
	{"ebay", "625", "Cameras & Photo", "12.35", "7500.00", "2.35", "0.35"},
	{"ebay", "220", "Toys & Hobbies", "13.25", "7500.00", "2.35", "0.35"},
	{"shopee", "", "Default", "6.00", "99999999.00", "6.00", "0.00"},
	{"shopee", "100013", "Mobile & Gadgets", "5.00", "99999999.00", "5.00", "0.00"},
	{"amazon", "", "Default", "15.00", "99999999.00", "15.00", "0.99"},
	{"amazon", "electronics", "Electronics", "8.00", "100.00", "15.00", "0.99"},
}

type profileSeed struct {
	CountryCode    string
	CountryName    string
	Currency       string
	ConversionRate string
	TariffRate     string
	VATRate        string
	DutyFree       string
	Commission     string
}

var marketProfileSeeds = []profileSeed{
	{"US", "United States", "USD", "1", "0", "0", "800.00", "13.25"},
	{"GB", "United Kingdom", "GBP", "0.79", "2.5", "20.0", "135.00", "12.80"},
	{"DE", "Germany", "EUR", "0.92", "3.0", "19.0", "150.00", "12.80"},
	{"AU", "Australia", "AUD", "1.52", "5.0", "10.0", "1000.00", "13.25"},
	{"SG", "Singapore", "SGD", "1.34", "0", "9.0", "400.00", "6.00"},
	{"CA", "Canada", "CAD", "1.37", "4.0", "13.0", "150.00", "13.25"},
}

type policySeed struct {
	SettingType  string
	TargetValue  string
	TargetMargin string
	MinProfit    string
	Priority     int
}

var profitPolicySeeds = []policySeed{
	{"global", "", "25.0", "10.00", 100},
	{"category", "293", "20.0", "15.00", 10},
	{"category", "11450", "30.0", "8.00", 10},
	{"condition", "new", "28.0", "12.00", 10},
	{"condition", "used", "22.0", "8.00", 10},
	{"condition", "for-parts", "15.0", "5.00", 10},
	{"period", "30", "18.0", "5.00", 20},
	{"period", "60", "12.0", "3.00", 10},
	{"strategy", "quick", "-5.0", "0", 10},
	{"strategy", "premium", "10.0", "0", 10},
	{"strategy", "volume", "-3.0", "0", 10},
	{"strategy", "standard", "0", "0", 10},
}

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	// Idempotency: a seeded fee schedule table means seeding already ran.
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM fee_schedules").Scan(&count); err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already present, skipping")
		return nil
	}

	for _, s := range feeScheduleSeeds {
		_, err := pool.Exec(ctx, `
			INSERT INTO fee_schedules (marketplace, category_id, category_name,
				tier1_rate_percent, tier1_threshold, tier2_rate_percent, insertion_fee)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.Marketplace, s.CategoryID, s.CategoryName,
			s.Tier1Rate, s.Tier1Threshold, s.Tier2Rate, s.InsertionFee)
		if err != nil {
			return fmt.Errorf("seed fee schedule %s/%s: %w", s.Marketplace, s.CategoryID, err)
		}
	}

	for _, p := range marketProfileSeeds {
		_, err := pool.Exec(ctx, `
			INSERT INTO market_profiles (country_code, country_name, currency,
				conversion_rate, tariff_rate_percent, vat_rate_percent,
				duty_free_amount, marketplace_commission_percent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.CountryCode, p.CountryName, p.Currency,
			p.ConversionRate, p.TariffRate, p.VATRate, p.DutyFree, p.Commission)
		if err != nil {
			return fmt.Errorf("seed market profile %s: %w", p.CountryCode, err)
		}
	}

	for _, p := range profitPolicySeeds {
		_, err := pool.Exec(ctx, `
			INSERT INTO profit_policies (id, setting_type, target_value,
				target_margin_percent, minimum_profit_amount, priority, active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
			uuid.NewString(), p.SettingType, p.TargetValue,
			p.TargetMargin, p.MinProfit, p.Priority)
		if err != nil {
			return fmt.Errorf("seed profit policy %s/%s: %w", p.SettingType, p.TargetValue, err)
		}
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO exchange_rates (from_currency, to_currency, base_rate, safety_margin_percent)
		VALUES ('JPY', 'USD', 148.50, 5.0)`)
	if err != nil {
		return fmt.Errorf("seed exchange rate: %w", err)
	}

	log.Info().
		Int("fee_schedules", len(feeScheduleSeeds)).
		Int("market_profiles", len(marketProfileSeeds)).
		Int("profit_policies", len(profitPolicySeeds)).
		Msg("seed data inserted")

	return nil
}
