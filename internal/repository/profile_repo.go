package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resalehq/pricing-engine/internal/model"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `country_code, country_name, currency, conversion_rate,
	tariff_rate_percent, vat_rate_percent, duty_free_amount, marketplace_commission_percent`

func (r *ProfileRepository) ByCountry(ctx context.Context, countryCode string) (*model.MarketProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM market_profiles WHERE country_code = $1`

	var p model.MarketProfile
	err := r.pool.QueryRow(ctx, query, countryCode).Scan(
		&p.CountryCode, &p.CountryName, &p.Currency, &p.ConversionRate,
		&p.TariffRatePercent, &p.VATRatePercent, &p.DutyFreeAmount,
		&p.MarketplaceCommissionPercent)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]model.MarketProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM market_profiles ORDER BY country_code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query market profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.MarketProfile
	for rows.Next() {
		var p model.MarketProfile
		if err := rows.Scan(
			&p.CountryCode, &p.CountryName, &p.Currency, &p.ConversionRate,
			&p.TariffRatePercent, &p.VATRatePercent, &p.DutyFreeAmount,
			&p.MarketplaceCommissionPercent); err != nil {
			return nil, fmt.Errorf("scan market profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
