package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resalehq/pricing-engine/internal/model"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// Latest returns the most recently recorded base rate for the pair.
// pgx.ErrNoRows is surfaced unchanged so the provider can fall back.
func (r *RateRepository) Latest(ctx context.Context, from, to string) (*model.StoredRate, error) {
	query := `
		SELECT from_currency, to_currency, base_rate, safety_margin_percent, recorded_at
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	var rate model.StoredRate
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&rate.FromCurrency, &rate.ToCurrency, &rate.BaseRate,
		&rate.SafetyMarginPercent, &rate.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *RateRepository) Insert(ctx context.Context, rate *model.StoredRate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exchange_rates (from_currency, to_currency, base_rate, safety_margin_percent)
		VALUES ($1, $2, $3, $4)`,
		rate.FromCurrency, rate.ToCurrency, rate.BaseRate, rate.SafetyMarginPercent)
	if err != nil {
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}
