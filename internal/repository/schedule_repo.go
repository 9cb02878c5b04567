package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resalehq/pricing-engine/internal/model"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `marketplace, category_id, category_name,
	tier1_rate_percent, tier1_threshold, tier2_rate_percent, insertion_fee`

func (r *ScheduleRepository) ByCategory(ctx context.Context, marketplace, categoryID string) (*model.FeeSchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM fee_schedules
		WHERE marketplace = $1 AND category_id = $2`
	return r.scanOne(ctx, query, marketplace, categoryID)
}

// Default returns the marketplace-wide schedule (the empty-category row).
func (r *ScheduleRepository) Default(ctx context.Context, marketplace string) (*model.FeeSchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM fee_schedules
		WHERE marketplace = $1 AND category_id = ''`
	return r.scanOne(ctx, query, marketplace)
}

func (r *ScheduleRepository) scanOne(ctx context.Context, query string, args ...any) (*model.FeeSchedule, error) {
	var s model.FeeSchedule
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.Marketplace, &s.CategoryID, &s.CategoryName,
		&s.Tier1RatePercent, &s.Tier1Threshold, &s.Tier2RatePercent, &s.InsertionFee)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
