package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resalehq/pricing-engine/internal/model"
)

type PolicyRepository struct {
	pool *pgxpool.Pool
}

func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

const policyColumns = `id, setting_type, target_value, target_margin_percent,
	minimum_profit_amount, max_price_cap, priority, active, created_at`

func (r *PolicyRepository) ListActive(ctx context.Context) ([]model.ProfitPolicy, error) {
	return r.list(ctx, `SELECT `+policyColumns+`
		FROM profit_policies WHERE active ORDER BY setting_type, priority, created_at`)
}

func (r *PolicyRepository) List(ctx context.Context) ([]model.ProfitPolicy, error) {
	return r.list(ctx, `SELECT `+policyColumns+`
		FROM profit_policies ORDER BY setting_type, priority, created_at`)
}

func (r *PolicyRepository) list(ctx context.Context, query string) ([]model.ProfitPolicy, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query profit policies: %w", err)
	}
	defer rows.Close()

	var policies []model.ProfitPolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profit policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func scanPolicy(row pgx.Row) (model.ProfitPolicy, error) {
	var p model.ProfitPolicy
	err := row.Scan(&p.ID, &p.SettingType, &p.TargetValue, &p.TargetMarginPercent,
		&p.MinimumProfitAmount, &p.MaxPriceCap, &p.Priority, &p.Active, &p.CreatedAt)
	return p, err
}

func (r *PolicyRepository) Insert(ctx context.Context, p *model.ProfitPolicy) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profit_policies (id, setting_type, target_value,
			target_margin_percent, minimum_profit_amount, max_price_cap, priority, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		p.ID, p.SettingType, p.TargetValue, p.TargetMarginPercent,
		p.MinimumProfitAmount, p.MaxPriceCap, p.Priority, p.Active).
		Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert profit policy: %w", err)
	}
	return nil
}
