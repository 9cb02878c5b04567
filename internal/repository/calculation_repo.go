package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resalehq/pricing-engine/internal/model"
)

type CalculationRepository struct {
	pool *pgxpool.Pool
}

func NewCalculationRepository(pool *pgxpool.Pool) *CalculationRepository {
	return &CalculationRepository{pool: pool}
}

// Record persists one calculation result for history/audit and returns the
// new record id. The full result is kept as JSONB next to the queryable
// summary columns.
func (r *CalculationRepository) Record(ctx context.Context, result *model.CalculationResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal calculation result: %w", err)
	}

	id := uuid.NewString()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO calculation_records (id, marketplace, category_id, destination_country,
			sell_price, total_cost, total_fees, net_profit, profit_margin_percent,
			roi_percent, recommended_price, used_fallback, result, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		id, result.Input.Marketplace, result.Input.CategoryID, result.Input.DestinationCountry,
		result.Input.AssumedSellPrice, result.TotalCostInSellCurrency, result.Fees.TotalFees,
		result.NetProfit, result.ProfitMarginPercent, result.ROIPercent,
		result.RecommendedPrice, result.UsedFallback, payload, result.CalculatedAt)
	if err != nil {
		return "", fmt.Errorf("insert calculation record: %w", err)
	}
	return id, nil
}

func (r *CalculationRepository) List(ctx context.Context, limit, offset int) ([]model.CalculationRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM calculation_records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count calculation records: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, marketplace, category_id, destination_country, sell_price,
			total_cost, total_fees, net_profit, profit_margin_percent, roi_percent,
			recommended_price, used_fallback, calculated_at, created_at
		FROM calculation_records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query calculation records: %w", err)
	}
	defer rows.Close()

	var records []model.CalculationRecord
	for rows.Next() {
		var rec model.CalculationRecord
		if err := rows.Scan(&rec.ID, &rec.Marketplace, &rec.CategoryID, &rec.DestinationCountry,
			&rec.SellPrice, &rec.TotalCost, &rec.TotalFees, &rec.NetProfit,
			&rec.ProfitMarginPercent, &rec.ROIPercent, &rec.RecommendedPrice,
			&rec.UsedFallback, &rec.CalculatedAt, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan calculation record: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}
