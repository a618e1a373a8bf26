package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
)

// AnalyticsRepository exposes read-optimised aggregate queries backing the
// analytics summary endpoint.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// TotalApprentices counts all apprentice records.
func (r *AnalyticsRepository) TotalApprentices(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM apprentices"); err != nil {
		return 0, fmt.Errorf("count apprentices: %w", err)
	}
	return total, nil
}

// CountByStatus groups apprentices by status.
func (r *AnalyticsRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return r.countBy(ctx, "status")
}

// CountByDirectorate groups apprentices by directorate, skipping nulls.
func (r *AnalyticsRepository) CountByDirectorate(ctx context.Context) ([]models.StatusCount, error) {
	return r.countBy(ctx, "directorate")
}

// CountByProgram groups apprentices by programme, skipping nulls.
func (r *AnalyticsRepository) CountByProgram(ctx context.Context) ([]models.StatusCount, error) {
	return r.countBy(ctx, "apprentice_program")
}

func (r *AnalyticsRepository) countBy(ctx context.Context, column string) ([]models.StatusCount, error) {
	query := fmt.Sprintf(`SELECT %s AS label, COUNT(*) AS count
        FROM apprentices WHERE %s IS NOT NULL
        GROUP BY %s ORDER BY count DESC, label ASC`, column, column, column)

	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count apprentices by %s: %w", column, err)
	}
	return counts, nil
}

// MonthlyLevyTotals sums transaction financials per payroll month.
func (r *AnalyticsRepository) MonthlyLevyTotals(ctx context.Context) ([]models.MonthlyLevyTotals, error) {
	const query = `SELECT payroll_month,
        COALESCE(SUM(levy_declared), 0) AS levy_declared,
        COALESCE(SUM(paid_from_levy), 0) AS paid_from_levy,
        COALESCE(SUM(government_contribution), 0) AS government_contribution,
        COALESCE(SUM(total), 0) AS total
        FROM transactions WHERE payroll_month IS NOT NULL
        GROUP BY payroll_month ORDER BY payroll_month ASC`

	var totals []models.MonthlyLevyTotals
	if err := r.db.SelectContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("sum monthly levy totals: %w", err)
	}
	return totals, nil
}

// TotalAgreedPrice sums the agreed apprenticeship price across all records.
func (r *AnalyticsRepository) TotalAgreedPrice(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(total_agreed_apprenticeship_price), 0) FROM apprentices"); err != nil {
		return 0, fmt.Errorf("sum agreed price: %w", err)
	}
	return total, nil
}
