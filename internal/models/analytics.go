package models

import "time"

// StatusCount is an apprentice count grouped by a single label.
type StatusCount struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// MonthlyLevyTotals aggregates transaction financials per payroll month.
type MonthlyLevyTotals struct {
	PayrollMonth           time.Time `db:"payroll_month" json:"payrollMonth"`
	LevyDeclared           float64   `db:"levy_declared" json:"levyDeclared"`
	PaidFromLevy           float64   `db:"paid_from_levy" json:"paidFromLevy"`
	GovernmentContribution float64   `db:"government_contribution" json:"governmentContribution"`
	Total                  float64   `db:"total" json:"total"`
}

// AnalyticsSystemMetrics represents system level metrics captured from
// instrumentation, served alongside the domain analytics.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	IngestedRows             uint64    `json:"ingestedRows"`
	IngestErrors             uint64    `json:"ingestErrors"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// AnalyticsSummary is the aggregate payload served by /Analytics/summary.
type AnalyticsSummary struct {
	TotalApprentices int                 `json:"totalApprentices"`
	ByStatus         []StatusCount       `json:"byStatus"`
	ByDirectorate    []StatusCount       `json:"byDirectorate"`
	ByProgram        []StatusCount       `json:"byProgram"`
	MonthlyLevy      []MonthlyLevyTotals `json:"monthlyLevy"`
	TotalAgreedPrice float64             `json:"totalAgreedPrice"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}
