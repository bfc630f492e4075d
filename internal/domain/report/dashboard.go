package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the read model behind the program dashboard
type DashboardStats struct {
	TotalFamilies               int64           `json:"total_families"`
	FamiliesServed              int64           `json:"families_served"`
	PeopleServed                int64           `json:"people_served"`
	CoveragePercent             decimal.Decimal `json:"coverage_percent"`
	FamiliesWithoutDistribution int64           `json:"families_without_distribution"`
	MonthlyTrend                []MonthlyCount  `json:"monthly_trend"`
	ProductsTrend               []ProductTotal  `json:"products_trend"`
	LocationRanking             []LocationRank  `json:"location_ranking"`
	GeneratedAt                 time.Time       `json:"generated_at"`
}

// MonthlyCount is the number of events delivered in a YYYY-MM month
type MonthlyCount struct {
	Month  string `json:"month"`
	Events int64  `json:"events"`
}

// ProductTotal is the total quantity distributed of one product
type ProductTotal struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

// LocationRank is the activity of one community center
type LocationRank struct {
	Location string `json:"location"`
	Events   int64  `json:"events"`
	Families int64  `json:"families"`
}

// DashboardRepository runs the dashboard aggregate queries.
// Each method is a single read and safe to call concurrently.
type DashboardRepository interface {
	// CountFamilies counts registered beneficiaries
	CountFamilies(ctx context.Context) (int64, error)

	// CountFamiliesServed counts beneficiaries with at least one event
	CountFamiliesServed(ctx context.Context) (int64, error)

	// CountMembersServed counts family members of beneficiaries with at least one event
	CountMembersServed(ctx context.Context) (int64, error)

	// MonthlyTrend counts events per month, oldest first
	MonthlyTrend(ctx context.Context) ([]MonthlyCount, error)

	// ProductTotals sums distributed quantity per product
	ProductTotals(ctx context.Context) ([]ProductTotal, error)

	// LocationRanking counts events and distinct families per location, busiest first
	LocationRanking(ctx context.Context) ([]LocationRank, error)
}

// CoveragePercent is served/total as a percentage rounded to two decimals.
// Zero registered families yield zero coverage.
func CoveragePercent(served, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(served).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2)
}
