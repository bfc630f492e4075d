// Package report builds the program dashboard from the aggregate queries of
// the report repository.
package report

import (
	"context"
	"fmt"

	"github.com/bakeryaid/backend/internal/domain/report"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"golang.org/x/sync/errgroup"
)

// DashboardService provides the dashboard statistics
type DashboardService struct {
	repo  report.DashboardRepository
	clock shared.Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository, clock shared.Clock) *DashboardService {
	return &DashboardService{repo: repo, clock: clock}
}

// GetStats runs the dashboard queries concurrently and combines them.
// The first failing query cancels the others.
func (s *DashboardService) GetStats(ctx context.Context) (*report.DashboardStats, error) {
	var (
		total, served, membersServed int64
		monthly                      []report.MonthlyCount
		products                     []report.ProductTotal
		ranking                      []report.LocationRank
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.CountFamilies(gctx)
		return wrap("count families", err)
	})
	g.Go(func() (err error) {
		served, err = s.repo.CountFamiliesServed(gctx)
		return wrap("count families served", err)
	})
	g.Go(func() (err error) {
		membersServed, err = s.repo.CountMembersServed(gctx)
		return wrap("count members served", err)
	})
	g.Go(func() (err error) {
		monthly, err = s.repo.MonthlyTrend(gctx)
		return wrap("monthly trend", err)
	})
	g.Go(func() (err error) {
		products, err = s.repo.ProductTotals(gctx)
		return wrap("product totals", err)
	})
	g.Go(func() (err error) {
		ranking, err = s.repo.LocationRanking(gctx)
		return wrap("location ranking", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	without := total - served
	if without < 0 {
		without = 0
	}

	return &report.DashboardStats{
		TotalFamilies:               total,
		FamiliesServed:              served,
		PeopleServed:                served + membersServed,
		CoveragePercent:             report.CoveragePercent(served, total),
		FamiliesWithoutDistribution: without,
		MonthlyTrend:                nonNil(monthly),
		ProductsTrend:               nonNil(products),
		LocationRanking:             nonNil(ranking),
		GeneratedAt:                 s.clock.Now(),
	}, nil
}

func wrap(query string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("dashboard %s: %w", query, err)
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
