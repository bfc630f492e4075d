package report

import (
	"context"
	"errors"
	"testing"

	"github.com/bakeryaid/backend/internal/domain/report"
	"github.com/bakeryaid/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockDashboard(total, served, members int64) *testutil.MockDashboardRepository {
	repo := new(testutil.MockDashboardRepository)
	repo.On("CountFamilies", mock.Anything).Return(total, nil)
	repo.On("CountFamiliesServed", mock.Anything).Return(served, nil)
	repo.On("CountMembersServed", mock.Anything).Return(members, nil)
	repo.On("MonthlyTrend", mock.Anything).Return([]report.MonthlyCount{{Month: "2024-05", Events: 7}}, nil)
	repo.On("ProductTotals", mock.Anything).Return(nil, nil)
	repo.On("LocationRanking", mock.Anything).Return([]report.LocationRank{{Location: "Centro", Events: 7, Families: 2}}, nil)
	return repo
}

func TestDashboardService_GetStats(t *testing.T) {
	clock := testutil.FixedClock()
	svc := NewDashboardService(mockDashboard(3, 2, 5), clock)

	stats, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalFamilies)
	assert.Equal(t, int64(2), stats.FamiliesServed)
	assert.Equal(t, int64(7), stats.PeopleServed)
	assert.Equal(t, int64(1), stats.FamiliesWithoutDistribution)
	assert.True(t, decimal.RequireFromString("66.67").Equal(stats.CoveragePercent), "got %s", stats.CoveragePercent)
	assert.Equal(t, clock.At, stats.GeneratedAt)
	assert.NotNil(t, stats.ProductsTrend)
	assert.Empty(t, stats.ProductsTrend)
	assert.Len(t, stats.MonthlyTrend, 1)
	assert.Len(t, stats.LocationRanking, 1)
}

func TestDashboardService_GetStats_NoFamilies(t *testing.T) {
	stats, err := NewDashboardService(mockDashboard(0, 0, 0), testutil.FixedClock()).GetStats(context.Background())

	require.NoError(t, err)
	assert.True(t, stats.CoveragePercent.IsZero())
	assert.Zero(t, stats.FamiliesWithoutDistribution)
}

func TestDashboardService_GetStats_QueryFailure(t *testing.T) {
	boom := errors.New("statement timeout")
	repo := new(testutil.MockDashboardRepository)
	repo.On("CountFamilies", mock.Anything).Return(int64(0), boom)
	repo.On("CountFamiliesServed", mock.Anything).Return(int64(0), nil)
	repo.On("CountMembersServed", mock.Anything).Return(int64(0), nil)
	repo.On("MonthlyTrend", mock.Anything).Return([]report.MonthlyCount{}, nil)
	repo.On("ProductTotals", mock.Anything).Return([]report.ProductTotal{}, nil)
	repo.On("LocationRanking", mock.Anything).Return([]report.LocationRank{}, nil)

	_, err := NewDashboardService(repo, testutil.FixedClock()).GetStats(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "count families")
}

func TestCoveragePercent(t *testing.T) {
	tests := []struct {
		served, total int64
		want          string
	}{
		{0, 0, "0"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{4, 4, "100"},
	}
	for _, tt := range tests {
		got := report.CoveragePercent(tt.served, tt.total)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%d/%d: got %s", tt.served, tt.total, got)
	}
}
