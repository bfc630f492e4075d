package persistence

import (
	"context"
	"testing"

	"github.com/bakeryaid/backend/internal/domain/report"
	"github.com/bakeryaid/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormDashboardRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.SeedCatalog(t, db)
	repo := NewGormDashboardRepository(db)
	ctx := context.Background()

	ana := newBeneficiary(t, f, "30000001", "Ana", f.LocationA, member("Hijo Uno", "45000001"), member("Hijo Dos", "45000002"))
	bruno := newBeneficiary(t, f, "30000002", "Bruno", f.LocationA, member("Hija", "45000003"))
	carla := newBeneficiary(t, f, "30000003", "Carla", f.LocationB)
	insertBeneficiary(t, db, ana)
	insertBeneficiary(t, db, bruno)
	insertBeneficiary(t, db, carla)

	insertEvent(t, db, f, ana.ID, f.Bread, "2024-04-20", 2)
	insertEvent(t, db, f, ana.ID, f.Pastry, "2024-05-02", 1)
	insertEvent(t, db, f, ana.ID, f.Bread, "2024-05-03", 3)
	insertEvent(t, db, f, carla.ID, f.Bread, "2024-05-03", 1)

	families, err := repo.CountFamilies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), families)

	served, err := repo.CountFamiliesServed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), served)

	members, err := repo.CountMembersServed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), members, "only Ana's members belong to a served family")

	trend, err := repo.MonthlyTrend(ctx)
	require.NoError(t, err)
	assert.Equal(t, []report.MonthlyCount{
		{Month: "2024-04", Events: 1},
		{Month: "2024-05", Events: 3},
	}, trend)

	products, err := repo.ProductTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []report.ProductTotal{
		{Product: "Pan", Quantity: 6},
		{Product: "Facturas", Quantity: 1},
	}, products)

	ranking, err := repo.LocationRanking(ctx)
	require.NoError(t, err)
	assert.Equal(t, []report.LocationRank{
		{Location: "Centro", Events: 3, Families: 1},
		{Location: "Norte", Events: 1, Families: 1},
	}, ranking)
}

func TestGormDashboardRepository_Empty(t *testing.T) {
	repo := NewGormDashboardRepository(testutil.NewSQLiteDB(t))
	ctx := context.Background()

	families, err := repo.CountFamilies(ctx)
	require.NoError(t, err)
	assert.Zero(t, families)

	trend, err := repo.MonthlyTrend(ctx)
	require.NoError(t, err)
	assert.NotNil(t, trend)
	assert.Empty(t, trend)
}
