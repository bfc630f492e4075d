package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Today is the pinned "today" of tests that use FixedClock
var Today = shared.MustDate("2024-05-15")

// FixedClock returns a clock pinned to Today at noon
func FixedClock() shared.FixedClock {
	return shared.FixedClock{At: Today.Add(12 * time.Hour)}
}

// NewSQLiteDB opens a private in-memory SQLite database with every model
// migrated. Foreign keys are not created so fixtures can be inserted in any order.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to open SQLite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...), "Failed to migrate models")
	return db
}

// Fixtures holds the catalog rows seeded by SeedCatalog
type Fixtures struct {
	ProgramID          uuid.UUID
	LocationA          uuid.UUID
	LocationB          uuid.UUID
	Bread              uuid.UUID
	Pastry             uuid.UUID
	Elderly            uuid.UUID
	Minor              uuid.UUID
	Disability         uuid.UUID
	EconomicCategoryID uuid.UUID
}

// SeedCatalog inserts a small reference catalog with deterministic IDs
func SeedCatalog(t *testing.T, db *gorm.DB) Fixtures {
	t.Helper()

	f := Fixtures{
		ProgramID:          NewTestUUID("program"),
		LocationA:          NewTestUUID("location-a"),
		LocationB:          NewTestUUID("location-b"),
		Bread:              NewTestUUID("product-bread"),
		Pastry:             NewTestUUID("product-pastry"),
		Elderly:            NewTestUUID("category-elderly"),
		Minor:              NewTestUUID("category-minor"),
		Disability:         NewTestUUID("category-disability"),
		EconomicCategoryID: NewTestUUID("economic-informal"),
	}

	rows := []any{
		&models.ProgramModel{ID: f.ProgramID, Code: "PAN", Name: "Bakery aid"},
		&models.LocationModel{ID: f.LocationA, Name: "Centro"},
		&models.LocationModel{ID: f.LocationB, Name: "Norte"},
		&models.ProductModel{ID: f.Bread, Name: "Pan"},
		&models.ProductModel{ID: f.Pastry, Name: "Facturas"},
		&models.ConditionCategoryModel{ID: f.Elderly, Code: "ELDERLY", Description: "Elderly"},
		&models.ConditionCategoryModel{ID: f.Minor, Code: "MINOR", Description: "Minor"},
		&models.ConditionCategoryModel{ID: f.Disability, Code: "DISABILITY", Description: "Disability"},
		&models.EconomicCategoryModel{ID: f.EconomicCategoryID, Code: "INFORMAL", Description: "Informal work"},
	}
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
	return f
}
