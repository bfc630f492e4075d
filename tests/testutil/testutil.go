// Package testutil provides helpers shared by the package tests: sqlmock and
// in-memory SQLite databases, catalog fixtures, a pinned clock and mocks of
// the repository ports.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockDB is a postgres-dialect gorm handle over sqlmock, for failure paths
// that SQLite cannot produce.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SQLDB *sql.DB
}

// NewMockDB opens a MockDB that is closed when the test ends.
// Queries are matched with sqlmock's default regexp matcher.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to open GORM over sqlmock")

	return &MockDB{DB: db, Mock: mock, SQLDB: sqlDB}
}

// ExpectationsWereMet fails the test if a queued expectation was not consumed.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewTestUUID derives a stable UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}
