package persistence

import (
	"context"

	appdist "github.com/bakeryaid/backend/internal/application/distribution"
	appreg "github.com/bakeryaid/backend/internal/application/registry"
	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/registry"
	"gorm.io/gorm"
)

// GormRegistryTransactionScope implements the registry TransactionScope using
// GORM transactions.
type GormRegistryTransactionScope struct {
	db *gorm.DB
}

// NewGormRegistryTransactionScope creates a new GormRegistryTransactionScope.
func NewGormRegistryTransactionScope(db *gorm.DB) *GormRegistryTransactionScope {
	return &GormRegistryTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// The transaction is rolled back when fn returns an error or panics.
func (s *GormRegistryTransactionScope) Execute(ctx context.Context, fn func(repos appreg.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormDistributionTransactionScope implements the distribution TransactionScope
// using GORM transactions.
type GormDistributionTransactionScope struct {
	db *gorm.DB
}

// NewGormDistributionTransactionScope creates a new GormDistributionTransactionScope.
func NewGormDistributionTransactionScope(db *gorm.DB) *GormDistributionTransactionScope {
	return &GormDistributionTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// The transaction is rolled back when fn returns an error or panics.
func (s *GormDistributionTransactionScope) Execute(ctx context.Context, fn func(repos appdist.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BeneficiaryRepo returns the beneficiary repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BeneficiaryRepo() registry.BeneficiaryRepository {
	return NewGormBeneficiaryRepository(r.tx)
}

// CatalogReader returns the catalog reader scoped to the current transaction.
func (r *gormTransactionalRepositories) CatalogReader() catalog.Reader {
	return NewGormCatalogRepository(r.tx)
}

// EventRepo returns the distribution event repository scoped to the current transaction.
func (r *gormTransactionalRepositories) EventRepo() distribution.EventRepository {
	return NewGormDistributionEventRepository(r.tx)
}

// ProductionRepo returns the production record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductionRepo() distribution.ProductionRepository {
	return NewGormProductionRecordRepository(r.tx)
}

var (
	_ appreg.TransactionScope           = (*GormRegistryTransactionScope)(nil)
	_ appdist.TransactionScope          = (*GormDistributionTransactionScope)(nil)
	_ appreg.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ appdist.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
