package distribution

import (
	"context"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/registry"
)

// TransactionScope provides transactional access to the distribution repositories.
// A bulk distribution is committed or rolled back as a whole.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a distribution write needs.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	BeneficiaryRepo() registry.BeneficiaryRepository
	CatalogReader() catalog.Reader
	EventRepo() distribution.EventRepository
	ProductionRepo() distribution.ProductionRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
type NoOpTransactionScope struct {
	beneficiaryRepo registry.BeneficiaryRepository
	catalogReader   catalog.Reader
	eventRepo       distribution.EventRepository
	productionRepo  distribution.ProductionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	beneficiaryRepo registry.BeneficiaryRepository,
	catalogReader catalog.Reader,
	eventRepo distribution.EventRepository,
	productionRepo distribution.ProductionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		beneficiaryRepo: beneficiaryRepo,
		catalogReader:   catalogReader,
		eventRepo:       eventRepo,
		productionRepo:  productionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BeneficiaryRepo returns the beneficiary repository.
func (s *NoOpTransactionScope) BeneficiaryRepo() registry.BeneficiaryRepository {
	return s.beneficiaryRepo
}

// CatalogReader returns the catalog reader.
func (s *NoOpTransactionScope) CatalogReader() catalog.Reader {
	return s.catalogReader
}

// EventRepo returns the distribution event repository.
func (s *NoOpTransactionScope) EventRepo() distribution.EventRepository {
	return s.eventRepo
}

// ProductionRepo returns the production record repository.
func (s *NoOpTransactionScope) ProductionRepo() distribution.ProductionRepository {
	return s.productionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
