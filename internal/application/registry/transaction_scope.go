package registry

import (
	"context"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/registry"
)

// TransactionScope provides transactional access to the registry repositories.
// Everything done through the repositories handed to fn commits or rolls back
// together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a registry write needs.
// All repositories returned share the same underlying database transaction.
//
//   - BeneficiaryRepo: the household aggregate; members are persisted with it.
//   - CatalogReader: reference lookups (location, economic and condition categories).
//   - EventRepo: read-only here, used to refuse deleting served households.
type TransactionalRepositories interface {
	BeneficiaryRepo() registry.BeneficiaryRepository
	CatalogReader() catalog.Reader
	EventRepo() distribution.EventRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful in tests that exercise validation only.
type NoOpTransactionScope struct {
	beneficiaryRepo registry.BeneficiaryRepository
	catalogReader   catalog.Reader
	eventRepo       distribution.EventRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	beneficiaryRepo registry.BeneficiaryRepository,
	catalogReader catalog.Reader,
	eventRepo distribution.EventRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		beneficiaryRepo: beneficiaryRepo,
		catalogReader:   catalogReader,
		eventRepo:       eventRepo,
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

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
