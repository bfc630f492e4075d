// Package catalog exposes the read-only reference data.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrDefaultProgramMissing is returned when the configured default program is not in the catalog
var ErrDefaultProgramMissing = shared.NewDomainError("DEFAULT_PROGRAM_MISSING", "The configured default program does not exist")

// CatalogService lists reference data
type CatalogService struct {
	reader catalog.Reader
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(reader catalog.Reader) *CatalogService {
	return &CatalogService{reader: reader}
}

// ListLocations returns every community center ordered by name
func (s *CatalogService) ListLocations(ctx context.Context) ([]LocationResponse, error) {
	items, err := s.reader.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return ToLocationResponses(items), nil
}

// ListProducts returns every product ordered by name
func (s *CatalogService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	items, err := s.reader.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(items), nil
}

// ListConditionCategories returns the family condition categories
func (s *CatalogService) ListConditionCategories(ctx context.Context) ([]CategoryResponse, error) {
	items, err := s.reader.ListConditionCategories(ctx)
	if err != nil {
		return nil, err
	}
	return ToConditionCategoryResponses(items), nil
}

// ListEconomicCategories returns the economic maintenance categories
func (s *CatalogService) ListEconomicCategories(ctx context.Context) ([]CategoryResponse, error) {
	items, err := s.reader.ListEconomicCategories(ctx)
	if err != nil {
		return nil, err
	}
	return ToEconomicCategoryResponses(items), nil
}

// ListPrograms returns the social programs
func (s *CatalogService) ListPrograms(ctx context.Context) ([]ProgramResponse, error) {
	items, err := s.reader.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	return ToProgramResponses(items), nil
}

// VerifyDefaultProgram checks at startup that the configured program exists
func (s *CatalogService) VerifyDefaultProgram(ctx context.Context, id uuid.UUID) (*catalog.Program, error) {
	program, err := s.reader.FindProgram(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDefaultProgramMissing, id)
	}
	if err != nil {
		return nil, err
	}
	return program, nil
}
