package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Reader is the read-only catalog store. Find* return shared.ErrNotFound
// when the id does not exist.
type Reader interface {
	FindLocation(ctx context.Context, id uuid.UUID) (*Location, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	FindConditionCategory(ctx context.Context, id uuid.UUID) (*ConditionCategory, error)
	FindEconomicCategory(ctx context.Context, id uuid.UUID) (*EconomicCategory, error)
	FindProgram(ctx context.Context, id uuid.UUID) (*Program, error)

	ListLocations(ctx context.Context) ([]Location, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListConditionCategories(ctx context.Context) ([]ConditionCategory, error)
	ListEconomicCategories(ctx context.Context) ([]EconomicCategory, error)
	ListPrograms(ctx context.Context) ([]Program, error)
}
