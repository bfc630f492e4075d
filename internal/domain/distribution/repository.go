package distribution

import (
	"context"
	"time"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventFilter narrows event listings
type EventFilter struct {
	shared.Filter
	DeliveryDate *time.Time
	StartDate    *time.Time
	EndDate      *time.Time
	LocationID   *uuid.UUID
	NationalID   string
	ProductID    *uuid.UUID
}

// EventView is an event joined with the names it references
type EventView struct {
	Event
	BeneficiaryName       string
	BeneficiaryNationalID string
	LocationID            uuid.UUID
	LocationName          string
	ProductName           string
	ProgramName           string
}

// EventRepository defines the interface for distribution event persistence
type EventRepository interface {
	// FindByID finds an event with its referenced names
	FindByID(ctx context.Context, id uuid.UUID) (*EventView, error)

	// FindAll lists events with their referenced names
	FindAll(ctx context.Context, filter EventFilter) ([]EventView, int64, error)

	// CountForDay counts the events of a beneficiary on a delivery date
	CountForDay(ctx context.Context, beneficiaryID uuid.UUID, date time.Time) (int64, error)

	// ExistsForProductDay checks if the beneficiary already got the product on date
	ExistsForProductDay(ctx context.Context, beneficiaryID, productID uuid.UUID, date time.Time) (bool, error)

	// FindProductDayConflicts returns the names of the beneficiaries among ids
	// that already got productID on date, ordered by name
	FindProductDayConflicts(ctx context.Context, ids []uuid.UUID, productID uuid.UUID, date time.Time) ([]string, error)

	// FindAtDailyLimit returns the names of the beneficiaries among ids that
	// already reached the daily limit on date, ordered by name
	FindAtDailyLimit(ctx context.Context, ids []uuid.UUID, date time.Time, limit int) ([]string, error)

	// ExistsForBeneficiary checks if the beneficiary has any event
	ExistsForBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) (bool, error)

	// Create inserts one event.
	// Returns shared.ErrDuplicateKey on a (beneficiary, product, date) collision.
	Create(ctx context.Context, event *Event) error

	// CreateBatch inserts all events in a single statement
	CreateBatch(ctx context.Context, events []*Event) error
}

// ProductionFilter narrows production listings
type ProductionFilter struct {
	shared.Filter
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	ProductID *uuid.UUID
}

// ProductionView is a production record joined with its product name
type ProductionView struct {
	ProductionRecord
	ProductName string
}

// ProductionRepository defines the interface for production record persistence
type ProductionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionView, error)
	FindAll(ctx context.Context, filter ProductionFilter) ([]ProductionView, int64, error)
	Create(ctx context.Context, record *ProductionRecord) error
}
