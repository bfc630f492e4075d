package distribution

import (
	"time"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductionRecord is the quantity of a product baked on a date
type ProductionRecord struct {
	ID             uuid.UUID
	ProductionDate time.Time
	ProductID      uuid.UUID
	Quantity       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProductionRecord creates a production record
func NewProductionRecord(productID uuid.UUID, productionDate time.Time, quantity int) (*ProductionRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	now := time.Now()
	return &ProductionRecord{
		ID:             uuid.New(),
		ProductionDate: shared.DateOf(productionDate),
		ProductID:      productID,
		Quantity:       quantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
