// Package distribution models deliveries ("entregas") of bakery products to
// beneficiaries and the production records of the bakery.
package distribution

import (
	"fmt"
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DailyLimit is the maximum number of events one beneficiary may receive
// on a single delivery date
const DailyLimit = 3

// BulkDetailPrefix is the default detail of bulk distributions
const BulkDetailPrefix = "Entrega masiva"

// Event is a committed delivery of a product to a beneficiary.
// Events are immutable once written.
type Event struct {
	ID            uuid.UUID
	BeneficiaryID uuid.UUID
	ProductID     uuid.UUID
	ProgramID     uuid.UUID
	DeliveryDate  time.Time
	Quantity      int
	Detail        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewEvent creates an event for one beneficiary. The delivery date is reduced
// to its calendar date.
func NewEvent(beneficiaryID, productID, programID uuid.UUID, deliveryDate time.Time, quantity int, detail string) (*Event, error) {
	if beneficiaryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BENEFICIARY", "Beneficiary ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if programID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROGRAM", "Program ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &Event{
		ID:            uuid.New(),
		BeneficiaryID: beneficiaryID,
		ProductID:     productID,
		ProgramID:     programID,
		DeliveryDate:  shared.DateOf(deliveryDate),
		Quantity:      quantity,
		Detail:        strings.TrimSpace(detail),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// BulkDetail returns detail when set, otherwise the default text naming the
// location when there is one
func BulkDetail(detail, locationName string) string {
	if d := strings.TrimSpace(detail); d != "" {
		return d
	}
	if locationName == "" {
		return BulkDetailPrefix
	}
	return fmt.Sprintf("%s CIC %s", BulkDetailPrefix, locationName)
}

// Remaining returns how many more events fit under the daily limit
func Remaining(count int64) int64 {
	if r := int64(DailyLimit) - count; r > 0 {
		return r
	}
	return 0
}
