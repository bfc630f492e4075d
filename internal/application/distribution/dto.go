package distribution

import (
	"time"

	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// =============================================================================
// Distribution DTOs
// =============================================================================

// Body binding tags only bound sizes; the validator reports everything else
// in one batch.

// CreateDistributionRequest represents a request to deliver a product to one beneficiary
type CreateDistributionRequest struct {
	BeneficiaryID uuid.UUID  `json:"beneficiary_id"`
	ProductID     uuid.UUID  `json:"product_id"`
	DeliveryDate  string     `json:"delivery_date"`
	Quantity      int        `json:"quantity"`
	ProgramID     *uuid.UUID `json:"program_id"`
	Detail        string     `json:"detail" binding:"max=500"`
}

// CreateBulkDistributionRequest represents a request to deliver the same
// product to many beneficiaries at once
type CreateBulkDistributionRequest struct {
	BeneficiaryIDs []uuid.UUID `json:"beneficiary_ids" binding:"max=1000"`
	ProductID      uuid.UUID   `json:"product_id"`
	DeliveryDate   string      `json:"delivery_date"`
	Quantity       int         `json:"quantity"`
	LocationID     *uuid.UUID  `json:"location_id"`
	Detail         string      `json:"detail" binding:"max=500"`
}

// DistributionEventResponse represents a distribution event in API responses.
// Name fields are empty when the event was not loaded with its references.
type DistributionEventResponse struct {
	ID                    uuid.UUID  `json:"id"`
	BeneficiaryID         uuid.UUID  `json:"beneficiary_id"`
	BeneficiaryName       string     `json:"beneficiary_name,omitempty"`
	BeneficiaryNationalID string     `json:"beneficiary_national_id,omitempty"`
	LocationID            *uuid.UUID `json:"location_id,omitempty"`
	LocationName          string     `json:"location_name,omitempty"`
	ProductID             uuid.UUID  `json:"product_id"`
	ProductName           string     `json:"product_name,omitempty"`
	ProgramID             uuid.UUID  `json:"program_id"`
	ProgramName           string     `json:"program_name,omitempty"`
	DeliveryDate          string     `json:"delivery_date"`
	Quantity              int        `json:"quantity"`
	Detail                string     `json:"detail"`
	CreatedAt             time.Time  `json:"created_at"`
}

// BulkDistributionResponse reports a committed bulk distribution
type BulkDistributionResponse struct {
	Count  int                         `json:"count"`
	Events []DistributionEventResponse `json:"events"`
}

// DailyLimitResponse reports how many events a beneficiary got on a date
type DailyLimitResponse struct {
	BeneficiaryID uuid.UUID `json:"beneficiary_id"`
	Date          string    `json:"date"`
	Count         int64     `json:"count"`
	Limit         int       `json:"limit"`
	Remaining     int64     `json:"remaining"`
}

// EventListFilter represents filter options for the distribution list
type EventListFilter struct {
	DeliveryDate string `form:"delivery_date" binding:"omitempty,datetime=2006-01-02"`
	StartDate    string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate      string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	LocationID   string `form:"location_id" binding:"omitempty,uuid"`
	ProductID    string `form:"product_id" binding:"omitempty,uuid"`
	NationalID   string `form:"national_id"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =============================================================================
// Production DTOs
// =============================================================================

// CreateProductionRequest represents a request to record a day's production
type CreateProductionRequest struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductionDate string    `json:"production_date"`
	Quantity       int       `json:"quantity"`
}

// ProductionResponse represents a production record in API responses
type ProductionResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name,omitempty"`
	ProductionDate string    `json:"production_date"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProductionListFilter represents filter options for the production list
type ProductionListFilter struct {
	Date      string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToEventResponse converts a bare domain Event
func ToEventResponse(e *distribution.Event) DistributionEventResponse {
	return DistributionEventResponse{
		ID:            e.ID,
		BeneficiaryID: e.BeneficiaryID,
		ProductID:     e.ProductID,
		ProgramID:     e.ProgramID,
		DeliveryDate:  shared.FormatDate(e.DeliveryDate),
		Quantity:      e.Quantity,
		Detail:        e.Detail,
		CreatedAt:     e.CreatedAt,
	}
}

// ToEventViewResponse converts an event loaded with its referenced names
func ToEventViewResponse(v *distribution.EventView) DistributionEventResponse {
	resp := ToEventResponse(&v.Event)
	resp.BeneficiaryName = v.BeneficiaryName
	resp.BeneficiaryNationalID = v.BeneficiaryNationalID
	resp.ProductName = v.ProductName
	resp.ProgramName = v.ProgramName
	resp.LocationName = v.LocationName
	if v.LocationID != uuid.Nil {
		locationID := v.LocationID
		resp.LocationID = &locationID
	}
	return resp
}

// ToEventViewResponses converts a slice of event views
func ToEventViewResponses(views []distribution.EventView) []DistributionEventResponse {
	responses := make([]DistributionEventResponse, len(views))
	for i := range views {
		responses[i] = ToEventViewResponse(&views[i])
	}
	return responses
}

// ToProductionResponse converts a production view
func ToProductionResponse(v *distribution.ProductionView) ProductionResponse {
	return ProductionResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		ProductName:    v.ProductName,
		ProductionDate: shared.FormatDate(v.ProductionDate),
		Quantity:       v.Quantity,
		CreatedAt:      v.CreatedAt,
	}
}

// ToProductionResponses converts a slice of production views
func ToProductionResponses(views []distribution.ProductionView) []ProductionResponse {
	responses := make([]ProductionResponse, len(views))
	for i := range views {
		responses[i] = ToProductionResponse(&views[i])
	}
	return responses
}

// parseOptionalDate parses a YYYY-MM-DD query value into errs when malformed
func parseOptionalDate(field, value string, errs *shared.ValidationErrors) *time.Time {
	if value == "" {
		return nil
	}
	d, err := shared.ParseDate(value)
	if err != nil {
		errs.Add(field, "Date must be in YYYY-MM-DD format")
		return nil
	}
	return &d
}

// parseOptionalID parses a UUID query value into errs when malformed
func parseOptionalID(field, value string, errs *shared.ValidationErrors) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		errs.Add(field, "Invalid ID format")
		return nil
	}
	return &id
}
