package models

import (
	"time"

	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/google/uuid"
)

// DistributionEventModel is the persistence model for a distribution event.
// The composite unique index rejects a second event for the same product,
// beneficiary and day.
type DistributionEventModel struct {
	BaseModel
	BeneficiaryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_distribution_events_beneficiary_product_date,priority:1;index:idx_distribution_events_beneficiary_date,priority:1"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_distribution_events_beneficiary_product_date,priority:2"`
	ProgramID     uuid.UUID `gorm:"type:uuid;not null"`
	DeliveryDate  time.Time `gorm:"type:date;not null;uniqueIndex:uq_distribution_events_beneficiary_product_date,priority:3;index:idx_distribution_events_beneficiary_date,priority:2"`
	Quantity      int       `gorm:"not null;check:chk_distribution_events_quantity,quantity > 0"`
	Detail        string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DistributionEventModel) TableName() string {
	return "distribution_events"
}

// ToDomain converts the persistence model to a domain Event
func (m *DistributionEventModel) ToDomain() distribution.Event {
	return distribution.Event{
		ID:            m.ID,
		BeneficiaryID: m.BeneficiaryID,
		ProductID:     m.ProductID,
		ProgramID:     m.ProgramID,
		DeliveryDate:  m.DeliveryDate,
		Quantity:      m.Quantity,
		Detail:        m.Detail,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// DistributionEventModelFromDomain creates a persistence model from a domain Event
func DistributionEventModelFromDomain(e *distribution.Event) *DistributionEventModel {
	return &DistributionEventModel{
		BaseModel: BaseModel{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		},
		BeneficiaryID: e.BeneficiaryID,
		ProductID:     e.ProductID,
		ProgramID:     e.ProgramID,
		DeliveryDate:  e.DeliveryDate,
		Quantity:      e.Quantity,
		Detail:        e.Detail,
	}
}

// ProductionRecordModel is the persistence model for a production record
type ProductionRecordModel struct {
	BaseModel
	ProductionDate time.Time `gorm:"type:date;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       int       `gorm:"not null;check:chk_production_records_quantity,quantity > 0"`
}

// TableName returns the table name for GORM
func (ProductionRecordModel) TableName() string {
	return "production_records"
}

// ToDomain converts the persistence model to a domain ProductionRecord
func (m *ProductionRecordModel) ToDomain() distribution.ProductionRecord {
	return distribution.ProductionRecord{
		ID:             m.ID,
		ProductionDate: m.ProductionDate,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ProductionRecordModelFromDomain creates a persistence model from a domain ProductionRecord
func ProductionRecordModelFromDomain(r *distribution.ProductionRecord) *ProductionRecordModel {
	return &ProductionRecordModel{
		BaseModel: BaseModel{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ProductionDate: r.ProductionDate,
		ProductID:      r.ProductID,
		Quantity:       r.Quantity,
	}
}
