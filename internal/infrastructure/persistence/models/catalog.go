package models

import (
	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// LocationModel is the persistence model for a community center
type LocationModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_locations_name"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location
func (m *LocationModel) ToDomain() catalog.Location {
	return catalog.Location{ID: m.ID, Name: m.Name}
}

// ProductModel is the persistence model for a bakery product
type ProductModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_products_name"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() catalog.Product {
	return catalog.Product{ID: m.ID, Name: m.Name}
}

// ConditionCategoryModel is the persistence model for a family condition category
type ConditionCategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Code        string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_family_condition_categories_code"`
	Description string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ConditionCategoryModel) TableName() string {
	return "family_condition_categories"
}

// ToDomain converts the persistence model to a domain ConditionCategory
func (m *ConditionCategoryModel) ToDomain() catalog.ConditionCategory {
	return catalog.ConditionCategory{ID: m.ID, Code: m.Code, Description: m.Description}
}

// EconomicCategoryModel is the persistence model for an economic maintenance category
type EconomicCategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Code        string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_economic_maintenance_categories_code"`
	Description string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (EconomicCategoryModel) TableName() string {
	return "economic_maintenance_categories"
}

// ToDomain converts the persistence model to a domain EconomicCategory
func (m *EconomicCategoryModel) ToDomain() catalog.EconomicCategory {
	return catalog.EconomicCategory{ID: m.ID, Code: m.Code, Description: m.Description}
}

// ProgramModel is the persistence model for a social program
type ProgramModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Code        string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_programs_code"`
	Name        string    `gorm:"type:varchar(120);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProgramModel) TableName() string {
	return "programs"
}

// ToDomain converts the persistence model to a domain Program
func (m *ProgramModel) ToDomain() catalog.Program {
	return catalog.Program{ID: m.ID, Code: m.Code, Name: m.Name, Description: m.Description}
}
