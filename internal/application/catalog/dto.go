package catalog

import (
	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// LocationResponse represents a community center
type LocationResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductResponse represents a bakery product
type ProductResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CategoryResponse represents a condition or economic category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
}

// ProgramResponse represents a social program
type ProgramResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// ToLocationResponses converts domain locations
func ToLocationResponses(items []catalog.Location) []LocationResponse {
	out := make([]LocationResponse, len(items))
	for i, l := range items {
		out[i] = LocationResponse{ID: l.ID, Name: l.Name}
	}
	return out
}

// ToProductResponses converts domain products
func ToProductResponses(items []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(items))
	for i, p := range items {
		out[i] = ProductResponse{ID: p.ID, Name: p.Name}
	}
	return out
}

// ToConditionCategoryResponses converts family condition categories
func ToConditionCategoryResponses(items []catalog.ConditionCategory) []CategoryResponse {
	out := make([]CategoryResponse, len(items))
	for i, c := range items {
		out[i] = CategoryResponse{ID: c.ID, Code: c.Code, Description: c.Description}
	}
	return out
}

// ToEconomicCategoryResponses converts economic maintenance categories
func ToEconomicCategoryResponses(items []catalog.EconomicCategory) []CategoryResponse {
	out := make([]CategoryResponse, len(items))
	for i, c := range items {
		out[i] = CategoryResponse{ID: c.ID, Code: c.Code, Description: c.Description}
	}
	return out
}

// ToProgramResponses converts domain programs
func ToProgramResponses(items []catalog.Program) []ProgramResponse {
	out := make([]ProgramResponse, len(items))
	for i, p := range items {
		out[i] = ProgramResponse{ID: p.ID, Code: p.Code, Name: p.Name, Description: p.Description}
	}
	return out
}
