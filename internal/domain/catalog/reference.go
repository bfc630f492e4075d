// Package catalog describes the reference entities the program reads but
// never mutates: locations (community centers), products, family condition
// categories, economic maintenance categories and social programs.
package catalog

import (
	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// Location is a community center (CIC) beneficiaries are attached to
type Location struct {
	ID   uuid.UUID
	Name string
}

// Product is a bakery good that can be produced and distributed
type Product struct {
	ID   uuid.UUID
	Name string
}

// ConditionCategory classifies a family member (elderly, disability, minor)
type ConditionCategory struct {
	ID          uuid.UUID
	Code        string
	Description string
}

// Category returns the identity category carried by the code
func (c ConditionCategory) Category() identity.Category {
	return identity.ParseCategory(c.Code)
}

// EconomicCategory describes how a household is economically sustained
type EconomicCategory struct {
	ID          uuid.UUID
	Code        string
	Description string
}

// Program is a social program distributions are booked against
type Program struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Description string
}
