package registry

import (
	"context"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BeneficiaryFilter narrows beneficiary listings
type BeneficiaryFilter struct {
	shared.Filter
	LocationID *uuid.UUID
	NationalID string
	// Name is matched against the accent-folded search key
	Name string
}

// BeneficiaryRepository defines the interface for beneficiary persistence.
// Members are loaded and written with their beneficiary.
type BeneficiaryRepository interface {
	// FindByID finds a beneficiary with its members
	FindByID(ctx context.Context, id uuid.UUID) (*Beneficiary, error)

	// FindByNationalID finds a beneficiary by the head's national ID,
	// ignoring excludeID when set
	FindByNationalID(ctx context.Context, nationalID string, excludeID *uuid.UUID) (*Beneficiary, error)

	// FindAll lists beneficiaries without members
	FindAll(ctx context.Context, filter BeneficiaryFilter) ([]Beneficiary, int64, error)

	// ExistsByID checks if a beneficiary exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// CountInLocation counts how many of ids belong to locationID
	CountInLocation(ctx context.Context, locationID uuid.UUID, ids []uuid.UUID) (int64, error)

	// FindNames maps each existing id to the beneficiary name
	FindNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// Create inserts the beneficiary and all of its members.
	// Returns shared.ErrDuplicateKey when the national ID is taken.
	Create(ctx context.Context, b *Beneficiary) error

	// Update writes the beneficiary row and replaces its whole member set
	Update(ctx context.Context, b *Beneficiary) error

	// Delete removes the beneficiary and its members.
	// Returns shared.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

// FamilyMemberRepository reads family members independently of their household
type FamilyMemberRepository interface {
	// FindByBeneficiary lists the members of one beneficiary
	FindByBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) ([]FamilyMember, error)
}
