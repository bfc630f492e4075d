// Package registry models the program's households: a beneficiary (head of
// household) and the family members registered with it.
package registry

import (
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrHasDistributions rejects deleting a household that already received goods
var ErrHasDistributions = shared.NewDomainError("BENEFICIARY_HAS_DISTRIBUTIONS", "Beneficiary has distribution events and cannot be deleted")

// SocialFlags are the yes/no answers captured by the household survey
type SocialFlags struct {
	FirewoodAid         bool
	CommunityActivities bool
	FormalIncome        bool
	HomeGarden          bool
}

// Profile is the head-of-household data supplied on register and update
type Profile struct {
	NationalID         string
	Name               string
	Phone              string
	Address            string
	SurveyDate         time.Time
	LocationID         uuid.UUID
	EconomicCategoryID *uuid.UUID
	Flags              SocialFlags
	Notes              string
}

// normalized trims free text, title-cases the name and drops the time of day
// from the survey date
func (p Profile) normalized() Profile {
	p.NationalID = strings.TrimSpace(p.NationalID)
	p.Name = identity.NormalizeName(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	p.Notes = strings.TrimSpace(p.Notes)
	p.SurveyDate = shared.DateOf(p.SurveyDate)
	return p
}

// Beneficiary is the household aggregate root. Members are owned by the
// beneficiary and always written together with it.
type Beneficiary struct {
	shared.BaseAggregateRoot
	ProgramID          uuid.UUID
	NationalID         string
	Name               string
	SearchKey          string
	Phone              string
	Address            string
	SurveyDate         time.Time
	LocationID         uuid.UUID
	EconomicCategoryID *uuid.UUID
	Flags              SocialFlags
	Notes              string
	Members            []FamilyMember
}

// NewBeneficiary creates a household without members
func NewBeneficiary(programID uuid.UUID, profile Profile) (*Beneficiary, error) {
	if programID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROGRAM", "Program ID cannot be empty")
	}
	if profile.LocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	b := &Beneficiary{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProgramID:         programID,
		Members:           make([]FamilyMember, 0),
	}
	b.apply(profile.normalized())
	return b, nil
}

// Update overwrites the head-of-household data. Members are untouched;
// use ReplaceMembers for them.
func (b *Beneficiary) Update(profile Profile) error {
	if profile.LocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	b.apply(profile.normalized())
	b.Touch()
	b.IncrementVersion()
	return nil
}

func (b *Beneficiary) apply(p Profile) {
	b.NationalID = p.NationalID
	b.Name = p.Name
	b.SearchKey = identity.SearchKey(p.Name)
	b.Phone = p.Phone
	b.Address = p.Address
	b.SurveyDate = p.SurveyDate
	b.LocationID = p.LocationID
	b.EconomicCategoryID = p.EconomicCategoryID
	b.Flags = p.Flags
	b.Notes = p.Notes
}

// ReplaceMembers swaps the whole member set. Every member gets a fresh ID,
// previous member IDs are not preserved.
func (b *Beneficiary) ReplaceMembers(members []MemberProfile) {
	replaced := make([]FamilyMember, 0, len(members))
	for _, m := range members {
		replaced = append(replaced, newFamilyMember(b.ID, m))
	}
	b.Members = replaced
	b.Touch()
}

// PeopleCount is the household size: the head plus every member
func (b *Beneficiary) PeopleCount() int {
	return 1 + len(b.Members)
}

// Profile returns the current head-of-household data
func (b *Beneficiary) Profile() Profile {
	return Profile{
		NationalID:         b.NationalID,
		Name:               b.Name,
		Phone:              b.Phone,
		Address:            b.Address,
		SurveyDate:         b.SurveyDate,
		LocationID:         b.LocationID,
		EconomicCategoryID: b.EconomicCategoryID,
		Flags:              b.Flags,
		Notes:              b.Notes,
	}
}
