package registry

import (
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberProfile is the data supplied for one family member
type MemberProfile struct {
	Name                string
	NationalID          string
	BirthDate           *time.Time
	InSchool            bool
	Relationship        string
	ConditionCategoryID *uuid.UUID
}

// FamilyMember is a dependent registered under a beneficiary
type FamilyMember struct {
	ID                  uuid.UUID
	BeneficiaryID       uuid.UUID
	Name                string
	NationalID          string
	BirthDate           *time.Time
	InSchool            bool
	Relationship        string
	ConditionCategoryID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func newFamilyMember(beneficiaryID uuid.UUID, p MemberProfile) FamilyMember {
	now := time.Now()
	var birth *time.Time
	if p.BirthDate != nil {
		d := shared.DateOf(*p.BirthDate)
		birth = &d
	}
	return FamilyMember{
		ID:                  uuid.New(),
		BeneficiaryID:       beneficiaryID,
		Name:                identity.NormalizeName(p.Name),
		NationalID:          strings.TrimSpace(p.NationalID),
		BirthDate:           birth,
		InSchool:            p.InSchool,
		Relationship:        strings.TrimSpace(p.Relationship),
		ConditionCategoryID: p.ConditionCategoryID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// AgeOn returns the member's age on today, or false when the birth date is unknown
func (m FamilyMember) AgeOn(today time.Time) (int, bool) {
	if m.BirthDate == nil {
		return 0, false
	}
	return identity.AgeOn(*m.BirthDate, today), true
}
