package models

import (
	"time"

	"github.com/bakeryaid/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// BeneficiaryModel is the persistence model for the Beneficiary aggregate root
type BeneficiaryModel struct {
	AggregateModel
	ProgramID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	NationalID          string              `gorm:"type:varchar(8);not null;uniqueIndex:uq_beneficiaries_national_id;check:chk_beneficiaries_national_id,length(national_id) BETWEEN 7 AND 8 AND ltrim(national_id, '0123456789') = ''"`
	Name                string              `gorm:"type:varchar(200);not null"`
	SearchKey           string              `gorm:"type:varchar(200);not null;index"`
	Phone               string              `gorm:"type:varchar(30)"`
	Address             string              `gorm:"type:varchar(255)"`
	SurveyDate          time.Time           `gorm:"type:date;not null"`
	LocationID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	EconomicCategoryID  *uuid.UUID          `gorm:"type:uuid"`
	FirewoodAid         bool                `gorm:"not null;default:false"`
	CommunityActivities bool                `gorm:"not null;default:false"`
	FormalIncome        bool                `gorm:"not null;default:false"`
	HomeGarden          bool                `gorm:"not null;default:false"`
	Notes               string              `gorm:"type:text"`
	Members             []FamilyMemberModel `gorm:"foreignKey:BeneficiaryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BeneficiaryModel) TableName() string {
	return "beneficiaries"
}

// ToDomain converts the persistence model to a domain Beneficiary
func (m *BeneficiaryModel) ToDomain() *registry.Beneficiary {
	b := &registry.Beneficiary{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		ProgramID:          m.ProgramID,
		NationalID:         m.NationalID,
		Name:               m.Name,
		SearchKey:          m.SearchKey,
		Phone:              m.Phone,
		Address:            m.Address,
		SurveyDate:         m.SurveyDate,
		LocationID:         m.LocationID,
		EconomicCategoryID: m.EconomicCategoryID,
		Flags: registry.SocialFlags{
			FirewoodAid:         m.FirewoodAid,
			CommunityActivities: m.CommunityActivities,
			FormalIncome:        m.FormalIncome,
			HomeGarden:          m.HomeGarden,
		},
		Notes:   m.Notes,
		Members: make([]registry.FamilyMember, 0, len(m.Members)),
	}
	for i := range m.Members {
		b.Members = append(b.Members, m.Members[i].ToDomain())
	}
	return b
}

// FromDomain populates the persistence model from a domain Beneficiary.
// Members are copied as well.
func (m *BeneficiaryModel) FromDomain(b *registry.Beneficiary) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ProgramID = b.ProgramID
	m.NationalID = b.NationalID
	m.Name = b.Name
	m.SearchKey = b.SearchKey
	m.Phone = b.Phone
	m.Address = b.Address
	m.SurveyDate = b.SurveyDate
	m.LocationID = b.LocationID
	m.EconomicCategoryID = b.EconomicCategoryID
	m.FirewoodAid = b.Flags.FirewoodAid
	m.CommunityActivities = b.Flags.CommunityActivities
	m.FormalIncome = b.Flags.FormalIncome
	m.HomeGarden = b.Flags.HomeGarden
	m.Notes = b.Notes
	m.Members = make([]FamilyMemberModel, 0, len(b.Members))
	for i, member := range b.Members {
		mm := FamilyMemberModelFromDomain(member)
		mm.Position = i
		m.Members = append(m.Members, mm)
	}
}

// BeneficiaryModelFromDomain creates a new persistence model from a domain Beneficiary
func BeneficiaryModelFromDomain(b *registry.Beneficiary) *BeneficiaryModel {
	m := &BeneficiaryModel{}
	m.FromDomain(b)
	return m
}

// FamilyMemberModel is the persistence model for a family member
type FamilyMemberModel struct {
	BaseModel
	BeneficiaryID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name                string     `gorm:"type:varchar(200);not null"`
	NationalID          string     `gorm:"type:varchar(8);not null"`
	BirthDate           *time.Time `gorm:"type:date"`
	InSchool            bool       `gorm:"not null;default:false"`
	Relationship        string     `gorm:"type:varchar(60)"`
	ConditionCategoryID *uuid.UUID `gorm:"type:uuid"`
	// Position keeps the order members were submitted in
	Position            int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (FamilyMemberModel) TableName() string {
	return "family_members"
}

// ToDomain converts the persistence model to a domain FamilyMember
func (m *FamilyMemberModel) ToDomain() registry.FamilyMember {
	return registry.FamilyMember{
		ID:                  m.ID,
		BeneficiaryID:       m.BeneficiaryID,
		Name:                m.Name,
		NationalID:          m.NationalID,
		BirthDate:           m.BirthDate,
		InSchool:            m.InSchool,
		Relationship:        m.Relationship,
		ConditionCategoryID: m.ConditionCategoryID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// FamilyMemberModelFromDomain creates a persistence model from a domain FamilyMember
func FamilyMemberModelFromDomain(f registry.FamilyMember) FamilyMemberModel {
	return FamilyMemberModel{
		BaseModel: BaseModel{
			ID:        f.ID,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		},
		BeneficiaryID:       f.BeneficiaryID,
		Name:                f.Name,
		NationalID:          f.NationalID,
		BirthDate:           f.BirthDate,
		InSchool:            f.InSchool,
		Relationship:        f.Relationship,
		ConditionCategoryID: f.ConditionCategoryID,
	}
}
