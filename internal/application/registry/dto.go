package registry

import (
	"time"

	"github.com/bakeryaid/backend/internal/domain/registry"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// =============================================================================
// Beneficiary DTOs
// =============================================================================

// Binding tags on request bodies only bound sizes. Presence, ranges, date
// formats and cross-field rules are checked by the service so that every
// problem of a request is reported together.

// FamilyMemberRequest is one family member inside a register/update request
type FamilyMemberRequest struct {
	Name                string     `json:"name" binding:"max=200"`
	NationalID          string     `json:"national_id" binding:"max=20"`
	BirthDate           string     `json:"birth_date"`
	InSchool            bool       `json:"in_school"`
	Relationship        string     `json:"relationship" binding:"max=60"`
	ConditionCategoryID *uuid.UUID `json:"condition_category_id"`
}

// RegisterBeneficiaryRequest represents a request to register a household
type RegisterBeneficiaryRequest struct {
	NationalID          string                `json:"national_id" binding:"max=20"`
	Name                string                `json:"name" binding:"max=200"`
	Phone               string                `json:"phone" binding:"max=30"`
	Address             string                `json:"address" binding:"max=300"`
	SurveyDate          string                `json:"survey_date"`
	LocationID          uuid.UUID             `json:"location_id"`
	EconomicCategoryID  *uuid.UUID            `json:"economic_category_id"`
	FirewoodAid         bool                  `json:"firewood_aid"`
	CommunityActivities bool                  `json:"community_activities"`
	FormalIncome        bool                  `json:"formal_income"`
	HomeGarden          bool                  `json:"home_garden"`
	Notes               string                `json:"notes" binding:"max=2000"`
	Members             []FamilyMemberRequest `json:"members" binding:"omitempty,max=30,dive"`
}

// UpdateBeneficiaryRequest replaces the household data and its whole member set
type UpdateBeneficiaryRequest RegisterBeneficiaryRequest

// FamilyMemberResponse represents a family member in API responses
type FamilyMemberResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	NationalID          string     `json:"national_id"`
	BirthDate           *string    `json:"birth_date"`
	Age                 *int       `json:"age"`
	InSchool            bool       `json:"in_school"`
	Relationship        string     `json:"relationship"`
	ConditionCategoryID *uuid.UUID `json:"condition_category_id"`
}

// BeneficiaryResponse represents a household with its members
type BeneficiaryResponse struct {
	ID                  uuid.UUID              `json:"id"`
	ProgramID           uuid.UUID              `json:"program_id"`
	NationalID          string                 `json:"national_id"`
	Name                string                 `json:"name"`
	Phone               string                 `json:"phone"`
	Address             string                 `json:"address"`
	SurveyDate          string                 `json:"survey_date"`
	LocationID          uuid.UUID              `json:"location_id"`
	EconomicCategoryID  *uuid.UUID             `json:"economic_category_id"`
	FirewoodAid         bool                   `json:"firewood_aid"`
	CommunityActivities bool                   `json:"community_activities"`
	FormalIncome        bool                   `json:"formal_income"`
	HomeGarden          bool                   `json:"home_garden"`
	Notes               string                 `json:"notes"`
	PeopleCount         int                    `json:"people_count"`
	Members             []FamilyMemberResponse `json:"members"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	Version             int                    `json:"version"`
}

// BeneficiaryListResponse is a list item; members are not loaded
type BeneficiaryListResponse struct {
	ID         uuid.UUID `json:"id"`
	NationalID string    `json:"national_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	SurveyDate string    `json:"survey_date"`
	LocationID uuid.UUID `json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeneficiaryListFilter represents filter options for the beneficiary list
type BeneficiaryListFilter struct {
	Search     string `form:"search"`
	Name       string `form:"name"`
	NationalID string `form:"national_id"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NationalIDCheckResponse answers whether a national ID is already registered
type NationalIDCheckResponse struct {
	Exists        bool       `json:"exists"`
	MatchedName   string     `json:"matched_name,omitempty"`
	BeneficiaryID *uuid.UUID `json:"beneficiary_id,omitempty"`
}

// toProfile converts the request into the domain profile. Date strings that
// do not parse are reported against their field.
func (r *RegisterBeneficiaryRequest) toProfile(errs *shared.ValidationErrors) registry.Profile {
	var surveyDate time.Time
	if r.SurveyDate != "" {
		d, err := shared.ParseDate(r.SurveyDate)
		if err != nil {
			errs.Add("survey_date", "Survey date must be a YYYY-MM-DD date")
		} else {
			surveyDate = d
		}
	}
	return registry.Profile{
		NationalID:         r.NationalID,
		Name:               r.Name,
		Phone:              r.Phone,
		Address:            r.Address,
		SurveyDate:         surveyDate,
		LocationID:         r.LocationID,
		EconomicCategoryID: r.EconomicCategoryID,
		Flags: registry.SocialFlags{
			FirewoodAid:         r.FirewoodAid,
			CommunityActivities: r.CommunityActivities,
			FormalIncome:        r.FormalIncome,
			HomeGarden:          r.HomeGarden,
		},
		Notes: r.Notes,
	}
}

func (r *RegisterBeneficiaryRequest) toMemberProfiles(errs *shared.ValidationErrors) []registry.MemberProfile {
	members := make([]registry.MemberProfile, 0, len(r.Members))
	for i, m := range r.Members {
		var birth *time.Time
		if m.BirthDate != "" {
			d, err := shared.ParseDate(m.BirthDate)
			if err != nil {
				errs.Add(memberField(i, "birth_date"), "Birth date must be a YYYY-MM-DD date")
			} else {
				birth = &d
			}
		}
		members = append(members, registry.MemberProfile{
			Name:                m.Name,
			NationalID:          m.NationalID,
			BirthDate:           birth,
			InSchool:            m.InSchool,
			Relationship:        m.Relationship,
			ConditionCategoryID: m.ConditionCategoryID,
		})
	}
	return members
}

// ToFamilyMemberResponse converts a domain FamilyMember, computing the age on today
func ToFamilyMemberResponse(m registry.FamilyMember, today time.Time) FamilyMemberResponse {
	resp := FamilyMemberResponse{
		ID:                  m.ID,
		Name:                m.Name,
		NationalID:          m.NationalID,
		InSchool:            m.InSchool,
		Relationship:        m.Relationship,
		ConditionCategoryID: m.ConditionCategoryID,
	}
	if m.BirthDate != nil {
		s := shared.FormatDate(*m.BirthDate)
		resp.BirthDate = &s
	}
	if age, ok := m.AgeOn(today); ok {
		resp.Age = &age
	}
	return resp
}

// ToFamilyMemberResponses converts a slice of domain FamilyMembers
func ToFamilyMemberResponses(members []registry.FamilyMember, today time.Time) []FamilyMemberResponse {
	responses := make([]FamilyMemberResponse, len(members))
	for i, m := range members {
		responses[i] = ToFamilyMemberResponse(m, today)
	}
	return responses
}

// ToBeneficiaryResponse converts a domain Beneficiary to BeneficiaryResponse
func ToBeneficiaryResponse(b *registry.Beneficiary, today time.Time) BeneficiaryResponse {
	return BeneficiaryResponse{
		ID:                  b.ID,
		ProgramID:           b.ProgramID,
		NationalID:          b.NationalID,
		Name:                b.Name,
		Phone:               b.Phone,
		Address:             b.Address,
		SurveyDate:          shared.FormatDate(b.SurveyDate),
		LocationID:          b.LocationID,
		EconomicCategoryID:  b.EconomicCategoryID,
		FirewoodAid:         b.Flags.FirewoodAid,
		CommunityActivities: b.Flags.CommunityActivities,
		FormalIncome:        b.Flags.FormalIncome,
		HomeGarden:          b.Flags.HomeGarden,
		Notes:               b.Notes,
		PeopleCount:         b.PeopleCount(),
		Members:             ToFamilyMemberResponses(b.Members, today),
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		Version:             b.Version,
	}
}

// ToBeneficiaryListResponses converts a slice of domain Beneficiaries to list items
func ToBeneficiaryListResponses(items []registry.Beneficiary) []BeneficiaryListResponse {
	responses := make([]BeneficiaryListResponse, len(items))
	for i, b := range items {
		responses[i] = BeneficiaryListResponse{
			ID:         b.ID,
			NationalID: b.NationalID,
			Name:       b.Name,
			Phone:      b.Phone,
			Address:    b.Address,
			SurveyDate: shared.FormatDate(b.SurveyDate),
			LocationID: b.LocationID,
			CreatedAt:  b.CreatedAt,
		}
	}
	return responses
}
