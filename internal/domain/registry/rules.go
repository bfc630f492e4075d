package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CheckProfile validates the head-of-household fields that need no store
// access: national ID format, survey date and phone
func CheckProfile(p Profile, today time.Time) *shared.ValidationErrors {
	errs := shared.NewValidationErrors()

	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "Name is required")
	}
	if err := identity.ValidateNationalID(strings.TrimSpace(p.NationalID)); err != nil {
		errs.Add("national_id", err.Error())
	}
	if p.SurveyDate.IsZero() {
		errs.Add("survey_date", "Survey date is required")
	} else if err := identity.ValidateNotFuture(p.SurveyDate, today); err != nil {
		errs.Add("survey_date", "Survey date cannot be in the future")
	}
	if err := identity.ValidatePhone(p.Phone); err != nil {
		errs.Add("phone", err.Error())
	}
	return errs
}

// CheckMembers validates the member list against the head's national ID.
// categories maps every known condition category ID to its code; an ID
// missing from it is reported as not found.
func CheckMembers(headNationalID string, members []MemberProfile, categories map[uuid.UUID]identity.Category, today time.Time) *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	headNationalID = strings.TrimSpace(headNationalID)
	seen := make(map[string]struct{}, len(members))

	for i, m := range members {
		field := func(name string) string { return fmt.Sprintf("members[%d].%s", i, name) }
		nationalID := strings.TrimSpace(m.NationalID)
		name := identity.NormalizeName(m.Name)

		if name == "" {
			errs.Add(field("name"), "Name is required")
		}

		if _, dup := seen[nationalID]; dup {
			errs.Addf(field("national_id"), "National ID %s is repeated within the family", nationalID)
		}
		seen[nationalID] = struct{}{}

		if nationalID != "" && nationalID == headNationalID {
			errs.Addf(field("national_id"), "National ID %s belongs to the head of household", nationalID)
		}
		if err := identity.ValidateNationalID(nationalID); err != nil {
			errs.Addf(field("national_id"), "National ID of %s must have 7 or 8 digits", displayName(name))
		}

		if m.BirthDate != nil {
			if err := identity.ValidateNotFuture(*m.BirthDate, today); err != nil {
				errs.Add(field("birth_date"), "Birth date cannot be in the future")
			}
		}

		if m.ConditionCategoryID == nil {
			continue
		}
		category, ok := categories[*m.ConditionCategoryID]
		if !ok {
			errs.Add(field("condition_category_id"), "Family condition category not found")
			continue
		}
		if m.BirthDate == nil {
			continue
		}
		if err := identity.ValidateAgeCategory(*m.BirthDate, category, today); err != nil {
			var ageErr *identity.AgeCategoryError
			if errors.As(err, &ageErr) {
				errs.Addf(field("condition_category_id"), "%s is %d years old and cannot be registered as %s",
					displayName(name), ageErr.Age, ageErr.Category.Label())
			} else {
				errs.Add(field("condition_category_id"), err.Error())
			}
		}
	}
	return errs
}

func displayName(name string) string {
	if name == "" {
		return "the family member"
	}
	return name
}
