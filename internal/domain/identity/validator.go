// Package identity holds the pure validation rules for a person's identity
// fields. Nothing here performs I/O; "today" is always passed in.
package identity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/bakeryaid/backend/internal/domain/shared"
)

// Age bounds for the age-bound family condition categories
const (
	MinorMaxAge   = 18 // a minor must be strictly younger
	ElderlyMinAge = 60
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{7,8}$`)
	// +54 country prefix, optional 2-4 digit area code, 6-8 digit subscriber number
	phonePattern = regexp.MustCompile(`^(\+54)?(\d{2,4})?\d{6,8}$`)
)

// Identity validation errors
var (
	ErrInvalidNationalID   = shared.NewDomainError("INVALID_NATIONAL_ID", "National ID must have 7 or 8 digits")
	ErrFutureDate          = shared.NewDomainError("FUTURE_DATE", "Date cannot be in the future")
	ErrAgeCategoryMismatch = shared.NewDomainError("AGE_CATEGORY_MISMATCH", "Age does not match the family condition category")
	ErrInvalidPhone        = shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
)

// AgeCategoryError carries the computed age of a failed age-category check.
// errors.Is(err, ErrAgeCategoryMismatch) holds for it.
type AgeCategoryError struct {
	Age      int
	Category Category
}

func (e *AgeCategoryError) Error() string {
	return fmt.Sprintf("age %d is not valid for category %s", e.Age, e.Category)
}

// Is makes AgeCategoryError match ErrAgeCategoryMismatch
func (e *AgeCategoryError) Is(target error) bool {
	return target == ErrAgeCategoryMismatch
}

// ValidateNationalID checks the 7-8 digit national ID format
func ValidateNationalID(value string) error {
	if !nationalIDPattern.MatchString(value) {
		return ErrInvalidNationalID
	}
	return nil
}

// ValidateNotFuture fails when the calendar date of date is strictly after today.
// Both arguments are reduced to calendar dates first.
func ValidateNotFuture(date, today time.Time) error {
	if shared.DateOf(date).After(shared.DateOf(today)) {
		return ErrFutureDate
	}
	return nil
}

// AgeOn returns the whole years elapsed between birthDate and today,
// subtracting one when the birthday has not been reached yet this year
func AgeOn(birthDate, today time.Time) int {
	by, bm, bd := birthDate.Date()
	ty, tm, td := today.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}

// ValidateAgeCategory checks the age bound of minor and elderly categories.
// Any other category passes.
func ValidateAgeCategory(birthDate time.Time, category Category, today time.Time) error {
	age := AgeOn(birthDate, today)
	switch category {
	case CategoryMinor:
		if age >= MinorMaxAge {
			return &AgeCategoryError{Age: age, Category: category}
		}
	case CategoryElderly:
		if age < ElderlyMinAge {
			return &AgeCategoryError{Age: age, Category: category}
		}
	}
	return nil
}

// ValidatePhone checks the loose phone format after removing all whitespace.
// An empty value means no phone and passes.
func ValidatePhone(value string) error {
	compact := StripSpaces(value)
	if compact == "" {
		return nil
	}
	if !phonePattern.MatchString(compact) {
		return ErrInvalidPhone
	}
	return nil
}

// StripSpaces removes every whitespace rune from value
func StripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
