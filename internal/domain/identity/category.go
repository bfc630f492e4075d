package identity

import "strings"

// Category is the code of a family condition category
type Category string

// Known family condition categories
const (
	CategoryElderly     Category = "ELDERLY"
	CategoryDisability  Category = "DISABILITY"
	CategoryMinor       Category = "MINOR"
	CategoryUnspecified Category = ""
)

// ParseCategory maps a catalog code to a Category; unknown codes become
// CategoryUnspecified, which carries no age rule
func ParseCategory(code string) Category {
	switch Category(strings.ToUpper(strings.TrimSpace(code))) {
	case CategoryElderly:
		return CategoryElderly
	case CategoryDisability:
		return CategoryDisability
	case CategoryMinor:
		return CategoryMinor
	default:
		return CategoryUnspecified
	}
}

// Label returns the human-readable label used in messages
func (c Category) Label() string {
	switch c {
	case CategoryElderly:
		return "Elderly"
	case CategoryDisability:
		return "Disability"
	case CategoryMinor:
		return "Minor"
	default:
		return "Unspecified"
	}
}

// AgeBound reports whether the category carries an age rule
func (c Category) AgeBound() bool {
	return c == CategoryElderly || c == CategoryMinor
}
