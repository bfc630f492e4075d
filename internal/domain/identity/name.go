package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims, collapses inner whitespace and title-cases a person's
// name using Spanish casing rules ("maría  PÉREZ" -> "María Pérez")
func NormalizeName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	if collapsed == "" {
		return ""
	}
	return cases.Title(language.Spanish).String(norm.NFC.String(collapsed))
}

// SearchKey folds a name for accent- and case-insensitive matching
// ("Peña Núñez" -> "pena nunez")
func SearchKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
