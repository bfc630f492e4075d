package persistence

import (
	"strings"

	"github.com/bakeryaid/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BeneficiarySortFields contains allowed sort fields for beneficiaries
var BeneficiarySortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"national_id": true,
	"survey_date": true,
}

// DistributionEventSortFields contains allowed sort fields for distribution events
var DistributionEventSortFields = map[string]bool{
	"created_at":    true,
	"delivery_date": true,
	"quantity":      true,
}

// ProductionRecordSortFields contains allowed sort fields for production records
var ProductionRecordSortFields = map[string]bool{
	"created_at":      true,
	"production_date": true,
	"quantity":        true,
}

// orderClause builds a whitelisted "column DIR" clause, prefixing the column
// with alias when the query joins other tables
func orderClause(filter shared.Filter, allowed map[string]bool, defaultField, alias string) string {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	if alias != "" {
		field = alias + "." + field
	}
	return field + " " + ValidateSortOrder(filter.OrderDir)
}
