// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared id/timestamp/version columns
//   - catalog.go: read-only reference tables (locations, products, categories, programs)
//   - registry.go: beneficiaries and family members
//   - distribution.go: distribution events and production records
//
// The PostgreSQL schema is owned by the SQL migrations; AllModels exists for
// AutoMigrate on SQLite in development and tests.
package models

// AllModels returns every persistence model in dependency order
func AllModels() []any {
	return []any{
		&LocationModel{},
		&ProductModel{},
		&ConditionCategoryModel{},
		&EconomicCategoryModel{},
		&ProgramModel{},
		&BeneficiaryModel{},
		&FamilyMemberModel{},
		&DistributionEventModel{},
		&ProductionRecordModel{},
	}
}
