package persistence

import (
	"context"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements catalog.Reader using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// findOne loads a single catalog row by id into dest
func (r *GormCatalogRepository) findOne(ctx context.Context, dest any, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).First(dest, "id = ?", id).Error)
}

// FindLocation finds a location by ID
func (r *GormCatalogRepository) FindLocation(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	var m models.LocationModel
	if err := r.findOne(ctx, &m, id); err != nil {
		return nil, err
	}
	l := m.ToDomain()
	return &l, nil
}

// FindProduct finds a product by ID
func (r *GormCatalogRepository) FindProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.findOne(ctx, &m, id); err != nil {
		return nil, err
	}
	p := m.ToDomain()
	return &p, nil
}

// FindConditionCategory finds a family condition category by ID
func (r *GormCatalogRepository) FindConditionCategory(ctx context.Context, id uuid.UUID) (*catalog.ConditionCategory, error) {
	var m models.ConditionCategoryModel
	if err := r.findOne(ctx, &m, id); err != nil {
		return nil, err
	}
	c := m.ToDomain()
	return &c, nil
}

// FindEconomicCategory finds an economic maintenance category by ID
func (r *GormCatalogRepository) FindEconomicCategory(ctx context.Context, id uuid.UUID) (*catalog.EconomicCategory, error) {
	var m models.EconomicCategoryModel
	if err := r.findOne(ctx, &m, id); err != nil {
		return nil, err
	}
	c := m.ToDomain()
	return &c, nil
}

// FindProgram finds a social program by ID
func (r *GormCatalogRepository) FindProgram(ctx context.Context, id uuid.UUID) (*catalog.Program, error) {
	var m models.ProgramModel
	if err := r.findOne(ctx, &m, id); err != nil {
		return nil, err
	}
	p := m.ToDomain()
	return &p, nil
}

// ListLocations lists locations by name
func (r *GormCatalogRepository) ListLocations(ctx context.Context) ([]catalog.Location, error) {
	var rows []models.LocationModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]catalog.Location, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// ListProducts lists products by name
func (r *GormCatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// ListConditionCategories lists family condition categories by code
func (r *GormCatalogRepository) ListConditionCategories(ctx context.Context) ([]catalog.ConditionCategory, error) {
	var rows []models.ConditionCategoryModel
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]catalog.ConditionCategory, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// ListEconomicCategories lists economic maintenance categories by code
func (r *GormCatalogRepository) ListEconomicCategories(ctx context.Context) ([]catalog.EconomicCategory, error) {
	var rows []models.EconomicCategoryModel
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]catalog.EconomicCategory, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// ListPrograms lists social programs by code
func (r *GormCatalogRepository) ListPrograms(ctx context.Context) ([]catalog.Program, error) {
	var rows []models.ProgramModel
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]catalog.Program, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// Ensure GormCatalogRepository implements catalog.Reader
var _ catalog.Reader = (*GormCatalogRepository)(nil)
