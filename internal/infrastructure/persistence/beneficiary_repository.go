package persistence

import (
	"context"
	"strings"

	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/registry"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBeneficiaryRepository implements BeneficiaryRepository using GORM
type GormBeneficiaryRepository struct {
	db *gorm.DB
}

// NewGormBeneficiaryRepository creates a new GormBeneficiaryRepository
func NewGormBeneficiaryRepository(db *gorm.DB) *GormBeneficiaryRepository {
	return &GormBeneficiaryRepository{db: db}
}

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a beneficiary with its members
func (r *GormBeneficiaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Beneficiary, error) {
	var model models.BeneficiaryModel
	if err := r.db.WithContext(ctx).
		Preload("Members", orderedMembers).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNationalID finds a beneficiary by national ID, skipping excludeID
func (r *GormBeneficiaryRepository) FindByNationalID(ctx context.Context, nationalID string, excludeID *uuid.UUID) (*registry.Beneficiary, error) {
	query := r.db.WithContext(ctx).Where("national_id = ?", strings.TrimSpace(nationalID))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var model models.BeneficiaryModel
	if err := query.First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists beneficiaries matching the filter, without members
func (r *GormBeneficiaryRepository) FindAll(ctx context.Context, filter registry.BeneficiaryFilter) ([]registry.Beneficiary, int64, error) {
	page := filter.Filter.Normalized()
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BeneficiaryModel{}), filter).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rows []models.BeneficiaryModel
	if err := query.
		Order(orderClause(page, BeneficiarySortFields, "created_at", "")).
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	result := make([]registry.Beneficiary, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].ToDomain())
	}
	return result, total, nil
}

func (r *GormBeneficiaryRepository) applyFilter(query *gorm.DB, filter registry.BeneficiaryFilter) *gorm.DB {
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if nid := strings.TrimSpace(filter.NationalID); nid != "" {
		query = query.Where("national_id = ?", nid)
	}
	search := filter.Name
	if search == "" {
		search = filter.Search
	}
	if key := identity.SearchKey(search); key != "" {
		query = query.Where("search_key LIKE ?", "%"+key+"%")
	}
	return query
}

// ExistsByID checks if a beneficiary exists
func (r *GormBeneficiaryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BeneficiaryModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// CountInLocation counts how many of ids belong to locationID
func (r *GormBeneficiaryRepository) CountInLocation(ctx context.Context, locationID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BeneficiaryModel{}).
		Where("location_id = ? AND id IN ?", locationID, ids).
		Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindNames maps each existing id to the beneficiary name
func (r *GormBeneficiaryRepository) FindNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	if err := r.db.WithContext(ctx).Model(&models.BeneficiaryModel{}).
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// Create inserts the beneficiary and all of its members
func (r *GormBeneficiaryRepository) Create(ctx context.Context, b *registry.Beneficiary) error {
	model := models.BeneficiaryModelFromDomain(b)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	if len(model.Members) == 0 {
		return nil
	}
	if err := db.Create(&model.Members).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update writes the beneficiary row and replaces its whole member set
func (r *GormBeneficiaryRepository) Update(ctx context.Context, b *registry.Beneficiary) error {
	model := models.BeneficiaryModelFromDomain(b)
	db := r.db.WithContext(ctx)

	result := db.Model(&models.BeneficiaryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
			"national_id":          model.NationalID,
			"name":                 model.Name,
			"search_key":           model.SearchKey,
			"phone":                model.Phone,
			"address":              model.Address,
			"survey_date":          model.SurveyDate,
			"location_id":          model.LocationID,
			"economic_category_id": model.EconomicCategoryID,
			"firewood_aid":         model.FirewoodAid,
			"community_activities": model.CommunityActivities,
			"formal_income":        model.FormalIncome,
			"home_garden":          model.HomeGarden,
			"notes":                model.Notes,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	if err := db.Where("beneficiary_id = ?", model.ID).Delete(&models.FamilyMemberModel{}).Error; err != nil {
		return translateError(err)
	}
	if len(model.Members) == 0 {
		return nil
	}
	if err := db.Create(&model.Members).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Delete removes the members and then the beneficiary
func (r *GormBeneficiaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("beneficiary_id = ?", id).Delete(&models.FamilyMemberModel{}).Error; err != nil {
		return translateError(err)
	}
	result := db.Delete(&models.BeneficiaryModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormFamilyMemberRepository implements FamilyMemberRepository using GORM
type GormFamilyMemberRepository struct {
	db *gorm.DB
}

// NewGormFamilyMemberRepository creates a new GormFamilyMemberRepository
func NewGormFamilyMemberRepository(db *gorm.DB) *GormFamilyMemberRepository {
	return &GormFamilyMemberRepository{db: db}
}

// FindByBeneficiary lists the members of one beneficiary in submission order
func (r *GormFamilyMemberRepository) FindByBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) ([]registry.FamilyMember, error) {
	var rows []models.FamilyMemberModel
	if err := orderedMembers(r.db.WithContext(ctx)).
		Where("beneficiary_id = ?", beneficiaryID).
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	members := make([]registry.FamilyMember, 0, len(rows))
	for i := range rows {
		members = append(members, rows[i].ToDomain())
	}
	return members, nil
}

// Ensure interfaces are implemented
var (
	_ registry.BeneficiaryRepository  = (*GormBeneficiaryRepository)(nil)
	_ registry.FamilyMemberRepository = (*GormFamilyMemberRepository)(nil)
)
