package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDistributionEventRepository implements EventRepository using GORM
type GormDistributionEventRepository struct {
	db *gorm.DB
}

// NewGormDistributionEventRepository creates a new GormDistributionEventRepository
func NewGormDistributionEventRepository(db *gorm.DB) *GormDistributionEventRepository {
	return &GormDistributionEventRepository{db: db}
}

// eventRow is an event joined with the names of what it references
type eventRow struct {
	models.DistributionEventModel
	BeneficiaryName       string
	BeneficiaryNationalID string
	LocationID            uuid.UUID
	LocationName          string
	ProductName           string
	ProgramName           string
}

func (row *eventRow) toView() distribution.EventView {
	return distribution.EventView{
		Event:                 row.DistributionEventModel.ToDomain(),
		BeneficiaryName:       row.BeneficiaryName,
		BeneficiaryNationalID: row.BeneficiaryNationalID,
		LocationID:            row.LocationID,
		LocationName:          row.LocationName,
		ProductName:           row.ProductName,
		ProgramName:           row.ProgramName,
	}
}

const eventViewColumns = "e.*, b.name AS beneficiary_name, b.national_id AS beneficiary_national_id, " +
	"b.location_id AS location_id, l.name AS location_name, p.name AS product_name, pr.name AS program_name"

func (r *GormDistributionEventRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("distribution_events AS e").
		Joins("JOIN beneficiaries b ON b.id = e.beneficiary_id").
		Joins("JOIN locations l ON l.id = b.location_id").
		Joins("JOIN products p ON p.id = e.product_id").
		Joins("JOIN programs pr ON pr.id = e.program_id")
}

// FindByID finds an event with its referenced names
func (r *GormDistributionEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*distribution.EventView, error) {
	var rows []eventRow
	if err := r.joined(ctx).
		Select(eventViewColumns).
		Where("e.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	view := rows[0].toView()
	return &view, nil
}

// FindAll lists events with their referenced names
func (r *GormDistributionEventRepository) FindAll(ctx context.Context, filter distribution.EventFilter) ([]distribution.EventView, int64, error) {
	page := filter.Filter.Normalized()
	query := r.applyFilter(r.joined(ctx), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rows []eventRow
	if err := query.
		Select(eventViewColumns).
		Order(orderClause(page, DistributionEventSortFields, "delivery_date", "e")).
		Order("e.created_at DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	views := make([]distribution.EventView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].toView())
	}
	return views, total, nil
}

func (r *GormDistributionEventRepository) applyFilter(query *gorm.DB, filter distribution.EventFilter) *gorm.DB {
	if filter.DeliveryDate != nil {
		query = query.Where("e.delivery_date = ?", shared.DateOf(*filter.DeliveryDate))
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("e.delivery_date BETWEEN ? AND ?", shared.DateOf(*filter.StartDate), shared.DateOf(*filter.EndDate))
	}
	if filter.LocationID != nil {
		query = query.Where("b.location_id = ?", *filter.LocationID)
	}
	if nid := strings.TrimSpace(filter.NationalID); nid != "" {
		query = query.Where("b.national_id = ?", nid)
	}
	if filter.ProductID != nil {
		query = query.Where("e.product_id = ?", *filter.ProductID)
	}
	return query
}

// CountForDay counts the events of a beneficiary on a delivery date
func (r *GormDistributionEventRepository) CountForDay(ctx context.Context, beneficiaryID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DistributionEventModel{}).
		Where("beneficiary_id = ? AND delivery_date = ?", beneficiaryID, shared.DateOf(date)).
		Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// ExistsForProductDay checks if the beneficiary already got the product on date
func (r *GormDistributionEventRepository) ExistsForProductDay(ctx context.Context, beneficiaryID, productID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DistributionEventModel{}).
		Where("beneficiary_id = ? AND product_id = ? AND delivery_date = ?", beneficiaryID, productID, shared.DateOf(date)).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// ExistsForBeneficiary checks if the beneficiary has any event
func (r *GormDistributionEventRepository) ExistsForBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DistributionEventModel{}).
		Where("beneficiary_id = ?", beneficiaryID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindProductDayConflicts returns the names of the beneficiaries among ids
// that already got productID on date
func (r *GormDistributionEventRepository) FindProductDayConflicts(ctx context.Context, ids []uuid.UUID, productID uuid.UUID, date time.Time) ([]string, error) {
	names := make([]string, 0)
	if len(ids) == 0 {
		return names, nil
	}
	if err := r.db.WithContext(ctx).
		Table("distribution_events AS e").
		Joins("JOIN beneficiaries b ON b.id = e.beneficiary_id").
		Where("e.beneficiary_id IN ? AND e.product_id = ? AND e.delivery_date = ?", ids, productID, shared.DateOf(date)).
		Order("b.name").
		Pluck("b.name", &names).Error; err != nil {
		return nil, translateError(err)
	}
	return names, nil
}

// FindAtDailyLimit returns the names of the beneficiaries among ids that
// already have limit or more events on date
func (r *GormDistributionEventRepository) FindAtDailyLimit(ctx context.Context, ids []uuid.UUID, date time.Time, limit int) ([]string, error) {
	names := make([]string, 0)
	if len(ids) == 0 {
		return names, nil
	}
	if err := r.db.WithContext(ctx).
		Table("distribution_events AS e").
		Joins("JOIN beneficiaries b ON b.id = e.beneficiary_id").
		Where("e.beneficiary_id IN ? AND e.delivery_date = ?", ids, shared.DateOf(date)).
		Group("e.beneficiary_id, b.name").
		Having("COUNT(*) >= ?", limit).
		Order("b.name").
		Pluck("b.name", &names).Error; err != nil {
		return nil, translateError(err)
	}
	return names, nil
}

// Create inserts one event
func (r *GormDistributionEventRepository) Create(ctx context.Context, event *distribution.Event) error {
	model := models.DistributionEventModelFromDomain(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// CreateBatch inserts all events as one multi-row INSERT
func (r *GormDistributionEventRepository) CreateBatch(ctx context.Context, events []*distribution.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]*models.DistributionEventModel, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.DistributionEventModelFromDomain(e))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GormProductionRecordRepository implements ProductionRepository using GORM
type GormProductionRecordRepository struct {
	db *gorm.DB
}

// NewGormProductionRecordRepository creates a new GormProductionRecordRepository
func NewGormProductionRecordRepository(db *gorm.DB) *GormProductionRecordRepository {
	return &GormProductionRecordRepository{db: db}
}

type productionRow struct {
	models.ProductionRecordModel
	ProductName string
}

func (r *GormProductionRecordRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("production_records AS pr").
		Joins("JOIN products p ON p.id = pr.product_id")
}

// FindByID finds a production record with its product name
func (r *GormProductionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*distribution.ProductionView, error) {
	var rows []productionRow
	if err := r.joined(ctx).
		Select("pr.*, p.name AS product_name").
		Where("pr.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	return &distribution.ProductionView{
		ProductionRecord: rows[0].ToDomain(),
		ProductName:      rows[0].ProductName,
	}, nil
}

// FindAll lists production records matching the filter
func (r *GormProductionRecordRepository) FindAll(ctx context.Context, filter distribution.ProductionFilter) ([]distribution.ProductionView, int64, error) {
	page := filter.Filter.Normalized()
	query := r.joined(ctx)
	if filter.Date != nil {
		query = query.Where("pr.production_date = ?", shared.DateOf(*filter.Date))
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("pr.production_date BETWEEN ? AND ?", shared.DateOf(*filter.StartDate), shared.DateOf(*filter.EndDate))
	}
	if filter.ProductID != nil {
		query = query.Where("pr.product_id = ?", *filter.ProductID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rows []productionRow
	if err := query.
		Select("pr.*, p.name AS product_name").
		Order(orderClause(page, ProductionRecordSortFields, "production_date", "pr")).
		Limit(page.PageSize).
		Offset(page.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	views := make([]distribution.ProductionView, 0, len(rows))
	for i := range rows {
		views = append(views, distribution.ProductionView{
			ProductionRecord: rows[i].ToDomain(),
			ProductName:      rows[i].ProductName,
		})
	}
	return views, total, nil
}

// Create inserts a production record
func (r *GormProductionRecordRepository) Create(ctx context.Context, record *distribution.ProductionRecord) error {
	if err := r.db.WithContext(ctx).Create(models.ProductionRecordModelFromDomain(record)).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ distribution.EventRepository      = (*GormDistributionEventRepository)(nil)
	_ distribution.ProductionRepository = (*GormProductionRecordRepository)(nil)
)
