package persistence

import (
	"context"

	"github.com/bakeryaid/backend/internal/domain/report"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountFamilies counts registered beneficiaries
func (r *GormDashboardRepository) CountFamilies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BeneficiaryModel{}).Count(&count).Error
	return count, translateError(err)
}

// CountFamiliesServed counts beneficiaries with at least one event
func (r *GormDashboardRepository) CountFamiliesServed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DistributionEventModel{}).
		Distinct("beneficiary_id").
		Count(&count).Error
	return count, translateError(err)
}

// CountMembersServed counts family members of beneficiaries with at least one event
func (r *GormDashboardRepository) CountMembersServed(ctx context.Context) (int64, error) {
	served := r.db.Model(&models.DistributionEventModel{}).Select("DISTINCT beneficiary_id")

	var count int64
	err := r.db.WithContext(ctx).Model(&models.FamilyMemberModel{}).
		Where("beneficiary_id IN (?)", served).
		Count(&count).Error
	return count, translateError(err)
}

// monthExpr formats delivery_date as YYYY-MM in the active dialect
func (r *GormDashboardRepository) monthExpr() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m', delivery_date)"
	}
	return "to_char(delivery_date, 'YYYY-MM')"
}

// MonthlyTrend counts events per month, oldest first
func (r *GormDashboardRepository) MonthlyTrend(ctx context.Context) ([]report.MonthlyCount, error) {
	month := r.monthExpr()
	rows := make([]report.MonthlyCount, 0)
	err := r.db.WithContext(ctx).Model(&models.DistributionEventModel{}).
		Select(month + " AS month, COUNT(*) AS events").
		Group(month).
		Order("month ASC").
		Scan(&rows).Error
	return rows, translateError(err)
}

// ProductTotals sums distributed quantity per product, largest first
func (r *GormDashboardRepository) ProductTotals(ctx context.Context) ([]report.ProductTotal, error) {
	rows := make([]report.ProductTotal, 0)
	err := r.db.WithContext(ctx).
		Table("distribution_events AS e").
		Joins("JOIN products p ON p.id = e.product_id").
		Select("p.name AS product, SUM(e.quantity) AS quantity").
		Group("p.name").
		Order("quantity DESC, p.name ASC").
		Scan(&rows).Error
	return rows, translateError(err)
}

// LocationRanking counts events and distinct families per location, busiest first
func (r *GormDashboardRepository) LocationRanking(ctx context.Context) ([]report.LocationRank, error) {
	rows := make([]report.LocationRank, 0)
	err := r.db.WithContext(ctx).
		Table("distribution_events AS e").
		Joins("JOIN beneficiaries b ON b.id = e.beneficiary_id").
		Joins("JOIN locations l ON l.id = b.location_id").
		Select("l.name AS location, COUNT(e.id) AS events, COUNT(DISTINCT e.beneficiary_id) AS families").
		Group("l.name").
		Order("events DESC, l.name ASC").
		Scan(&rows).Error
	return rows, translateError(err)
}

// Ensure GormDashboardRepository implements report.DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
