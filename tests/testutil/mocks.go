package testutil

import (
	"context"
	"time"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/registry"
	"github.com/bakeryaid/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBeneficiaryRepository is a mock implementation of registry.BeneficiaryRepository
type MockBeneficiaryRepository struct {
	mock.Mock
}

func (m *MockBeneficiaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Beneficiary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Beneficiary), args.Error(1)
}

func (m *MockBeneficiaryRepository) FindByNationalID(ctx context.Context, nationalID string, excludeID *uuid.UUID) (*registry.Beneficiary, error) {
	args := m.Called(ctx, nationalID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Beneficiary), args.Error(1)
}

func (m *MockBeneficiaryRepository) FindAll(ctx context.Context, filter registry.BeneficiaryFilter) ([]registry.Beneficiary, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]registry.Beneficiary), args.Get(1).(int64), args.Error(2)
}

func (m *MockBeneficiaryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBeneficiaryRepository) CountInLocation(ctx context.Context, locationID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, locationID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBeneficiaryRepository) FindNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *MockBeneficiaryRepository) Create(ctx context.Context, b *registry.Beneficiary) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBeneficiaryRepository) Update(ctx context.Context, b *registry.Beneficiary) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBeneficiaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFamilyMemberRepository is a mock implementation of registry.FamilyMemberRepository
type MockFamilyMemberRepository struct {
	mock.Mock
}

func (m *MockFamilyMemberRepository) FindByBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) ([]registry.FamilyMember, error) {
	args := m.Called(ctx, beneficiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.FamilyMember), args.Error(1)
}

// MockCatalogReader is a mock implementation of catalog.Reader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) FindLocation(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockCatalogReader) FindProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogReader) FindConditionCategory(ctx context.Context, id uuid.UUID) (*catalog.ConditionCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ConditionCategory), args.Error(1)
}

func (m *MockCatalogReader) FindEconomicCategory(ctx context.Context, id uuid.UUID) (*catalog.EconomicCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.EconomicCategory), args.Error(1)
}

func (m *MockCatalogReader) FindProgram(ctx context.Context, id uuid.UUID) (*catalog.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Program), args.Error(1)
}

func (m *MockCatalogReader) ListLocations(ctx context.Context) ([]catalog.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *MockCatalogReader) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalogReader) ListConditionCategories(ctx context.Context) ([]catalog.ConditionCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ConditionCategory), args.Error(1)
}

func (m *MockCatalogReader) ListEconomicCategories(ctx context.Context) ([]catalog.EconomicCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.EconomicCategory), args.Error(1)
}

func (m *MockCatalogReader) ListPrograms(ctx context.Context) ([]catalog.Program, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Program), args.Error(1)
}

// MockEventRepository is a mock implementation of distribution.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*distribution.EventView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distribution.EventView), args.Error(1)
}

func (m *MockEventRepository) FindAll(ctx context.Context, filter distribution.EventFilter) ([]distribution.EventView, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]distribution.EventView), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) CountForDay(ctx context.Context, beneficiaryID uuid.UUID, date time.Time) (int64, error) {
	args := m.Called(ctx, beneficiaryID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) ExistsForProductDay(ctx context.Context, beneficiaryID, productID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, beneficiaryID, productID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) FindProductDayConflicts(ctx context.Context, ids []uuid.UUID, productID uuid.UUID, date time.Time) ([]string, error) {
	args := m.Called(ctx, ids, productID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEventRepository) FindAtDailyLimit(ctx context.Context, ids []uuid.UUID, date time.Time, limit int) ([]string, error) {
	args := m.Called(ctx, ids, date, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEventRepository) ExistsForBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, beneficiaryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *distribution.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) CreateBatch(ctx context.Context, events []*distribution.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockProductionRepository is a mock implementation of distribution.ProductionRepository
type MockProductionRepository struct {
	mock.Mock
}

func (m *MockProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*distribution.ProductionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distribution.ProductionView), args.Error(1)
}

func (m *MockProductionRepository) FindAll(ctx context.Context, filter distribution.ProductionFilter) ([]distribution.ProductionView, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]distribution.ProductionView), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductionRepository) Create(ctx context.Context, record *distribution.ProductionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockDashboardRepository is a mock implementation of report.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CountFamilies(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountFamiliesServed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountMembersServed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) MonthlyTrend(ctx context.Context) ([]report.MonthlyCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthlyCount), args.Error(1)
}

func (m *MockDashboardRepository) ProductTotals(ctx context.Context) ([]report.ProductTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ProductTotal), args.Error(1)
}

func (m *MockDashboardRepository) LocationRanking(ctx context.Context) ([]report.LocationRank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.LocationRank), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ registry.BeneficiaryRepository    = (*MockBeneficiaryRepository)(nil)
	_ registry.FamilyMemberRepository   = (*MockFamilyMemberRepository)(nil)
	_ catalog.Reader                    = (*MockCatalogReader)(nil)
	_ distribution.EventRepository      = (*MockEventRepository)(nil)
	_ distribution.ProductionRepository = (*MockProductionRepository)(nil)
	_ report.DashboardRepository        = (*MockDashboardRepository)(nil)
)
