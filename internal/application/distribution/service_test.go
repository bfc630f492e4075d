package distribution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDistributionService(m *repoMocks) *DistributionService {
	return NewDistributionService(m.scope(), m.events, testutil.FixedClock(), testProgramID)
}

func TestDistributionService_CreateSingle(t *testing.T) {
	beneficiaryID := uuid.New()

	expectValid := func(m *repoMocks) {
		m.withBread()
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(true, nil)
		m.events.On("ExistsForProductDay", mock.Anything, beneficiaryID, testProductID, testDay).Return(false, nil)
		m.events.On("CountForDay", mock.Anything, beneficiaryID, testDay).Return(int64(0), nil)
	}

	t.Run("creates with the default program", func(t *testing.T) {
		m := newRepoMocks()
		expectValid(m)
		var created *distribution.Event
		view := &distribution.EventView{BeneficiaryName: "Ana", ProductName: "Pan", LocationID: testLocationID}
		m.events.On("Create", mock.Anything, mock.AnythingOfType("*distribution.Event")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*distribution.Event)
				view.Event = *created
			}).
			Return(nil)
		m.events.On("FindByID", mock.Anything, mock.Anything).Return(view, nil)

		resp, err := newTestDistributionService(m).CreateSingle(context.Background(), CreateDistributionRequest{
			BeneficiaryID: beneficiaryID, ProductID: testProductID, DeliveryDate: "2024-05-10", Quantity: 2, Detail: " retiro ",
		})
		require.NoError(t, err)
		assert.Equal(t, testProgramID, created.ProgramID)
		assert.Equal(t, "retiro", resp.Detail)
		assert.Equal(t, "2024-05-10", resp.DeliveryDate)
		assert.Equal(t, "Pan", resp.ProductName)
		require.NotNil(t, resp.LocationID)
		assert.Equal(t, testLocationID, *resp.LocationID)
	})

	t.Run("unknown program", func(t *testing.T) {
		m := newRepoMocks()
		expectValid(m)
		programID := uuid.New()
		m.catalog.On("FindProgram", mock.Anything, programID).Return(nil, shared.ErrNotFound)

		_, err := newTestDistributionService(m).CreateSingle(context.Background(), CreateDistributionRequest{
			BeneficiaryID: beneficiaryID, ProductID: testProductID, DeliveryDate: "2024-05-10", Quantity: 1, ProgramID: &programID,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.HasField("program_id"))
		m.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed date is reported with the other errors", func(t *testing.T) {
		m := newRepoMocks()
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(false, nil)
		m.catalog.On("FindProduct", mock.Anything, testProductID).Return(nil, shared.ErrNotFound)

		_, err := newTestDistributionService(m).CreateSingle(context.Background(), CreateDistributionRequest{
			BeneficiaryID: beneficiaryID, ProductID: testProductID, DeliveryDate: "10/05/2024", Quantity: 0,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{"Date must be in YYYY-MM-DD format"}, messages(t, verrs, "delivery_date"))
		assert.True(t, verrs.HasField("beneficiary_id"))
		assert.True(t, verrs.HasField("product_id"))
		assert.True(t, verrs.HasField("quantity"))
		m.events.AssertNotCalled(t, "CountForDay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write collision becomes a field error", func(t *testing.T) {
		m := newRepoMocks()
		expectValid(m)
		m.events.On("Create", mock.Anything, mock.Anything).Return(shared.ErrDuplicateKey)

		_, err := newTestDistributionService(m).CreateSingle(context.Background(), CreateDistributionRequest{
			BeneficiaryID: beneficiaryID, ProductID: testProductID, DeliveryDate: "2024-05-10", Quantity: 1,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.HasField("product_id"))
	})

	t.Run("infrastructure failure aborts", func(t *testing.T) {
		m := newRepoMocks()
		expectValid(m)
		m.events.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := newTestDistributionService(m).CreateSingle(context.Background(), CreateDistributionRequest{
			BeneficiaryID: beneficiaryID, ProductID: testProductID, DeliveryDate: "2024-05-10", Quantity: 1,
		})
		assert.ErrorIs(t, err, shared.ErrTransactionAborted)
	})
}

func TestDistributionService_CreateBulk(t *testing.T) {
	ana, bruno := uuid.New(), uuid.New()
	ids := []uuid.UUID{ana, bruno}

	m := newRepoMocks()
	m.withBread()
	names := map[uuid.UUID]string{ana: "Ana", bruno: "Bruno"}
	m.beneficiaries.On("FindNames", mock.Anything, ids).Return(names, nil)
	m.catalog.On("FindLocation", mock.Anything, testLocationID).Return(&catalog.Location{ID: testLocationID, Name: "Centro"}, nil)
	m.beneficiaries.On("CountInLocation", mock.Anything, testLocationID, ids).Return(int64(2), nil)
	m.events.On("FindProductDayConflicts", mock.Anything, ids, testProductID, testDay).Return([]string{}, nil)
	m.events.On("FindAtDailyLimit", mock.Anything, ids, testDay, distribution.DailyLimit).Return([]string{}, nil)
	m.events.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []*distribution.Event) bool {
		return len(batch) == 2 && batch[0].BeneficiaryID == ana && batch[1].BeneficiaryID == bruno
	})).Return(nil)

	resp, err := newTestDistributionService(m).CreateBulk(context.Background(), CreateBulkDistributionRequest{
		BeneficiaryIDs: ids,
		ProductID:      testProductID,
		DeliveryDate:   "2024-05-10",
		Quantity:       1,
		LocationID:     &testLocationID,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "Ana", resp.Events[0].BeneficiaryName)
	assert.Equal(t, "Bruno", resp.Events[1].BeneficiaryName)
	for _, e := range resp.Events {
		assert.Equal(t, "Entrega masiva CIC Centro", e.Detail)
		assert.Equal(t, testProgramID, e.ProgramID)
	}
	m.events.AssertExpectations(t)
}

func TestDistributionService_CreateBulk_InvalidNothingWritten(t *testing.T) {
	m := newRepoMocks()
	m.catalog.On("FindProduct", mock.Anything, testProductID).Return(nil, shared.ErrNotFound)

	_, err := newTestDistributionService(m).CreateBulk(context.Background(), CreateBulkDistributionRequest{
		BeneficiaryIDs: []uuid.UUID{},
		ProductID:      testProductID,
		DeliveryDate:   "2024-05-10",
		Quantity:       1,
	})

	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("beneficiary_ids"))
	assert.True(t, verrs.HasField("product_id"))
	m.events.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestDistributionService_CheckDailyLimit(t *testing.T) {
	m := newRepoMocks()
	id := uuid.New()
	m.events.On("CountForDay", mock.Anything, id, testDay).Return(int64(1), nil)

	resp, err := newTestDistributionService(m).CheckDailyLimit(context.Background(), id, testDay.Add(9*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", resp.Date)
	assert.Equal(t, int64(1), resp.Count)
	assert.Equal(t, 3, resp.Limit)
	assert.Equal(t, int64(2), resp.Remaining)
}

func TestDistributionService_List(t *testing.T) {
	m := newRepoMocks()
	svc := newTestDistributionService(m)

	_, _, err := svc.List(context.Background(), EventListFilter{StartDate: "2024-05-10", EndDate: "2024-05-01"})
	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("end_date"))

	m.events.On("FindAll", mock.Anything, mock.MatchedBy(func(f distribution.EventFilter) bool {
		return f.ProductID != nil && *f.ProductID == testProductID && f.DeliveryDate != nil
	})).Return([]distribution.EventView{{Event: distribution.Event{ID: uuid.New(), DeliveryDate: testDay}}}, int64(1), nil)

	items, total, err := svc.List(context.Background(), EventListFilter{DeliveryDate: "2024-05-10", ProductID: testProductID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].LocationID)
}

func TestDistributionService_Today(t *testing.T) {
	svc := newTestDistributionService(newRepoMocks())
	assert.Equal(t, "2024-05-15", shared.FormatDate(svc.Today()))
}

func TestProductionService_Create(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		m.production.On("Create", mock.Anything, mock.AnythingOfType("*distribution.ProductionRecord")).Return(nil)

		resp, err := NewProductionService(m.scope(), m.production, testutil.FixedClock()).Create(context.Background(), CreateProductionRequest{
			ProductID: testProductID, ProductionDate: "2024-05-15", Quantity: 200,
		})
		require.NoError(t, err)
		assert.Equal(t, "Pan", resp.ProductName)
		assert.Equal(t, 200, resp.Quantity)
	})

	t.Run("invalid", func(t *testing.T) {
		m := newRepoMocks()
		m.catalog.On("FindProduct", mock.Anything, testProductID).Return(nil, shared.ErrNotFound)

		_, err := NewProductionService(m.scope(), m.production, testutil.FixedClock()).Create(context.Background(), CreateProductionRequest{
			ProductID: testProductID, ProductionDate: "2024-05-20", Quantity: 0,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.HasField("production_date"))
		assert.True(t, verrs.HasField("quantity"))
		assert.True(t, verrs.HasField("product_id"))
		m.production.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
