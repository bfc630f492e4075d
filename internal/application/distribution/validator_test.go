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

var (
	testProgramID  = uuid.New()
	testProductID  = uuid.New()
	testLocationID = uuid.New()
	testDay        = shared.MustDate("2024-05-10")
)

type repoMocks struct {
	beneficiaries *testutil.MockBeneficiaryRepository
	catalog       *testutil.MockCatalogReader
	events        *testutil.MockEventRepository
	production    *testutil.MockProductionRepository
}

func newRepoMocks() *repoMocks {
	return &repoMocks{
		beneficiaries: new(testutil.MockBeneficiaryRepository),
		catalog:       new(testutil.MockCatalogReader),
		events:        new(testutil.MockEventRepository),
		production:    new(testutil.MockProductionRepository),
	}
}

func (m *repoMocks) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(m.beneficiaries, m.catalog, m.events, m.production)
}

func (m *repoMocks) withBread() {
	m.catalog.On("FindProduct", mock.Anything, testProductID).
		Return(&catalog.Product{ID: testProductID, Name: "Pan"}, nil)
}

func messages(t *testing.T, errs *shared.ValidationErrors, field string) []string {
	t.Helper()
	var out []string
	for _, fe := range errs.Errors {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

func TestValidator_ValidateSingle(t *testing.T) {
	beneficiaryID := uuid.New()
	cmd := SingleDistributionCommand{
		BeneficiaryID: beneficiaryID,
		ProductID:     testProductID,
		DeliveryDate:  testDay,
		Quantity:      2,
	}

	t.Run("valid", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(true, nil)
		m.events.On("ExistsForProductDay", mock.Anything, beneficiaryID, testProductID, testDay).Return(false, nil)
		m.events.On("CountForDay", mock.Anything, beneficiaryID, testDay).Return(int64(2), nil)

		errs, err := NewValidator(testutil.FixedClock()).ValidateSingle(context.Background(), m.scope(), cmd)
		require.NoError(t, err)
		assert.False(t, errs.HasErrors())
	})

	t.Run("duplicate product and daily limit", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(true, nil)
		m.events.On("ExistsForProductDay", mock.Anything, beneficiaryID, testProductID, testDay).Return(true, nil)
		m.events.On("CountForDay", mock.Anything, beneficiaryID, testDay).Return(int64(3), nil)

		errs, err := NewValidator(testutil.FixedClock()).ValidateSingle(context.Background(), m.scope(), cmd)
		require.NoError(t, err)
		assert.Equal(t, []string{"Beneficiary already received Pan on 2024-05-10"}, messages(t, errs, "product_id"))
		assert.Equal(t, []string{"Beneficiary already received 3 distributions on 2024-05-10, the daily limit is 3"},
			messages(t, errs, "delivery_date"))
	})

	t.Run("missing referents skip dependent checks", func(t *testing.T) {
		m := newRepoMocks()
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(false, nil)
		m.catalog.On("FindProduct", mock.Anything, testProductID).Return(nil, shared.ErrNotFound)

		bad := cmd
		bad.Quantity = 0
		bad.DeliveryDate = shared.MustDate("2024-05-16")
		errs, err := NewValidator(testutil.FixedClock()).ValidateSingle(context.Background(), m.scope(), bad)
		require.NoError(t, err)
		assert.True(t, errs.HasField("beneficiary_id"))
		assert.True(t, errs.HasField("product_id"))
		assert.True(t, errs.HasField("quantity"))
		assert.Equal(t, []string{"Delivery date cannot be in the future"}, messages(t, errs, "delivery_date"))
		m.events.AssertNotCalled(t, "ExistsForProductDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.events.AssertNotCalled(t, "CountForDay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty command reports every field", func(t *testing.T) {
		m := newRepoMocks()

		errs, err := NewValidator(testutil.FixedClock()).ValidateSingle(context.Background(), m.scope(), SingleDistributionCommand{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Beneficiary is required"}, messages(t, errs, "beneficiary_id"))
		assert.Equal(t, []string{"Product is required"}, messages(t, errs, "product_id"))
		assert.Equal(t, []string{"Quantity must be greater than zero"}, messages(t, errs, "quantity"))
		assert.Equal(t, []string{"Delivery date is required"}, messages(t, errs, "delivery_date"))
		m.beneficiaries.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
		m.catalog.AssertNotCalled(t, "FindProduct", mock.Anything, mock.Anything)
	})

	t.Run("keeps earlier parsing errors", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(true, nil)

		parsed := shared.NewValidationErrors()
		parsed.Add("delivery_date", "Date must be in YYYY-MM-DD format")
		noDate := cmd
		noDate.DeliveryDate = time.Time{}
		errs, err := NewValidator(testutil.FixedClock()).validateSingle(context.Background(), m.scope(), noDate, parsed)
		require.NoError(t, err)
		assert.Equal(t, []string{"Date must be in YYYY-MM-DD format"}, messages(t, errs, "delivery_date"))
		m.events.AssertNotCalled(t, "CountForDay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		m := newRepoMocks()
		boom := errors.New("timeout")
		m.beneficiaries.On("ExistsByID", mock.Anything, beneficiaryID).Return(false, boom)

		_, err := NewValidator(testutil.FixedClock()).ValidateSingle(context.Background(), m.scope(), cmd)
		assert.ErrorIs(t, err, boom)
	})
}

func TestValidator_ValidateBulk(t *testing.T) {
	ana, bruno, carla := uuid.New(), uuid.New(), uuid.New()

	t.Run("valid", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		ids := []uuid.UUID{ana, bruno}
		m.beneficiaries.On("FindNames", mock.Anything, ids).Return(map[uuid.UUID]string{ana: "Ana", bruno: "Bruno"}, nil)
		m.catalog.On("FindLocation", mock.Anything, testLocationID).Return(&catalog.Location{ID: testLocationID, Name: "Centro"}, nil)
		m.beneficiaries.On("CountInLocation", mock.Anything, testLocationID, ids).Return(int64(2), nil)
		m.events.On("FindProductDayConflicts", mock.Anything, ids, testProductID, testDay).Return([]string{}, nil)
		m.events.On("FindAtDailyLimit", mock.Anything, ids, testDay, distribution.DailyLimit).Return([]string{}, nil)

		errs, err := NewValidator(testutil.FixedClock()).ValidateBulk(context.Background(), m.scope(), BulkDistributionCommand{
			BeneficiaryIDs: ids, ProductID: testProductID, DeliveryDate: testDay, Quantity: 1, LocationID: &testLocationID,
		})
		require.NoError(t, err)
		assert.False(t, errs.HasErrors())
	})

	t.Run("every problem is reported", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		ids := []uuid.UUID{ana, bruno, carla}
		m.beneficiaries.On("FindNames", mock.Anything, ids).Return(map[uuid.UUID]string{ana: "Ana", bruno: "Bruno"}, nil)
		m.catalog.On("FindLocation", mock.Anything, testLocationID).Return(&catalog.Location{ID: testLocationID, Name: "Centro"}, nil)
		m.beneficiaries.On("CountInLocation", mock.Anything, testLocationID, ids).Return(int64(1), nil)
		m.events.On("FindProductDayConflicts", mock.Anything, ids, testProductID, testDay).Return([]string{"Ana"}, nil)
		m.events.On("FindAtDailyLimit", mock.Anything, ids, testDay, distribution.DailyLimit).Return([]string{"Bruno"}, nil)

		errs, err := NewValidator(testutil.FixedClock()).ValidateBulk(context.Background(), m.scope(), BulkDistributionCommand{
			BeneficiaryIDs: []uuid.UUID{ana, bruno, ana, carla}, ProductID: testProductID, DeliveryDate: testDay, Quantity: 1, LocationID: &testLocationID,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Beneficiary " + ana.String() + " is listed more than once",
			"Beneficiary " + carla.String() + " not found",
			"2 of the selected beneficiaries do not belong to Centro",
			"Already received Pan on 2024-05-10: Ana",
			"Daily limit of 3 reached on 2024-05-10: Bruno",
		}, messages(t, errs, "beneficiary_ids"))
	})

	t.Run("empty list", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()

		errs, err := NewValidator(testutil.FixedClock()).ValidateBulk(context.Background(), m.scope(), BulkDistributionCommand{
			ProductID: testProductID, DeliveryDate: testDay, Quantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"At least one beneficiary is required"}, messages(t, errs, "beneficiary_ids"))
		m.beneficiaries.AssertNotCalled(t, "FindNames", mock.Anything, mock.Anything)
	})

	t.Run("unknown location", func(t *testing.T) {
		m := newRepoMocks()
		m.withBread()
		ids := []uuid.UUID{ana}
		m.beneficiaries.On("FindNames", mock.Anything, ids).Return(map[uuid.UUID]string{ana: "Ana"}, nil)
		m.catalog.On("FindLocation", mock.Anything, testLocationID).Return(nil, shared.ErrNotFound)
		m.events.On("FindProductDayConflicts", mock.Anything, ids, testProductID, testDay).Return([]string{}, nil)
		m.events.On("FindAtDailyLimit", mock.Anything, ids, testDay, distribution.DailyLimit).Return([]string{}, nil)

		errs, err := NewValidator(testutil.FixedClock()).ValidateBulk(context.Background(), m.scope(), BulkDistributionCommand{
			BeneficiaryIDs: ids, ProductID: testProductID, DeliveryDate: testDay, Quantity: 1, LocationID: &testLocationID,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Location not found"}, messages(t, errs, "location_id"))
	})
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	errs := shared.NewValidationErrors()

	out := uniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}, errs)

	assert.Equal(t, []uuid.UUID{a, b}, out)
	assert.Len(t, errs.Errors, 2)
}
