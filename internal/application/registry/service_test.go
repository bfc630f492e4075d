package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/registry"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testProgramID  = uuid.New()
	testLocationID = uuid.New()
	testMinorID    = uuid.New()
	testElderlyID  = uuid.New()
)

type serviceMocks struct {
	repo    *testutil.MockBeneficiaryRepository
	members *testutil.MockFamilyMemberRepository
	catalog *testutil.MockCatalogReader
	events  *testutil.MockEventRepository
}

func newTestService() (*BeneficiaryService, *serviceMocks) {
	m := &serviceMocks{
		repo:    new(testutil.MockBeneficiaryRepository),
		members: new(testutil.MockFamilyMemberRepository),
		catalog: new(testutil.MockCatalogReader),
		events:  new(testutil.MockEventRepository),
	}
	svc := NewBeneficiaryService(
		NewNoOpTransactionScope(m.repo, m.catalog, m.events),
		m.repo,
		m.members,
		testutil.FixedClock(),
		testProgramID,
	)
	return svc, m
}

func (m *serviceMocks) expectCatalog() {
	m.catalog.On("FindLocation", mock.Anything, testLocationID).
		Return(&catalog.Location{ID: testLocationID, Name: "Centro"}, nil)
	m.catalog.On("ListConditionCategories", mock.Anything).Return([]catalog.ConditionCategory{
		{ID: testMinorID, Code: "MINOR"},
		{ID: testElderlyID, Code: "ELDERLY"},
	}, nil)
}

func validRequest() RegisterBeneficiaryRequest {
	return RegisterBeneficiaryRequest{
		NationalID: "30111222",
		Name:       "  maría   gómez ",
		Phone:      "3514445566",
		SurveyDate: "2024-03-01",
		LocationID: testLocationID,
		Members: []FamilyMemberRequest{
			{Name: "lucas gómez", NationalID: "45111222", BirthDate: "2015-06-01", ConditionCategoryID: &testMinorID},
		},
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs *shared.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	fields := make([]string, 0, len(verrs.Errors))
	for _, fe := range verrs.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestBeneficiaryService_Register(t *testing.T) {
	svc, m := newTestService()
	m.expectCatalog()
	m.repo.On("FindByNationalID", mock.Anything, "30111222", (*uuid.UUID)(nil)).Return(nil, shared.ErrNotFound)
	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*registry.Beneficiary")).Return(nil)

	resp, err := svc.Register(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "María Gómez", resp.Name)
	assert.Equal(t, testProgramID, resp.ProgramID)
	assert.Equal(t, "2024-03-01", resp.SurveyDate)
	assert.Equal(t, 2, resp.PeopleCount)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, "Lucas Gómez", resp.Members[0].Name)
	require.NotNil(t, resp.Members[0].Age)
	assert.Equal(t, 8, *resp.Members[0].Age)
	m.repo.AssertExpectations(t)
}

func TestBeneficiaryService_Register_CollectsAllErrors(t *testing.T) {
	svc, m := newTestService()
	missingLocation := uuid.New()
	m.catalog.On("FindLocation", mock.Anything, missingLocation).Return(nil, shared.ErrNotFound)
	m.catalog.On("ListConditionCategories", mock.Anything).Return([]catalog.ConditionCategory{
		{ID: testElderlyID, Code: "ELDERLY"},
	}, nil)

	req := RegisterBeneficiaryRequest{
		NationalID: "12ab",
		Name:       "Maria",
		SurveyDate: "2024-06-01",
		LocationID: missingLocation,
		Members: []FamilyMemberRequest{
			{Name: "Abuela", NationalID: "12345", BirthDate: "1990-01-01", ConditionCategoryID: &testElderlyID},
			{Name: "Tio", NationalID: "40111222", ConditionCategoryID: &testMinorID},
		},
	}
	_, err := svc.Register(context.Background(), req)

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "national_id")
	assert.Contains(t, fields, "survey_date")
	assert.Contains(t, fields, "location_id")
	assert.Contains(t, fields, "members[0].national_id")
	assert.Contains(t, fields, "members[0].condition_category_id")
	assert.Contains(t, fields, "members[1].condition_category_id")
	m.repo.AssertNotCalled(t, "FindByNationalID", mock.Anything, mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBeneficiaryService_Register_DuplicateLeadsErrors(t *testing.T) {
	svc, m := newTestService()
	m.expectCatalog()
	existing := &registry.Beneficiary{Name: "Ana Diaz"}
	m.repo.On("FindByNationalID", mock.Anything, "30111222", (*uuid.UUID)(nil)).Return(existing, nil)

	req := validRequest()
	req.Phone = "12"
	_, err := svc.Register(context.Background(), req)

	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.NotEmpty(t, verrs.Errors)
	assert.Equal(t, "national_id", verrs.Errors[0].Field)
	assert.Equal(t, "National ID 30111222 is already registered for Ana Diaz", verrs.Errors[0].Message)
	assert.True(t, verrs.HasField("phone"))
}

func TestBeneficiaryService_Register_WriteCollision(t *testing.T) {
	svc, m := newTestService()
	m.expectCatalog()
	m.repo.On("FindByNationalID", mock.Anything, "30111222", (*uuid.UUID)(nil)).Return(nil, shared.ErrNotFound).Once()
	m.repo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrDuplicateKey)
	m.repo.On("FindByNationalID", mock.Anything, "30111222", (*uuid.UUID)(nil)).Return(&registry.Beneficiary{Name: "Ana Diaz"}, nil)

	_, err := svc.Register(context.Background(), validRequest())

	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []shared.FieldError{{Field: "national_id", Message: "National ID 30111222 is already registered for Ana Diaz"}}, verrs.Errors)
}

func TestBeneficiaryService_Register_StoreFailure(t *testing.T) {
	svc, m := newTestService()
	boom := errors.New("connection reset")
	m.repo.On("FindByNationalID", mock.Anything, "30111222", (*uuid.UUID)(nil)).Return(nil, boom)

	_, err := svc.Register(context.Background(), validRequest())

	assert.ErrorIs(t, err, shared.ErrTransactionAborted)
	assert.ErrorIs(t, err, boom)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBeneficiaryService_Update(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService()
		id := uuid.New()
		m.repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(context.Background(), id, UpdateBeneficiaryRequest(validRequest()))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("replaces members and excludes itself from the uniqueness check", func(t *testing.T) {
		svc, m := newTestService()
		m.expectCatalog()
		current, err := registry.NewBeneficiary(testProgramID, registry.Profile{
			NationalID: "30111222", Name: "Maria Gomez", SurveyDate: shared.MustDate("2024-01-01"), LocationID: testLocationID,
		})
		require.NoError(t, err)
		current.ReplaceMembers([]registry.MemberProfile{{Name: "A", NationalID: "41000001"}, {Name: "B", NationalID: "41000002"}})
		id := current.ID

		m.repo.On("FindByID", mock.Anything, id).Return(current, nil)
		m.repo.On("FindByNationalID", mock.Anything, "30111222", &id).Return(nil, shared.ErrNotFound)
		m.repo.On("Update", mock.Anything, current).Return(nil)

		resp, err := svc.Update(context.Background(), id, UpdateBeneficiaryRequest(validRequest()))
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Version)
		require.Len(t, resp.Members, 1)
		assert.Equal(t, "45111222", resp.Members[0].NationalID)
		m.repo.AssertExpectations(t)
	})
}

func TestBeneficiaryService_Delete(t *testing.T) {
	t.Run("refuses served household", func(t *testing.T) {
		svc, m := newTestService()
		id := uuid.New()
		m.repo.On("ExistsByID", mock.Anything, id).Return(true, nil)
		m.events.On("ExistsForBeneficiary", mock.Anything, id).Return(true, nil)

		err := svc.Delete(context.Background(), id)
		assert.ErrorIs(t, err, registry.ErrHasDistributions)
		m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService()
		id := uuid.New()
		m.repo.On("ExistsByID", mock.Anything, id).Return(false, nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), id), shared.ErrNotFound)
	})

	t.Run("deletes", func(t *testing.T) {
		svc, m := newTestService()
		id := uuid.New()
		m.repo.On("ExistsByID", mock.Anything, id).Return(true, nil)
		m.events.On("ExistsForBeneficiary", mock.Anything, id).Return(false, nil)
		m.repo.On("Delete", mock.Anything, id).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), id))
		m.repo.AssertExpectations(t)
	})
}

func TestBeneficiaryService_CheckNationalIDExists(t *testing.T) {
	svc, m := newTestService()
	existingID := uuid.New()
	m.repo.On("FindByNationalID", mock.Anything, "30111222", (*uuid.UUID)(nil)).
		Return(&registry.Beneficiary{BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: existingID}}, Name: "Ana"}, nil)
	m.repo.On("FindByNationalID", mock.Anything, "30999888", (*uuid.UUID)(nil)).Return(nil, shared.ErrNotFound)

	resp, err := svc.CheckNationalIDExists(context.Background(), " 30111222 ", nil)
	require.NoError(t, err)
	assert.True(t, resp.Exists)
	assert.Equal(t, "Ana", resp.MatchedName)
	assert.Equal(t, &existingID, resp.BeneficiaryID)

	resp, err = svc.CheckNationalIDExists(context.Background(), "30999888", nil)
	require.NoError(t, err)
	assert.False(t, resp.Exists)

	_, err = svc.CheckNationalIDExists(context.Background(), "  ", nil)
	assert.Equal(t, []string{"national_id"}, fieldsOf(t, err))
}

func TestBeneficiaryService_List(t *testing.T) {
	svc, m := newTestService()

	_, _, err := svc.List(context.Background(), BeneficiaryListFilter{LocationID: "nope"})
	assert.Equal(t, []string{"location_id"}, fieldsOf(t, err))

	m.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f registry.BeneficiaryFilter) bool {
		return f.LocationID != nil && *f.LocationID == testLocationID && f.Page == 1 && f.PageSize == 10
	})).Return([]registry.Beneficiary{{Name: "Ana", SurveyDate: shared.MustDate("2024-01-02")}}, int64(1), nil)

	items, total, err := svc.List(context.Background(), BeneficiaryListFilter{LocationID: testLocationID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-01-02", items[0].SurveyDate)
}

func TestBeneficiaryService_ListMembers(t *testing.T) {
	svc, m := newTestService()
	id := uuid.New()
	birth := shared.MustDate("1960-05-16")
	m.repo.On("ExistsByID", mock.Anything, id).Return(true, nil)
	m.members.On("FindByBeneficiary", mock.Anything, id).Return([]registry.FamilyMember{
		{Name: "Abuelo", NationalID: "10111222", BirthDate: &birth},
	}, nil)

	members, err := svc.ListMembers(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].Age)
	assert.Equal(t, 63, *members[0].Age, "birthday falls the day after today")
	assert.Equal(t, "1960-05-16", *members[0].BirthDate)

	missing := uuid.New()
	m.repo.On("ExistsByID", mock.Anything, missing).Return(false, nil)
	_, err = svc.ListMembers(context.Background(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
