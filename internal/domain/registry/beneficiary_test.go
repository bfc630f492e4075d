package registry

import (
	"testing"
	"time"

	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		NationalID: "30111222",
		Name:       "  ana   GÓMEZ ",
		Phone:      "379 4123456",
		Address:    " Calle 1 ",
		SurveyDate: time.Date(2024, 4, 10, 15, 30, 0, 0, time.UTC),
		LocationID: uuid.New(),
	}
}

func datePtr(s string) *time.Time {
	d := shared.MustDate(s)
	return &d
}

func TestNewBeneficiary(t *testing.T) {
	t.Run("normalizes profile", func(t *testing.T) {
		programID := uuid.New()
		b, err := NewBeneficiary(programID, validProfile())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.Equal(t, programID, b.ProgramID)
		assert.Equal(t, "Ana Gómez", b.Name)
		assert.Equal(t, "ana gomez", b.SearchKey)
		assert.Equal(t, "Calle 1", b.Address)
		assert.Equal(t, shared.MustDate("2024-04-10"), b.SurveyDate)
		assert.Equal(t, 1, b.Version)
		assert.Empty(t, b.Members)
		assert.Equal(t, 1, b.PeopleCount())
	})

	t.Run("requires program", func(t *testing.T) {
		_, err := NewBeneficiary(uuid.Nil, validProfile())
		assert.Error(t, err)
	})

	t.Run("requires location", func(t *testing.T) {
		p := validProfile()
		p.LocationID = uuid.Nil
		_, err := NewBeneficiary(uuid.New(), p)
		assert.Error(t, err)
	})
}

func TestBeneficiary_Update(t *testing.T) {
	b, err := NewBeneficiary(uuid.New(), validProfile())
	require.NoError(t, err)
	b.ReplaceMembers([]MemberProfile{{Name: "hijo", NationalID: "40111222"}})

	p := validProfile()
	p.Name = "Ana María Gómez"
	require.NoError(t, b.Update(p))

	assert.Equal(t, "Ana María Gómez", b.Name)
	assert.Equal(t, "ana maria gomez", b.SearchKey)
	assert.Equal(t, 2, b.Version)
	assert.Len(t, b.Members, 1, "update keeps members")
}

func TestBeneficiary_ReplaceMembers(t *testing.T) {
	b, err := NewBeneficiary(uuid.New(), validProfile())
	require.NoError(t, err)

	b.ReplaceMembers([]MemberProfile{
		{Name: "uno", NationalID: "40000001", BirthDate: datePtr("2010-01-01")},
		{Name: "dos", NationalID: "40000002"},
		{Name: "tres", NationalID: "40000003"},
	})
	require.Len(t, b.Members, 3)
	firstID := b.Members[0].ID
	for _, m := range b.Members {
		assert.Equal(t, b.ID, m.BeneficiaryID)
	}
	assert.Equal(t, "Uno", b.Members[0].Name)
	assert.Equal(t, 4, b.PeopleCount())

	b.ReplaceMembers([]MemberProfile{{Name: "uno", NationalID: "40000001"}})
	require.Len(t, b.Members, 1)
	assert.NotEqual(t, firstID, b.Members[0].ID, "member ids regenerate")
}

func TestFamilyMember_AgeOn(t *testing.T) {
	m := newFamilyMember(uuid.New(), MemberProfile{Name: "x", NationalID: "1234567", BirthDate: datePtr("2000-06-15")})
	age, ok := m.AgeOn(shared.MustDate("2024-06-14"))
	assert.True(t, ok)
	assert.Equal(t, 23, age)

	m.BirthDate = nil
	_, ok = m.AgeOn(shared.MustDate("2024-06-14"))
	assert.False(t, ok)
}

func TestCheckProfile(t *testing.T) {
	today := shared.MustDate("2024-05-01")

	t.Run("valid profile", func(t *testing.T) {
		assert.False(t, CheckProfile(validProfile(), today).HasErrors())
	})

	t.Run("collects every failure", func(t *testing.T) {
		p := validProfile()
		p.Name = " "
		p.NationalID = "12ab"
		p.SurveyDate = today.AddDate(0, 0, 1)
		p.Phone = "12"

		errs := CheckProfile(p, today)
		assert.True(t, errs.HasField("name"))
		assert.True(t, errs.HasField("national_id"))
		assert.True(t, errs.HasField("survey_date"))
		assert.True(t, errs.HasField("phone"))
		assert.Len(t, errs.Errors, 4)
	})

	t.Run("survey date today is accepted", func(t *testing.T) {
		p := validProfile()
		p.SurveyDate = today
		assert.False(t, CheckProfile(p, today).HasErrors())
	})
}

func TestCheckMembers(t *testing.T) {
	today := shared.MustDate("2024-05-01")
	elderlyID := uuid.New()
	minorID := uuid.New()
	disabilityID := uuid.New()
	categories := map[uuid.UUID]identity.Category{
		elderlyID:    identity.CategoryElderly,
		minorID:      identity.CategoryMinor,
		disabilityID: identity.CategoryDisability,
	}

	t.Run("member equal to head", func(t *testing.T) {
		errs := CheckMembers("30111222", []MemberProfile{{Name: "a", NationalID: "30111222"}}, categories, today)
		require.Len(t, errs.Errors, 1)
		assert.Equal(t, "members[0].national_id", errs.Errors[0].Field)
	})

	t.Run("duplicate within family", func(t *testing.T) {
		errs := CheckMembers("30111222", []MemberProfile{
			{Name: "a", NationalID: "40000001"},
			{Name: "b", NationalID: "40000001"},
		}, categories, today)
		require.Len(t, errs.Errors, 1)
		assert.Equal(t, "members[1].national_id", errs.Errors[0].Field)
	})

	t.Run("bad member national id names the member", func(t *testing.T) {
		errs := CheckMembers("30111222", []MemberProfile{{Name: "luis", NationalID: "12"}}, categories, today)
		require.Len(t, errs.Errors, 1)
		assert.Contains(t, errs.Errors[0].Message, "Luis")
	})

	t.Run("unknown category", func(t *testing.T) {
		unknown := uuid.New()
		errs := CheckMembers("30111222", []MemberProfile{{Name: "a", NationalID: "40000001", ConditionCategoryID: &unknown}}, categories, today)
		assert.True(t, errs.HasField("members[0].condition_category_id"))
	})

	t.Run("age category boundaries", func(t *testing.T) {
		sixty := today.AddDate(-60, 0, 0)
		fiftyNine := sixty.AddDate(0, 0, 1)
		eighteen := today.AddDate(-18, 0, 0)
		seventeen := eighteen.AddDate(0, 0, 1)

		errs := CheckMembers("30111222", []MemberProfile{
			{Name: "abuela", NationalID: "10000001", BirthDate: &sixty, ConditionCategoryID: &elderlyID},
			{Name: "tio", NationalID: "10000002", BirthDate: &fiftyNine, ConditionCategoryID: &elderlyID},
			{Name: "primo", NationalID: "10000003", BirthDate: &eighteen, ConditionCategoryID: &minorID},
			{Name: "nene", NationalID: "10000004", BirthDate: &seventeen, ConditionCategoryID: &minorID},
		}, categories, today)

		require.Len(t, errs.Errors, 2)
		assert.Equal(t, "members[1].condition_category_id", errs.Errors[0].Field)
		assert.Equal(t, "Tio is 59 years old and cannot be registered as Elderly", errs.Errors[0].Message)
		assert.Equal(t, "members[2].condition_category_id", errs.Errors[1].Field)
		assert.Equal(t, "Primo is 18 years old and cannot be registered as Minor", errs.Errors[1].Message)
	})

	t.Run("category without birth date is not age-checked", func(t *testing.T) {
		errs := CheckMembers("30111222", []MemberProfile{{Name: "a", NationalID: "40000001", ConditionCategoryID: &minorID}}, categories, today)
		assert.False(t, errs.HasErrors())
	})

	t.Run("future birth date", func(t *testing.T) {
		errs := CheckMembers("30111222", []MemberProfile{{Name: "a", NationalID: "40000001", BirthDate: datePtr("2024-05-02")}}, categories, today)
		assert.True(t, errs.HasField("members[0].birth_date"))
	})
}
