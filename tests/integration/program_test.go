//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	appdist "github.com/bakeryaid/backend/internal/application/distribution"
	appreg "github.com/bakeryaid/backend/internal/application/registry"
	appreport "github.com/bakeryaid/backend/internal/application/report"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
)

type services struct {
	db            *TestDB
	clock         shared.Clock
	beneficiaries *appreg.BeneficiaryService
	distributions *appdist.DistributionService
	dashboard     *appreport.DashboardService
}

func newServices(t *testing.T, tdb *TestDB) *services {
	t.Helper()
	clock, err := shared.NewSystemClock("UTC")
	require.NoError(t, err)
	programID := uuid.MustParse(seedProgramID)

	return &services{
		db:    tdb,
		clock: clock,
		beneficiaries: appreg.NewBeneficiaryService(
			persistence.NewGormRegistryTransactionScope(tdb.DB),
			persistence.NewGormBeneficiaryRepository(tdb.DB),
			persistence.NewGormFamilyMemberRepository(tdb.DB),
			clock, programID,
		),
		distributions: appdist.NewDistributionService(
			persistence.NewGormDistributionTransactionScope(tdb.DB),
			persistence.NewGormDistributionEventRepository(tdb.DB),
			clock, programID,
		),
		dashboard: appreport.NewDashboardService(persistence.NewGormDashboardRepository(tdb.DB), clock),
	}
}

func (s *services) today() string {
	return shared.FormatDate(shared.Today(s.clock))
}

func (s *services) register(t *testing.T, nationalID, location string) uuid.UUID {
	t.Helper()
	resp, err := s.beneficiaries.Register(context.Background(), s.registration(nationalID, location))
	require.NoError(t, err)
	return resp.ID
}

func (s *services) registration(nationalID, location string) appreg.RegisterBeneficiaryRequest {
	return appreg.RegisterBeneficiaryRequest{
		NationalID: nationalID,
		Name:       "Familia " + nationalID,
		SurveyDate: s.today(),
		LocationID: uuid.MustParse(location),
	}
}

func (s *services) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.DB.Model(model).Count(&n).Error)
	return n
}

func isNationalIDConflict(err error) bool {
	var verrs *shared.ValidationErrors
	return errors.As(err, &verrs) && verrs.HasField("national_id")
}

func TestIntegration(t *testing.T) {
	tdb := NewTestDB(t)
	s := newServices(t, tdb)

	t.Run("concurrent registrations of one national ID", func(t *testing.T) {
		tdb.CleanTables(t)
		const attempts = 8

		var succeeded, conflicted atomic.Int32
		var g errgroup.Group
		for i := 0; i < attempts; i++ {
			g.Go(func() error {
				_, err := s.beneficiaries.Register(context.Background(), s.registration("30111222", seedCentro))
				switch {
				case err == nil:
					succeeded.Add(1)
				case isNationalIDConflict(err):
					conflicted.Add(1)
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.EqualValues(t, 1, succeeded.Load())
		assert.EqualValues(t, attempts-1, conflicted.Load())
		assert.Equal(t, int64(1), s.count(t, &models.BeneficiaryModel{}))
	})

	t.Run("concurrent deliveries of one product on one day", func(t *testing.T) {
		tdb.CleanTables(t)
		id := s.register(t, "30111333", seedCentro)

		var succeeded atomic.Int32
		var g errgroup.Group
		for i := 0; i < 5; i++ {
			g.Go(func() error {
				_, err := s.distributions.CreateSingle(context.Background(), appdist.CreateDistributionRequest{
					BeneficiaryID: id,
					ProductID:     uuid.MustParse(seedPan),
					DeliveryDate:  s.today(),
					Quantity:      1,
				})
				var verrs *shared.ValidationErrors
				switch {
				case err == nil:
					succeeded.Add(1)
				case errors.As(err, &verrs):
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.EqualValues(t, 1, succeeded.Load())
		assert.Equal(t, int64(1), s.count(t, &models.DistributionEventModel{}))
	})

	t.Run("daily limit across products", func(t *testing.T) {
		tdb.CleanTables(t)
		id := s.register(t, "30111444", seedCentro)
		ctx := context.Background()

		for _, product := range []string{seedPan, seedTortillas, seedFacturas} {
			_, err := s.distributions.CreateSingle(ctx, appdist.CreateDistributionRequest{
				BeneficiaryID: id, ProductID: uuid.MustParse(product), DeliveryDate: s.today(), Quantity: 1,
			})
			require.NoError(t, err)
		}

		_, err := s.distributions.CreateSingle(ctx, appdist.CreateDistributionRequest{
			BeneficiaryID: id, ProductID: uuid.MustParse(seedBizcochos), DeliveryDate: s.today(), Quantity: 1,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.HasField("delivery_date"))

		limit, err := s.distributions.CheckDailyLimit(ctx, id, shared.Today(s.clock))
		require.NoError(t, err)
		assert.EqualValues(t, 3, limit.Count)
		assert.EqualValues(t, 0, limit.Remaining)
	})

	t.Run("bulk is all or nothing", func(t *testing.T) {
		tdb.CleanTables(t)
		ctx := context.Background()
		ids := make([]uuid.UUID, 0, 20)
		for i := 0; i < 20; i++ {
			ids = append(ids, s.register(t, fmt.Sprintf("3020%04d", i), seedCentro))
		}

		_, err := s.distributions.CreateSingle(ctx, appdist.CreateDistributionRequest{
			BeneficiaryID: ids[7], ProductID: uuid.MustParse(seedPan), DeliveryDate: s.today(), Quantity: 1,
		})
		require.NoError(t, err)

		_, err = s.distributions.CreateBulk(ctx, appdist.CreateBulkDistributionRequest{
			BeneficiaryIDs: ids, ProductID: uuid.MustParse(seedPan), DeliveryDate: s.today(), Quantity: 2,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, int64(1), s.count(t, &models.DistributionEventModel{}))

		resp, err := s.distributions.CreateBulk(ctx, appdist.CreateBulkDistributionRequest{
			BeneficiaryIDs: ids, ProductID: uuid.MustParse(seedTortillas), DeliveryDate: s.today(), Quantity: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 20, resp.Count)
		assert.Equal(t, int64(21), s.count(t, &models.DistributionEventModel{}))
	})

	t.Run("bulk rejects beneficiaries outside the location", func(t *testing.T) {
		tdb.CleanTables(t)
		ctx := context.Background()
		a := s.register(t, "30300001", seedCentro)
		b := s.register(t, "30300002", seedNorte)
		location := uuid.MustParse(seedCentro)

		_, err := s.distributions.CreateBulk(ctx, appdist.CreateBulkDistributionRequest{
			BeneficiaryIDs: []uuid.UUID{a, b}, ProductID: uuid.MustParse(seedPan),
			DeliveryDate: s.today(), Quantity: 1, LocationID: &location,
		})
		var verrs *shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.HasField("beneficiary_ids"))
		assert.Equal(t, int64(0), s.count(t, &models.DistributionEventModel{}))
	})

	t.Run("delete keeps beneficiaries with history", func(t *testing.T) {
		tdb.CleanTables(t)
		ctx := context.Background()
		id := s.register(t, "30400001", seedCentro)
		_, err := s.distributions.CreateSingle(ctx, appdist.CreateDistributionRequest{
			BeneficiaryID: id, ProductID: uuid.MustParse(seedPan), DeliveryDate: s.today(), Quantity: 1,
		})
		require.NoError(t, err)

		err = s.beneficiaries.Delete(ctx, id)
		assert.True(t, isDomainCode(err, "BENEFICIARY_HAS_DISTRIBUTIONS"), "got %v", err)
		assert.Equal(t, int64(1), s.count(t, &models.BeneficiaryModel{}))
	})

	t.Run("dashboard on postgres", func(t *testing.T) {
		tdb.CleanTables(t)
		ctx := context.Background()
		served := s.register(t, "30500001", seedCentro)
		s.register(t, "30500002", seedNorte)
		_, err := s.distributions.CreateSingle(ctx, appdist.CreateDistributionRequest{
			BeneficiaryID: served, ProductID: uuid.MustParse(seedPan), DeliveryDate: s.today(), Quantity: 4,
		})
		require.NoError(t, err)

		stats, err := s.dashboard.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalFamilies)
		assert.Equal(t, int64(1), stats.FamiliesServed)
		assert.Equal(t, int64(1), stats.FamiliesWithoutDistribution)
		assert.Equal(t, "50", stats.CoveragePercent.StringFixed(0))
	})
}

func isDomainCode(err error, code string) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == code
}
