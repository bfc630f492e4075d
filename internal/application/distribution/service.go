// Package distribution implements the distribution committer: validating and
// writing single and bulk deliveries, and recording daily production.
package distribution

import (
	"context"
	"errors"
	"time"

	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DistributionService handles delivery use cases
type DistributionService struct {
	txScope   TransactionScope
	eventRepo distribution.EventRepository
	validator *Validator
	clock     shared.Clock
	programID uuid.UUID
	metrics   *telemetry.ProgramMetrics
	logger    *zap.Logger
}

// NewDistributionService creates a new DistributionService.
// programID is the program bulk deliveries, and single deliveries that name
// none, are booked against.
func NewDistributionService(
	txScope TransactionScope,
	eventRepo distribution.EventRepository,
	clock shared.Clock,
	programID uuid.UUID,
) *DistributionService {
	return &DistributionService{
		txScope:   txScope,
		eventRepo: eventRepo,
		validator: NewValidator(clock),
		clock:     clock,
		programID: programID,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger used for write outcomes
func (s *DistributionService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetMetrics sets the program metrics recorder
func (s *DistributionService) SetMetrics(metrics *telemetry.ProgramMetrics) {
	s.metrics = metrics
}

// CreateSingle validates and writes one delivery in a single transaction
func (s *DistributionService) CreateSingle(ctx context.Context, req CreateDistributionRequest) (*DistributionEventResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "create_single")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBeneficiaryID, req.BeneficiaryID.String(),
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrDeliveryDate, req.DeliveryDate,
		telemetry.SpanAttrQuantity, req.Quantity,
	)

	var created *distribution.EventView
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		errs := shared.NewValidationErrors()
		date := deliveryDate(req.DeliveryDate, errs)
		errs, err := s.validator.validateSingle(ctx, repos, SingleDistributionCommand{
			BeneficiaryID: req.BeneficiaryID,
			ProductID:     req.ProductID,
			DeliveryDate:  date,
			Quantity:      req.Quantity,
		}, errs)
		if err != nil {
			return err
		}

		programID := s.programID
		if req.ProgramID != nil {
			if _, err := repos.CatalogReader().FindProgram(ctx, *req.ProgramID); err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				errs.Add("program_id", "Program not found")
			}
			programID = *req.ProgramID
		}
		if errs.HasErrors() {
			return errs
		}

		event, err := distribution.NewEvent(req.BeneficiaryID, req.ProductID, programID, date, req.Quantity, req.Detail)
		if err != nil {
			return err
		}
		if err := repos.EventRepo().Create(ctx, event); err != nil {
			return err
		}

		created, err = repos.EventRepo().FindByID(ctx, event.ID)
		return err
	})
	if err != nil {
		err = s.writeError(ctx, "product_id", "Beneficiary already received this product on that date", err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordDistributions(ctx, telemetry.DistributionSingle, 1)
	s.logger.Info("Distribution created",
		zap.String("event_id", created.ID.String()),
		zap.String("beneficiary_id", created.BeneficiaryID.String()))

	resp := ToEventViewResponse(created)
	return &resp, nil
}

// CreateBulk validates and writes one event per beneficiary as a single
// multi-row insert. Any failure leaves no event written.
func (s *DistributionService) CreateBulk(ctx context.Context, req CreateBulkDistributionRequest) (*BulkDistributionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "create_bulk")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrDeliveryDate, req.DeliveryDate,
		telemetry.SpanAttrBulkSize, len(req.BeneficiaryIDs),
	)

	var (
		events []*distribution.Event
		names  map[uuid.UUID]string
		err    error
	)

	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("bulk_distribution", nil), func(c context.Context) {
		err = s.txScope.Execute(c, func(repos TransactionalRepositories) error {
			errs := shared.NewValidationErrors()
			date := deliveryDate(req.DeliveryDate, errs)
			cmd := BulkDistributionCommand{
				BeneficiaryIDs: req.BeneficiaryIDs,
				ProductID:      req.ProductID,
				DeliveryDate:   date,
				Quantity:       req.Quantity,
				LocationID:     req.LocationID,
			}
			errs, err := s.validator.validateBulk(c, repos, cmd, errs)
			if err != nil {
				return err
			}
			if errs.HasErrors() {
				return errs
			}

			ids := uniqueIDs(req.BeneficiaryIDs, shared.NewValidationErrors())
			locationName := ""
			if req.LocationID != nil {
				location, err := repos.CatalogReader().FindLocation(c, *req.LocationID)
				if err != nil {
					return err
				}
				outside, err := countOutside(c, repos, location.ID, ids)
				if err != nil {
					return err
				}
				if outside > 0 {
					return shared.NewFieldValidationError("beneficiary_ids", "Some beneficiaries do not belong to the selected location")
				}
				locationName = location.Name
			}

			detail := distribution.BulkDetail(req.Detail, locationName)
			batch := make([]*distribution.Event, 0, len(ids))
			for _, id := range ids {
				event, err := distribution.NewEvent(id, req.ProductID, s.programID, date, req.Quantity, detail)
				if err != nil {
					return err
				}
				batch = append(batch, event)
			}
			if err := repos.EventRepo().CreateBatch(c, batch); err != nil {
				return err
			}

			names, err = repos.BeneficiaryRepo().FindNames(c, ids)
			if err != nil {
				return err
			}
			events = batch
			return nil
		})
	})
	if err != nil {
		err = s.writeError(ctx, "beneficiary_ids", "Some beneficiaries already received this product on that date", err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordDistributions(ctx, telemetry.DistributionBulk, len(events))
	s.logger.Info("Bulk distribution created",
		zap.Int("count", len(events)),
		zap.String("product_id", req.ProductID.String()),
		zap.String("delivery_date", req.DeliveryDate))

	resp := &BulkDistributionResponse{
		Count:  len(events),
		Events: make([]DistributionEventResponse, len(events)),
	}
	for i, e := range events {
		resp.Events[i] = ToEventResponse(e)
		resp.Events[i].BeneficiaryName = names[e.BeneficiaryID]
	}
	return resp, nil
}

// CheckDailyLimit reports how many events the beneficiary got on date and
// how many more fit under the daily limit
func (s *DistributionService) CheckDailyLimit(ctx context.Context, beneficiaryID uuid.UUID, date time.Time) (*DailyLimitResponse, error) {
	date = shared.DateOf(date)
	count, err := s.eventRepo.CountForDay(ctx, beneficiaryID, date)
	if err != nil {
		return nil, err
	}
	return &DailyLimitResponse{
		BeneficiaryID: beneficiaryID,
		Date:          shared.FormatDate(date),
		Count:         count,
		Limit:         distribution.DailyLimit,
		Remaining:     distribution.Remaining(count),
	}, nil
}

// Today returns the program's current calendar date
func (s *DistributionService) Today() time.Time {
	return shared.Today(s.clock)
}

// GetByID returns one event with its referenced names
func (s *DistributionService) GetByID(ctx context.Context, id uuid.UUID) (*DistributionEventResponse, error) {
	view, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEventViewResponse(view)
	return &resp, nil
}

// List returns a page of events, newest delivery first by default
func (s *DistributionService) List(ctx context.Context, filter EventListFilter) ([]DistributionEventResponse, int64, error) {
	errs := shared.NewValidationErrors()
	domainFilter := distribution.EventFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalized(),
		DeliveryDate: parseOptionalDate("delivery_date", filter.DeliveryDate, errs),
		StartDate:    parseOptionalDate("start_date", filter.StartDate, errs),
		EndDate:      parseOptionalDate("end_date", filter.EndDate, errs),
		LocationID:   parseOptionalID("location_id", filter.LocationID, errs),
		ProductID:    parseOptionalID("product_id", filter.ProductID, errs),
		NationalID:   filter.NationalID,
	}
	if domainFilter.StartDate != nil && domainFilter.EndDate != nil && domainFilter.EndDate.Before(*domainFilter.StartDate) {
		errs.Add("end_date", "End date cannot be before start date")
	}
	if errs.HasErrors() {
		return nil, 0, errs
	}

	views, total, err := s.eventRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEventViewResponses(views), total, nil
}

// deliveryDate parses a YYYY-MM-DD body value. A malformed value is reported
// on errs and yields the zero time; an empty one is left to the validator.
func deliveryDate(value string, errs *shared.ValidationErrors) time.Time {
	if d := parseOptionalDate("delivery_date", value, errs); d != nil {
		return *d
	}
	return time.Time{}
}

// writeError turns a failed write into the error returned to the caller.
// A unique violation means a concurrent request already wrote the same
// (beneficiary, product, date); it is reported as a field error on field.
func (s *DistributionService) writeError(ctx context.Context, field, message string, err error) error {
	var verrs *shared.ValidationErrors
	if errors.As(err, &verrs) {
		s.metrics.RecordValidationFailure(ctx, "distribution")
		return err
	}
	if errors.Is(err, shared.ErrDuplicateKey) {
		s.logger.Warn("Distribution collided on write", zap.Error(err))
		s.metrics.RecordValidationFailure(ctx, "distribution")
		return shared.NewFieldValidationError(field, message)
	}
	return shared.AbortTransaction(err)
}
