// Package registry implements the beneficiary registrar: registering,
// updating and deleting households together with their family members.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/registry"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BeneficiaryService handles household registration use cases
type BeneficiaryService struct {
	txScope    TransactionScope
	repo       registry.BeneficiaryRepository
	memberRepo registry.FamilyMemberRepository
	clock      shared.Clock
	programID  uuid.UUID
	metrics    *telemetry.ProgramMetrics
	logger     *zap.Logger
}

// NewBeneficiaryService creates a new BeneficiaryService.
// repo and memberRepo serve the non-transactional reads.
func NewBeneficiaryService(
	txScope TransactionScope,
	repo registry.BeneficiaryRepository,
	memberRepo registry.FamilyMemberRepository,
	clock shared.Clock,
	programID uuid.UUID,
) *BeneficiaryService {
	return &BeneficiaryService{
		txScope:    txScope,
		repo:       repo,
		memberRepo: memberRepo,
		clock:      clock,
		programID:  programID,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger used for write outcomes
func (s *BeneficiaryService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetMetrics sets the program metrics recorder
func (s *BeneficiaryService) SetMetrics(metrics *telemetry.ProgramMetrics) {
	s.metrics = metrics
}

// Register creates a household and its members in one transaction
func (s *BeneficiaryService) Register(ctx context.Context, req RegisterBeneficiaryRequest) (*BeneficiaryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "beneficiary", "register")
	defer span.End()

	today := shared.Today(s.clock)
	var created *registry.Beneficiary

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		profile, members, err := s.validate(ctx, repos, &req, nil, today)
		if err != nil {
			return err
		}

		b, err := registry.NewBeneficiary(s.programID, profile)
		if err != nil {
			return err
		}
		b.ReplaceMembers(members)

		if err := repos.BeneficiaryRepo().Create(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		err = s.writeError(ctx, "register", req.NationalID, nil, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordBeneficiaryChange(ctx, telemetry.ActionCreated)
	s.logger.Info("Beneficiary registered",
		zap.String("beneficiary_id", created.ID.String()),
		zap.Int("members", len(created.Members)))

	resp := ToBeneficiaryResponse(created, today)
	return &resp, nil
}

// Update overwrites a household and replaces its whole member set.
// Returns shared.ErrNotFound when id does not exist.
func (s *BeneficiaryService) Update(ctx context.Context, id uuid.UUID, req UpdateBeneficiaryRequest) (*BeneficiaryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "beneficiary", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrBeneficiaryID, id.String())

	today := shared.Today(s.clock)
	body := RegisterBeneficiaryRequest(req)
	var updated *registry.Beneficiary

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BeneficiaryRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		profile, members, err := s.validate(ctx, repos, &body, &id, today)
		if err != nil {
			return err
		}

		if err := b.Update(profile); err != nil {
			return err
		}
		b.ReplaceMembers(members)

		if err := repos.BeneficiaryRepo().Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		err = s.writeError(ctx, "update", body.NationalID, &id, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordBeneficiaryChange(ctx, telemetry.ActionUpdated)
	s.logger.Info("Beneficiary updated",
		zap.String("beneficiary_id", id.String()),
		zap.Int("members", len(updated.Members)))

	resp := ToBeneficiaryResponse(updated, today)
	return &resp, nil
}

// Delete removes a household and its members atomically.
// A household that already received distributions cannot be deleted.
func (s *BeneficiaryService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "beneficiary", "delete")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrBeneficiaryID, id.String())

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.BeneficiaryRepo().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}

		served, err := repos.EventRepo().ExistsForBeneficiary(ctx, id)
		if err != nil {
			return err
		}
		if served {
			return registry.ErrHasDistributions
		}

		return repos.BeneficiaryRepo().Delete(ctx, id)
	})
	if err != nil {
		err = shared.AbortTransaction(err)
		telemetry.RecordError(span, err)
		return err
	}

	s.metrics.RecordBeneficiaryChange(ctx, telemetry.ActionDeleted)
	s.logger.Info("Beneficiary deleted", zap.String("beneficiary_id", id.String()))
	return nil
}

// CheckNationalIDExists reports whether nationalID is registered to another
// household. The answer is advisory; registration re-checks inside its transaction.
func (s *BeneficiaryService) CheckNationalIDExists(ctx context.Context, nationalID string, excludeID *uuid.UUID) (*NationalIDCheckResponse, error) {
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, shared.NewFieldValidationError("national_id", "National ID is required")
	}

	existing, err := s.repo.FindByNationalID(ctx, nationalID, excludeID)
	if errors.Is(err, shared.ErrNotFound) {
		return &NationalIDCheckResponse{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &NationalIDCheckResponse{
		Exists:        true,
		MatchedName:   existing.Name,
		BeneficiaryID: &existing.ID,
	}, nil
}

// GetByID returns a household with its members
func (s *BeneficiaryService) GetByID(ctx context.Context, id uuid.UUID) (*BeneficiaryResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBeneficiaryResponse(b, shared.Today(s.clock))
	return &resp, nil
}

// List returns a page of households
func (s *BeneficiaryService) List(ctx context.Context, filter BeneficiaryListFilter) ([]BeneficiaryListResponse, int64, error) {
	domainFilter := registry.BeneficiaryFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalized(),
		NationalID: strings.TrimSpace(filter.NationalID),
		Name:       filter.Name,
	}
	if filter.LocationID != "" {
		locationID, err := uuid.Parse(filter.LocationID)
		if err != nil {
			return nil, 0, shared.NewFieldValidationError("location_id", "Invalid location ID format")
		}
		domainFilter.LocationID = &locationID
	}

	items, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBeneficiaryListResponses(items), total, nil
}

// ListMembers returns the members of a household in registration order
func (s *BeneficiaryService) ListMembers(ctx context.Context, id uuid.UUID) ([]FamilyMemberResponse, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	members, err := s.memberRepo.FindByBeneficiary(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToFamilyMemberResponses(members, shared.Today(s.clock)), nil
}

// validate runs every registration rule and returns the collected problems as
// a *shared.ValidationErrors. The national ID uniqueness check runs first so its
// message leads the list.
func (s *BeneficiaryService) validate(
	ctx context.Context,
	repos TransactionalRepositories,
	req *RegisterBeneficiaryRequest,
	excludeID *uuid.UUID,
	today time.Time,
) (registry.Profile, []registry.MemberProfile, error) {
	errs := shared.NewValidationErrors()
	profile := req.toProfile(errs)
	members := req.toMemberProfiles(errs)
	nationalID := strings.TrimSpace(profile.NationalID)

	if identity.ValidateNationalID(nationalID) == nil {
		existing, err := repos.BeneficiaryRepo().FindByNationalID(ctx, nationalID, excludeID)
		switch {
		case err == nil:
			errs.Add("national_id", duplicateMessage(nationalID, existing.Name))
		case !errors.Is(err, shared.ErrNotFound):
			return profile, nil, err
		}
	}

	for _, fe := range registry.CheckProfile(profile, today).Errors {
		if fe.Field == "survey_date" && errs.HasField("survey_date") {
			continue
		}
		errs.Add(fe.Field, fe.Message)
	}

	reader := repos.CatalogReader()
	if profile.LocationID == uuid.Nil {
		errs.Add("location_id", "Location is required")
	} else if _, err := reader.FindLocation(ctx, profile.LocationID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return profile, nil, err
		}
		errs.Add("location_id", "Location not found")
	}
	if profile.EconomicCategoryID != nil {
		if _, err := reader.FindEconomicCategory(ctx, *profile.EconomicCategoryID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return profile, nil, err
			}
			errs.Add("economic_category_id", "Economic maintenance category not found")
		}
	}

	if len(members) > 0 {
		categories, err := conditionCategories(ctx, reader)
		if err != nil {
			return profile, nil, err
		}
		errs.Merge(registry.CheckMembers(nationalID, members, categories, today))
	}

	if errs.HasErrors() {
		s.metrics.RecordValidationFailure(ctx, "beneficiary")
		return profile, nil, errs
	}
	return profile, members, nil
}

// writeError turns a failed write into the error returned to the caller.
// A unique violation on the national ID means a concurrent registration won;
// it is reported exactly like the pre-check would have reported it.
func (s *BeneficiaryService) writeError(ctx context.Context, op, nationalID string, excludeID *uuid.UUID, err error) error {
	if !errors.Is(err, shared.ErrDuplicateKey) {
		return shared.AbortTransaction(err)
	}

	nationalID = strings.TrimSpace(nationalID)
	name := ""
	if existing, findErr := s.repo.FindByNationalID(ctx, nationalID, excludeID); findErr == nil {
		name = existing.Name
	}
	s.logger.Warn("National ID collided on write",
		zap.String("operation", op),
		zap.Error(err))
	s.metrics.RecordValidationFailure(ctx, "beneficiary")
	return shared.NewFieldValidationError("national_id", duplicateMessage(nationalID, name))
}

func duplicateMessage(nationalID, name string) string {
	if name == "" {
		return fmt.Sprintf("National ID %s is already registered", nationalID)
	}
	return fmt.Sprintf("National ID %s is already registered for %s", nationalID, name)
}

func memberField(i int, name string) string {
	return fmt.Sprintf("members[%d].%s", i, name)
}

func conditionCategories(ctx context.Context, reader catalog.Reader) (map[uuid.UUID]identity.Category, error) {
	list, err := reader.ListConditionCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make(map[uuid.UUID]identity.Category, len(list))
	for _, c := range list {
		categories[c.ID] = c.Category()
	}
	return categories, nil
}
