package distribution

import (
	"context"

	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ProductionService records what the bakery produced each day
type ProductionService struct {
	txScope TransactionScope
	repo    distribution.ProductionRepository
	clock   shared.Clock
}

// NewProductionService creates a new ProductionService
func NewProductionService(txScope TransactionScope, repo distribution.ProductionRepository, clock shared.Clock) *ProductionService {
	return &ProductionService{
		txScope: txScope,
		repo:    repo,
		clock:   clock,
	}
}

// Create validates and stores a production record
func (s *ProductionService) Create(ctx context.Context, req CreateProductionRequest) (*ProductionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production", "create")
	defer span.End()

	var created *distribution.ProductionView
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		errs := shared.NewValidationErrors()

		date := parseOptionalDate("production_date", req.ProductionDate, errs)
		if date == nil && !errs.HasField("production_date") {
			errs.Add("production_date", "Production date is required")
		}
		if date != nil && identity.ValidateNotFuture(*date, shared.Today(s.clock)) != nil {
			errs.Add("production_date", "Production date cannot be in the future")
		}
		if req.Quantity <= 0 {
			errs.Add("quantity", "Quantity must be greater than zero")
		}
		product, err := findProduct(ctx, repos.CatalogReader(), req.ProductID)
		if err != nil {
			return err
		}
		addProductError(req.ProductID, product, errs)
		if errs.HasErrors() {
			return errs
		}

		record, err := distribution.NewProductionRecord(req.ProductID, *date, req.Quantity)
		if err != nil {
			return err
		}
		if err := repos.ProductionRepo().Create(ctx, record); err != nil {
			return err
		}
		created = &distribution.ProductionView{ProductionRecord: *record, ProductName: product.Name}
		return nil
	})
	if err != nil {
		err = shared.AbortTransaction(err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToProductionResponse(created)
	return &resp, nil
}

// GetByID returns one production record
func (s *ProductionService) GetByID(ctx context.Context, id uuid.UUID) (*ProductionResponse, error) {
	view, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductionResponse(view)
	return &resp, nil
}

// List returns a page of production records
func (s *ProductionService) List(ctx context.Context, filter ProductionListFilter) ([]ProductionResponse, int64, error) {
	errs := shared.NewValidationErrors()
	domainFilter := distribution.ProductionFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalized(),
		Date:      parseOptionalDate("date", filter.Date, errs),
		StartDate: parseOptionalDate("start_date", filter.StartDate, errs),
		EndDate:   parseOptionalDate("end_date", filter.EndDate, errs),
		ProductID: parseOptionalID("product_id", filter.ProductID, errs),
	}
	if errs.HasErrors() {
		return nil, 0, errs
	}

	views, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductionResponses(views), total, nil
}
