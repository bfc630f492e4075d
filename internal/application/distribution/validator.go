package distribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bakeryaid/backend/internal/domain/catalog"
	"github.com/bakeryaid/backend/internal/domain/distribution"
	"github.com/bakeryaid/backend/internal/domain/identity"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SingleDistributionCommand is a delivery to one beneficiary
type SingleDistributionCommand struct {
	BeneficiaryID uuid.UUID
	ProductID     uuid.UUID
	DeliveryDate  time.Time
	Quantity      int
}

// BulkDistributionCommand is the same delivery to many beneficiaries
type BulkDistributionCommand struct {
	BeneficiaryIDs []uuid.UUID
	ProductID      uuid.UUID
	DeliveryDate   time.Time
	Quantity       int
	LocationID     *uuid.UUID
}

// Validator checks distribution commands against the store. Every failing
// check is collected; checks that depend on a missing referent are skipped.
type Validator struct {
	clock shared.Clock
}

// NewValidator creates a Validator reading "today" from clock
func NewValidator(clock shared.Clock) *Validator {
	return &Validator{clock: clock}
}

// ValidateSingle checks a single delivery. The returned error is non-nil only
// when the store itself failed.
func (v *Validator) ValidateSingle(ctx context.Context, repos TransactionalRepositories, cmd SingleDistributionCommand) (*shared.ValidationErrors, error) {
	return v.validateSingle(ctx, repos, cmd, shared.NewValidationErrors())
}

// validateSingle adds to errs, which may already hold request parsing errors
func (v *Validator) validateSingle(ctx context.Context, repos TransactionalRepositories, cmd SingleDistributionCommand, errs *shared.ValidationErrors) (*shared.ValidationErrors, error) {
	date := shared.DateOf(cmd.DeliveryDate)

	beneficiaryOK := false
	if cmd.BeneficiaryID == uuid.Nil {
		errs.Add("beneficiary_id", "Beneficiary is required")
	} else {
		exists, err := repos.BeneficiaryRepo().ExistsByID(ctx, cmd.BeneficiaryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			errs.Add("beneficiary_id", "Beneficiary not found")
		}
		beneficiaryOK = exists
	}

	product, err := findProduct(ctx, repos.CatalogReader(), cmd.ProductID)
	if err != nil {
		return nil, err
	}
	addProductError(cmd.ProductID, product, errs)

	if cmd.Quantity <= 0 {
		errs.Add("quantity", "Quantity must be greater than zero")
	}
	v.checkDate(date, errs)

	if date.IsZero() {
		return errs, nil
	}

	if beneficiaryOK && product != nil {
		dup, err := repos.EventRepo().ExistsForProductDay(ctx, cmd.BeneficiaryID, cmd.ProductID, date)
		if err != nil {
			return nil, err
		}
		if dup {
			errs.Addf("product_id", "Beneficiary already received %s on %s", product.Name, shared.FormatDate(date))
		}
	}

	if beneficiaryOK {
		count, err := repos.EventRepo().CountForDay(ctx, cmd.BeneficiaryID, date)
		if err != nil {
			return nil, err
		}
		if count >= distribution.DailyLimit {
			errs.Addf("delivery_date", "Beneficiary already received %d distributions on %s, the daily limit is %d",
				count, shared.FormatDate(date), distribution.DailyLimit)
		}
	}

	return errs, nil
}

// ValidateBulk checks a bulk delivery. Duplicate ids are reported and the
// remaining checks run on the de-duplicated set.
func (v *Validator) ValidateBulk(ctx context.Context, repos TransactionalRepositories, cmd BulkDistributionCommand) (*shared.ValidationErrors, error) {
	return v.validateBulk(ctx, repos, cmd, shared.NewValidationErrors())
}

func (v *Validator) validateBulk(ctx context.Context, repos TransactionalRepositories, cmd BulkDistributionCommand, errs *shared.ValidationErrors) (*shared.ValidationErrors, error) {
	date := shared.DateOf(cmd.DeliveryDate)

	ids := uniqueIDs(cmd.BeneficiaryIDs, errs)
	if len(ids) == 0 && !errs.HasField("beneficiary_ids") {
		errs.Add("beneficiary_ids", "At least one beneficiary is required")
	}

	if cmd.Quantity <= 0 {
		errs.Add("quantity", "Quantity must be greater than zero")
	}
	v.checkDate(date, errs)

	product, err := findProduct(ctx, repos.CatalogReader(), cmd.ProductID)
	if err != nil {
		return nil, err
	}
	addProductError(cmd.ProductID, product, errs)

	if len(ids) == 0 {
		return errs, nil
	}

	names, err := repos.BeneficiaryRepo().FindNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			errs.Addf("beneficiary_ids", "Beneficiary %s not found", id)
		}
	}

	if cmd.LocationID != nil {
		location, err := repos.CatalogReader().FindLocation(ctx, *cmd.LocationID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			errs.Add("location_id", "Location not found")
		case err != nil:
			return nil, err
		default:
			outside, err := countOutside(ctx, repos, location.ID, ids)
			if err != nil {
				return nil, err
			}
			if outside > 0 {
				errs.Addf("beneficiary_ids", "%d of the selected beneficiaries do not belong to %s", outside, location.Name)
			}
		}
	}

	if date.IsZero() {
		return errs, nil
	}

	if product != nil {
		conflicts, err := repos.EventRepo().FindProductDayConflicts(ctx, ids, product.ID, date)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			errs.Addf("beneficiary_ids", "Already received %s on %s: %s",
				product.Name, shared.FormatDate(date), strings.Join(conflicts, ", "))
		}
	}

	atLimit, err := repos.EventRepo().FindAtDailyLimit(ctx, ids, date, distribution.DailyLimit)
	if err != nil {
		return nil, err
	}
	if len(atLimit) > 0 {
		errs.Addf("beneficiary_ids", "Daily limit of %d reached on %s: %s",
			distribution.DailyLimit, shared.FormatDate(date), strings.Join(atLimit, ", "))
	}

	return errs, nil
}

func (v *Validator) checkDate(date time.Time, errs *shared.ValidationErrors) {
	if date.IsZero() {
		if !errs.HasField("delivery_date") {
			errs.Add("delivery_date", "Delivery date is required")
		}
		return
	}
	if identity.ValidateNotFuture(date, shared.Today(v.clock)) != nil {
		errs.Add("delivery_date", "Delivery date cannot be in the future")
	}
}

// countOutside returns how many of ids are not attached to locationID
func countOutside(ctx context.Context, repos TransactionalRepositories, locationID uuid.UUID, ids []uuid.UUID) (int64, error) {
	inside, err := repos.BeneficiaryRepo().CountInLocation(ctx, locationID, ids)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)) - inside, nil
}

func addProductError(id uuid.UUID, product *catalog.Product, errs *shared.ValidationErrors) {
	switch {
	case id == uuid.Nil:
		errs.Add("product_id", "Product is required")
	case product == nil:
		errs.Add("product_id", "Product not found")
	}
}

// findProduct returns nil without error when the product does not exist
func findProduct(ctx context.Context, reader catalog.Reader, id uuid.UUID) (*catalog.Product, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	product, err := reader.FindProduct(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

// uniqueIDs drops nil and repeated ids, reporting repeats
func uniqueIDs(ids []uuid.UUID, errs *shared.ValidationErrors) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			errs.Add("beneficiary_ids", "Beneficiary ID cannot be empty")
			continue
		}
		if _, dup := seen[id]; dup {
			errs.Addf("beneficiary_ids", "Beneficiary %s is listed more than once", id)
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
