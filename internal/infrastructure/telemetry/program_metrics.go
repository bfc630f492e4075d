package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Beneficiary write actions used as metric labels
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Distribution kinds used as metric labels
const (
	DistributionSingle = "single"
	DistributionBulk   = "bulk"
)

// ProgramMetrics records the program's business metrics: household
// registrations, committed distributions, bulk sizes and rejected commands.
// All methods are safe to call on a nil *ProgramMetrics.
type ProgramMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	beneficiaryChangesTotal *Counter
	distributionEventsTotal *Counter
	validationFailuresTotal *Counter
	bulkSize                *Histogram
	registeredFamilies      *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	familyProvider FamilyCountProvider
}

// FamilyCountProvider reports the number of registered households for the
// periodic gauge collection
type FamilyCountProvider interface {
	CountFamilies(ctx context.Context) (int64, error)
}

// ProgramMetricsConfig holds configuration for program metrics.
type ProgramMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	FamilyProvider FamilyCountProvider
}

// BulkSizeBuckets are bucket boundaries for the number of beneficiaries per bulk distribution.
var BulkSizeBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500}

// NewProgramMetrics creates a new ProgramMetrics instance.
func NewProgramMetrics(cfg ProgramMetricsConfig) (*ProgramMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &ProgramMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		familyProvider: cfg.FamilyProvider,
	}

	var err error
	pm.beneficiaryChangesTotal, err = NewCounter(
		cfg.Meter,
		"bakery_beneficiary_changes_total",
		"Total number of household registrations, updates and deletions",
		"{changes}",
	)
	if err != nil {
		return nil, err
	}

	pm.distributionEventsTotal, err = NewCounter(
		cfg.Meter,
		"bakery_distribution_events_total",
		"Total number of committed distribution events",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	pm.validationFailuresTotal, err = NewCounter(
		cfg.Meter,
		"bakery_validation_failures_total",
		"Total number of commands rejected by validation",
		"{commands}",
	)
	if err != nil {
		return nil, err
	}

	pm.bulkSize, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "bakery_bulk_distribution_size",
		Description: "Number of beneficiaries per bulk distribution",
		Unit:        "{beneficiaries}",
		Boundaries:  BulkSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	pm.registeredFamilies, err = NewGauge(
		cfg.Meter,
		"bakery_registered_families",
		"Current number of registered households",
		"{families}",
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordBeneficiaryChange counts a household write
func (pm *ProgramMetrics) RecordBeneficiaryChange(ctx context.Context, action string) {
	if pm == nil {
		return
	}
	pm.beneficiaryChangesTotal.Inc(ctx, AttrAction.String(action))
}

// RecordDistributions counts committed events. Bulk commits also feed the
// bulk size histogram.
func (pm *ProgramMetrics) RecordDistributions(ctx context.Context, kind string, count int) {
	if pm == nil || count <= 0 {
		return
	}
	pm.distributionEventsTotal.Add(ctx, int64(count), AttrDistributionKind.String(kind))
	if kind == DistributionBulk {
		pm.bulkSize.Record(ctx, float64(count))
	}
}

// RecordValidationFailure counts a command rejected with field errors
func (pm *ProgramMetrics) RecordValidationFailure(ctx context.Context, operation string) {
	if pm == nil {
		return
	}
	pm.validationFailuresTotal.Inc(ctx, AttrOperation.String(operation))
}

// StartPeriodicCollection starts refreshing the registered families gauge
// every interval (default: 5 minutes). Use Stop to end it.
func (pm *ProgramMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if pm == nil {
		return
	}
	pm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go pm.runPeriodicCollection(ctx, interval)
	})
}

func (pm *ProgramMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pm.collectFamilies(ctx)

	for {
		select {
		case <-pm.stopChan:
			pm.logger.Info("Stopping periodic program metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.collectFamilies(ctx)
		}
	}
}

func (pm *ProgramMetrics) collectFamilies(ctx context.Context) {
	if pm.familyProvider == nil {
		return
	}
	count, err := pm.familyProvider.CountFamilies(ctx)
	if err != nil {
		pm.logger.Warn("Failed to count families for metrics", zap.Error(err))
		return
	}
	pm.registeredFamilies.Record(ctx, count)
}

// Stop stops the periodic collection.
func (pm *ProgramMetrics) Stop() {
	if pm == nil {
		return
	}
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewProgramMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// Program metric attribute keys
var (
	AttrAction           = attribute.Key("action")
	AttrDistributionKind = attribute.Key("distribution_kind")
	AttrOperation        = attribute.Key("operation")
)
