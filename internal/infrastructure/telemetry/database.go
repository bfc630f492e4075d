package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls database instrumentation.
type DBConfig struct {
	Enabled            bool
	DBSystem           string
	RecordSQL          bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DefaultDBConfig returns instrumentation settings for PostgreSQL.
func DefaultDBConfig() DBConfig {
	return DBConfig{
		Enabled:            true,
		DBSystem:           "postgresql",
		SlowQueryThreshold: 200 * time.Millisecond,
		PoolStatsInterval:  15 * time.Second,
	}
}

const queryStartKey = "bakery:query_start"

// DBObserver records per-statement metrics, flags slow statements on the
// active span and samples connection pool statistics.
type DBObserver struct {
	cfg    DBConfig
	logger *zap.Logger

	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	poolConns      *Gauge

	sqlDB    *sql.DB
	stopChan chan struct{}
	stopOnce sync.Once
}

// InstrumentDB registers otelgorm tracing and the DBObserver callbacks on db.
// A disabled config returns a nil observer, whose methods are no-ops.
func InstrumentDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBObserver, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.RecordSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return nil, err
	}

	o := &DBObserver{cfg: cfg, logger: logger, stopChan: make(chan struct{})}
	var err error
	if o.queryTotal, err = NewCounter(meter, "db_query_total", "Total number of database statements", "{queries}"); err != nil {
		return nil, err
	}
	if o.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement duration",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if o.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the configured threshold", "{queries}"); err != nil {
		return nil, err
	}
	if o.poolConns, err = NewGauge(meter, "db_pool_connections", "Connection pool size by state", "{connections}"); err != nil {
		return nil, err
	}

	if err := o.register(db); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		o.sqlDB = sqlDB
	}
	return o, nil
}

func (o *DBObserver) register(db *gorm.DB) error {
	cb := db.Callback()
	before, after := o.before, o.after
	return errors.Join(
		cb.Create().Before("gorm:create").Register("bakery:before_create", before),
		cb.Query().Before("gorm:query").Register("bakery:before_query", before),
		cb.Update().Before("gorm:update").Register("bakery:before_update", before),
		cb.Delete().Before("gorm:delete").Register("bakery:before_delete", before),
		cb.Row().Before("gorm:row").Register("bakery:before_row", before),
		cb.Raw().Before("gorm:raw").Register("bakery:before_raw", before),
		cb.Create().After("gorm:create").Register("bakery:after_create", after("INSERT")),
		cb.Query().After("gorm:query").Register("bakery:after_query", after("SELECT")),
		cb.Update().After("gorm:update").Register("bakery:after_update", after("UPDATE")),
		cb.Delete().After("gorm:delete").Register("bakery:after_delete", after("DELETE")),
		cb.Row().After("gorm:row").Register("bakery:after_row", after("")),
		cb.Raw().After("gorm:raw").Register("bakery:after_raw", after("")),
	)
}

func (o *DBObserver) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (o *DBObserver) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		op := operation
		if op == "" {
			op = operationOf(db.Statement.SQL.String())
		}
		o.observe(db.Statement.Context, db, op, time.Since(start))
	}
}

func (o *DBObserver) observe(ctx context.Context, db *gorm.DB, operation string, elapsed time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := []attribute.KeyValue{AttrDBOperation.String(operation), AttrDBTable.String(db.Statement.Table)}
	failed := db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)
	o.queryTotal.Inc(ctx, append(attrs, attribute.Bool("error", failed))...)
	o.queryDuration.RecordDuration(ctx, elapsed, attrs...)

	if elapsed < o.cfg.SlowQueryThreshold {
		return
	}
	o.slowQueryTotal.Inc(ctx, attrs...)
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
	}
	o.logger.Warn("Slow database statement",
		zap.String("operation", operation),
		zap.String("table", db.Statement.Table),
		zap.Duration("duration", elapsed),
		zap.Duration("threshold", o.cfg.SlowQueryThreshold),
	)
}

func operationOf(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch op := strings.ToUpper(fields[0]); op {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return op
	case "WITH":
		return "SELECT"
	default:
		return "OTHER"
	}
}

// StartPoolStats samples sql.DBStats until ctx ends or Stop is called.
func (o *DBObserver) StartPoolStats(ctx context.Context) {
	if o == nil || o.sqlDB == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(o.cfg.PoolStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-o.stopChan:
				return
			case <-ticker.C:
				o.samplePool(ctx)
			}
		}
	}()
}

func (o *DBObserver) samplePool(ctx context.Context) {
	stats := o.sqlDB.Stats()
	o.poolConns.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	o.poolConns.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	o.poolConns.Record(ctx, int64(stats.MaxOpenConnections), AttrDBState.String("max"))
}

// Stop ends pool sampling.
func (o *DBObserver) Stop() {
	if o == nil {
		return
	}
	o.stopOnce.Do(func() { close(o.stopChan) })
}
