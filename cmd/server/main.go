package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/bakeryaid/backend/internal/application/catalog"
	distributionapp "github.com/bakeryaid/backend/internal/application/distribution"
	registryapp "github.com/bakeryaid/backend/internal/application/registry"
	reportapp "github.com/bakeryaid/backend/internal/application/report"
	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/cache"
	"github.com/bakeryaid/backend/internal/infrastructure/config"
	"github.com/bakeryaid/backend/internal/infrastructure/logger"
	"github.com/bakeryaid/backend/internal/infrastructure/migration"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence"
	"github.com/bakeryaid/backend/internal/infrastructure/telemetry"
	"github.com/bakeryaid/backend/internal/interfaces/http/handler"
	"github.com/bakeryaid/backend/internal/interfaces/http/middleware"
	"github.com/bakeryaid/backend/internal/interfaces/http/router"

	_ "github.com/bakeryaid/backend/docs"
)

//	@title			Bakery Aid API
//	@version		1.0
//	@description	Beneficiary registry and bread distribution for the municipal bakery aid program
//	@contact.name	Bakery Aid
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//	@host			localhost:8080
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Log export is set up first so the zap logger can tee into it
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Telemetry.LogsLevel,
	})
	if err != nil {
		panic("Failed to initialize log export: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, logsProvider.ZapCore())
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting bakery aid backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", handler.Version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.TracesEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: cfg.Profiling.ApplicationName,
		ProfileTypes:    cfg.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	slow := cfg.Database.SlowThreshold
	if slow <= 0 {
		slow = cfg.Telemetry.DBSlowQueryThresh
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), slow)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	dbObserver, err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Enabled:            cfg.Telemetry.DBTraceEnabled,
		DBSystem:           dbSystem,
		RecordSQL:          cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, meterProvider.Meter("bakeryaid/database"), log)
	if err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	dbObserver.StartPoolStats(ctx)
	defer dbObserver.Stop()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		err := migration.AutoMigrate(migrateCtx, db.DB, cfg.Database, log)
		cancel()
		if err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	clock, err := shared.NewSystemClock(cfg.Program.Timezone)
	if err != nil {
		log.Fatal("Invalid program time zone", zap.Error(err))
	}

	// Repositories
	beneficiaryRepo := persistence.NewGormBeneficiaryRepository(db.DB)
	memberRepo := persistence.NewGormFamilyMemberRepository(db.DB)
	eventRepo := persistence.NewGormDistributionEventRepository(db.DB)
	productionRepo := persistence.NewGormProductionRecordRepository(db.DB)
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)
	registryScope := persistence.NewGormRegistryTransactionScope(db.DB)
	distributionScope := persistence.NewGormDistributionTransactionScope(db.DB)

	catalogService := catalogapp.NewCatalogService(catalogRepo)
	program, err := catalogService.VerifyDefaultProgram(ctx, cfg.Program.DefaultID)
	if err != nil {
		log.Fatal("Default program is not available", zap.Error(err),
			zap.String("program_id", cfg.Program.DefaultID.String()))
	}
	log.Info("Default program resolved", zap.String("program", program.Name))

	programMetrics, err := telemetry.NewProgramMetrics(telemetry.ProgramMetricsConfig{
		Meter:          meterProvider.Meter("bakeryaid/program"),
		Logger:         log,
		FamilyProvider: dashboardRepo,
	})
	if err != nil {
		log.Fatal("Failed to create program metrics", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		programMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
	}
	defer programMetrics.Stop()

	beneficiaryService := registryapp.NewBeneficiaryService(registryScope, beneficiaryRepo, memberRepo, clock, cfg.Program.DefaultID)
	beneficiaryService.SetLogger(log)
	beneficiaryService.SetMetrics(programMetrics)

	distributionService := distributionapp.NewDistributionService(distributionScope, eventRepo, clock, cfg.Program.DefaultID)
	distributionService.SetLogger(log)
	distributionService.SetMetrics(programMetrics)

	productionService := distributionapp.NewProductionService(distributionScope, productionRepo, clock)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, clock)

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.Idempotency.RequireRedis),
		)
		idempotencyStore, err = factory.CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			if err := idempotencyStore.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.Env == "production"

	engine, err := router.NewEngine(router.Options{
		Logger:           log,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   tracerProvider.IsEnabled(),
		MeterProvider:    meterProvider,
		Profiling:        profiler.IsEnabled(),
		CORS:             corsConfig,
		Security:         securityConfig,
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		RequestTimeout:   cfg.HTTP.RequestTimeout,
		RateLimiter:      rateLimiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.Idempotency.TTL,
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
		},
	}, router.Handlers{
		Beneficiary:  handler.NewBeneficiaryHandler(beneficiaryService),
		Distribution: handler.NewDistributionHandler(distributionService),
		Production:   handler.NewProductionHandler(productionService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		System:       handler.NewSystemHandler(cfg.App.Name, cfg.App.Env, db),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Telemetry is flushed after the server stops taking requests
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
