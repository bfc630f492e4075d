package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/logger"
	"github.com/bakeryaid/backend/internal/infrastructure/telemetry"
	"github.com/bakeryaid/backend/internal/interfaces/http/handler"
	"github.com/bakeryaid/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Beneficiary  *handler.BeneficiaryHandler
	Distribution *handler.DistributionHandler
	Production   *handler.ProductionHandler
	Catalog      *handler.CatalogHandler
	Dashboard    *handler.DashboardHandler
	System       *handler.SystemHandler
}

// Options configures the middleware chain built by NewEngine. Zero values
// disable the optional pieces.
type Options struct {
	Logger         *zap.Logger
	ServiceName    string
	TracingEnabled bool
	MeterProvider  *telemetry.MeterProvider
	Profiling      bool
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	TrustedProxies []string
	MaxBodySize    int64
	RequestTimeout time.Duration

	// RateLimiter is owned by the caller, which must Stop it on shutdown
	RateLimiter *middleware.RateLimiter

	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration

	Swagger middleware.SwaggerConfig
}

// NewEngine builds the gin engine with the full middleware chain and every
// route mounted. /health and /swagger sit outside /api/v1 so they skip the
// rate limit and the idempotency guard.
func NewEngine(opts Options, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: opts.ServiceName,
		Enabled:     opts.TracingEnabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(opts.MeterProvider))
	if opts.Profiling {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.Secure(opts.Security))
	engine.Use(middleware.CORS(opts.CORS))
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}
	engine.Use(middleware.Timeout(opts.RequestTimeout))

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(opts.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}
	if opts.IdempotencyStore != nil {
		r.Use(middleware.Idempotency(opts.IdempotencyStore, opts.IdempotencyTTL))
	}

	r.Register(beneficiaryRoutes(h.Beneficiary)).
		Register(distributionRoutes(h.Distribution)).
		Register(productionRoutes(h.Production)).
		Register(catalogRoutes(h.Catalog)).
		Register(dashboardRoutes(h.Dashboard)).
		Register(systemRoutes(h.System)).
		Register(NewDomainGroup("ping", "/ping").GET("", h.System.Ping))
	r.Setup()

	return engine, nil
}

func beneficiaryRoutes(h *handler.BeneficiaryHandler) *DomainGroup {
	g := NewDomainGroup("beneficiaries", "/beneficiaries")
	g.POST("", h.Register).
		GET("", h.List).
		GET("/check-national-id", h.CheckNationalID).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete).
		GET("/:id/members", h.ListMembers)
	return g
}

func distributionRoutes(h *handler.DistributionHandler) *DomainGroup {
	g := NewDomainGroup("distributions", "/distributions")
	g.POST("", h.Create).
		POST("/bulk", h.CreateBulk).
		GET("", h.List).
		GET("/daily-limit", h.CheckDailyLimit).
		GET("/:id", h.GetByID)
	return g
}

func productionRoutes(h *handler.ProductionHandler) *DomainGroup {
	g := NewDomainGroup("productions", "/productions")
	g.POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID)
	return g
}

func catalogRoutes(h *handler.CatalogHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")
	g.GET("/locations", h.ListLocations).
		GET("/products", h.ListProducts).
		GET("/condition-categories", h.ListConditionCategories).
		GET("/economic-categories", h.ListEconomicCategories).
		GET("/programs", h.ListPrograms)
	return g
}

func dashboardRoutes(h *handler.DashboardHandler) *DomainGroup {
	g := NewDomainGroup("dashboard", "/dashboard")
	g.GET("/stats", h.GetStats)
	return g
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo)
	return g
}
