package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	_ "github.com/parkview/rental-system/docs"
	"github.com/parkview/rental-system/internal/api/handler"
	"github.com/parkview/rental-system/internal/api/middleware"
	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/core/service"
	"github.com/parkview/rental-system/internal/infrastructure/db/sqlite"
	"github.com/parkview/rental-system/internal/infrastructure/http/handlers"
	"github.com/parkview/rental-system/internal/pkg/config"
	"github.com/parkview/rental-system/internal/pkg/session"
)

// Dependencies are the infrastructure handles the router wires services from.
// Mongo, Redis, Activity and ActivityStore are optional.
type Dependencies struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *gorm.DB
	Mongo    *mongo.Database
	Redis    *redis.Client
	Payments ports.PaymentProvider
	Guard    ports.PaymentGuard

	Activity      ports.ActivityRecorder
	ActivityStore ports.ActivityRepository

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) (*echo.Echo, error) {
	if d.Config == nil || d.DB == nil || d.Payments == nil {
		return nil, errors.New("router: config, database and payment provider are required")
	}
	cfg := d.Config
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	tenantSessions, err := session.NewManager(session.ScopeTenant, cfg.Session.TenantSecret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}
	adminSessions, err := session.NewManager(session.ScopeAdmin, cfg.Session.AdminSecret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "rental",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	tx := sqlite.NewTransactor(d.DB)
	users := sqlite.NewUserRepository(d.DB)
	apartments := sqlite.NewApartmentRepository(d.DB)
	leases := sqlite.NewLeaseRepository(d.DB)
	applications := sqlite.NewApplicationRepository(d.DB)
	payments := sqlite.NewPaymentRepository(d.DB)
	maintenance := sqlite.NewMaintenanceRepository(d.DB)

	authService := service.NewAuthService(users, d.Activity, d.Log)
	apartmentService := service.NewApartmentService(apartments, tx, d.Activity, d.Log)
	applicationService := service.NewApplicationService(applications, apartments, d.Activity, d.Log)
	leaseService := service.NewLeaseService(leases, apartments, users, tx, d.Activity, d.Log)
	paymentService := service.NewPaymentService(leases, payments, tx, d.Payments, d.Guard, d.Activity,
		service.PaymentOptions{Currency: cfg.Payment.Currency, Timeout: cfg.Payment.Timeout}, d.Log)
	maintenanceService := service.NewMaintenanceService(maintenance, leases, d.Activity, d.Log)
	activityService := service.NewActivityService(d.ActivityStore)

	authHandler := handler.NewAuthHandler(authService, tenantSessions, adminSessions, cfg.Session.CookieSecure)
	rentalHandler := handler.NewRentalHandler(apartmentService, cfg.PublicBaseURL)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	leaseHandler := handler.NewLeaseHandler(leaseService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
	adminHandler := handler.NewAdminHandler(authService, activityService)

	credentialLimit := middleware.CredentialRateLimit(cfg.Auth.RateLimit, cfg.Auth.RateBurst, d.Log)
	tenantOnly := []echo.MiddlewareFunc{middleware.Session(tenantSessions), middleware.RBAC(domain.RoleTenant)}

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup, credentialLimit)
	e.POST("/login", authHandler.Login, credentialLimit)
	e.POST("/logout", authHandler.Logout)
	e.GET("/me", authHandler.Me, tenantOnly...)
	e.POST("/admin/login", authHandler.AdminLogin, credentialLimit)
	e.POST("/admin/logout", authHandler.AdminLogout)

	// --- Public listings ---
	e.GET("/rentals", rentalHandler.List)
	e.GET("/rentals/:id", rentalHandler.Get)

	// --- Tenant routes ---
	e.POST("/apply", applicationHandler.Apply, tenantOnly...)
	e.GET("/applications", applicationHandler.ListMine, tenantOnly...)
	e.GET("/tenants/leases", leaseHandler.TenantLeases, tenantOnly...)
	e.POST("/stripe/create-payment-intent", paymentHandler.CreateIntent, tenantOnly...)
	e.POST("/tenants/payments", paymentHandler.Record, tenantOnly...)
	e.GET("/tenants/payments", paymentHandler.ListMine, tenantOnly...)
	e.POST("/maintenance/request", maintenanceHandler.Submit, tenantOnly...)
	e.GET("/maintenance/requests", maintenanceHandler.ListMine, tenantOnly...)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.Session(adminSessions), middleware.RBAC(domain.RoleAdmin))
	admin.GET("/me", authHandler.Me)
	admin.GET("/lease", leaseHandler.AdminList)
	admin.POST("/lease", leaseHandler.Create)
	admin.PUT("/lease/:id/end", leaseHandler.End)
	admin.GET("/applicants", applicationHandler.AdminList)
	admin.PATCH("/applicants/:id/status", applicationHandler.SetStatus)
	admin.GET("/maintenance", maintenanceHandler.AdminList)
	admin.PATCH("/maintenance/:id/status", maintenanceHandler.SetStatus)
	admin.GET("/rentals", rentalHandler.AdminList)
	admin.POST("/rentals", rentalHandler.AdminCreate)
	admin.GET("/tenants", adminHandler.Tenants)
	admin.GET("/payments", paymentHandler.AdminList)
	admin.GET("/activity", adminHandler.Activity)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.DB, d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
