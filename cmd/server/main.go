package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"strefex/internal/handler"
	"strefex/internal/middleware"
	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/internal/service"
	"strefex/pkg/config"
	"strefex/pkg/database"
	"strefex/pkg/jwtutil"
	"strefex/pkg/logger"
	"strefex/pkg/payment"
	"strefex/pkg/tenant"
	"strefex/prometheus"
)

const serviceName = "strefex"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting strefex backend...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Company{},
		&model.Role{},
		&model.User{},
		&model.Project{},
		&model.Asset{},
		&model.Audit{},
		&model.Rfq{},
		&model.RfqLineItem{},
		&model.Subscription{},
	); err != nil {
		log.Fatal("Failed to migrate models", zap.Error(err))
	}
	log.Info("Database migration complete")

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized")

	// Wire repositories, services and handlers
	jwtUtil := jwtutil.NewJWTUtil(&cfg.JWT)
	provider := payment.NewProvider(&cfg.Billing)

	companies := repository.NewCompanyRepository(db)
	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	projects := repository.NewProjectRepository(db)
	assets := repository.NewAssetRepository(db)
	audits := repository.NewAuditRepository(db)
	rfqs := repository.NewRfqRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)

	authService := service.NewAuthService(users, companies, jwtUtil)
	userService := service.NewUserService(users, roles)
	billingService := service.NewBillingService(subscriptions, provider, &cfg.Billing)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roles)
	companyHandler := handler.NewCompanyHandler(companies)
	projectHandler := handler.NewProjectHandler(projects)
	assetHandler := handler.NewAssetHandler(assets)
	auditHandler := handler.NewAuditHandler(audits)
	rfqHandler := handler.NewRfqHandler(rfqs)
	billingHandler := handler.NewBillingHandler(billingService)
	healthHandler := handler.NewHealthHandler(serviceName)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/billing/plans", billingHandler.Plans)
	e.POST("/billing/webhook", billingHandler.Webhook)

	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authHandler.Me, middleware.Auth(jwtUtil))

	// API routes - all require a valid token with a resolvable tenant
	api := e.Group("/api")
	api.Use(middleware.Auth(jwtUtil))

	writers := middleware.RequireRoles(tenant.RoleAdmin, tenant.RoleManager)
	admins := middleware.RequireRoles(tenant.RoleAdmin)

	company := api.Group("/company")
	company.GET("", companyHandler.Get)
	company.PATCH("", companyHandler.Update, admins)

	usersGroup := api.Group("/users", admins)
	usersGroup.GET("", userHandler.List)
	usersGroup.GET("/:id", userHandler.Get)
	usersGroup.POST("", userHandler.Create)
	usersGroup.PATCH("/:id", userHandler.Update)

	rolesGroup := api.Group("/roles", admins)
	rolesGroup.GET("", roleHandler.List)
	rolesGroup.POST("", roleHandler.Create)

	projectsGroup := api.Group("/projects")
	projectsGroup.GET("", projectHandler.List)
	projectsGroup.GET("/:id", projectHandler.Get)
	projectsGroup.POST("", projectHandler.Create, writers)
	projectsGroup.PATCH("/:id", projectHandler.Update, writers)
	projectsGroup.DELETE("/:id", projectHandler.Delete, admins)

	assetsGroup := api.Group("/assets")
	assetsGroup.GET("", assetHandler.List)
	assetsGroup.GET("/:id", assetHandler.Get)
	assetsGroup.POST("", assetHandler.Create, writers)
	assetsGroup.PATCH("/:id", assetHandler.Update, writers)
	assetsGroup.DELETE("/:id", assetHandler.Delete, admins)

	auditsGroup := api.Group("/audits")
	auditsGroup.GET("", auditHandler.List)
	auditsGroup.GET("/:id", auditHandler.Get)
	auditsGroup.POST("", auditHandler.Create, writers)
	auditsGroup.PATCH("/:id", auditHandler.Update, writers)
	auditsGroup.DELETE("/:id", auditHandler.Delete, admins)

	rfqsGroup := api.Group("/rfqs")
	rfqsGroup.GET("", rfqHandler.List)
	rfqsGroup.GET("/:id", rfqHandler.Get)
	rfqsGroup.POST("", rfqHandler.Create, writers)
	rfqsGroup.PATCH("/:id", rfqHandler.Update, writers)
	rfqsGroup.DELETE("/:id", rfqHandler.Delete, admins)

	billing := api.Group("/billing")
	billing.GET("/subscription", billingHandler.GetSubscription)
	billing.POST("/trial", billingHandler.StartTrial, admins)
	billing.POST("/checkout", billingHandler.Checkout, admins)
	billing.POST("/subscribe", billingHandler.CreateSubscription, admins)
	billing.POST("/portal", billingHandler.Portal, admins)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
