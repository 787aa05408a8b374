package handler

import (
	"remitflow/internal/adapter/http/middleware"
	redisStore "remitflow/internal/adapter/storage/redis"
	"remitflow/internal/core/ports"
	"remitflow/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AccountSvc     ports.AccountService
	BeneficiarySvc ports.BeneficiaryService
	QuoteSvc       ports.QuoteService
	WizardSvc      ports.WizardService
	TransferSvc    ports.TransferService
	DirectorySvc   ports.DirectoryService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Metrics        *metrics.Collector // nil = metrics disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	directoryHandler := NewDirectoryHandler(deps.DirectorySvc, deps.QuoteSvc)
	v1.GET("/currencies", jwtAuth, directoryHandler.Currencies)
	v1.GET("/quotes", jwtAuth, rl("quotes"), directoryHandler.Quote)

	accountHandler := NewAccountHandler(deps.AccountSvc)
	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.GET("", accountHandler.List)
		accounts.GET("/:id", accountHandler.Get)
	}

	beneficiaryHandler := NewBeneficiaryHandler(deps.BeneficiarySvc)
	beneficiaries := v1.Group("/beneficiaries", jwtAuth)
	{
		beneficiaries.GET("", beneficiaryHandler.List)
		beneficiaries.POST("", beneficiaryHandler.Create)
		beneficiaries.GET("/:id", beneficiaryHandler.Get)
		beneficiaries.DELETE("/:id", beneficiaryHandler.Delete)
	}

	wizardHandler := NewWizardHandler(deps.WizardSvc)
	transferHandler := NewTransferHandler(deps.TransferSvc)

	transfers := v1.Group("/transfers", jwtAuth)
	{
		transfers.GET("/methods", directoryHandler.Methods)

		drafts := transfers.Group("/drafts")
		{
			drafts.POST("", rl("wizard"), wizardHandler.Start)
			drafts.GET("/:id", wizardHandler.Get)
			drafts.PUT("/:id/destination", rl("wizard"), wizardHandler.SetDestination)
			drafts.PUT("/:id/amount", rl("wizard"), wizardHandler.SetAmount)
			drafts.PUT("/:id/method", rl("wizard"), wizardHandler.SetMethod)
			drafts.POST("/:id/advance", rl("wizard"), wizardHandler.Advance)
			drafts.POST("/:id/back", rl("wizard"), wizardHandler.Back)
			drafts.POST("/:id/confirm", rl("transfers"), transferHandler.Confirm)
		}

		transfers.GET("", transferHandler.List)
		transfers.GET("/:id", transferHandler.Get)
	}

	return r
}
