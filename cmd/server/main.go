package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contactsapp "github.com/contacthub/backend/internal/application/contacts"
	identityapp "github.com/contacthub/backend/internal/application/identity"
	"github.com/contacthub/backend/internal/infrastructure/auth"
	"github.com/contacthub/backend/internal/infrastructure/cache"
	"github.com/contacthub/backend/internal/infrastructure/config"
	"github.com/contacthub/backend/internal/infrastructure/event"
	"github.com/contacthub/backend/internal/infrastructure/logger"
	"github.com/contacthub/backend/internal/infrastructure/persistence"
	"github.com/contacthub/backend/internal/infrastructure/storage"
	"github.com/contacthub/backend/internal/infrastructure/telemetry"
	"github.com/contacthub/backend/internal/interfaces/http/handler"
	"github.com/contacthub/backend/internal/interfaces/http/middleware"
	"github.com/contacthub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/contacthub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ContactHub API
//	@version		1.0
//	@description	Contacts management service with JWT authentication, avatar storage and birthday reminders

//	@contact.name	API Support
//	@contact.url	https://github.com/contacthub/backend
//	@contact.email	support@contacthub.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8000
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ContactHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize telemetry providers (no-ops when disabled)
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Ship application logs to the collector alongside traces and metrics
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, loggerProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to bridge logs to OTLP, keeping local-only logger", zap.Error(err))
		} else {
			log = bridged
		}
	}

	// Continuous profiling via Pyroscope (if enabled)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Profiling.Enabled,
		ServerAddress:       cfg.Profiling.ServerAddress,
		ApplicationName:     cfg.Profiling.ApplicationName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database observability plugins
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := db.DB.Use(dbTracing); err != nil {
			log.Warn("Failed to register database tracing plugin", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled {
		dbMetrics, err := telemetry.NewDBMetrics(
			meterProvider.Meter("contacthub-backend/db"),
			telemetry.DefaultDBMetricsConfig(),
			log,
		)
		if err != nil {
			log.Warn("Failed to create database metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to register database metrics plugin", zap.Error(err))
		}
	}

	// Connect to Redis. The service degrades to in-memory token blacklist
	// and user cache when Redis is unreachable, so auth keeps working.
	var (
		redisClient    *redis.Client
		tokenBlacklist auth.TokenBlacklist
		userCache      cache.UserCache
	)
	redisClient, err = cache.NewClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and user cache", zap.Error(err))
		redisClient = nil
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		userCache = cache.NewInMemoryUserCache()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		userCache = cache.NewRedisUserCache(redisClient)
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize avatar object storage
	avatarStorage, err := storage.NewS3AvatarStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize avatar storage", zap.Error(err))
	}
	if err := avatarStorage.EnsureBucket(context.Background()); err != nil {
		log.Fatal("Failed to ensure avatar bucket", zap.Error(err))
	}
	log.Info("Avatar storage ready", zap.String("bucket", avatarStorage.GetBucket()))

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)

	// Initialize event bus with audit logging for every domain event
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Business metrics with periodic user/contact totals collection
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meterProvider.Meter("contacthub-backend/business"),
		Logger:        log,
		StatsProvider: repoStatsProvider{users: userRepo, contacts: contactRepo},
	})
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	if cfg.Telemetry.Enabled {
		businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
		defer businessMetrics.Stop()
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, userCache, log)
	userService := identityapp.NewUserService(userRepo, avatarStorage, userCache, cfg.Storage.MaxUploadSize, log)
	contactService := contactsapp.NewContactService(contactRepo, log)

	authService.SetEventPublisher(eventBus)
	authService.SetBusinessMetrics(businessMetrics)
	userService.SetEventPublisher(eventBus)
	userService.SetBusinessMetrics(businessMetrics)
	contactService.SetEventPublisher(eventBus)
	contactService.SetBusinessMetrics(businessMetrics)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	contactHandler := handler.NewContactHandler(contactService)
	healthHandler := handler.NewHealthHandler().
		AddCheck("database", func(ctx context.Context) error {
			return db.Ping()
		}).
		AddCheck("redis", func(ctx context.Context) error {
			if redisClient == nil {
				return errors.New("redis not connected")
			}
			return redisClient.Ping(ctx).Err()
		})

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning, probes all dependencies)
	engine.GET("/healthcheck", healthHandler.Healthcheck)

	// Swagger documentation endpoint with optional protection
	swaggerGroup := engine.Group("/swagger")
	swaggerGroup.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, middleware.JWTAuthMiddleware(jwtService)))
	swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
		},
		SkipPathPrefixes: []string{
			"/api/v1/auth/verify",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tracing, metrics and profiling run after JWT so spans carry user IDs
	if cfg.Telemetry.Enabled {
		r.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		r.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Profiling.Enabled {
		r.Use(middleware.Profiling())
	}

	// Identity domain (registration, login, current user, email verification)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		}))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.GET("/verify/:token", authHandler.VerifyEmail)

	// User profile routes
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.PATCH("/avatar", userHandler.UpdateAvatar)

	// Contacts domain (all owner-scoped, authentication required)
	contactRoutes := router.NewDomainGroup("contacts", "/contacts")
	contactRoutes.POST("", contactHandler.Create)
	contactRoutes.GET("", contactHandler.List)
	contactRoutes.GET("/search", contactHandler.Search)
	contactRoutes.GET("/birthdays", contactHandler.UpcomingBirthdays)
	contactRoutes.GET("/:id", contactHandler.GetByID)
	contactRoutes.PUT("/:id", contactHandler.Update)
	contactRoutes.DELETE("/:id", contactHandler.Delete)

	// Register all domain groups
	r.Register(authRoutes).
		Register(userRoutes).
		Register(contactRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// repoStatsProvider feeds aggregate user and contact counts to the
// telemetry gauges.
type repoStatsProvider struct {
	users    *persistence.GormUserRepository
	contacts *persistence.GormContactRepository
}

func (p repoStatsProvider) CountUsers(ctx context.Context) (int64, error) {
	return p.users.Count(ctx)
}

func (p repoStatsProvider) CountContacts(ctx context.Context) (int64, error) {
	return p.contacts.Count(ctx)
}
