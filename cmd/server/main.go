package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	b2bapp "github.com/xpro/backend/internal/application/b2b"
	catalogapp "github.com/xpro/backend/internal/application/catalog"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
	enrollmentapp "github.com/xpro/backend/internal/application/enrollment"
	identityapp "github.com/xpro/backend/internal/application/identity"
	integrationapp "github.com/xpro/backend/internal/application/integration"
	notificationapp "github.com/xpro/backend/internal/application/notification"
	voucherapp "github.com/xpro/backend/internal/application/voucher"
	"github.com/xpro/backend/internal/infrastructure/auth"
	"github.com/xpro/backend/internal/infrastructure/cache"
	"github.com/xpro/backend/internal/infrastructure/config"
	"github.com/xpro/backend/internal/infrastructure/courseware"
	"github.com/xpro/backend/internal/infrastructure/crm"
	"github.com/xpro/backend/internal/infrastructure/event"
	"github.com/xpro/backend/internal/infrastructure/logger"
	"github.com/xpro/backend/internal/infrastructure/mail"
	"github.com/xpro/backend/internal/infrastructure/payment"
	"github.com/xpro/backend/internal/infrastructure/persistence"
	"github.com/xpro/backend/internal/infrastructure/scheduler"
	"github.com/xpro/backend/internal/infrastructure/storage"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
	"github.com/xpro/backend/internal/infrastructure/vendorfeed"
	"github.com/xpro/backend/internal/interfaces/http/handler"
	"github.com/xpro/backend/internal/interfaces/http/middleware"
	"github.com/xpro/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			xPRO Backend API
//	@version		1.0
//	@description	Course marketplace backend covering catalog, checkout, enrollment and vendor integrations

//	@host		localhost:8080
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
		_ = log.Sync()
	}()

	log.Info("Starting xPRO Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Telemetry (tracing and metrics), registered before any traffic
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
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

		dbMetricsConfig := telemetry.DefaultDBMetricsConfig()
		dbMetricsConfig.Enabled = true
		if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsConfig, log); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}

		dbTracingConfig := telemetry.DefaultDBTracingConfig()
		dbTracingConfig.Enabled = true
		tracingPlugin := telemetry.NewDBTracingPlugin(dbTracingConfig, log)
		if err := tracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Telemetry enabled",
			zap.String("endpoint", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Token blacklist backed by Redis, with in-process fallback so a
	// missing Redis does not block startup in development
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize repositories
	platformRepo := persistence.NewGormPlatformRepository(db.DB)
	programRepo := persistence.NewGormProgramRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	runRepo := persistence.NewGormCourseRunRepository(db.DB)
	topicRepo := persistence.NewGormCourseTopicRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	coursewareAuthRepo := persistence.NewGormCoursewareAuthRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	basketRepo := persistence.NewGormBasketRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	b2bCouponRepo := persistence.NewGormB2BCouponRepository(db.DB)
	b2bOrderRepo := persistence.NewGormB2BOrderRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that persist event-producing aggregates
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	b2bOrderRepo.SetOutboxEventSaver(outboxPublisher)

	// External service clients
	gateway, err := payment.NewGateway(cfg.CyberSource)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}
	crmClient := crm.NewClient(cfg.Hubspot)
	mailClient := mail.NewMailgunClient(cfg.Mailgun)
	feedClient := vendorfeed.NewClient(cfg.Emeritus)
	edxClient := courseware.NewClient(cfg.OpenEdx)

	var objectStorage voucherapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("No storage bucket configured, voucher PDFs will not be persisted")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Initialize application services
	programService := catalogapp.NewProgramService(programRepo)
	courseService := catalogapp.NewCourseService(courseRepo, programRepo, topicRepo, productRepo)
	runService := catalogapp.NewCourseRunService(runRepo, courseRepo)

	productService := ecommerceapp.NewProductService(productRepo)
	companyService := ecommerceapp.NewCompanyService(companyRepo)
	couponService := ecommerceapp.NewCouponService(couponRepo, productRepo, companyRepo)
	basketService := ecommerceapp.NewBasketService(basketRepo, productRepo, couponRepo, runRepo, courseRepo, enrollmentRepo)
	checkoutService := ecommerceapp.NewCheckoutService(basketRepo, productRepo, couponRepo, orderRepo, userRepo, runRepo, programRepo, gateway)
	fulfillmentService := ecommerceapp.NewFulfillmentService(orderRepo, basketRepo, gateway)

	b2bOrderService := b2bapp.NewOrderService(b2bOrderRepo, b2bCouponRepo, productRepo, couponRepo, gateway, cfg.App.BaseURL)

	coursewareUserService := enrollmentapp.NewCoursewareUserService(coursewareAuthRepo, userRepo, edxClient, cfg.OpenEdx.TokenExpiryMargin)
	enrollmentService := enrollmentapp.NewEnrollmentService(
		enrollmentRepo, orderRepo, productRepo, courseRepo, runRepo, userRepo,
		edxClient, coursewareUserService, log,
	)

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, coursewareUserService, log)

	crmSyncService := integrationapp.NewCRMSyncService(userRepo, orderRepo, productRepo, b2bOrderRepo, crmClient, log)
	notificationService := notificationapp.NewNotificationService(
		userRepo, orderRepo, b2bOrderRepo, couponRepo, mailClient, cfg.Mailgun.SupportEmail, log,
	)
	vendorSyncService := integrationapp.NewVendorSyncService(platformRepo, courseRepo, runRepo, topicRepo, feedClient, "Emeritus", log)

	voucherService := voucherapp.NewVoucherService(
		voucherRepo, courseRepo, runRepo, productRepo, couponRepo, basketRepo, companyRepo, objectStorage,
	)
	voucherConfig := voucherapp.DefaultVoucherServiceConfig()
	if cfg.Voucher.CompanyName != "" {
		voucherConfig.CompanyName = cfg.Voucher.CompanyName
	}
	if cfg.Storage.PresignExpiration > 0 {
		voucherConfig.PDFUploadExpiry = cfg.Storage.PresignExpiration
	}
	voucherService.SetConfig(voucherConfig)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Deduplication store for event handlers. Events reach handlers
	// both directly and through the outbox, so every handler is
	// wrapped to process each event ID once.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = storeFactory.CreateInMemoryStore()
	}

	// Order fulfillment -> enrollment creation
	orderFulfilledHandler := enrollmentapp.NewOrderFulfilledHandler(enrollmentService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderFulfilledHandler, idempotencyStore, log))

	// Order refund -> enrollment deactivation
	orderRefundedHandler := enrollmentapp.NewOrderRefundedHandler(enrollmentService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderRefundedHandler, idempotencyStore, log))

	// Retail order lifecycle -> CRM deal sync
	orderSyncHandler := integrationapp.NewOrderSyncHandler(crmSyncService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderSyncHandler, idempotencyStore, log))

	// B2B order fulfillment -> CRM deal sync
	b2bOrderSyncHandler := integrationapp.NewB2BOrderSyncHandler(crmSyncService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(b2bOrderSyncHandler, idempotencyStore, log))

	// Order fulfillment -> receipt email
	orderReceiptHandler := notificationapp.NewOrderReceiptHandler(notificationService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderReceiptHandler, idempotencyStore, log))

	// B2B order fulfillment -> enrollment code email
	enrollmentCodesHandler := notificationapp.NewEnrollmentCodesHandler(notificationService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(enrollmentCodesHandler, idempotencyStore, log))

	// Courseware enrollment failure -> support alert email
	enrollmentFailureHandler := notificationapp.NewEnrollmentFailureHandler(notificationService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(enrollmentFailureHandler, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("order_fulfilled_events", orderFulfilledHandler.EventTypes()),
		zap.Strings("order_refunded_events", orderRefundedHandler.EventTypes()),
		zap.Strings("order_sync_events", orderSyncHandler.EventTypes()),
		zap.Strings("b2b_order_sync_events", b2bOrderSyncHandler.EventTypes()),
		zap.Strings("order_receipt_events", orderReceiptHandler.EventTypes()),
		zap.Strings("enrollment_codes_events", enrollmentCodesHandler.EventTypes()),
		zap.Strings("enrollment_failure_events", enrollmentFailureHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor republishes persisted events, covering any
	// direct publish lost to a crash between commit and delivery
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		}
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Inject event bus into services that publish events
	checkoutService.SetEventPublisher(eventBus)
	fulfillmentService.SetEventPublisher(eventBus)
	b2bOrderService.SetEventPublisher(eventBus)
	enrollmentService.SetEventPublisher(eventBus)

	// Background sync scheduler (vendor feed ingestion, CRM sweeps)
	if cfg.Scheduler.Enabled {
		syncExecutor := scheduler.NewSyncJobExecutor(vendorSyncService, crmSyncService, log)
		syncScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, syncExecutor, log)
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := syncScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()

		cronConfig := scheduler.DefaultCronTriggerConfig()
		if cfg.Scheduler.VendorSyncSchedule != "" {
			cronConfig.VendorSyncSchedule = cfg.Scheduler.VendorSyncSchedule
		}
		cronTrigger, err := scheduler.NewCronTrigger(cronConfig, syncScheduler, log)
		if err != nil {
			log.Fatal("Invalid vendor sync schedule", zap.Error(err))
		}
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
		log.Info("Sync scheduler started",
			zap.String("vendor_sync_schedule", cronConfig.VendorSyncSchedule),
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	programHandler := handler.NewProgramHandler(programService)
	courseHandler := handler.NewCourseHandler(courseService)
	runHandler := handler.NewCourseRunHandler(runService)
	productHandler := handler.NewProductHandler(productService)
	companyHandler := handler.NewCompanyHandler(companyService)
	couponHandler := handler.NewCouponHandler(couponService)
	basketHandler := handler.NewBasketHandler(basketService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, fulfillmentService)
	callbackHandler := handler.NewPaymentCallbackHandler(fulfillmentService, b2bOrderService)
	b2bHandler := handler.NewB2BHandler(b2bOrderService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, coursewareUserService)
	voucherHandler := handler.NewVoucherHandler(voucherService)
	integrationHandler := handler.NewIntegrationHandler(crmSyncService, vendorSyncService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Validation errors report JSON field names
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, tracing, panic recovery, request
	// logging, security headers, CORS, body limit, rate limiting
	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Liveness probe outside API versioning
	engine.GET("/healthz", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	if cfg.Telemetry.Enabled {
		r.Use(middleware.TracingAttributeInjector())
	}

	r.Register(handler.AuthRoutes(authHandler, userHandler)).
		Register(handler.UserRoutes(userHandler)).
		Register(handler.CatalogRoutes(programHandler, courseHandler, runHandler)).
		Register(handler.CommerceRoutes(basketHandler, checkoutHandler, productHandler)).
		Register(handler.PaymentCallbackRoutes(callbackHandler)).
		Register(handler.B2BRoutes(b2bHandler)).
		Register(handler.EnrollmentRoutes(enrollmentHandler)).
		Register(handler.VoucherRoutes(voucherHandler)).
		Register(handler.AdminRoutes(
			programHandler, courseHandler, runHandler,
			productHandler, companyHandler, couponHandler,
			checkoutHandler, enrollmentHandler, integrationHandler,
			middleware.RequireStaff(),
		)).
		Register(handler.SystemRoutes(systemHandler))

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
