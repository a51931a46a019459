package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountapp "github.com/fintrack/backend/internal/application/account"
	activityapp "github.com/fintrack/backend/internal/application/activity"
	categoryapp "github.com/fintrack/backend/internal/application/category"
	dashboardapp "github.com/fintrack/backend/internal/application/dashboard"
	rateapp "github.com/fintrack/backend/internal/application/exchangerate"
	goalapp "github.com/fintrack/backend/internal/application/goal"
	identityapp "github.com/fintrack/backend/internal/application/identity"
	investmentapp "github.com/fintrack/backend/internal/application/investment"
	notificationapp "github.com/fintrack/backend/internal/application/notification"
	settingsapp "github.com/fintrack/backend/internal/application/settings"
	subapp "github.com/fintrack/backend/internal/application/subscription"
	txnapp "github.com/fintrack/backend/internal/application/transaction"
	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/infrastructure/auth"
	"github.com/fintrack/backend/internal/infrastructure/cache"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/fintrack/backend/internal/infrastructure/event"
	"github.com/fintrack/backend/internal/infrastructure/logger"
	"github.com/fintrack/backend/internal/infrastructure/pdf"
	"github.com/fintrack/backend/internal/infrastructure/persistence"
	"github.com/fintrack/backend/internal/infrastructure/ratefeed"
	"github.com/fintrack/backend/internal/infrastructure/scheduler"
	"github.com/fintrack/backend/internal/infrastructure/storage"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/fintrack/backend/internal/interfaces/http/handler"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/fintrack/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/fintrack/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			FinTrack API
//	@version		1.0
//	@description	Personal finance tracking: accounts, transactions, subscriptions, goals and investments.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	ctx := context.Background()

	logCfg := &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog := logger.New(logCfg)

	// Telemetry providers come up first so the logger can bridge into OTLP
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: loggerProvider,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	defer func() {
		_ = log.Sync()
	}()
	defer shutdownTelemetry(log, tracerProvider, meterProvider, loggerProvider)

	log.Info("Starting FinTrack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
		Environment:     cfg.App.Env,
		Version:         version,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Telemetry.DBTraceEnabled {
		tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem(db.Driver()),
		}, log)
		if err := tracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Database tracing unavailable", zap.Error(err))
		}
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.MetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		PoolStatsInterval:  15 * time.Second,
	}, log)
	if err != nil {
		log.Warn("Database metrics unavailable", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	// Redis backs the token blacklist, rate limits, rate cache and job claims
	// when configured; each falls back to an in-memory store otherwise
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	redisClient, err := cacheFactory.Connect(ctx)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}()
	idempotency := cacheFactory.IdempotencyStore()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient, "")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	txnRepo := persistence.NewGormTransactionRepository(db.DB)
	subRepo := persistence.NewGormSubscriptionRepository(db.DB)
	goalRepo := persistence.NewGormGoalRepository(db.DB)
	investmentRepo := persistence.NewGormInvestmentRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	rateRepo := persistence.NewGormExchangeRateRepository(db.DB)

	cachedRates := cache.NewCachedRateProvider(rateRepo, cacheFactory.RateCache(), cfg.Currency.RateCacheTTL, log)
	converter := exchangerate.NewConverter(cachedRates)

	// Event bus: activity trail, goal notifications and event counters
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(activityapp.NewRecorder(activityRepo, log))
	eventBus.Subscribe(event.NewIdempotentHandler(
		notificationapp.NewGoalCompletedHandler(notificationRepo, log),
		idempotency, log,
		event.WithKeyPrefix("notify:goal_completed:"),
		event.WithDeliveryMeter(meterProvider.Meter("fintrack.events")),
	))
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meterProvider.Meter("fintrack.business"),
		Logger:        log,
		StateProvider: telemetry.NewGormFinanceStateProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics)
	businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	defer businessMetrics.Stop()

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	settingsService := settingsapp.NewSettingsService(settingsRepo)
	categoryService := categoryapp.NewCategoryService(categoryRepo)
	categoryService.SetEventPublisher(eventBus)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
		SessionTTL:       cfg.JWT.RefreshTokenExpiration,
	}, log,
		settingsService,
		identityapp.OnboarderFunc(categoryService.SeedDefaults),
	)
	authService.SetEventPublisher(eventBus)

	accountService := accountapp.NewAccountService(accountRepo)
	accountService.SetEventPublisher(eventBus)
	txnService := txnapp.NewTransactionService(txnRepo, accountRepo, categoryRepo, converter)
	txnService.SetEventPublisher(eventBus)

	var exportStorage txnapp.ObjectStorage
	if cfg.Storage.Enabled() {
		exportBucket, err := storage.NewExportBucket(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithLinkTTL(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := exportBucket.Ensure(ctx); err != nil {
			log.Warn("Export bucket not ready", zap.String("bucket", exportBucket.Name()), zap.Error(err))
		}
		exportStorage = exportBucket
	}
	csvService := txnapp.NewCSVService(txnService, txnRepo, accountRepo, categoryRepo, exportStorage, log)

	var statementPrinter txnapp.PDFRenderer
	if cfg.PDF.Enabled {
		renderer := pdf.NewChromedpRenderer(cfg.PDF, log.Named("pdf"))
		defer renderer.Close()
		statementPrinter = renderer
		log.Info("Statement PDF rendering enabled",
			zap.Bool("remote", cfg.PDF.RemoteURL != ""),
			zap.String("paper", cfg.PDF.PaperSize))
	}
	statementService := txnapp.NewStatementService(txnRepo, accountRepo, categoryRepo, settingsRepo, statementPrinter, log)

	renewalService := subapp.NewRenewalService(subRepo, accountRepo, notificationRepo, settingsRepo, converter, log,
		subapp.RenewalConfig{
			Lookahead: time.Duration(cfg.Scheduler.ReminderLookaheadDays) * 24 * time.Hour,
			BatchSize: cfg.Scheduler.BatchSize,
		})
	renewalService.SetEventPublisher(eventBus)
	subscriptionService := subapp.NewSubscriptionService(subRepo, accountRepo, categoryRepo, renewalService)
	subscriptionService.SetEventPublisher(eventBus)

	goalService := goalapp.NewGoalService(goalRepo)
	goalService.SetEventPublisher(eventBus)
	investmentService := investmentapp.NewInvestmentService(investmentRepo, snapshotRepo)
	investmentService.SetEventPublisher(eventBus)
	snapshotService := investmentapp.NewSnapshotService(investmentRepo, snapshotRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	activityService := activityapp.NewActivityService(activityRepo, log)

	rateOpts := []rateapp.ServiceOption{rateapp.WithInvalidator(cachedRates)}
	if cfg.Currency.RateFeedURL != "" {
		rateOpts = append(rateOpts, rateapp.WithFeed(ratefeed.NewHTTPFeed(cfg.Currency.RateFeedURL, cfg.Currency.FeedTimeout, log)))
	}
	rateService := rateapp.NewExchangeRateService(rateRepo, converter, log, rateOpts...)

	dashboardService := dashboardapp.NewDashboardService(dashboardapp.Repositories{
		Accounts:      accountRepo,
		Transactions:  txnRepo,
		Subscriptions: subRepo,
		Investments:   investmentRepo,
		Goals:         goalRepo,
		Notifications: notificationRepo,
		Categories:    categoryRepo,
		Settings:      settingsRepo,
	}, converter)

	// Daily jobs
	if cfg.Scheduler.Enabled {
		job := func(name string, run scheduler.JobFunc) scheduler.JobFunc {
			return businessMetrics.InstrumentJob(name, withJobLabels(name, run))
		}
		jobs := scheduler.FinanceJobs{
			Renewals:  job(scheduler.JobSubscriptionRenewals, discardReport(renewalService.ProcessDue)),
			Reminders: job(scheduler.JobRenewalReminders, discardReport(renewalService.SendUpcomingReminders)),
			Snapshots: job(scheduler.JobInvestmentSnapshots, discardReport(snapshotService.RecordDaily)),
			Prune: job(scheduler.JobActivityPrune, func(ctx context.Context) error {
				_, err := activityService.Prune(ctx, cfg.Scheduler.ActivityRetention)
				return err
			}),
		}
		if cfg.Currency.RateFeedURL != "" {
			jobs.RateRefresh = job(scheduler.JobExchangeRateRefresh, discardReport(rateService.Refresh))
		}
		entries, err := jobs.Entries(cfg.Scheduler)
		if err != nil {
			log.Fatal("Invalid job schedule", zap.Error(err))
		}

		pool := scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log)
		if err := pool.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := pool.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		trigger := scheduler.NewCronTrigger(pool, idempotency, cfg.Scheduler.CheckInterval, log, entries...)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Strings("jobs", trigger.JobNames()),
			zap.Int("workers", cfg.Scheduler.Workers),
		)
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Account:      handler.NewAccountHandler(accountService),
		Category:     handler.NewCategoryHandler(categoryService),
		Transaction:  handler.NewTransactionHandler(txnService, csvService, statementService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Goal:         handler.NewGoalHandler(goalService),
		Investment:   handler.NewInvestmentHandler(investmentService),
		Notification: handler.NewNotificationHandler(notificationService),
		Settings:     handler.NewSettingsHandler(settingsService),
		ExchangeRate: handler.NewExchangeRateHandler(rateService),
		Activity:     handler.NewActivityHandler(activityService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		System:       systemHandler,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security and CORS headers
	// 5. BodyLimit - Limit request body size
	// 6. Tracing, metrics and profiling labels
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition", "X-Export-Rows"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	tracingCfg.Enabled = tracerProvider.IsEnabled()
	engine.Use(middleware.TracingWithConfig(tracingCfg))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider))
	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profilingCfg))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(newLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow), nil))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := newLimiter(redisClient, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		handlers.AuthGuard = append(handlers.AuthGuard, middleware.RateLimit(authLimiter, middleware.ClientIPKey("auth")))
	}

	jwtCfg := middleware.DefaultJWTConfig(authService)
	jwtCfg.SkipPaths = append(jwtCfg.SkipPaths, router.PublicPaths("/api/v1")...)
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(authService)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	router.Mount(
		router.NewRouter(engine, router.WithAPIVersion("v1"),
			router.WithMiddleware(jwtAuth, middleware.TracingAttributeInjector()),
		),
		handlers,
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// discardReport adapts a service run that returns a summary to a scheduler
// job. The services log their own reports.
func discardReport[R any](run func(context.Context) (R, error)) scheduler.JobFunc {
	return func(ctx context.Context) error {
		_, err := run(ctx)
		return err
	}
}

// withJobLabels tags profiles captured while the job runs with its name
func withJobLabels(name string, run scheduler.JobFunc) scheduler.JobFunc {
	return func(ctx context.Context) error {
		var err error
		telemetry.WithProfilingLabels(ctx, telemetry.JobLabels(name), func(ctx context.Context) {
			err = run(ctx)
		})
		return err
	}
}

// newLimiter shares counters across replicas through redis when available
func newLimiter(client redis.UniversalClient, limit int, window time.Duration) middleware.Limiter {
	if client != nil {
		return middleware.NewRedisRateLimiter(client, "", limit, window)
	}
	return middleware.NewRateLimiter(limit, window)
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(log *zap.Logger, providers ...shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry provider", zap.Error(err))
		}
	}
}
