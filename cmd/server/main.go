package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	appproduction "github.com/bottling/backend/internal/application/production"
	apptrade "github.com/bottling/backend/internal/application/trade"
	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/bottling/backend/internal/infrastructure/event"
	"github.com/bottling/backend/internal/infrastructure/logger"
	"github.com/bottling/backend/internal/infrastructure/persistence"
	"github.com/bottling/backend/internal/infrastructure/scheduler"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"github.com/bottling/backend/internal/interfaces/http/handler"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/bottling/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const lowStockJob = "low-stock-sweep"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops unless telemetry.enabled is set
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log, err := telemetry.NewBridgedLogger(logCfg, loggerProvider, cfg.Telemetry.ServiceName)
	if err != nil {
		bootLog.Fatal("Failed to initialize bridged logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting bottling backend",
		zap.String("app", cfg.App.Name),
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	cat, err := buildCatalog(cfg)
	if err != nil {
		log.Fatal("Invalid catalog configuration", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracing(cfg.Telemetry, cfg.Database.DBName, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// postgres schemas are owned by cmd/migrate
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Ledger, redisClient, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Ledger and events
	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("bottling/ledger"))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)
	alerts := event.NewDedupHandler(
		appinventory.NewLowStockAlertHandler(log, ledgerMetrics),
		idempotencyStore,
		log,
		event.WithKeyFunc(event.ByAggregate),
		event.WithWindow(cfg.Scheduler.AlertWindow),
	)
	eventBus.Subscribe(alerts, alerts.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	ledger := appinventory.NewStockLedger(cat.units, log).
		WithBillOfMaterials(cat.bom).
		WithEventPublisher(eventBus).
		WithMetrics(ledgerMetrics)
	guard := appinventory.NewRequestGuard(idempotencyStore, cat.idempotency, log)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	inventoryService := appinventory.NewInventoryService(scope, ledger, guard, log)
	supplierService := appinventory.NewSupplierService(scope, ledger, log)
	productionService := appproduction.NewProductionService(scope, ledger, guard, cat.bom, cat.policies, log)
	purchaseOrderService := apptrade.NewPurchaseOrderService(scope, ledger, guard, cat.bom, log)
	salesOrderService := apptrade.NewSalesOrderService(scope, ledger, guard, cat.bom, cat.policies, log)
	returnService := apptrade.NewReturnService(scope, ledger, guard, cat.bom, log)

	// Scheduler
	var locker scheduler.Locker = scheduler.NewLocalLocker()
	if redisClient != nil {
		locker = scheduler.NewRedisLocker(redisClient)
	}
	jobs := scheduler.NewScheduler(scheduler.Config{
		JobTimeout: cfg.Scheduler.JobTimeout,
		LockTTL:    cfg.Scheduler.LockTTL,
	}, locker, log)
	sweeper := appinventory.NewLowStockSweeper(scope, eventBus, log)
	if err := jobs.Register(lowStockJob, cfg.Scheduler.LowStockCron, func(ctx context.Context) error {
		n, err := sweeper.Sweep(ctx)
		if err != nil {
			return err
		}
		log.Info("Low stock sweep finished", zap.Int("alerts", n))
		return nil
	}); err != nil {
		log.Fatal("Failed to register scheduler job", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		jobs.Start()
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("bottling/http"), log))
	engine.Use(middleware.Profiling(profiler.IsEnabled()))
	engine.Use(middleware.Actor())

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		WithCheck("database", func(context.Context) error { return db.Ping() })
	if redisClient != nil {
		systemHandler.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router.RegisterAPI(engine, router.Handlers{
		Production:     handler.NewProductionHandler(productionService, cat.units),
		PurchaseOrders: handler.NewPurchaseOrderHandler(purchaseOrderService),
		SalesOrders:    handler.NewSalesOrderHandler(salesOrderService),
		Returns:        handler.NewReturnHandler(returnService),
		Inventory:      handler.NewInventoryHandler(inventoryService),
		Suppliers:      handler.NewSupplierHandler(supplierService),
		Ledger:         handler.NewLedgerHandler(inventoryService),
		Scheduler:      handler.NewSchedulerHandler(jobs),
		System:         systemHandler,
	}, router.WithAPIVersion("v1"))

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	shutdownTelemetry(shutdownCtx, log, profiler, tracerProvider, meterProvider, loggerProvider)

	log.Info("Server exited gracefully")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(ctx context.Context, log *zap.Logger, profiler *telemetry.Profiler, providers ...shutdowner) {
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Warn("Failed to flush telemetry", zap.Error(err))
		}
	}
}
