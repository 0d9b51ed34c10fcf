package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	cartapp "github.com/storefront/backend/internal/application/cart"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	shippingapp "github.com/storefront/backend/internal/application/shipping"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/postal"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Telemetry.ServiceName,
		Env:     cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetryCfg, 30*time.Second, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	poolMetrics, err := telemetry.RegisterPoolMetrics(meterProvider.Meter("storefront/database"), db.Stats)
	if err != nil {
		log.Fatal("Failed to register database pool metrics", zap.Error(err))
	}
	defer func() {
		_ = poolMetrics.Unregister()
	}()

	if tracerProvider.Exporting() && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Session carts. The Redis client, when there is one, also backs the postal cache.
	cartStore, redisClient, err := cache.NewCartStoreFactory(cfg.Redis, cfg.Session,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cart store", zap.Error(err))
	}
	defer func() {
		if closer, ok := cartStore.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	// Shipping
	lookup, err := postal.NewLookup(cfg.Postal, redisClient, log)
	if err != nil {
		log.Fatal("Failed to create postal lookup", zap.Error(err))
	}
	rates := shipping.DefaultRateCard()
	rates.FreeShippingThreshold = cfg.Shipping.FreeShippingThreshold
	rates.LongHaulKm = cfg.Shipping.LongHaulKm
	rates.SameDayKm = cfg.Shipping.SameDayKm
	engine := shipping.NewEngine(lookup, shipping.WithRateCard(rates))
	log.Info("Shipping engine ready",
		zap.String("postal_provider", cfg.Postal.Provider),
		zap.String("free_shipping_threshold", rates.FreeShippingThreshold.StringFixed(2)),
	)

	// Repositories and application services
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	sessions := cartapp.NewSessions(cartStore)
	cartService := cartapp.NewCartService(sessions, productRepo)
	shippingService := shippingapp.NewShippingService(engine, sessions)
	checkoutService := checkoutapp.NewCheckoutService(persistence.NewGormTransactionScope(db.DB), sessions, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	orderPlacedHandler := tradeapp.NewOrderPlacedHandler(log)
	orderStatusChangedHandler := tradeapp.NewOrderStatusChangedHandler(log)
	eventBus.Subscribe(orderPlacedHandler)
	eventBus.Subscribe(orderStatusChangedHandler)

	orderMetrics, err := telemetry.NewOrderMetrics(meterProvider.Meter("storefront/orders"))
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}
	eventBus.Subscribe(orderMetrics)

	log.Info("Event handlers registered",
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
		zap.Strings("order_status_changed_events", orderStatusChangedHandler.EventTypes()),
		zap.Strings("order_metrics_events", orderMetrics.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	if redisClient != nil {
		checkoutService.SetIdempotencyStore(cache.NewRedisIdempotencyStore(redisClient, ""), cfg.Session.IdempotencyTTL)
	} else {
		idempotencyStore := cache.NewInMemoryIdempotencyStore()
		defer func() {
			_ = idempotencyStore.Close()
		}()
		checkoutService.SetIdempotencyStore(idempotencyStore, cfg.Session.IdempotencyTTL)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	ginEngine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	tracingConfig.Enabled = tracerProvider.Exporting()

	ginEngine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(tracingConfig),
		logger.GinMiddleware(log),
		middleware.Session(),
		middleware.SpanEnricher(),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(cfg.App.Env == "production"),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)

	var checkoutLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimit > 0 {
		checkoutLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, time.Minute)
		defer checkoutLimiter.Stop()
	}

	healthChecks := []handler.HealthCheck{
		{Name: "database", Check: db.PingContext},
	}
	if redisClient != nil {
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Check: redisPing(redisClient)})
	}

	r := router.Mount(ginEngine, router.Handlers{
		Cart:     handler.NewCartHandler(cartService),
		Shipping: handler.NewShippingHandler(shippingService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Order:    handler.NewOrderHandler(orderService),
		Health:   handler.NewHealthHandler(version, healthChecks...),
	}, router.RouteConfig{
		CheckoutLimiter: checkoutLimiter,
		AdminToken:      cfg.HTTP.AdminToken,
	})
	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}
	if cfg.HTTP.AdminToken == "" {
		log.Warn("http.admin_token is empty, admin routes are closed")
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	if stats, err := db.Stats(); err == nil {
		log.Info("Database pool at shutdown",
			zap.Int("open", stats.OpenConnections),
			zap.Int("in_use", stats.InUse),
			zap.Int64("wait_count", stats.WaitCount),
			zap.Duration("wait_duration", stats.WaitDuration),
		)
	}
	log.Info("Server exited gracefully")
}

func redisPing(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
