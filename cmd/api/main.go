package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatmart/internal/catalog"
	"chatmart/internal/config"
	"chatmart/internal/database"
	"chatmart/internal/events"
	"chatmart/internal/gateway"
	"chatmart/internal/handler"
	"chatmart/internal/identity"
	"chatmart/internal/notify"
	"chatmart/internal/observability"
	"chatmart/internal/repository"
	"chatmart/internal/router"
	"chatmart/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting chatmart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	instruments, shutdownTelemetry, err := observability.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		logger.Info().Msg("database schema ensured")
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	ledger := repository.NewInventoryLedger(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	paymentRepo := repository.NewPaymentRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	statsRepo := repository.NewStatisticsRepository(pool, logger)

	// Messaging gateway and post-commit notifications
	sender, err := gateway.NewClient(cfg.Line.BaseURL, cfg.Line.ChannelAccessToken, gateway.WithTimeout(cfg.Line.Timeout()))
	if err != nil {
		return fmt.Errorf("failed to initialize messaging gateway: %w", err)
	}
	if cfg.Line.ChannelAccessToken == "" {
		logger.Warn().Msg("LINE_CHANNEL_ACCESS_TOKEN not set, notifications will fail")
	}
	dispatcher := notify.NewDispatcher(sender, logger,
		notify.WithMeter(instruments.Meter("chatmart/notify")),
		notify.WithTimeout(cfg.Line.Timeout()),
	)

	// Identity provider, cached in redis when configured
	provider, closeRedis, err := newIdentityProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	// Order events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, logger)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrderTopic).Msg("order events enabled")
	}

	// Catalog import from S3 with local fallback
	importer := catalog.NewImporter(newCatalogLoader(ctx, cfg.S3, logger), productRepo, logger)

	// Initialize services
	orderService := observability.NewOrderService(
		service.NewOrderService(orderRepo, ledger, dispatcher, publisher, logger),
		observability.WithTracer(instruments.Tracer("chatmart/order")),
		observability.WithMeter(instruments.Meter("chatmart/order")),
	)
	productService := service.NewProductService(productRepo, importer, logger)
	paymentService := service.NewPaymentService(paymentRepo, logger)
	userService := service.NewUserService(userRepo, provider, logger)
	statsService := service.NewStatisticsService(statsRepo, logger)
	messagingService := service.NewMessagingService(sender, userRepo, cfg.Line.DefaultRichMenu, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Health:     handler.NewHealthHandler(pool, logger),
		Order:      handler.NewOrderHandler(orderService, logger),
		Product:    handler.NewProductHandler(productService, logger),
		Payment:    handler.NewPaymentHandler(paymentService, logger),
		User:       handler.NewUserHandler(userService, logger),
		Statistics: handler.NewStatisticsHandler(statsService, logger),
		Messaging:  handler.NewMessagingHandler(messagingService, logger),
	}, provider, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// In-flight notifications were scheduled by requests that already returned.
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("pending notifications abandoned")
		}
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush telemetry")
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newIdentityProvider returns the profile provider, wrapped with a redis
// cache when REDIS_ADDR is set, and a func that releases the redis client.
func newIdentityProvider(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (identity.Provider, func(), error) {
	httpProvider, err := identity.NewHTTPProvider(cfg.Line.BaseURL, cfg.Line.Timeout(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize identity provider: %w", err)
	}

	if cfg.Redis.Addr == "" {
		logger.Info().Msg("identity cache disabled (REDIS_ADDR not set)")
		return httpProvider, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, identity cache disabled")
		_ = client.Close()
		return httpProvider, func() {}, nil
	}

	cache := identity.NewRedisCache(client, "chatmart")
	cached := identity.NewCachedProvider(httpProvider, cache, cfg.Redis.ProfileTTL(), logger)
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
	return cached, closeFn, nil
}

func newCatalogLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) catalog.Loader {
	fileLoader := catalog.NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}
