package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AayushAcharya189/SportGear/internal/auth"
	"github.com/AayushAcharya189/SportGear/internal/cache"
	"github.com/AayushAcharya189/SportGear/internal/config"
	"github.com/AayushAcharya189/SportGear/internal/event"
	handler "github.com/AayushAcharya189/SportGear/internal/handler/http"
	"github.com/AayushAcharya189/SportGear/internal/mailer"
	"github.com/AayushAcharya189/SportGear/internal/repository/postgres"
	"github.com/AayushAcharya189/SportGear/internal/service"
	"github.com/AayushAcharya189/SportGear/migrations"
	"github.com/AayushAcharya189/SportGear/pkg/database"
	"github.com/AayushAcharya189/SportGear/pkg/health"
	"github.com/AayushAcharya189/SportGear/pkg/httpclient"
	pkgkafka "github.com/AayushAcharya189/SportGear/pkg/kafka"
	"github.com/AayushAcharya189/SportGear/pkg/middleware"
	"github.com/AayushAcharya189/SportGear/pkg/tracing"
)

const (
	listCacheTTL = 5 * time.Minute
	startTimeout = 30 * time.Second
)

// App wires together all dependencies and runs the storefront API.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	var tracingShutdown func(context.Context) error
	if cfg.TracingEnabled {
		trCfg := tracing.DefaultConfig("sportgear-api")
		trCfg.Environment = cfg.Environment
		trCfg.OTLPEndpoint = cfg.TracingEndpoint
		trCfg.SampleRate = cfg.TracingSample
		trCfg.Enabled = true

		shutdown, err := tracing.InitTracer(ctx, trCfg)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		tracingShutdown = shutdown
		logger.Info("tracing initialized", slog.String("endpoint", cfg.TracingEndpoint))
	}

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	database.RegisterPoolMetrics(pool, "sportgear")

	// Redis is an optimization for catalog listings. The store works
	// without it, so a connection failure degrades rather than aborts.
	var redisClient *redis.Client
	var listCache *cache.ProductListCache
	rdCfg := cfg.Redis()
	redisClient, err = database.NewRedisClient(ctx, &rdCfg)
	if err != nil {
		logger.Warn("redis unavailable, product listings will not be cached",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
		redisClient = nil
	} else {
		listCache = cache.NewProductListCache(redisClient, listCacheTTL)
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
	}

	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)

	eventProducer := event.NewProducer(producer, logger)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	var notifier service.ContactNotifier
	if cfg.MailGatewayURL != "" {
		mailClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("mail-gateway"),
			logger,
		)
		notifier = mailer.New(mailClient, cfg.MailGatewayURL, cfg.ContactInbox, logger)
	}

	svc := handler.Services{
		Accounts: service.NewAccountService(userRepo, jwtManager, logger),
		Catalog:  service.NewCatalogService(productRepo, listCache, eventProducer, logger),
		Checkout: service.NewCheckoutService(productRepo, orderRepo, eventProducer, logger),
		Orders:   service.NewOrderService(orderRepo, eventProducer, logger),
		Contact:  service.NewContactService(contactRepo, notifier, eventProducer, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(svc, handler.RouterConfig{
		TokenValidator: tokenValidator(jwtManager),
		CORS:           corsCfg,
		RequestTimeout: cfg.RequestTimeout,
		Health:         healthHandler,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// tokenValidator adapts JWT validation to the middleware's claims type.
func tokenValidator(m *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := m.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
