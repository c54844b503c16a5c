package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/adapters/ratesprovider"
	"github.com/SscSPs/pricing_admin_backend/internal/core/ports/providers"
	"github.com/SscSPs/pricing_admin_backend/internal/core/services"
	"github.com/SscSPs/pricing_admin_backend/internal/handlers"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/config"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/joblock"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/metrics"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/scheduler"
	"github.com/SscSPs/pricing_admin_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/pricing_admin_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Pricing Admin API
// @version 1.0
// @description Multi-currency pricing and tax engine for the e-commerce admin backend.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
		MinMaxConns: int32(cfg.RecalcWorkers + 4),
		Ping:        cfg.EnableDBCheck,
	})
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg, logger); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("Redis connected; job locks and rate limits are shared across instances")
	}

	locker := newLocker(redisClient)
	publicLimiter, err := newPublicLimiter(cfg, redisClient)
	if err != nil {
		return err
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, newRatesProvider(cfg, logger), locker)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), metrics.MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	r.GET("/metrics", metrics.Handler())
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, middleware.RateLimit(publicLimiter, "public-prices")); err != nil {
		return err
	}

	trigger := scheduler.NewRateFetchTrigger(scheduler.RateFetchTriggerConfig{
		Interval:   cfg.RatesFetchInterval,
		RunOnStart: cfg.RatesFetchOnStartup,
	}, serviceContainer.RateFetch, logger)
	if err := trigger.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := trigger.Stop(shutdownCtx); err != nil {
		logger.Error("Rate fetch trigger did not stop cleanly", slog.String("error", err.Error()))
	}
	return srv.Shutdown(shutdownCtx)
}

// runMigrations applies every pending "up" migration over a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// newLocker shares job locks through Redis when available so only one instance runs a full recalculation.
func newLocker(client *redis.Client) joblock.Locker {
	if client == nil {
		return joblock.NewMemoryLocker()
	}
	return joblock.NewRedisLockerWithClient(client, "")
}

func newPublicLimiter(cfg *config.Config, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.PublicRateLimit)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "pricing:ratelimit"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

// newRatesProvider chains the configured HTTP providers. Misconfigured entries are
// logged and skipped; an empty chain makes every fetch fail with a logged failure.
func newRatesProvider(cfg *config.Config, logger *slog.Logger) providers.RatesProvider {
	var chain []providers.RatesProvider
	for _, pc := range []ratesprovider.HTTPConfig{
		{Name: cfg.RatesPrimaryName, BaseURL: cfg.RatesPrimaryURL, Timeout: cfg.RatesFetchTimeout},
		{Name: cfg.RatesSecondaryName, BaseURL: cfg.RatesSecondaryURL, Timeout: cfg.RatesFetchTimeout},
	} {
		if pc.BaseURL == "" {
			continue
		}
		p, err := ratesprovider.NewHTTPProvider(pc)
		if err != nil {
			logger.Error("Skipping rates provider", slog.String("provider", pc.Name), slog.String("error", err.Error()))
			continue
		}
		chain = append(chain, p)
	}
	return ratesprovider.NewFallbackProvider(chain...)
}
