package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/farm_payouts/internal/adapters/database/memory"
	"github.com/SscSPs/farm_payouts/internal/adapters/database/pgsql"
	"github.com/SscSPs/farm_payouts/internal/adapters/gateway"
	"github.com/SscSPs/farm_payouts/internal/adapters/notifier"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
	"github.com/SscSPs/farm_payouts/internal/core/services"
	"github.com/SscSPs/farm_payouts/internal/handlers"
	"github.com/SscSPs/farm_payouts/internal/middleware"
	"github.com/SscSPs/farm_payouts/internal/platform/config"
	"github.com/SscSPs/farm_payouts/internal/platform/metrics"
	"github.com/SscSPs/farm_payouts/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 15 * time.Second

// @title Farm Payouts API
// @version 1.0
// @description Produce collection payouts with loan recovery and living-wage protection.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Payout backend exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	notify, closeNotifier, err := setupNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	payoutCfg := services.PayoutServiceConfig{
		Policy: domain.RecoveryPolicy{
			RecoveryCapPercent:     cfg.RecoveryCapPercent,
			LivingWageFloorPercent: cfg.LivingWageFloorPercent,
		},
		GatewayTimeout: cfg.PayoutGatewayTimeout,
	}
	serviceContainer := services.NewServiceContainer(repos, setupGateway(cfg, logger), notify, payoutCfg,
		services.WithMetrics(metrics.NewPrometheus(registry)))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit, err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	reconciler := services.NewReconciler(serviceContainer.Payout, cfg.PayoutReconcileInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		reconciler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore()
		if cfg.MemorySeedFile != "" {
			if err := store.LoadSeedFile(cfg.MemorySeedFile); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
			logger.Info("Loaded memory seed file", slog.String("path", cfg.MemorySeedFile))
		}
		logger.Warn("Using in-memory storage; payouts are lost on restart")
		return store.Repositories(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// pgx/v5/stdlib keeps the migration connection on the same driver as the pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return fmt.Errorf("failed to close migrator: %w", errors.Join(sourceErr, dbErr))
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func setupGateway(cfg *config.Config, logger *slog.Logger) gateways.PaymentGateway {
	if cfg.GatewayDriver == config.GatewayDriverHTTP {
		logger.Info("Using HTTP payment gateway", slog.String("base_url", cfg.GatewayBaseURL))
		return gateway.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.DefaultCurrency, cfg.GatewayHTTPTimeout)
	}
	logger.Warn("Using simulated payment gateway; no funds are moved")
	return gateway.NewSimulatedGateway()
}

func setupNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (gateways.Notifier, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, farmer notifications are logged only")
		return notifier.LogNotifier{}, func() {}, nil
	}
	client, err := notifier.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
	return notifier.NewRedisNotifier(client, cfg.NotifyChannelPrefix), closeFn, nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
