package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	ordermemory "github.com/exampleco/orders-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/exampleco/orders-api/internal/domains/orders/adapters/observability"
	ordergorm "github.com/exampleco/orders-api/internal/domains/orders/adapters/persistence/gormstore"
	orderapp "github.com/exampleco/orders-api/internal/domains/orders/application"
	orderports "github.com/exampleco/orders-api/internal/domains/orders/ports"
	servicememory "github.com/exampleco/orders-api/internal/domains/services/adapters/memory"
	serviceobs "github.com/exampleco/orders-api/internal/domains/services/adapters/observability"
	servicegorm "github.com/exampleco/orders-api/internal/domains/services/adapters/persistence/gormstore"
	serviceapp "github.com/exampleco/orders-api/internal/domains/services/application"
	serviceports "github.com/exampleco/orders-api/internal/domains/services/ports"
	"github.com/exampleco/orders-api/internal/handlers"
	"github.com/exampleco/orders-api/internal/platform/database"
	"github.com/exampleco/orders-api/internal/platform/migrations"
	platformobservability "github.com/exampleco/orders-api/internal/platform/observability"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// ServiceName identifies the API in traces, metrics resources and logs.
const ServiceName = "orders-api"

// Run boots the HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	obsOpts := cfg.ObservabilityOptions()
	obsOpts.Registerer = registry
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName, obsOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	app, err := Build(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer app.Close()

	router := handlers.NewRouter(app.API,
		handlers.WithTracing(ServiceName),
		handlers.WithAccessLog(logger),
		handlers.WithMetrics(handlers.NewMetrics(registry)),
	)

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("orders API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("orders API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down orders API")
		return server.Shutdown(shutdownCtx)
	}
}

// App is the wired application shared by the HTTP and Lambda entrypoints.
type App struct {
	API     *handlers.API
	DB      *gorm.DB
	cleanup func()
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a != nil && a.cleanup != nil {
		a.cleanup()
	}
}

// Build wires repositories, application services, observability decorators
// and handlers. Without database settings it runs on in-memory repositories.
func Build(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*App, error) {
	logger := instruments.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{cleanup: func() {}}
	responder := apierrors.NewResponder()
	var (
		serviceRepo serviceports.Repository
		orderRepo   orderports.Repository
	)
	if cfg.DatabaseConfigured() {
		db, cleanup, err := connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.DB = db
		app.cleanup = cleanup
		responder.AddMapper(database.ConstraintMapper)
		serviceRepo = servicegorm.NewRepository(db)
		orderRepo = ordergorm.NewRepository(db)
	} else {
		logger.Warn("DB_DSN and DB_USER not set, falling back to in-memory repositories")
		catalogue, err := memoryCatalogue(cfg, logger)
		if err != nil {
			return nil, err
		}
		serviceRepo = catalogue
		orderRepo = ordermemory.NewRepository()
	}

	services := serviceobs.New(
		serviceapp.NewService(serviceRepo),
		serviceobs.WithLogger(logger),
		serviceobs.WithTracer(instruments.Tracer("internal.services.application")),
		serviceobs.WithMeter(instruments.Meter("internal.services.application")),
	)
	orders := orderobs.New(
		orderapp.NewService(orderRepo, services, orderapp.WithStatsActiveOnly(cfg.StatsActiveOnly)),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	app.API = handlers.NewAPI(services, orders, handlers.NewBoundary(logger, responder))
	return app, nil
}

func connect(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func(), error) {
	opts, err := cfg.DatabaseOptions()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", opts.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unwrap %s connection: %w", opts.Driver, err)
	}
	cleanup := func() { _ = sqlDB.Close() }
	if cfg.DBAutoMigrate {
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		logger.Info("database schema migrated")
	}
	logger.Info("repositories configured", slog.String("driver", opts.Driver))
	return db, cleanup, nil
}

func memoryCatalogue(cfg Config, logger *slog.Logger) (*servicememory.Repository, error) {
	catalogue := servicememory.NewRepository()
	if cfg.ServicesSeedFile == "" {
		return catalogue, nil
	}
	seeds, err := migrations.LoadServiceSeedsFile(cfg.ServicesSeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load service seeds: %w", err)
	}
	for _, seed := range seeds {
		service, err := seed.Domain()
		if err != nil {
			return nil, err
		}
		if _, err := catalogue.Add(service); err != nil {
			return nil, err
		}
	}
	logger.Info("in-memory service catalogue seeded", slog.Int("services", len(seeds)))
	return catalogue, nil
}
