package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/config"
	"yti-common/infrastructure/di"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/rdf"
	"yti-common/infrastructure/search"
	"yti-common/interfaces/http/rest"
)

const serviceName = "yti-common"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("Service failed: %v", err)
		stop()
		os.Exit(1)
	}
}

// run starts the service and blocks until ctx is done. Startup errors are
// returned after the deferred cleanups have run.
func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer cleanup()
	logger := container.Logger
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.Strings("sources", cfg.LoadedFrom),
		zap.String("environment", string(cfg.Environment)))

	if cfg.Features.EnableTracing {
		tp, err := observability.InitTracing(ctx, serviceName, string(cfg.Environment), cfg.Features.TracingEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Error("Failed to flush traces", zap.Error(err))
				}
			}()
		}
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		watcher, err := config.NewWatcher(path, cfg, logger)
		if err != nil {
			logger.Warn("Configuration hot reloading disabled", zap.Error(err))
		} else {
			defer watcher.Stop()
			watcher.OnChange(func(next *config.Config) {
				level, err := observability.ParseLevel(next.Server.LogLevel)
				if err != nil {
					logger.Warn("Ignoring log level", zap.Error(err))
					return
				}
				container.LogLevel.SetLevel(level.Level())
				logger.Info("Log level changed", zap.String("level", level.String()))
			})
		}
	}

	if err := seedServiceCategories(ctx, container); err != nil {
		return fmt.Errorf("failed to initialize service categories: %w", err)
	}

	if err := container.GroupManagement.Init(ctx); err != nil {
		return fmt.Errorf("failed to load organizations and users: %w", err)
	}
	logVersion(ctx, container)

	indexOrganizations := func(ctx context.Context) error {
		orgs, err := container.Frontend.Organizations(ctx, vocabulary.DefaultLanguage, true)
		if err != nil {
			return err
		}
		container.Organizations.Index(ctx, orgs)
		return nil
	}
	search.NewInitializer(container.Search, cfg.OpenSearch.InitOnStartup, logger.Named("opensearch")).
		InitIndexes(ctx, indexOrganizations,
			map[string]search.TypeMapping{search.OrganizationIndex: search.OrganizationMapping()})
	container.GroupManagement.OnOrganizationsChanged(func(ctx context.Context) {
		if err := indexOrganizations(ctx); err != nil {
			logger.Warn("Failed to reindex organizations", zap.Error(err))
		}
	})

	go container.GroupManagement.Start(ctx)

	router := rest.NewRouter(rest.Dependencies{
		Store:          container.Repository,
		Reference:      container.Frontend,
		Users:          container.GroupManagement,
		Organizations:  container.Organizations,
		Authenticator:  container.Authenticator,
		Metrics:        container.Metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Tracing:        cfg.Features.EnableTracing,
		Debug:          cfg.IsDevelopment(),
	}, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.String("environment", string(cfg.Environment)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
	return nil
}

// seedServiceCategories stores the configured service category vocabulary
// when the graph does not exist yet.
func seedServiceCategories(ctx context.Context, container *di.Container) error {
	path := container.Config.Fuseki.ServiceCategoriesFile
	if path == "" {
		return nil
	}
	exists, err := container.Repository.GraphExists(ctx, vocabulary.ServiceCategoryGraph)
	if err != nil || exists {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return container.Repository.InitServiceCategories(ctx, f, rdf.FormatForFile(path))
}

func logVersion(ctx context.Context, container *di.Container) {
	initialized, err := container.Version.IsVersionGraphInitialized(ctx)
	if err != nil || !initialized {
		container.Logger.Info("Version graph not initialized", zap.Error(err))
		return
	}
	version, err := container.Version.VersionNumber(ctx)
	if err != nil {
		container.Logger.Warn("Failed to read version number", zap.Error(err))
		return
	}
	container.Logger.Info("Graph store version", zap.Int("version", version))
}
