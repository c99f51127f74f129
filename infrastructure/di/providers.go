package di

import (
	"fmt"

	"go.uber.org/zap"

	"yti-common/application/security"
	"yti-common/application/services"
	"yti-common/infrastructure/config"
	"yti-common/infrastructure/groupmanagement"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/persistence/repository"
	"yti-common/infrastructure/search"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "yti_common"

// ProvideLogLevel parses the configured log level.
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	return observability.ParseLevel(cfg.Server.LogLevel)
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	return observability.NewLoggerWithLevel(level, string(cfg.Environment))
}

// ProvideMetrics returns nil when metrics are disabled.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.Features.EnableMetrics {
		return nil
	}
	return observability.NewCollector(MetricsNamespace)
}

// ProvideCommonRepository connects to Fuseki. The cleanup releases the cache.
func ProvideCommonRepository(cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (*repository.CommonRepository, func(), error) {
	repo, err := repository.NewCommonRepository(repository.CommonRepositoryConfig{
		Endpoint:        cfg.Fuseki.URL,
		CacheExpiration: cfg.Fuseki.CacheExpiration,
		Timeout:         cfg.Fuseki.Timeout,
	}, logger.Named("fuseki"), metrics)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create common repository: %w", err)
	}
	return repo, repo.Close, nil
}

// ProvideDirectory creates the group management client.
func ProvideDirectory(cfg *config.Config, logger *zap.Logger) *groupmanagement.Client {
	return groupmanagement.NewClient(cfg.GroupManagement.URL,
		groupmanagement.WithLogger(logger.Named("groupmanagement")))
}

// ProvideGroupManagementService syncs the directory into the common graphs.
func ProvideGroupManagementService(
	cfg *config.Config,
	repo *repository.CommonRepository,
	directory *groupmanagement.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.GroupManagementService {
	return services.NewGroupManagementService(repo, directory, nil, services.GroupManagementConfig{
		ModifiedSince:        cfg.GroupManagement.ModifiedSince,
		OrganizationInterval: cfg.GroupManagement.SyncOrganizations,
		UserInterval:         cfg.GroupManagement.SyncUsers,
		FakeLoginAllowed:     cfg.GroupManagement.FakeLoginAllowed,
	}, metrics, logger.Named("groupmanagement"))
}

func ProvideFrontendService(repo *repository.CommonRepository) *services.FrontendService {
	return services.NewFrontendService(repo)
}

func ProvideVersionService(cfg *config.Config, repo *repository.CommonRepository) *services.VersionService {
	return services.NewVersionService(repo, cfg.VersionGraph)
}

// ProvideSearchClient creates the OpenSearch client wrapper.
func ProvideSearchClient(cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (*search.ClientWrapper, error) {
	client, err := search.NewClient(search.ClientConfig{
		URL:                cfg.OpenSearch.URL,
		Username:           cfg.OpenSearch.Username,
		Password:           cfg.OpenSearch.Password,
		InsecureSkipVerify: cfg.OpenSearch.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	return search.NewClientWrapper(client, cfg.OpenSearch.BulkMaxSize, logger.Named("opensearch"), metrics), nil
}

func ProvideOrganizationIndexer(client *search.ClientWrapper) *search.OrganizationIndexer {
	return search.NewOrganizationIndexer(client)
}

// ProvideAuthenticator returns nil when no secret is configured, leaving
// every request anonymous.
func ProvideAuthenticator(cfg *config.Config) (*security.JWTAuthenticator, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, nil
	}
	return security.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
}
