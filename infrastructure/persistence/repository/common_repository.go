package repository

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"

	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/persistence/sparql"
	"yti-common/infrastructure/rdf"
)

const (
	organizationsKey     = "organizations"
	serviceCategoriesKey = "serviceCategories"
	cacheMaxEntries      = 1000
)

// CommonRepositoryConfig configures NewCommonRepository.
type CommonRepositoryConfig struct {
	// Endpoint is the Fuseki base URL; dataset paths are appended.
	Endpoint        string
	CacheExpiration time.Duration
	Timeout         time.Duration
}

// CommonRepository reads the shared organization and service category graphs
// and keeps them in a TTL cache. Cached graphs are shared; callers must Copy
// them before modifying.
type CommonRepository struct {
	*BaseRepository
	cache      *ristretto.Cache[string, *rdf.Graph]
	expiration time.Duration
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewCommonRepository connects to the core dataset of cfg.Endpoint.
func NewCommonRepository(cfg CommonRepositoryConfig, logger *zap.Logger, metrics *observability.Collector) (*CommonRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	opts := []sparql.Option{sparql.WithLogger(logger), sparql.WithMetrics(metrics)}
	if cfg.Timeout > 0 {
		opts = append(opts, sparql.WithTimeout(cfg.Timeout))
	}

	base := NewBaseRepository(
		sparql.NewHTTPConnection(endpoint+"/core/get", opts...),
		sparql.NewHTTPConnection(endpoint+"/core/data", opts...),
		sparql.NewHTTPConnection(endpoint+"/core/sparql", opts...),
		sparql.NewHTTPConnection(endpoint+"/core/update", opts...),
		logger,
	)
	return newCommonRepository(base, cfg.CacheExpiration, logger, metrics)
}

func newCommonRepository(base *BaseRepository, expiration time.Duration, logger *zap.Logger, metrics *observability.Collector) (*CommonRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *rdf.Graph]{
		NumCounters: cacheMaxEntries * 10,
		MaxCost:     cacheMaxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	if expiration <= 0 {
		expiration = 30 * time.Minute
	}
	return &CommonRepository{
		BaseRepository: base,
		cache:          cache,
		expiration:     expiration,
		metrics:        metrics,
		logger:         logger,
	}, nil
}

// Close releases the cache.
func (r *CommonRepository) Close() {
	r.cache.Close()
}

// Organizations returns the organization graph.
func (r *CommonRepository) Organizations(ctx context.Context) (*rdf.Graph, error) {
	return r.cached(organizationsKey, func() (*rdf.Graph, error) {
		g, err := r.Fetch(ctx, vocabulary.OrganizationGraph)
		if err != nil {
			return nil, err
		}
		r.logger.Info("Fetched organizations from fuseki to cache")
		return g, nil
	})
}

// InvalidateOrganizationCache drops the cached organization graph.
func (r *CommonRepository) InvalidateOrganizationCache() {
	r.cache.Del(organizationsKey)
}

// ServiceCategories returns the top level service categories as foaf:Group
// resources.
func (r *CommonRepository) ServiceCategories(ctx context.Context) (*rdf.Graph, error) {
	return r.cached(serviceCategoriesKey, func() (*rdf.Graph, error) {
		g, err := r.QueryConstruct(ctx, sparql.ServiceCategoriesConstruct())
		if err != nil {
			return nil, err
		}
		r.logger.Info("Fetched service categories from fuseki to cache")
		return g, nil
	})
}

// InitServiceCategories stores the service category vocabulary read from src.
func (r *CommonRepository) InitServiceCategories(ctx context.Context, src io.Reader, format rdf.Format) error {
	g, err := rdf.Decode(src, format)
	if err != nil {
		return err
	}
	if err := r.Put(ctx, vocabulary.ServiceCategoryGraph, g); err != nil {
		return err
	}
	r.cache.Del(serviceCategoriesKey)
	r.logger.Info("Initialized service categories", zap.Int("triples", g.Len()))
	return nil
}

func (r *CommonRepository) cached(key string, load func() (*rdf.Graph, error)) (*rdf.Graph, error) {
	if g, ok := r.cache.Get(key); ok {
		r.metrics.RecordCache(key, true)
		return g, nil
	}
	r.metrics.RecordCache(key, false)

	g, err := load()
	if err != nil {
		return nil, err
	}
	r.cache.SetWithTTL(key, g, 1, r.expiration)
	r.cache.Wait()
	return g, nil
}
