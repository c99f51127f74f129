// Package repository provides graph repositories on top of the SPARQL
// connections.
package repository

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"yti-common/domain/core/valueobjects"
	"yti-common/infrastructure/persistence/sparql"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// BaseRepository groups the four endpoints of a dataset: graph store read,
// graph store write, query and update.
type BaseRepository struct {
	read   sparql.Connection
	write  sparql.Connection
	query  sparql.Connection
	update sparql.Connection
	logger *zap.Logger
}

// NewBaseRepository creates a repository over the given connections.
func NewBaseRepository(read, write, query, update sparql.Connection, logger *zap.Logger) *BaseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseRepository{
		read:   read,
		write:  write,
		query:  query,
		update: update,
		logger: logger,
	}
}

// Fetch returns a named graph. A missing graph is a NOT_FOUND error.
func (r *BaseRepository) Fetch(ctx context.Context, graph string) (*rdf.Graph, error) {
	g, err := r.read.Fetch(ctx, graph)
	if err != nil {
		return nil, mapStoreError(err, graph)
	}
	return g, nil
}

// Put replaces a named graph.
func (r *BaseRepository) Put(ctx context.Context, graph string, g *rdf.Graph) error {
	if err := r.write.Put(ctx, graph, g); err != nil {
		return pkgerrors.NewQueryError(err)
	}
	return nil
}

// Delete drops a named graph. A missing graph is a NOT_FOUND error.
func (r *BaseRepository) Delete(ctx context.Context, graph string) error {
	if err := r.write.Delete(ctx, graph); err != nil {
		return mapStoreError(err, graph)
	}
	return nil
}

// DeleteGraphResource removes the resource addressed by uri.
func (r *BaseRepository) DeleteGraphResource(ctx context.Context, uri valueobjects.GraphURI) error {
	return r.DeleteResource(ctx, uri.ResourceURI())
}

// DeleteResource removes every triple referring to resourceURI from the graph
// named by its namespace.
func (r *BaseRepository) DeleteResource(ctx context.Context, resourceURI string) error {
	graph, _ := splitNamespace(resourceURI)
	if err := r.update.Update(ctx, sparql.DeleteResource(graph, resourceURI)); err != nil {
		return mapStoreError(err, resourceURI)
	}
	return nil
}

// GraphExists reports whether graph has any triples.
func (r *BaseRepository) GraphExists(ctx context.Context, graph string) (bool, error) {
	return r.QueryAsk(ctx, sparql.AskGraph(graph))
}

// ResourceExistsInGraph reports whether resource is defined in graph. The
// case-insensitive variant compares the local name of resource with the
// dcterms:identifier values of the graph.
func (r *BaseRepository) ResourceExistsInGraph(ctx context.Context, graph, resource string, caseSensitive bool) (bool, error) {
	if caseSensitive {
		return r.QueryAsk(ctx, sparql.AskResource(graph, resource))
	}
	_, localName := splitNamespace(resource)
	return r.QueryAsk(ctx, sparql.AskIdentifier(graph, localName))
}

// QueryConstruct runs a CONSTRUCT query.
func (r *BaseRepository) QueryConstruct(ctx context.Context, query string) (*rdf.Graph, error) {
	g, err := r.query.Construct(ctx, query)
	if err != nil {
		return nil, pkgerrors.NewQueryError(err)
	}
	return g, nil
}

// QuerySelect runs a SELECT query and hands every solution to consumer.
// Iteration stops at the first consumer error.
func (r *BaseRepository) QuerySelect(ctx context.Context, query string, consumer func(map[string]sparql.Binding) error) error {
	results, err := r.query.Select(ctx, query)
	if err != nil {
		return pkgerrors.NewQueryError(err)
	}
	for _, row := range results.Results.Bindings {
		if err := consumer(row); err != nil {
			return err
		}
	}
	return nil
}

// QueryAsk runs an ASK query.
func (r *BaseRepository) QueryAsk(ctx context.Context, query string) (bool, error) {
	ok, err := r.query.Ask(ctx, query)
	if err != nil {
		return false, pkgerrors.NewQueryError(err)
	}
	return ok, nil
}

// QueryUpdate runs a SPARQL update.
func (r *BaseRepository) QueryUpdate(ctx context.Context, update string) error {
	if err := r.update.Update(ctx, update); err != nil {
		return pkgerrors.NewQueryError(err)
	}
	return nil
}

// IsHealthy probes the query endpoint. The answer of the probe does not
// matter, only that the store replied.
func (r *BaseRepository) IsHealthy(ctx context.Context) (bool, error) {
	if _, err := r.QueryAsk(ctx, sparql.AskAny()); err != nil {
		r.logger.Warn("graph store health check failed", zap.Error(err))
		return false, err
	}
	return true, nil
}

func mapStoreError(err error, uri string) error {
	if pkgerrors.IsNotFound(err) {
		return pkgerrors.NewNotFoundError(uri)
	}
	return pkgerrors.NewQueryError(err)
}

// splitNamespace splits uri after its last '#' or '/'.
func splitNamespace(uri string) (namespace, localName string) {
	i := strings.LastIndexAny(uri, "#/")
	if i < 0 {
		return uri, ""
	}
	return uri[:i+1], uri[i+1:]
}
