package services

import (
	"context"

	"yti-common/application/ports"
	"yti-common/domain/core/entities"
)

// GraphService is implemented by the data model and terminology services of
// the consuming applications.
type GraphService interface {
	Get(ctx context.Context, prefix, version string) (*entities.MetaDataInfo, error)
	Create(ctx context.Context, dto entities.MetaData) (string, error)
	Update(ctx context.Context, prefix string, dto entities.MetaData) error
	Delete(ctx context.Context, prefix, version string) error
	Exists(ctx context.Context, graphURI string) (bool, error)
}

// ResourceService is the per resource counterpart of GraphService. Out is
// the read model and In the write model.
type ResourceService[Out, In any] interface {
	Get(ctx context.Context, prefix, identifier, version string) (Out, error)
	Create(ctx context.Context, prefix string, dto In) (string, error)
	Update(ctx context.Context, prefix, identifier string, dto In) error
	Delete(ctx context.Context, prefix, identifier, version string) error
	Exists(ctx context.Context, graph, identifier string) (bool, error)
}

// GraphExistence implements GraphService.Exists. Embed it in concrete
// services.
type GraphExistence struct {
	store ports.GraphStore
}

func NewGraphExistence(store ports.GraphStore) GraphExistence {
	return GraphExistence{store: store}
}

// Exists reports whether the graph has any triples.
func (e GraphExistence) Exists(ctx context.Context, graphURI string) (bool, error) {
	return e.store.GraphExists(ctx, graphURI)
}

// ResourceExistence implements ResourceService.Exists.
type ResourceExistence struct {
	store ports.GraphStore
}

func NewResourceExistence(store ports.GraphStore) ResourceExistence {
	return ResourceExistence{store: store}
}

// Exists reports whether identifier is a subject in graph. The comparison is
// case sensitive.
func (e ResourceExistence) Exists(ctx context.Context, graph, identifier string) (bool, error) {
	return e.store.ResourceExistsInGraph(ctx, graph, identifier, true)
}
