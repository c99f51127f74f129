package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"yti-common/domain/core/entities"
	"yti-common/infrastructure/rdf"
)

// GraphStore is the graph level persistence every service builds on.
// Implemented by repository.BaseRepository.
type GraphStore interface {
	// Fetch returns the named graph; a missing graph is a NOT_FOUND error.
	Fetch(ctx context.Context, graph string) (*rdf.Graph, error)

	// Put replaces the named graph.
	Put(ctx context.Context, graph string, g *rdf.Graph) error

	// GraphExists reports whether the named graph has any triples.
	GraphExists(ctx context.Context, graph string) (bool, error)

	// ResourceExistsInGraph reports whether resource is a subject in graph.
	ResourceExistsInGraph(ctx context.Context, graph, resource string, caseSensitive bool) (bool, error)
}

// CommonStore adds the cached shared graphs.
// Implemented by repository.CommonRepository.
type CommonStore interface {
	GraphStore

	// Organizations returns the cached organization graph. Do not modify it.
	Organizations(ctx context.Context) (*rdf.Graph, error)

	// InvalidateOrganizationCache drops the cached organization graph.
	InvalidateOrganizationCache()

	// ServiceCategories returns the cached top level service categories.
	ServiceCategories(ctx context.Context) (*rdf.Graph, error)
}

// Directory is the group management service.
// Implemented by groupmanagement.Client.
type Directory interface {
	Organizations(ctx context.Context, modifiedSince time.Time) ([]entities.GroupManagementOrganization, error)
	Users(ctx context.Context, public bool, modifiedSince time.Time) ([]entities.GroupManagementUser, error)
	UserRequests(ctx context.Context, userID uuid.UUID) ([]entities.GroupManagementUserRequest, error)
	SendRequest(ctx context.Context, userID, organizationID uuid.UUID, roles []string) error
}
