package services

import (
	"context"

	"yti-common/application/mappers"
	"yti-common/application/ports"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// DefaultVersionGraph holds the schema version of the stored data.
const DefaultVersionGraph = "urn:yti:metamodel:version"

// VersionService reads and writes the data version number used by
// migrations.
type VersionService struct {
	store        ports.GraphStore
	versionGraph string
}

func NewVersionService(store ports.GraphStore, versionGraph string) *VersionService {
	if versionGraph == "" {
		versionGraph = DefaultVersionGraph
	}
	return &VersionService{store: store, versionGraph: versionGraph}
}

// VersionNumber returns the owl:versionInfo of the version graph.
func (s *VersionService) VersionNumber(ctx context.Context) (int, error) {
	g, err := s.store.Fetch(ctx, s.versionGraph)
	if err != nil {
		return 0, err
	}
	version, ok := mappers.Literal[int](g.Resource(s.versionGraph), vocabulary.OWLVersionInfo)
	if !ok {
		return 0, pkgerrors.NewMappingError("Version number missing from " + s.versionGraph)
	}
	return version, nil
}

// SetVersionNumber replaces the version graph.
func (s *VersionService) SetVersionNumber(ctx context.Context, version int) error {
	g := rdf.NewGraph()
	g.Resource(s.versionGraph).Add(vocabulary.OWLVersionInfo, rdf.IntLiteral(version))
	return s.store.Put(ctx, s.versionGraph, g)
}

func (s *VersionService) IsVersionGraphInitialized(ctx context.Context) (bool, error) {
	return s.store.GraphExists(ctx, s.versionGraph)
}
