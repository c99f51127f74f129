package mappers

import (
	"strings"

	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// ModelWrapper gives namespace aware access to a stored data model or
// terminology graph. The namespace may differ from the graph URI when the
// graph holds a published version.
type ModelWrapper struct {
	graph         *rdf.Graph
	graphURI      string
	namespace     string
	version       string
	prefix        string
	modelResource *rdf.Resource
}

// NewModelWrapper locates the model resource of g. It is the platform
// subject carrying dcap:preferredXMLNamespacePrefix; without one the graph
// URI is used as namespace.
func NewModelWrapper(g *rdf.Graph, graphURI string) *ModelWrapper {
	w := &ModelWrapper{graph: g, graphURI: graphURI}

	for _, t := range g.Match(nil, rdf.IRI(vocabulary.DCAPPreferredXMLNamespacePrefix), nil) {
		if !rdf.IsIRI(t.Subj) || !strings.HasPrefix(t.Subj.String(), vocabulary.IRINamespaceRoot) {
			continue
		}
		w.namespace = t.Subj.String()
		w.modelResource = g.ResourceOf(t.Subj)
		w.version = PropertyToString(w.modelResource, vocabulary.OWLVersionInfo)
		w.prefix = PropertyToString(w.modelResource, vocabulary.DCAPPreferredXMLNamespacePrefix)
		return w
	}

	w.namespace = graphURI
	w.modelResource = g.Resource(graphURI)
	return w
}

// ResourceByID returns the resource namespace + identifier.
func (w *ModelWrapper) ResourceByID(identifier string) (*rdf.Resource, error) {
	iri, err := rdf.ParseIRI(w.namespace + identifier)
	if err != nil {
		return nil, pkgerrors.NewMappingError(err.Error())
	}
	return w.graph.ResourceOf(iri), nil
}

// CreateResourceWithID is ResourceByID; the resource appears in the graph
// once a property is added.
func (w *ModelWrapper) CreateResourceWithID(identifier string) (*rdf.Resource, error) {
	return w.ResourceByID(identifier)
}

// ContainsID reports whether namespace + identifier is a subject in the graph.
func (w *ModelWrapper) ContainsID(identifier string) bool {
	iri, err := rdf.ParseIRI(w.namespace + identifier)
	if err != nil {
		return false
	}
	return w.graph.Contains(iri, nil, nil)
}

func (w *ModelWrapper) Namespace() string            { return w.namespace }
func (w *ModelWrapper) ModelResource() *rdf.Resource { return w.modelResource }
func (w *ModelWrapper) Version() string              { return w.version }
func (w *ModelWrapper) GraphURI() string             { return w.graphURI }
func (w *ModelWrapper) Prefix() string               { return w.prefix }
func (w *ModelWrapper) Graph() *rdf.Graph            { return w.graph }
func (w *ModelWrapper) IsLibrary() bool              { return IsLibrary(w.modelResource) }
func (w *ModelWrapper) IsProfile() bool              { return IsApplicationProfile(w.modelResource) }
func (w *ModelWrapper) IsTerminology() bool          { return IsTerminology(w.modelResource) }
