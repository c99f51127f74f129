package valueobjects

import (
	"strings"

	"yti-common/domain/vocabulary"
)

// GraphURI addresses a graph and optionally one resource inside it.
type GraphURI interface {
	Prefix() string
	ResourceID() string
	Version() string
	// GraphURI is the name of the graph in the store.
	GraphURI() string
	// ModelResourceURI is the subject describing the graph itself.
	ModelResourceURI() string
	// ResourceURI is GraphURI + resource id, or "" without a resource id.
	ResourceURI() string
}

type namespacedURI struct {
	namespace  string
	prefix     string
	resourceID string
	version    string
}

func (u namespacedURI) Prefix() string     { return u.prefix }
func (u namespacedURI) ResourceID() string { return u.resourceID }
func (u namespacedURI) Version() string    { return u.version }

func (u namespacedURI) ModelResourceURI() string {
	return u.namespace + u.prefix + vocabulary.ResourceSeparator
}

func (u namespacedURI) GraphURI() string {
	uri := u.ModelResourceURI()
	if u.version != "" {
		uri += u.version + vocabulary.ResourceSeparator
	}
	return uri
}

func (u namespacedURI) ResourceURI() string {
	if u.resourceID == "" {
		return ""
	}
	return u.GraphURI() + u.resourceID
}

// DataModelURI addresses graphs under https://iri.suomi.fi/model/.
type DataModelURI struct{ namespacedURI }

// NewDataModelURI creates the URI of a data model graph.
func NewDataModelURI(prefix, version string) DataModelURI {
	return DataModelURI{namespacedURI{namespace: vocabulary.DataModelNamespace, prefix: prefix, version: version}}
}

// NewDataModelResourceURI creates the URI of a resource in a data model graph.
func NewDataModelResourceURI(prefix, resourceID, version string) DataModelURI {
	return DataModelURI{namespacedURI{namespace: vocabulary.DataModelNamespace, prefix: prefix, resourceID: resourceID, version: version}}
}

// TerminologyURI addresses graphs under https://iri.suomi.fi/terminology/.
type TerminologyURI struct{ namespacedURI }

// NewTerminologyURI creates the URI of a terminology graph.
func NewTerminologyURI(prefix, version string) TerminologyURI {
	return TerminologyURI{namespacedURI{namespace: vocabulary.TerminologyNamespace, prefix: prefix, version: version}}
}

// NewTerminologyResourceURI creates the URI of a concept or collection in a terminology.
func NewTerminologyResourceURI(prefix, resourceID string) TerminologyURI {
	return TerminologyURI{namespacedURI{namespace: vocabulary.TerminologyNamespace, prefix: prefix, resourceID: resourceID}}
}

// ParseGraphURI splits a graph or resource URI in one of the platform
// namespaces into its parts. The second return is false for foreign URIs.
func ParseGraphURI(uri string) (GraphURI, bool) {
	var namespace string
	switch {
	case strings.HasPrefix(uri, vocabulary.DataModelNamespace):
		namespace = vocabulary.DataModelNamespace
	case strings.HasPrefix(uri, vocabulary.TerminologyNamespace):
		namespace = vocabulary.TerminologyNamespace
	default:
		return nil, false
	}

	parts := strings.Split(strings.TrimPrefix(uri, namespace), vocabulary.ResourceSeparator)
	if parts[0] == "" {
		return nil, false
	}
	u := namespacedURI{namespace: namespace, prefix: parts[0]}
	switch len(parts) {
	case 1:
	case 2:
		u.resourceID = parts[1]
	default:
		u.version = parts[1]
		u.resourceID = strings.Join(parts[2:], vocabulary.ResourceSeparator)
	}

	if namespace == vocabulary.TerminologyNamespace {
		return TerminologyURI{u}, true
	}
	return DataModelURI{u}, true
}
