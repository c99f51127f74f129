package rdf

import (
	"github.com/knakk/rdf"
)

// Resource is a view of one subject in a Graph. Mutations go straight to the
// underlying graph.
type Resource struct {
	graph *Graph
	node  rdf.Subject
}

// Node returns the subject term
func (r *Resource) Node() rdf.Subject {
	return r.node
}

// Object returns the node for use as a statement value.
func (r *Resource) Object() rdf.Object {
	o, _ := r.node.(rdf.Object)
	return o
}

// Graph returns the graph the resource lives in
func (r *Resource) Graph() *Graph {
	return r.graph
}

// URI returns the IRI of the resource, or "" for a blank node.
func (r *Resource) URI() string {
	if IsBlank(r.node) {
		return ""
	}
	return r.node.String()
}

// IsBlank reports whether the resource is an anonymous node.
func (r *Resource) IsBlank() bool {
	return IsBlank(r.node)
}

// Exists reports whether the resource is the subject of any triple.
func (r *Resource) Exists() bool {
	return r.graph.Contains(r.node, nil, nil)
}

// Property returns the first value of predicate p.
func (r *Resource) Property(p string) (rdf.Object, bool) {
	triples := r.graph.Match(r.node, IRI(p), nil)
	if len(triples) == 0 {
		return nil, false
	}
	return triples[0].Obj, true
}

// Properties returns every value of predicate p.
func (r *Resource) Properties(p string) []rdf.Object {
	triples := r.graph.Match(r.node, IRI(p), nil)
	out := make([]rdf.Object, 0, len(triples))
	for _, t := range triples {
		out = append(out, t.Obj)
	}
	return out
}

// Statements returns every triple with the resource as subject.
func (r *Resource) Statements() []rdf.Triple {
	return r.graph.Match(r.node, nil, nil)
}

// HasProperty reports whether the resource has any value for p.
func (r *Resource) HasProperty(p string) bool {
	return r.graph.Contains(r.node, IRI(p), nil)
}

// HasValue reports whether the resource has value o for p.
func (r *Resource) HasValue(p string, o rdf.Object) bool {
	return r.graph.Contains(r.node, IRI(p), o)
}

// HasResourceValue reports whether the resource has the IRI uri as a value of p.
func (r *Resource) HasResourceValue(p, uri string) bool {
	iri, err := ParseIRI(uri)
	if err != nil {
		return false
	}
	return r.HasValue(p, iri)
}

// Add adds a value for p.
func (r *Resource) Add(p string, o rdf.Object) *Resource {
	r.graph.Add(r.node, IRI(p), o)
	return r
}

// AddResource adds the IRI uri as a value of p.
func (r *Resource) AddResource(p, uri string) error {
	iri, err := ParseIRI(uri)
	if err != nil {
		return err
	}
	r.Add(p, iri)
	return nil
}

// RemoveAll removes every value of p.
func (r *Resource) RemoveAll(p string) *Resource {
	r.graph.Remove(r.node, IRI(p), nil)
	return r
}

// RemoveValue removes the single statement p o.
func (r *Resource) RemoveValue(p string, o rdf.Object) *Resource {
	r.graph.Remove(r.node, IRI(p), o)
	return r
}

// RemoveProperties removes every statement of the resource.
func (r *Resource) RemoveProperties() *Resource {
	r.graph.Remove(r.node, nil, nil)
	return r
}

// ObjectResource returns the value o as a resource view when o is an IRI or
// blank node.
func (r *Resource) ObjectResource(o rdf.Object) (*Resource, bool) {
	s, ok := o.(rdf.Subject)
	if !ok || IsLiteral(o) {
		return nil, false
	}
	return r.graph.ResourceOf(s), true
}

// PropertyResource returns the first IRI or blank value of p as a resource.
func (r *Resource) PropertyResource(p string) (*Resource, bool) {
	for _, o := range r.Properties(p) {
		if res, ok := r.ObjectResource(o); ok {
			return res, true
		}
	}
	return nil, false
}
