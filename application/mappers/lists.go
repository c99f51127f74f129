package mappers

import (
	"fmt"

	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// AddListProperty stores values as an RDF list in p, replacing any previous
// list. An empty values slice only removes the old list.
func AddListProperty(r *rdf.Resource, p string, values []rdf.Object) {
	RemoveList(r, p)
	if len(values) == 0 {
		return
	}
	head := r.Graph().NewList(values)
	r.Add(p, head)
}

// List returns the members of the RDF list in p.
func List(r *rdf.Resource, p string) ([]rdf.Object, error) {
	o, ok := r.Property(p)
	if !ok {
		return nil, pkgerrors.NewMappingError(fmt.Sprintf(
			"Creating RDFList failed. Property %s missing in resource %s", p, r.URI()))
	}
	if !r.Graph().IsList(o) {
		return nil, pkgerrors.NewMappingError(fmt.Sprintf(
			"Property %s in resource %s is not RDFList", p, r.URI()))
	}
	members, err := r.Graph().ListMembers(o)
	if err != nil {
		return nil, pkgerrors.NewMappingError(err.Error())
	}
	return members, nil
}

// ResourceList returns the resource members of the RDF list in p. A missing
// property or a non-list value gives an empty slice.
func ResourceList(r *rdf.Resource, p string) []*rdf.Resource {
	out := make([]*rdf.Resource, 0)
	o, ok := r.Property(p)
	if !ok || !r.Graph().IsList(o) {
		return out
	}
	members, err := r.Graph().ListMembers(o)
	if err != nil {
		return out
	}
	for _, m := range members {
		if res, ok := r.ObjectResource(m); ok {
			out = append(out, res)
		}
	}
	return out
}

// RemoveList deletes the RDF list in p including anonymous members and
// their own lists, then removes p.
func RemoveList(r *rdf.Resource, p string) {
	o, ok := r.Property(p)
	if !ok || !r.Graph().IsList(o) {
		return
	}
	g := r.Graph()
	if members, err := g.ListMembers(o); err == nil {
		for _, m := range members {
			if !rdf.IsBlank(m) {
				continue
			}
			if res, ok := r.ObjectResource(m); ok {
				RemoveAllLists(res)
			}
		}
	}
	g.RemoveList(o)
	r.RemoveAll(p)
}

// RemoveAllLists removes every list valued property of r.
func RemoveAllLists(r *rdf.Resource) {
	g := r.Graph()
	var predicates []string
	for _, t := range r.Statements() {
		if g.IsList(t.Obj) {
			predicates = append(predicates, t.Pred.String())
		}
	}
	for _, p := range predicates {
		RemoveList(r, p)
	}
}
