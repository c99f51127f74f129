package rdf

import (
	"fmt"

	"github.com/knakk/rdf"

	"yti-common/domain/vocabulary"
)

// NewList writes items as an RDF collection and returns its head. An empty
// collection is rdf:nil.
func (g *Graph) NewList(items []rdf.Object) rdf.Object {
	var head rdf.Object = IRI(vocabulary.RDFNil)
	for i := len(items) - 1; i >= 0; i-- {
		node := g.NewBlank()
		g.Add(node, IRI(vocabulary.RDFFirst), items[i])
		g.Add(node, IRI(vocabulary.RDFRest), head)
		head = node
	}
	return head
}

// IsList reports whether o is rdf:nil or the head of a collection.
func (g *Graph) IsList(o rdf.Object) bool {
	if o == nil {
		return false
	}
	if IsIRI(o) && o.String() == vocabulary.RDFNil {
		return true
	}
	s, ok := o.(rdf.Subject)
	if !ok || IsLiteral(o) {
		return false
	}
	return g.Contains(s, IRI(vocabulary.RDFFirst), nil)
}

// ListMembers returns the items of the collection starting at head.
func (g *Graph) ListMembers(head rdf.Object) ([]rdf.Object, error) {
	if !g.IsList(head) {
		return nil, fmt.Errorf("%s is not an RDF list", LexicalForm(head))
	}

	var items []rdf.Object
	seen := make(map[string]struct{})
	node := head
	for !(IsIRI(node) && node.String() == vocabulary.RDFNil) {
		key := termKey(node)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("cyclic RDF list")
		}
		seen[key] = struct{}{}

		s, ok := node.(rdf.Subject)
		if !ok || IsLiteral(node) {
			return nil, fmt.Errorf("malformed RDF list")
		}
		first := g.Match(s, IRI(vocabulary.RDFFirst), nil)
		rest := g.Match(s, IRI(vocabulary.RDFRest), nil)
		if len(first) == 0 || len(rest) == 0 {
			return nil, fmt.Errorf("malformed RDF list")
		}
		items = append(items, first[0].Obj)
		node = rest[0].Obj
	}
	return items, nil
}

// RemoveList deletes the collection cells starting at head. Anonymous members
// are deleted together with their own statements.
func (g *Graph) RemoveList(head rdf.Object) {
	items, err := g.ListMembers(head)
	if err != nil {
		return
	}
	for _, item := range items {
		if IsBlank(item) {
			g.Remove(item.(rdf.Subject), nil, nil)
		}
	}

	node := head
	for IsBlank(node) {
		s := node.(rdf.Subject)
		rest := g.Match(s, IRI(vocabulary.RDFRest), nil)
		g.Remove(s, nil, nil)
		if len(rest) == 0 {
			return
		}
		node = rest[0].Obj
	}
}
