package rdf

import (
	"strings"

	"github.com/google/uuid"
	"github.com/knakk/rdf"
)

// Graph is a set of triples. Duplicate triples are stored once and
// iteration follows insertion order of subjects. Graph is not safe for
// concurrent mutation.
type Graph struct {
	subjects  []string
	bySubject map[string][]rdf.Triple
	keys      map[string]struct{}
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		bySubject: make(map[string][]rdf.Triple),
		keys:      make(map[string]struct{}),
	}
}

// NewGraphFromTriples creates a graph holding triples.
func NewGraphFromTriples(triples []rdf.Triple) *Graph {
	g := NewGraph()
	for _, t := range triples {
		g.AddTriple(t)
	}
	return g
}

// Add inserts a triple and reports whether it was new.
func (g *Graph) Add(s rdf.Subject, p rdf.Predicate, o rdf.Object) bool {
	return g.AddTriple(rdf.Triple{Subj: s, Pred: p, Obj: o})
}

// AddTriple inserts t and reports whether it was new.
func (g *Graph) AddTriple(t rdf.Triple) bool {
	key := tripleKey(t)
	if _, ok := g.keys[key]; ok {
		return false
	}
	g.keys[key] = struct{}{}

	sk := termKey(t.Subj)
	if _, ok := g.bySubject[sk]; !ok {
		g.subjects = append(g.subjects, sk)
	}
	g.bySubject[sk] = append(g.bySubject[sk], t)
	return true
}

// Remove deletes every triple matching the pattern. A nil term matches
// anything. It returns the number of removed triples.
func (g *Graph) Remove(s rdf.Subject, p rdf.Predicate, o rdf.Object) int {
	removed := 0
	for _, sk := range g.subjectKeys(s) {
		kept := g.bySubject[sk][:0]
		for _, t := range g.bySubject[sk] {
			if matches(t, nil, p, o) {
				delete(g.keys, tripleKey(t))
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) == 0 {
			delete(g.bySubject, sk)
		} else {
			g.bySubject[sk] = kept
		}
	}
	if removed > 0 {
		g.compactSubjects()
	}
	return removed
}

// Match returns every triple matching the pattern. A nil term matches anything.
func (g *Graph) Match(s rdf.Subject, p rdf.Predicate, o rdf.Object) []rdf.Triple {
	var out []rdf.Triple
	for _, sk := range g.subjectKeys(s) {
		for _, t := range g.bySubject[sk] {
			if matches(t, nil, p, o) {
				out = append(out, t)
			}
		}
	}
	return out
}

// Contains reports whether any triple matches the pattern.
func (g *Graph) Contains(s rdf.Subject, p rdf.Predicate, o rdf.Object) bool {
	for _, sk := range g.subjectKeys(s) {
		for _, t := range g.bySubject[sk] {
			if matches(t, nil, p, o) {
				return true
			}
		}
	}
	return false
}

// Len returns the number of triples
func (g *Graph) Len() int {
	return len(g.keys)
}

// IsEmpty reports whether the graph has no triples
func (g *Graph) IsEmpty() bool {
	return len(g.keys) == 0
}

// Triples returns all triples grouped by subject.
func (g *Graph) Triples() []rdf.Triple {
	out := make([]rdf.Triple, 0, len(g.keys))
	for _, sk := range g.subjects {
		out = append(out, g.bySubject[sk]...)
	}
	return out
}

// Subjects returns the distinct subjects of the graph.
func (g *Graph) Subjects() []rdf.Subject {
	out := make([]rdf.Subject, 0, len(g.subjects))
	for _, sk := range g.subjects {
		out = append(out, g.bySubject[sk][0].Subj)
	}
	return out
}

// SubjectsWith returns the distinct subjects having predicate p with value o.
// A nil o matches any value.
func (g *Graph) SubjectsWith(p rdf.Predicate, o rdf.Object) []rdf.Subject {
	var out []rdf.Subject
	for _, sk := range g.subjects {
		for _, t := range g.bySubject[sk] {
			if matches(t, nil, p, o) {
				out = append(out, t.Subj)
				break
			}
		}
	}
	return out
}

// Resource returns a view of the IRI subject uri. The resource does not need
// to exist in the graph. It panics on an invalid IRI; untrusted input goes
// through ParseIRI and ResourceOf.
func (g *Graph) Resource(uri string) *Resource {
	return &Resource{graph: g, node: IRI(uri)}
}

// ResourceOf returns a view of the subject node.
func (g *Graph) ResourceOf(node rdf.Subject) *Resource {
	return &Resource{graph: g, node: node}
}

// NewBlank returns a fresh blank node.
func (g *Graph) NewBlank() rdf.Blank {
	b, _ := rdf.NewBlank("b" + strings.ReplaceAll(uuid.NewString(), "-", ""))
	return b
}

// Merge adds every triple of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.Triples() {
		g.AddTriple(t)
	}
}

// Copy returns an independent copy of the graph
func (g *Graph) Copy() *Graph {
	return NewGraphFromTriples(g.Triples())
}

func (g *Graph) subjectKeys(s rdf.Subject) []string {
	if s == nil {
		keys := make([]string, len(g.subjects))
		copy(keys, g.subjects)
		return keys
	}
	sk := termKey(s)
	if _, ok := g.bySubject[sk]; !ok {
		return nil
	}
	return []string{sk}
}

func (g *Graph) compactSubjects() {
	kept := g.subjects[:0]
	for _, sk := range g.subjects {
		if _, ok := g.bySubject[sk]; ok {
			kept = append(kept, sk)
		}
	}
	g.subjects = kept
}

func matches(t rdf.Triple, s rdf.Subject, p rdf.Predicate, o rdf.Object) bool {
	if s != nil && termKey(t.Subj) != termKey(s) {
		return false
	}
	if p != nil && termKey(t.Pred) != termKey(p) {
		return false
	}
	if o != nil && termKey(t.Obj) != termKey(o) {
		return false
	}
	return true
}
