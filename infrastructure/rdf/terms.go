// Package rdf provides an in-memory RDF graph over github.com/knakk/rdf terms
// together with resource views, RDF collections and serialization.
package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knakk/rdf"

	"yti-common/domain/vocabulary"
)

// DateTimeLayout is the lexical form written for xsd:dateTime values.
const DateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// IRI returns the IRI for a known constant. It panics on an invalid value so
// it must not be used with user input; use ParseIRI instead.
func IRI(uri string) rdf.IRI {
	iri, err := rdf.NewIRI(uri)
	if err != nil {
		panic(fmt.Sprintf("invalid IRI constant %q: %v", uri, err))
	}
	return iri
}

// ParseIRI validates uri and returns it as an IRI.
func ParseIRI(uri string) (rdf.IRI, error) {
	iri, err := rdf.NewIRI(strings.TrimSpace(uri))
	if err != nil {
		return rdf.IRI{}, fmt.Errorf("invalid IRI %q: %w", uri, err)
	}
	return iri, nil
}

// PlainLiteral returns an xsd:string literal.
func PlainLiteral(v string) rdf.Literal {
	return rdf.NewTypedLiteral(v, IRI(vocabulary.XSDString))
}

// LangLiteral returns a language tagged literal.
func LangLiteral(v, lang string) (rdf.Literal, error) {
	lit, err := rdf.NewLangLiteral(v, lang)
	if err != nil {
		return rdf.Literal{}, fmt.Errorf("invalid language tag %q: %w", lang, err)
	}
	return lit, nil
}

// TypedLiteral returns a literal with the given datatype IRI.
func TypedLiteral(v, datatype string) rdf.Literal {
	return rdf.NewTypedLiteral(v, IRI(datatype))
}

// IntLiteral returns an xsd:integer literal.
func IntLiteral(n int) rdf.Literal {
	return TypedLiteral(strconv.Itoa(n), vocabulary.XSDInteger)
}

// BoolLiteral returns an xsd:boolean literal.
func BoolLiteral(b bool) rdf.Literal {
	return TypedLiteral(strconv.FormatBool(b), vocabulary.XSDBoolean)
}

// DoubleLiteral returns an xsd:double literal.
func DoubleLiteral(f float64) rdf.Literal {
	return TypedLiteral(strconv.FormatFloat(f, 'g', -1, 64), vocabulary.XSDDouble)
}

// DateTimeLiteral returns an xsd:dateTime literal in UTC.
func DateTimeLiteral(t time.Time) rdf.Literal {
	return TypedLiteral(t.UTC().Format(DateTimeLayout), vocabulary.XSDDateTime)
}

// IsIRI reports whether t is an IRI.
func IsIRI(t rdf.Term) bool {
	return t != nil && t.Type() == rdf.TermIRI
}

// IsBlank reports whether t is a blank node.
func IsBlank(t rdf.Term) bool {
	return t != nil && t.Type() == rdf.TermBlank
}

// IsLiteral reports whether t is a literal.
func IsLiteral(t rdf.Term) bool {
	return t != nil && t.Type() == rdf.TermLiteral
}

// LexicalForm returns the literal value or IRI of t, or "" for blank nodes.
func LexicalForm(t rdf.Term) string {
	if t == nil || IsBlank(t) {
		return ""
	}
	return t.String()
}

// LiteralLang returns the language tag of a literal, or "".
func LiteralLang(t rdf.Term) string {
	if lit, ok := t.(rdf.Literal); ok {
		return lit.Lang()
	}
	return ""
}

// LiteralDatatype returns the datatype IRI of a literal. Plain literals
// report xsd:string.
func LiteralDatatype(t rdf.Term) string {
	lit, ok := t.(rdf.Literal)
	if !ok {
		return ""
	}
	if dt := lit.DataType.String(); dt != "" {
		return dt
	}
	return vocabulary.XSDString
}

// termKey is an identity of a term used for set semantics in Graph.
func termKey(t rdf.Term) string {
	switch t.Type() {
	case rdf.TermIRI:
		return "<" + t.String() + ">"
	case rdf.TermBlank:
		return "_:" + strings.TrimPrefix(t.String(), "_:")
	default:
		lit := t.(rdf.Literal)
		if lang := lit.Lang(); lang != "" {
			return strconv.Quote(lit.String()) + "@" + strings.ToLower(lang)
		}
		return strconv.Quote(lit.String()) + "^^" + LiteralDatatype(lit)
	}
}

func tripleKey(t rdf.Triple) string {
	return termKey(t.Subj) + " " + termKey(t.Pred) + " " + termKey(t.Obj)
}

// Term types re-exported so callers need not import the RDF library directly.
type (
	Term    = rdf.Term
	Subject = rdf.Subject
	Object  = rdf.Object
	Triple  = rdf.Triple
	Literal = rdf.Literal
	Format  = rdf.Format
)

// Serialization formats accepted by Decode.
const (
	Turtle   = rdf.Turtle
	NTriples = rdf.NTriples
	RDFXML   = rdf.RDFXML
)
