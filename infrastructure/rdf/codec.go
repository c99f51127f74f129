package rdf

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
)

// Content types understood by Decode.
const (
	ContentTypeNTriples = "application/n-triples"
	ContentTypeTurtle   = "text/turtle"
	ContentTypeRDFXML   = "application/rdf+xml"
)

// FormatForContentType maps a media type to a parser format. Unknown types
// fall back to Turtle, which also accepts N-Triples input.
func FormatForContentType(contentType string) rdf.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case ContentTypeNTriples, "text/plain":
		return rdf.NTriples
	case ContentTypeRDFXML, "application/xml", "text/xml":
		return rdf.RDFXML
	default:
		return rdf.Turtle
	}
}

// FormatForFile picks the parser format from a file extension.
func FormatForFile(path string) rdf.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return rdf.NTriples
	case ".rdf", ".owl", ".xml":
		return rdf.RDFXML
	default:
		return rdf.Turtle
	}
}

// Decode parses a serialized graph.
func Decode(r io.Reader, format rdf.Format) (*Graph, error) {
	dec := rdf.NewTripleDecoder(r, format)
	g := NewGraph()
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse RDF: %w", err)
		}
		g.AddTriple(t)
	}
}

// Encode writes g as N-Triples.
func Encode(w io.Writer, g *Graph) error {
	enc := rdf.NewTripleEncoder(w, rdf.NTriples)
	for _, t := range g.Triples() {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("failed to serialize triple: %w", err)
		}
	}
	return enc.Close()
}

// EncodeString returns g as an N-Triples document.
func EncodeString(g *Graph) (string, error) {
	var b strings.Builder
	if err := Encode(&b, g); err != nil {
		return "", err
	}
	return b.String(), nil
}
