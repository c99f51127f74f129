package sparql

import (
	"fmt"
	"regexp"
	"strings"

	"yti-common/domain/vocabulary"
)

// AskAny matches any triple in the store. Used as a health probe.
func AskAny() string {
	return "ASK WHERE { ?s ?p ?o }"
}

// AskGraph matches when graph has at least one triple.
func AskGraph(graph string) string {
	return fmt.Sprintf("ASK WHERE { GRAPH %s { ?s ?p ?o } }", iriRef(graph))
}

// AskResource matches when resource is a subject in graph.
func AskResource(graph, resource string) string {
	return fmt.Sprintf("ASK WHERE { GRAPH %s { %s ?p ?o } }", iriRef(graph), iriRef(resource))
}

// AskIdentifier matches a dcterms:identifier equal to identifier ignoring case.
func AskIdentifier(graph, identifier string) string {
	pattern := "^" + regexp.QuoteMeta(identifier) + "$"
	return fmt.Sprintf(
		"ASK WHERE { GRAPH %s { ?s %s ?o FILTER(regex(str(?o), %s, \"i\")) } }",
		iriRef(graph), iriRef(vocabulary.DCTermsIdentifier), stringLiteral(pattern))
}

// DeleteResource removes every triple of graph where resource is the
// subject or the object.
func DeleteResource(graph, resource string) string {
	g, r := iriRef(graph), iriRef(resource)
	return fmt.Sprintf(
		"DELETE { GRAPH %s { ?s ?p ?o } } WHERE { GRAPH %s { ?s ?p ?o FILTER(?s = %s || ?o = %s) } }",
		g, g, r, r)
}

// ServiceCategoriesConstruct returns the top level service categories as
// foaf:Group resources with rdfs:label, skos:notation and skos:note.
func ServiceCategoriesConstruct() string {
	var b strings.Builder
	b.WriteString(vocabulary.PrefixDeclarations())
	fmt.Fprintf(&b, `CONSTRUCT {
  ?category rdfs:label ?label ;
            rdf:type foaf:Group ;
            skos:notation ?id ;
            skos:note ?note .
}
WHERE {
  GRAPH %s {
    ?category rdf:type skos:Concept ;
              skos:prefLabel ?label ;
              skos:notation ?id ;
              skos:note ?note .
    FILTER NOT EXISTS { ?category skos:broader ?topCategory }
  }
}`, iriRef(vocabulary.ServiceCategoryGraph))
	return b.String()
}

// iriRef writes uri as <uri>, percent-encoding characters IRIREF forbids.
func iriRef(uri string) string {
	var b strings.Builder
	b.Grow(len(uri) + 2)
	b.WriteByte('<')
	for _, r := range uri {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, "%%%02X", r)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('>')
	return b.String()
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func stringLiteral(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
