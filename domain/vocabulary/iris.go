// Package vocabulary holds the IRIs, graph names and prefixes shared by the
// data model and terminology services.
package vocabulary

import (
	"fmt"
	"sort"
	"strings"
)

// Platform wide constants.
const (
	URNUUID           = "urn:uuid:"
	ResourceSeparator = "/"
	DefaultLanguage   = "fi"

	OrganizationGraph    = "urn:yti:organizations"
	ServiceCategoryGraph = "urn:yti:servicecategories"

	IRINamespaceRoot     = "https://iri.suomi.fi/"
	DataModelNamespace   = IRINamespaceRoot + "model/"
	TerminologyNamespace = IRINamespaceRoot + "terminology/"

	StatusURIBase = "http://uri.suomi.fi/codelist/interoperabilityplatform/interoperabilityplatform_status/code/"
)

// UsedLanguages lists the languages organization metadata is stored in.
var UsedLanguages = []string{"fi", "sv", "en"}

// Namespaces
const (
	RDFNamespace       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace      = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace       = "http://www.w3.org/2002/07/owl#"
	XSDNamespace       = "http://www.w3.org/2001/XMLSchema#"
	SKOSNamespace      = "http://www.w3.org/2004/02/skos/core#"
	DCTermsNamespace   = "http://purl.org/dc/terms/"
	DCAPNamespace      = "http://purl.org/ws-mmi-dc/terms/"
	FOAFNamespace      = "http://xmlns.com/foaf/0.1/"
	SHNamespace        = "http://www.w3.org/ns/shacl#"
	SuomiMetaNamespace = "https://iri.suomi.fi/model/suomi-meta/"
)

// RDF
const (
	RDFType  = RDFNamespace + "type"
	RDFFirst = RDFNamespace + "first"
	RDFRest  = RDFNamespace + "rest"
	RDFNil   = RDFNamespace + "nil"
)

// RDFS
const (
	RDFSLabel       = RDFSNamespace + "label"
	RDFSComment     = RDFSNamespace + "comment"
	RDFSIsDefinedBy = RDFSNamespace + "isDefinedBy"
)

// OWL
const (
	OWLOntology    = OWLNamespace + "Ontology"
	OWLVersionInfo = OWLNamespace + "versionInfo"
	OWLVersionIRI  = OWLNamespace + "versionIRI"
	OWLPriorVer    = OWLNamespace + "priorVersion"
)

// XSD datatypes
const (
	XSDString   = XSDNamespace + "string"
	XSDInteger  = XSDNamespace + "integer"
	XSDInt      = XSDNamespace + "int"
	XSDLong     = XSDNamespace + "long"
	XSDBoolean  = XSDNamespace + "boolean"
	XSDDouble   = XSDNamespace + "double"
	XSDDecimal  = XSDNamespace + "decimal"
	XSDDateTime = XSDNamespace + "dateTime"
	XSDAnyURI   = XSDNamespace + "anyURI"
	XSDNCName   = XSDNamespace + "NCName"
)

// SKOS
const (
	SKOSConcept       = SKOSNamespace + "Concept"
	SKOSConceptScheme = SKOSNamespace + "ConceptScheme"
	SKOSPrefLabel     = SKOSNamespace + "prefLabel"
	SKOSNotation      = SKOSNamespace + "notation"
	SKOSNote          = SKOSNamespace + "note"
	SKOSBroader       = SKOSNamespace + "broader"
	SKOSEditorialNote = SKOSNamespace + "editorialNote"
)

// Dublin Core terms
const (
	DCTermsIdentifier  = DCTermsNamespace + "identifier"
	DCTermsCreated     = DCTermsNamespace + "created"
	DCTermsModified    = DCTermsNamespace + "modified"
	DCTermsDescription = DCTermsNamespace + "description"
	DCTermsContributor = DCTermsNamespace + "contributor"
	DCTermsIsPartOf    = DCTermsNamespace + "isPartOf"
	DCTermsLanguage    = DCTermsNamespace + "language"
	DCTermsTitle       = DCTermsNamespace + "title"
	DCTermsSubject     = DCTermsNamespace + "subject"
)

// DCAP
const (
	DCAPPreferredXMLNamespacePrefix = DCAPNamespace + "preferredXMLNamespacePrefix"
	DCAPPreferredXMLNamespace       = DCAPNamespace + "preferredXMLNamespace"
)

// FOAF
const (
	FOAFOrganization = FOAFNamespace + "Organization"
	FOAFGroup        = FOAFNamespace + "Group"
	FOAFHomepage     = FOAFNamespace + "homepage"
)

// suomi-meta
const (
	SuomiMetaPublicationStatus   = SuomiMetaNamespace + "publicationStatus"
	SuomiMetaCreator             = SuomiMetaNamespace + "creator"
	SuomiMetaModifier            = SuomiMetaNamespace + "modifier"
	SuomiMetaParentOrganization  = SuomiMetaNamespace + "parentOrganization"
	SuomiMetaApplicationProfile  = SuomiMetaNamespace + "ApplicationProfile"
	SuomiMetaContentModified     = SuomiMetaNamespace + "contentModified"
	SuomiMetaContact             = SuomiMetaNamespace + "contact"
	SuomiMetaDocumentation       = SuomiMetaNamespace + "documentation"
	SuomiMetaTerminologyType     = SuomiMetaNamespace + "terminologyType"
	SuomiMetaOtherVocabularyType = SuomiMetaNamespace + "OtherVocabulary"
)

// Prefixes maps the prefix names used in queries to their namespaces.
var Prefixes = map[string]string{
	"rdfs":       RDFSNamespace,
	"rdf":        RDFNamespace,
	"dcterms":    DCTermsNamespace,
	"owl":        OWLNamespace,
	"dcap":       DCAPNamespace,
	"xsd":        XSDNamespace,
	"suomi-meta": SuomiMetaNamespace,
	"skos":       SKOSNamespace,
	"sh":         SHNamespace,
	"foaf":       FOAFNamespace,
}

// PrefixDeclarations renders Prefixes as SPARQL PREFIX lines sorted by name.
func PrefixDeclarations() string {
	names := make([]string, 0, len(Prefixes))
	for name := range Prefixes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", name, Prefixes[name])
	}
	return b.String()
}

// Expand turns a prefixed name such as "skos:prefLabel" into a full IRI.
// Unknown prefixes are returned unchanged.
func Expand(curie string) string {
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return curie
	}
	ns, ok := Prefixes[prefix]
	if !ok {
		return curie
	}
	return ns + local
}
