// Package mappers converts between RDF graphs and the DTOs of the platform.
package mappers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"yti-common/domain/core/entities"
	"yti-common/domain/core/valueobjects"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// now is replaced in tests.
var now = time.Now

// UUIDFromURN parses urn:uuid:<uuid>. The second return is false when the
// value is not a UUID.
func UUIDFromURN(urn string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.Replace(urn, vocabulary.URNUUID, "", 1))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// LocalizedPropertyToMap collects the values of p keyed by language. Values
// without a language tag are treated as English.
func LocalizedPropertyToMap(r *rdf.Resource, p string) map[string]string {
	out := make(map[string]string)
	for _, o := range r.Properties(p) {
		if !rdf.IsLiteral(o) {
			continue
		}
		lang := rdf.LiteralLang(o)
		if strings.TrimSpace(lang) == "" {
			lang = "en"
		}
		out[lang] = o.String()
	}
	return out
}

// PropertyToString returns the first value of p: the lexical form of a
// literal or the IRI of a resource. Missing values give "".
func PropertyToString(r *rdf.Resource, p string) string {
	o, ok := r.Property(p)
	if !ok {
		return ""
	}
	return rdf.LexicalForm(o)
}

// ArrayPropertyToList returns the members of an RDF list stored in p, or the
// plain values of p when it is not a list. Anonymous values are skipped.
func ArrayPropertyToList(r *rdf.Resource, p string) []string {
	values := r.Properties(p)
	g := r.Graph()
	for _, o := range values {
		if !g.IsList(o) {
			continue
		}
		members, err := g.ListMembers(o)
		if err != nil {
			break
		}
		out := make([]string, 0, len(members))
		for _, m := range members {
			if !rdf.IsBlank(m) {
				out = append(out, rdf.LexicalForm(m))
			}
		}
		return out
	}

	out := make([]string, 0, len(values))
	for _, o := range values {
		if !rdf.IsBlank(o) {
			out = append(out, rdf.LexicalForm(o))
		}
	}
	return out
}

// ArrayPropertyToSet is ArrayPropertyToList without duplicates, sorted.
func ArrayPropertyToSet(r *rdf.Resource, p string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range ArrayPropertyToList(r, p) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// AddLocalizedProperty adds one language tagged literal per entry of data.
// Every language must be one of languages. Nothing is added when data or
// languages is empty.
func AddLocalizedProperty(languages []string, data map[string]string, r *rdf.Resource, p string) error {
	if len(data) == 0 || len(languages) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		allowed[l] = struct{}{}
	}

	langs := make([]string, 0, len(data))
	for lang := range data {
		if _, ok := allowed[lang]; !ok {
			return pkgerrors.NewMappingError(fmt.Sprintf("Model missing language for localized property {%s}", lang))
		}
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		lit, err := rdf.LangLiteral(data[lang], lang)
		if err != nil {
			return pkgerrors.NewMappingError(err.Error())
		}
		r.Add(p, lit)
	}
	return nil
}

// UpdateLocalizedProperty replaces the values of p with data.
func UpdateLocalizedProperty(languages []string, data map[string]string, r *rdf.Resource, p string) error {
	r.RemoveAll(p)
	return AddLocalizedProperty(languages, data, r, p)
}

// AddOptionalStringProperty adds value as a string literal unless blank.
func AddOptionalStringProperty(r *rdf.Resource, p, value string) {
	if strings.TrimSpace(value) != "" {
		r.Add(p, rdf.PlainLiteral(value))
	}
}

// AddOptionalURIProperty adds value as a resource unless blank.
func AddOptionalURIProperty(r *rdf.Resource, p, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if err := r.AddResource(p, value); err != nil {
		return pkgerrors.NewMappingError(err.Error())
	}
	return nil
}

// UpdateStringProperty replaces p with value; a blank value only removes.
func UpdateStringProperty(r *rdf.Resource, p, value string) {
	r.RemoveAll(p)
	AddOptionalStringProperty(r, p, value)
}

// UpdateURIProperty replaces p with the resource value; a blank value only removes.
func UpdateURIProperty(r *rdf.Resource, p, value string) error {
	r.RemoveAll(p)
	return AddOptionalURIProperty(r, p, value)
}

// AddLiteral adds a typed literal.
func AddLiteral(r *rdf.Resource, p string, value rdf.Literal) {
	r.Add(p, value)
}

// UpdateLiteral replaces p with value.
func UpdateLiteral(r *rdf.Resource, p string, value rdf.Literal) {
	r.RemoveAll(p)
	r.Add(p, value)
}

// LiteralValue lists the Go types a literal can be read as.
type LiteralValue interface {
	int | bool | float64 | string
}

// Literal reads the first value of p as T. The second return is false when
// the property is missing or cannot be converted.
func Literal[T LiteralValue](r *rdf.Resource, p string) (T, bool) {
	var zero T
	o, ok := r.Property(p)
	if !ok || !rdf.IsLiteral(o) {
		return zero, false
	}

	lexical := strings.TrimSpace(o.String())
	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case int:
		v, err = strconv.Atoi(lexical)
	case bool:
		v, err = strconv.ParseBool(lexical)
	case float64:
		v, err = strconv.ParseFloat(lexical, 64)
	case string:
		v = o.String()
	}
	if err != nil {
		return zero, false
	}
	return v.(T), true
}

// AddCreationMetadata stamps a new resource with creation and modification
// time and the acting user.
func AddCreationMetadata(r *rdf.Resource, userID uuid.UUID) {
	ts := rdf.DateTimeLiteral(now())
	r.Add(vocabulary.DCTermsModified, ts).
		Add(vocabulary.DCTermsCreated, ts).
		Add(vocabulary.SuomiMetaCreator, rdf.PlainLiteral(userID.String())).
		Add(vocabulary.SuomiMetaModifier, rdf.PlainLiteral(userID.String()))
}

// AddUpdateMetadata replaces modification time and modifier.
func AddUpdateMetadata(r *rdf.Resource, userID uuid.UUID) {
	UpdateLiteral(r, vocabulary.DCTermsModified, rdf.DateTimeLiteral(now()))
	UpdateLiteral(r, vocabulary.SuomiMetaModifier, rdf.PlainLiteral(userID.String()))
}

// MapCreationInfo copies creation metadata of r into info and lets
// userMapper resolve user names.
func MapCreationInfo(info *entities.ResourceCommonInfo, r *rdf.Resource, userMapper func(*entities.ResourceCommonInfo)) {
	info.Created = PropertyToString(r, vocabulary.DCTermsCreated)
	info.Modified = PropertyToString(r, vocabulary.DCTermsModified)
	info.Creator = &entities.User{ID: PropertyToString(r, vocabulary.SuomiMetaCreator)}
	info.Modifier = &entities.User{ID: PropertyToString(r, vocabulary.SuomiMetaModifier)}

	if userMapper != nil {
		userMapper(info)
	}
}

// HasType reports whether r has any of types as rdf:type.
func HasType(r *rdf.Resource, types ...string) bool {
	for _, t := range types {
		if r.HasResourceValue(vocabulary.RDFType, t) {
			return true
		}
	}
	return false
}

// IsLibrary reports whether r is an ontology that is not an application profile.
func IsLibrary(r *rdf.Resource) bool {
	return HasType(r, vocabulary.OWLOntology) && !HasType(r, vocabulary.SuomiMetaApplicationProfile)
}

// IsApplicationProfile reports whether r is an application profile.
func IsApplicationProfile(r *rdf.Resource) bool {
	return HasType(r, vocabulary.SuomiMetaApplicationProfile)
}

// IsTerminology reports whether r is a concept scheme.
func IsTerminology(r *rdf.Resource) bool {
	return HasType(r, vocabulary.SKOSConceptScheme)
}

// Status reads the publication status of r. A missing status returns "".
func Status(r *rdf.Resource) (valueobjects.Status, error) {
	uri := PropertyToString(r, vocabulary.SuomiMetaPublicationStatus)
	if uri == "" {
		return "", nil
	}
	return StatusFromURI(uri)
}

// AddStatus replaces the publication status of r. An empty status is ignored.
func AddStatus(r *rdf.Resource, status valueobjects.Status) {
	if status == "" {
		return
	}
	r.RemoveAll(vocabulary.SuomiMetaPublicationStatus)
	r.Add(vocabulary.SuomiMetaPublicationStatus, rdf.IRI(StatusURI(status)))
}

// StatusURI returns the code list IRI of status.
func StatusURI(status valueobjects.Status) string {
	return vocabulary.StatusURIBase + string(status)
}

// StatusFromURI parses the status name after the last "/".
func StatusFromURI(uri string) (valueobjects.Status, error) {
	if strings.TrimSpace(uri) == "" {
		return "", pkgerrors.NewMappingError("Could not get status from uri")
	}
	status, err := valueobjects.ParseStatus(uri[strings.LastIndex(uri, "/")+1:])
	if err != nil {
		return "", pkgerrors.NewMappingError(fmt.Sprintf("Could not get status from uri %s", uri))
	}
	return status, nil
}

// AddCommonResourceInfo creates the resource uri names in its model,
// inheriting the languages and status of the model resource. Label and note
// languages must be languages of the model.
func AddCommonResourceInfo(g *rdf.Graph, uri valueobjects.GraphURI, dto entities.ResourceDTO) (*rdf.Resource, error) {
	modelResource := g.Resource(uri.ModelResourceURI())
	languages := ArrayPropertyToSet(modelResource, vocabulary.DCTermsLanguage)

	resource := g.Resource(uri.ResourceURI())
	if status := PropertyToString(modelResource, vocabulary.SuomiMetaPublicationStatus); status != "" {
		if err := resource.AddResource(vocabulary.SuomiMetaPublicationStatus, status); err != nil {
			return nil, err
		}
	}
	if err := resource.AddResource(vocabulary.RDFSIsDefinedBy, modelResource.URI()); err != nil {
		return nil, err
	}
	resource.Add(vocabulary.DCTermsIdentifier, rdf.TypedLiteral(dto.Identifier, vocabulary.XSDNCName))

	if err := AddLocalizedProperty(languages, dto.Label, resource, vocabulary.RDFSLabel); err != nil {
		return nil, err
	}
	if err := AddLocalizedProperty(languages, dto.Note, resource, vocabulary.RDFSComment); err != nil {
		return nil, err
	}
	AddOptionalStringProperty(resource, vocabulary.SKOSEditorialNote, dto.EditorialNote)
	if err := AddOptionalURIProperty(resource, vocabulary.DCTermsSubject, dto.Subject); err != nil {
		return nil, err
	}
	return resource, nil
}
