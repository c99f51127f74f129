package mappers

import (
	"fmt"

	"github.com/google/uuid"

	"yti-common/domain/core/entities"
	"yti-common/domain/core/valueobjects"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// LabelPredicate is skos:prefLabel for terminologies and rdfs:label for data models.
func LabelPredicate(m *ModelWrapper) string {
	if m.IsTerminology() {
		return vocabulary.SKOSPrefLabel
	}
	return vocabulary.RDFSLabel
}

// GraphTypeOf derives the graph type from the rdf:type values of the model resource.
func GraphTypeOf(m *ModelWrapper) valueobjects.GraphType {
	switch {
	case m.IsProfile():
		return valueobjects.GraphTypeProfile
	case m.IsLibrary():
		return valueobjects.GraphTypeLibrary
	case m.IsTerminology():
		if m.ModelResource().HasResourceValue(vocabulary.SuomiMetaTerminologyType, vocabulary.SuomiMetaOtherVocabularyType) {
			return valueobjects.GraphTypeOtherVocabulary
		}
		return valueobjects.GraphTypeTerminologicalVocabulary
	}
	return ""
}

// MapToMetaDataInfo builds the read model of the graph metadata. orgGraph and
// categories resolve contributor organizations and information domains.
func MapToMetaDataInfo(m *ModelWrapper, orgGraph, categories *rdf.Graph, userMapper func(*entities.ResourceCommonInfo)) (*entities.MetaDataInfo, error) {
	model := m.ModelResource()

	status, err := Status(model)
	if err != nil {
		return nil, err
	}
	organizations, err := MapOrganizationsToDTO(ArrayPropertyToSet(model, vocabulary.DCTermsContributor), orgGraph)
	if err != nil {
		return nil, err
	}
	groups, err := MapServiceCategoriesToDTO(ArrayPropertyToSet(model, vocabulary.DCTermsIsPartOf), categories)
	if err != nil {
		return nil, err
	}

	info := &entities.MetaDataInfo{
		Prefix:        m.Prefix(),
		GraphType:     GraphTypeOf(m),
		Languages:     ArrayPropertyToSet(model, vocabulary.DCTermsLanguage),
		Description:   LocalizedPropertyToMap(model, vocabulary.DCTermsDescription),
		Status:        status,
		Organizations: organizations,
		Groups:        groups,
		Contact:       PropertyToString(model, vocabulary.SuomiMetaContact),
	}
	info.URI = m.Namespace()
	info.Label = LocalizedPropertyToMap(model, LabelPredicate(m))
	MapCreationInfo(&info.ResourceCommonInfo, model, userMapper)
	return info, nil
}

// MapMetaDataToModel writes metadata into the model resource of m. A new
// model gets its types, namespace declarations and creation metadata; an
// existing one only update metadata.
func MapMetaDataToModel(dto entities.MetaData, m *ModelWrapper, categories *rdf.Graph, userID uuid.UUID, create bool) error {
	model := m.ModelResource()

	if create {
		for _, t := range graphTypes(dto.GraphType) {
			model.Add(vocabulary.RDFType, rdf.IRI(t))
		}
		if dto.GraphType == valueobjects.GraphTypeOtherVocabulary {
			model.Add(vocabulary.SuomiMetaTerminologyType, rdf.IRI(vocabulary.SuomiMetaOtherVocabularyType))
		}
		UpdateStringProperty(model, vocabulary.DCAPPreferredXMLNamespacePrefix, dto.Prefix)
		UpdateStringProperty(model, vocabulary.DCAPPreferredXMLNamespace, m.Namespace())
		AddCreationMetadata(model, userID)
	} else {
		AddUpdateMetadata(model, userID)
	}

	model.RemoveAll(vocabulary.DCTermsLanguage)
	for _, lang := range dto.Languages {
		model.Add(vocabulary.DCTermsLanguage, rdf.PlainLiteral(lang))
	}

	labelPredicate := vocabulary.RDFSLabel
	if !dto.GraphType.IsDataModel() && dto.GraphType != "" {
		labelPredicate = vocabulary.SKOSPrefLabel
	}
	if err := UpdateLocalizedProperty(dto.Languages, dto.Label, model, labelPredicate); err != nil {
		return err
	}
	if err := UpdateLocalizedProperty(dto.Languages, dto.Description, model, vocabulary.DCTermsDescription); err != nil {
		return err
	}

	AddStatus(model, dto.Status)

	model.RemoveAll(vocabulary.DCTermsContributor)
	for _, uri := range OrganizationURIs(dto.Organizations) {
		model.Add(vocabulary.DCTermsContributor, rdf.IRI(uri))
	}

	model.RemoveAll(vocabulary.DCTermsIsPartOf)
	for _, group := range dto.Groups {
		uri, ok := serviceCategoryURI(categories, group)
		if !ok {
			return pkgerrors.NewMappingError(fmt.Sprintf("Unknown service category %s", group))
		}
		model.Add(vocabulary.DCTermsIsPartOf, rdf.IRI(uri))
	}

	UpdateStringProperty(model, vocabulary.SuomiMetaContact, dto.Contact)
	return nil
}

func graphTypes(t valueobjects.GraphType) []string {
	switch t {
	case valueobjects.GraphTypeProfile:
		return []string{vocabulary.OWLOntology, vocabulary.SuomiMetaApplicationProfile}
	case valueobjects.GraphTypeLibrary:
		return []string{vocabulary.OWLOntology}
	case valueobjects.GraphTypeTerminologicalVocabulary, valueobjects.GraphTypeOtherVocabulary:
		return []string{vocabulary.SKOSConceptScheme}
	}
	return nil
}

// serviceCategoryURI resolves a service category notation such as P11.
func serviceCategoryURI(categories *rdf.Graph, identifier string) (string, bool) {
	if categories == nil {
		return "", false
	}
	subjects := categories.SubjectsWith(rdf.IRI(vocabulary.SKOSNotation), rdf.PlainLiteral(identifier))
	if len(subjects) == 0 {
		return "", false
	}
	return subjects[0].String(), true
}

// ServiceCategoryExists reports whether identifier is a known notation.
func ServiceCategoryExists(categories *rdf.Graph, identifier string) bool {
	_, ok := serviceCategoryURI(categories, identifier)
	return ok
}
