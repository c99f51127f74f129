package mappers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// MapOrganizationsToModel writes directory organizations into orgGraph.
// Existing statements of each organization are replaced.
func MapOrganizationsToModel(organizations []entities.GroupManagementOrganization, orgGraph *rdf.Graph) error {
	for _, org := range organizations {
		r := orgGraph.Resource(vocabulary.URNUUID + org.UUID.String())
		r.RemoveProperties()
		r.Add(vocabulary.RDFType, rdf.IRI(vocabulary.FOAFOrganization))

		for _, lang := range vocabulary.UsedLanguages {
			if label := org.PrefLabel[lang]; strings.TrimSpace(label) != "" {
				lit, err := rdf.LangLiteral(label, lang)
				if err != nil {
					return pkgerrors.NewMappingError(err.Error())
				}
				r.Add(vocabulary.SKOSPrefLabel, lit)
			}
			if description := org.Description[lang]; strings.TrimSpace(description) != "" {
				lit, err := rdf.LangLiteral(description, lang)
				if err != nil {
					return pkgerrors.NewMappingError(err.Error())
				}
				r.Add(vocabulary.DCTermsDescription, lit)
			}
		}

		if org.ParentID != nil && *org.ParentID != uuid.Nil {
			r.Add(vocabulary.SuomiMetaParentOrganization, rdf.PlainLiteral(vocabulary.URNUUID+org.ParentID.String()))
		}
		AddOptionalStringProperty(r, vocabulary.FOAFHomepage, org.URL)
	}
	return nil
}

// MapOrganizationsToDTO maps the organization URIs in ids using orgGraph.
func MapOrganizationsToDTO(ids []string, orgGraph *rdf.Graph) ([]entities.Organization, error) {
	out := make([]entities.Organization, 0, len(ids))
	for _, id := range ids {
		iri, err := rdf.ParseIRI(id)
		if err != nil {
			return nil, pkgerrors.NewMappingError("Could not map organization")
		}
		org, ok := organizationDTO(orgGraph.ResourceOf(iri))
		if !ok {
			return nil, pkgerrors.NewMappingError("Could not map organization")
		}
		out = append(out, org)
	}
	return out, nil
}

// MapToListOrganizationDTO maps every foaf:Organization in orgGraph.
// Resources without a UUID URI are skipped.
func MapToListOrganizationDTO(orgGraph *rdf.Graph) []entities.Organization {
	subjects := orgGraph.SubjectsWith(rdf.IRI(vocabulary.RDFType), rdf.IRI(vocabulary.FOAFOrganization))
	out := make([]entities.Organization, 0, len(subjects))
	for _, s := range subjects {
		if org, ok := organizationDTO(orgGraph.ResourceOf(s)); ok {
			out = append(out, org)
		}
	}
	return out
}

// OrganizationURIs returns urn:uuid URIs for ids.
func OrganizationURIs(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, vocabulary.URNUUID+id.String())
	}
	return out
}

func organizationDTO(r *rdf.Resource) (entities.Organization, bool) {
	id, ok := UUIDFromURN(r.URI())
	if !ok {
		return entities.Organization{}, false
	}
	org := entities.Organization{
		ID:    id.String(),
		Label: LocalizedPropertyToMap(r, vocabulary.SKOSPrefLabel),
	}
	if parent, ok := UUIDFromURN(PropertyToString(r, vocabulary.SuomiMetaParentOrganization)); ok {
		org.ParentOrganization = &parent
	}
	return org, true
}

// MapToListServiceCategoryDTO maps every foaf:Group of the service category
// graph, ordered by identifier.
func MapToListServiceCategoryDTO(categories *rdf.Graph) []entities.ServiceCategory {
	subjects := categories.SubjectsWith(rdf.IRI(vocabulary.RDFType), rdf.IRI(vocabulary.FOAFGroup))
	out := make([]entities.ServiceCategory, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, serviceCategoryDTO(categories.ResourceOf(s)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// MapServiceCategoriesToDTO maps the category URIs in ids. Unknown URIs
// are an error.
func MapServiceCategoriesToDTO(ids []string, categories *rdf.Graph) ([]entities.ServiceCategory, error) {
	out := make([]entities.ServiceCategory, 0, len(ids))
	for _, id := range ids {
		iri, err := rdf.ParseIRI(id)
		if err != nil || !categories.Contains(iri, nil, nil) {
			return nil, pkgerrors.NewMappingError(fmt.Sprintf("Could not map service category %s", id))
		}
		out = append(out, serviceCategoryDTO(categories.ResourceOf(iri)))
	}
	return out, nil
}

func serviceCategoryDTO(r *rdf.Resource) entities.ServiceCategory {
	return entities.ServiceCategory{
		ID:         r.URI(),
		Label:      LocalizedPropertyToMap(r, vocabulary.RDFSLabel),
		Identifier: PropertyToString(r, vocabulary.SKOSNotation),
	}
}
