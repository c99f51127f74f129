package mappers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
)

func findOrganization(t *testing.T, orgs []entities.Organization, id string) entities.Organization {
	t.Helper()
	for _, o := range orgs {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("organization %s not found", id)
	return entities.Organization{}
}

func TestMapToListOrganizationDTO(t *testing.T) {
	g := loadGraph(t, "testdata/organizations.ttl")
	orgs := MapToListOrganizationDTO(g)

	assert.Len(t, orgs, 3)

	org := findOrganization(t, orgs, "7d3a3c00-5a6b-489b-a3ed-63bb58c26a63")
	assert.Equal(t, "Yhteentoimivuusalustan yllapito", org.Label["fi"])
	assert.Equal(t, "Utvecklare av interoperabilitetsplattform", org.Label["sv"])
	assert.Equal(t, "Interoperability platform developers", org.Label["en"])
	assert.Nil(t, org.ParentOrganization)

	child := findOrganization(t, orgs, "8fab2816-03c5-48cd-9d48-b61048f435da")
	require.NotNil(t, child.ParentOrganization)
	assert.Equal(t, uuid.MustParse("74776e94-7f51-48dc-aeec-c084c4defa09"), *child.ParentOrganization)
}

func TestMapOrganizationsToDTO(t *testing.T) {
	g := loadGraph(t, "testdata/organizations.ttl")

	orgs, err := MapOrganizationsToDTO([]string{"urn:uuid:74776e94-7f51-48dc-aeec-c084c4defa09"}, g)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "Test organization", orgs[0].Label["en"])

	_, err = MapOrganizationsToDTO([]string{"https://example.com/not-uuid"}, g)
	assert.Error(t, err)
}

func TestMapOrganizationsToModel(t *testing.T) {
	id := uuid.New()
	parentID := uuid.New()
	dto := entities.GroupManagementOrganization{
		UUID:        id,
		PrefLabel:   map[string]string{"fi": "Organisaatio", "en": "Organization", "de": "ignored"},
		Description: map[string]string{"en": "Test", "sv": " "},
		URL:         "https://dvv.fi",
		ParentID:    &parentID,
	}

	g := rdf.NewGraph()
	g.Resource(vocabulary.URNUUID+id.String()).Add(vocabulary.RDFSComment, rdf.PlainLiteral("stale"))

	require.NoError(t, MapOrganizationsToModel([]entities.GroupManagementOrganization{dto}, g))

	r := g.Resource(vocabulary.URNUUID + id.String())
	assert.True(t, r.HasResourceValue(vocabulary.RDFType, vocabulary.FOAFOrganization))
	assert.Equal(t, map[string]string{"fi": "Organisaatio", "en": "Organization"}, LocalizedPropertyToMap(r, vocabulary.SKOSPrefLabel))
	assert.Equal(t, map[string]string{"en": "Test"}, LocalizedPropertyToMap(r, vocabulary.DCTermsDescription))
	assert.Equal(t, "https://dvv.fi", PropertyToString(r, vocabulary.FOAFHomepage))
	assert.Equal(t, vocabulary.URNUUID+parentID.String(), PropertyToString(r, vocabulary.SuomiMetaParentOrganization))
	assert.False(t, r.HasProperty(vocabulary.RDFSComment))
}

func TestMapToListServiceCategoryDTO(t *testing.T) {
	g := loadGraph(t, "testdata/service-categories.ttl")
	categories := MapToListServiceCategoryDTO(g)

	require.Len(t, categories, 3)
	assert.Equal(t, []string{"P1", "P11", "P24"},
		[]string{categories[0].Identifier, categories[1].Identifier, categories[2].Identifier})

	cat := categories[1]
	assert.Equal(t, "http://urn.fi/URN:NBN:fi:au:ptvl:v1105", cat.ID)
	assert.Equal(t, "Elinkeinot", cat.Label["fi"])
	assert.Equal(t, "Industries", cat.Label["en"])
	assert.Equal(t, "Näringar", cat.Label["sv"])

	assert.True(t, ServiceCategoryExists(g, "P11"))
	assert.False(t, ServiceCategoryExists(g, "P99"))
}
