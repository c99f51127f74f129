package search

import (
	"context"

	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
)

// OrganizationIndex holds the organizations synced from group management.
const OrganizationIndex = "organizations"

// IndexOrganization is the indexed form of an organization.
type IndexOrganization struct {
	IndexBase
	ParentOrganization string `json:"parentOrganization,omitempty"`
}

// OrganizationMapping maps IndexOrganization.
func OrganizationMapping() TypeMapping {
	return TypeMapping{
		Properties: map[string]Property{
			"id":                 KeywordProperty(),
			"uri":                KeywordProperty(),
			"parentOrganization": KeywordProperty(),
		},
		DynamicTemplates: []map[string]DynamicTemplate{
			DynamicTemplateWithSortKey("label", "label.*"),
		},
	}
}

// OrganizationIndexer keeps OrganizationIndex searchable.
type OrganizationIndexer struct {
	client *ClientWrapper
}

func NewOrganizationIndexer(client *ClientWrapper) *OrganizationIndexer {
	return &OrganizationIndexer{client: client}
}

// Index bulk inserts orgs.
func (i *OrganizationIndexer) Index(ctx context.Context, orgs []entities.Organization) {
	docs := make([]*IndexOrganization, 0, len(orgs))
	for _, org := range orgs {
		doc := &IndexOrganization{IndexBase: IndexBase{
			ID:    org.ID,
			URI:   vocabulary.URNUUID + org.ID,
			Label: org.Label,
		}}
		if org.ParentOrganization != nil {
			doc.ParentOrganization = org.ParentOrganization.String()
		}
		docs = append(docs, doc)
	}
	BulkInsert(ctx, i.client, OrganizationIndex, docs)
}

// Search finds organizations by label. An empty query lists all of them.
func (i *OrganizationIndexer) Search(ctx context.Context, request BaseSearchRequest) (*SearchResponse[IndexOrganization], error) {
	var query Query
	if request.Query != "" {
		query = LabelQuery(request.Query)
	} else {
		query = Query{"match_all": map[string]any{}}
	}

	return Search[IndexOrganization](ctx, i.client, SearchRequest{
		Indices:   []string{OrganizationIndex},
		Query:     query,
		From:      PageFromRequest(request),
		Size:      PageSize(request.PageSize),
		Sort:      []map[string]any{LangSortOptions(request.SortLang)},
		Highlight: map[string]any{"fields": map[string]any{"label.*": map[string]any{}}},
	})
}
