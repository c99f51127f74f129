package services

import (
	"context"
	"sort"

	"yti-common/application/mappers"
	"yti-common/application/ports"
	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
	"yti-common/pkg/common"
)

// FrontendService serves the organization and service category listings.
type FrontendService struct {
	store ports.CommonStore
}

func NewFrontendService(store ports.CommonStore) *FrontendService {
	return &FrontendService{store: store}
}

// Organizations lists organizations sorted by label in sortLang. Child
// organizations are left out unless includeChildOrganizations.
func (s *FrontendService) Organizations(ctx context.Context, sortLang string, includeChildOrganizations bool) ([]entities.Organization, error) {
	g, err := s.store.Organizations(ctx)
	if err != nil {
		return nil, err
	}

	organizations := mappers.MapToListOrganizationDTO(g)
	sort.SliceStable(organizations, func(i, j int) bool {
		return labelLess(organizations[i].Label, organizations[j].Label, sortLang)
	})

	if includeChildOrganizations {
		return organizations, nil
	}
	out := make([]entities.Organization, 0, len(organizations))
	for _, org := range organizations {
		if org.ParentOrganization == nil {
			out = append(out, org)
		}
	}
	return out, nil
}

// ServiceCategories lists service categories sorted by label in sortLang.
func (s *FrontendService) ServiceCategories(ctx context.Context, sortLang string) ([]entities.ServiceCategory, error) {
	g, err := s.store.ServiceCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := mappers.MapToListServiceCategoryDTO(g)
	sort.SliceStable(categories, func(i, j int) bool {
		return labelLess(categories[i].Label, categories[j].Label, sortLang)
	})
	return categories, nil
}

func labelLess(a, b map[string]string, lang string) bool {
	if common.IsBlank(lang) {
		lang = vocabulary.DefaultLanguage
	}
	return common.LocalizedValue(a, lang, vocabulary.DefaultLanguage) <
		common.LocalizedValue(b, lang, vocabulary.DefaultLanguage)
}
