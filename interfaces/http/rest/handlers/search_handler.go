package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"yti-common/infrastructure/search"
	"yti-common/pkg/common"
	pkgerrors "yti-common/pkg/errors"
)

// OrganizationSearcher searches the organization index.
type OrganizationSearcher interface {
	Search(ctx context.Context, request search.BaseSearchRequest) (*search.SearchResponse[search.IndexOrganization], error)
}

// SearchHandler handles search requests
type SearchHandler struct {
	organizations OrganizationSearcher
	errors        *pkgerrors.ErrorHandler
	logger        *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(organizations OrganizationSearcher, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{organizations: organizations, errors: errs, logger: logger}
}

// SearchOrganizations handles GET /v1/frontend/organizations/search
func (h *SearchHandler) SearchOrganizations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	request := search.BaseSearchRequest{
		Query:    q.Get("query"),
		SortLang: q.Get("sortLang"),
	}

	var err error
	if request.PageSize, err = intParam(q.Get("pageSize")); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("pageSize must be a number"))
		return
	}
	if request.PageFrom, err = intParam(q.Get("pageFrom")); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("pageFrom must be a number"))
		return
	}

	result, err := h.organizations.Search(r.Context(), request)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// intParam parses an optional integer query parameter.
func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
