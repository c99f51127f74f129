package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
	"yti-common/pkg/common"
	pkgerrors "yti-common/pkg/errors"
)

// ReferenceData lists organizations and service categories.
type ReferenceData interface {
	Organizations(ctx context.Context, sortLang string, includeChildOrganizations bool) ([]entities.Organization, error)
	ServiceCategories(ctx context.Context, sortLang string) ([]entities.ServiceCategory, error)
}

// FrontendHandler serves the reference data used by the user interfaces.
type FrontendHandler struct {
	reference ReferenceData
	errors    *pkgerrors.ErrorHandler
	logger    *zap.Logger
}

// NewFrontendHandler creates a new frontend handler
func NewFrontendHandler(reference ReferenceData, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *FrontendHandler {
	return &FrontendHandler{reference: reference, errors: errs, logger: logger}
}

// GetOrganizations handles GET /v1/frontend/organizations
func (h *FrontendHandler) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	includeChild := false
	if v := r.URL.Query().Get("includeChildOrganizations"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("includeChildOrganizations must be a boolean"))
			return
		}
		includeChild = parsed
	}

	orgs, err := h.reference.Organizations(r.Context(), sortLang(r), includeChild)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, orgs)
}

// GetServiceCategories handles GET /v1/frontend/service-categories
func (h *FrontendHandler) GetServiceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.reference.ServiceCategories(r.Context(), sortLang(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, categories)
}

func sortLang(r *http.Request) string {
	if lang := r.URL.Query().Get("sortLang"); lang != "" {
		return lang
	}
	return vocabulary.DefaultLanguage
}
