package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"yti-common/application/security"
	"yti-common/domain/core/entities"
	"yti-common/pkg/common"
	pkgerrors "yti-common/pkg/errors"
)

// UserDirectory is the part of the group management service the user
// endpoints need.
type UserDirectory interface {
	UserRequests(ctx context.Context) ([]entities.GroupManagementUserRequest, error)
	SendRequest(ctx context.Context, organizationID uuid.UUID, roles []string) error
	FakeableUsers(ctx context.Context) ([]entities.GroupManagementUser, error)
}

// RoleRequest is the body of POST /v1/user/requests.
type RoleRequest struct {
	OrganizationID string   `json:"organizationId" validate:"required,uuid"`
	Roles          []string `json:"roles" validate:"required,min=1,dive,oneof=ADMIN DATA_MODEL_EDITOR TERMINOLOGY_EDITOR CODE_LIST_EDITOR MEMBER"`
}

// UserHandler serves the current user and role requests.
type UserHandler struct {
	directory UserDirectory
	validate  *validator.Validate
	errors    *pkgerrors.ErrorHandler
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(directory UserDirectory, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &UserHandler{
		directory: directory,
		validate:  validate,
		errors:    errs,
		logger:    logger,
	}
}

// GetUser handles GET /v1/user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, security.UserFromContext(r.Context()))
}

// GetRequests handles GET /v1/user/requests
func (h *UserHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.directory.UserRequests(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if requests == nil {
		requests = []entities.GroupManagementUserRequest{}
	}
	common.RespondJSON(w, http.StatusOK, requests)
}

// SendRequest handles POST /v1/user/requests
func (h *UserHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		violations := pkgerrors.NewValidationErrors()
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				violations.Add("invalid-value", fe.Field())
			}
		} else {
			violations.Add("invalid-value", "body")
		}
		h.errors.Handle(w, r, violations)
		return
	}

	// Validated as a UUID above.
	organizationID := uuid.MustParse(req.OrganizationID)
	if err := h.directory.SendRequest(r.Context(), organizationID, req.Roles); err != nil {
		h.logger.Error("Failed to send role request",
			zap.String("organizationId", req.OrganizationID),
			zap.Error(err))
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

// GetFakeableUsers handles GET /v1/user/fakeable-users
func (h *UserHandler) GetFakeableUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.FakeableUsers(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}
