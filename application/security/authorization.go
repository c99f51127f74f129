package security

import (
	"context"

	"github.com/google/uuid"

	"yti-common/application/mappers"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/rdf"
)

// AuthorizationManager decides what the current user may change.
type AuthorizationManager struct {
	users UserProvider
}

// NewAuthorizationManager creates a manager. A nil provider reads the user
// from the request context.
func NewAuthorizationManager(users UserProvider) *AuthorizationManager {
	if users == nil {
		users = ContextUserProvider
	}
	return &AuthorizationManager{users: users}
}

// User returns the current user.
func (m *AuthorizationManager) User(ctx context.Context) *User {
	return m.users.User(ctx)
}

// IsSuperUser reports whether the current user is a superuser.
func (m *AuthorizationManager) IsSuperUser(ctx context.Context) bool {
	return m.User(ctx).Superuser
}

// HasRightToModel checks role against the contributor organizations of the
// model resource in g.
func (m *AuthorizationManager) HasRightToModel(ctx context.Context, graphURI string, g *rdf.Graph, role Role) bool {
	model := mappers.NewModelWrapper(g, graphURI).ModelResource()

	var orgs []uuid.UUID
	for _, urn := range mappers.ArrayPropertyToSet(model, vocabulary.DCTermsContributor) {
		if id, ok := mappers.UUIDFromURN(urn); ok {
			orgs = append(orgs, id)
		}
	}
	return m.HasRightToAnyOrganization(ctx, orgs, role)
}

// HasRightToAnyOrganization is false for an empty organization list.
// Otherwise superusers, admins and holders of any of roles pass.
func (m *AuthorizationManager) HasRightToAnyOrganization(ctx context.Context, organizations []uuid.UUID, roles ...Role) bool {
	if len(organizations) == 0 {
		return false
	}
	user := m.User(ctx)
	if user.Superuser {
		return true
	}
	return user.IsInAnyRole(append([]Role{RoleAdmin}, roles...), organizations)
}

func (m *AuthorizationManager) IsAdminOfAnyOrganization(ctx context.Context, organizations []uuid.UUID) bool {
	return m.HasRightToAnyOrganization(ctx, organizations)
}

func (m *AuthorizationManager) IsDataModelEditorOfAnyOrganization(ctx context.Context, organizations []uuid.UUID) bool {
	return m.HasRightToAnyOrganization(ctx, organizations, RoleDataModelEditor)
}

func (m *AuthorizationManager) IsTerminologyEditorOfAnyOrganization(ctx context.Context, organizations []uuid.UUID) bool {
	return m.HasRightToAnyOrganization(ctx, organizations, RoleTerminologyEditor)
}
