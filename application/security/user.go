// Package security carries the authenticated user through a request and
// answers organization based authorization questions.
package security

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// Role is an organization role granted by the directory service.
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RoleDataModelEditor   Role = "DATA_MODEL_EDITOR"
	RoleTerminologyEditor Role = "TERMINOLOGY_EDITOR"
	RoleCodeListEditor    Role = "CODE_LIST_EDITOR"
	RoleMember            Role = "MEMBER"
)

// User is the caller of a request.
type User struct {
	ID                   uuid.UUID            `json:"id"`
	FirstName            string               `json:"firstName"`
	LastName             string               `json:"lastName"`
	Email                string               `json:"email"`
	Superuser            bool                 `json:"superuser"`
	Anonymous            bool                 `json:"anonymous"`
	RolesInOrganizations map[uuid.UUID][]Role `json:"rolesInOrganizations"`
}

// AnonymousUser is used when a request carries no credentials.
func AnonymousUser() *User {
	return &User{Anonymous: true, RolesInOrganizations: map[uuid.UUID][]Role{}}
}

// IsInRole reports whether the user has role in organization.
func (u *User) IsInRole(role Role, organization uuid.UUID) bool {
	return slices.Contains(u.RolesInOrganizations[organization], role)
}

// IsInAnyRole reports whether the user has any of roles in any of organizations.
func (u *User) IsInAnyRole(roles []Role, organizations []uuid.UUID) bool {
	for _, org := range organizations {
		for _, role := range roles {
			if u.IsInRole(role, org) {
				return true
			}
		}
	}
	return false
}

// Organizations returns the organizations the user has any role in.
func (u *User) Organizations() []uuid.UUID {
	orgs := make([]uuid.UUID, 0, len(u.RolesInOrganizations))
	for org := range u.RolesInOrganizations {
		orgs = append(orgs, org)
	}
	return orgs
}

// UserProvider resolves the caller of a request.
type UserProvider interface {
	User(ctx context.Context) *User
}

// UserProviderFunc adapts a function to UserProvider.
type UserProviderFunc func(ctx context.Context) *User

func (f UserProviderFunc) User(ctx context.Context) *User { return f(ctx) }

// ContextUserProvider reads the user stored by WithUser.
var ContextUserProvider UserProvider = UserProviderFunc(UserFromContext)

type contextKey string

const userContextKey contextKey = "user"

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the stored user or an anonymous one.
func UserFromContext(ctx context.Context) *User {
	user, ok := ctx.Value(userContextKey).(*User)
	if !ok || user == nil {
		return AnonymousUser()
	}
	return user
}
