package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims is the token payload issued by the login service.
type Claims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"given_name,omitempty"`
	LastName  string `json:"family_name,omitempty"`
	Superuser bool   `json:"superuser,omitempty"`
	// Roles keyed by organization UUID.
	Organizations map[string][]Role `json:"organizations,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator turns HS256 bearer tokens into users.
type JWTAuthenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTAuthenticator creates an authenticator. Issuer is checked when set.
func NewJWTAuthenticator(secret, issuer string) (*JWTAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("secret key required for HS256")
	}
	return &JWTAuthenticator{secret: []byte(secret), issuer: issuer, ttl: time.Hour}, nil
}

// Authenticate validates token and maps its claims to a User.
func (a *JWTAuthenticator) Authenticate(token string) (*User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidClaims
	}
	return claims.user()
}

// Token signs a token for user. Used by fake login and tests.
func (a *JWTAuthenticator) Token(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Superuser:     user.Superuser,
		Organizations: make(map[string][]Role, len(user.RolesInOrganizations)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	for org, roles := range user.RolesInOrganizations {
		claims.Organizations[org.String()] = roles
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (c *Claims) user() (*User, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a UUID", ErrInvalidClaims)
	}

	roles := make(map[uuid.UUID][]Role, len(c.Organizations))
	for org, orgRoles := range c.Organizations {
		orgID, err := uuid.Parse(org)
		if err != nil {
			return nil, fmt.Errorf("%w: organization %q", ErrInvalidClaims, org)
		}
		roles[orgID] = orgRoles
	}

	return &User{
		ID:                   id,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		Email:                c.Email,
		Superuser:            c.Superuser,
		RolesInOrganizations: roles,
	}, nil
}
