package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yti-common/application/security"
	"yti-common/domain/core/entities"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/search"
	pkgerrors "yti-common/pkg/errors"
)

var orgID = uuid.MustParse("7d3a3c00-5a6b-489b-a3ed-63bb58c26a63")

type fakeStore struct{ err error }

func (f fakeStore) IsHealthy(context.Context) (bool, error) { return f.err == nil, f.err }

type fakeReference struct {
	lang         string
	includeChild bool
}

func (f *fakeReference) Organizations(_ context.Context, sortLang string, includeChild bool) ([]entities.Organization, error) {
	f.lang, f.includeChild = sortLang, includeChild
	return []entities.Organization{{ID: orgID.String(), Label: map[string]string{"fi": "Org"}}}, nil
}

func (f *fakeReference) ServiceCategories(_ context.Context, sortLang string) ([]entities.ServiceCategory, error) {
	f.lang = sortLang
	return nil, pkgerrors.NewUnavailableError("fuseki")
}

type fakeUsers struct {
	sentOrg   uuid.UUID
	sentRoles []string
	sentBy    *security.User
}

func (f *fakeUsers) UserRequests(ctx context.Context) ([]entities.GroupManagementUserRequest, error) {
	return nil, nil
}

func (f *fakeUsers) SendRequest(ctx context.Context, organizationID uuid.UUID, roles []string) error {
	f.sentOrg, f.sentRoles, f.sentBy = organizationID, roles, security.UserFromContext(ctx)
	return nil
}

func (f *fakeUsers) FakeableUsers(context.Context) ([]entities.GroupManagementUser, error) {
	return []entities.GroupManagementUser{{Email: "a@example.com"}}, nil
}

type fakeSearcher struct{ request search.BaseSearchRequest }

func (f *fakeSearcher) Search(_ context.Context, request search.BaseSearchRequest) (*search.SearchResponse[search.IndexOrganization], error) {
	f.request = request
	return &search.SearchResponse[search.IndexOrganization]{
		TotalHitCount:   1,
		PageSize:        search.PageSize(request.PageSize),
		ResponseObjects: []search.IndexOrganization{{IndexBase: search.IndexBase{ID: orgID.String()}}},
	}, nil
}

type fixture struct {
	handler   http.Handler
	reference *fakeReference
	users     *fakeUsers
	searcher  *fakeSearcher
	auth      *security.JWTAuthenticator
}

func newFixture(t *testing.T, store fakeStore) *fixture {
	t.Helper()
	auth, err := security.NewJWTAuthenticator("secret", "")
	require.NoError(t, err)

	f := &fixture{reference: &fakeReference{}, users: &fakeUsers{}, searcher: &fakeSearcher{}, auth: auth}
	f.handler = NewRouter(Dependencies{
		Store:         store,
		Reference:     f.reference,
		Users:         f.users,
		Organizations: f.searcher,
		Authenticator: auth,
		Metrics:       observability.NewCollector("test"),
	}, nil).Setup()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	token, err := f.auth.Token(&security.User{
		ID:                   uuid.MustParse("4ce70937-6fa4-49af-a229-b5f10328adb8"),
		Email:                "test@example.com",
		RolesInOrganizations: map[uuid.UUID][]security.Role{orgID: {security.RoleMember}},
	})
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	rec := newFixture(t, fakeStore{}).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","fuseki":"up"}`, rec.Body.String())

	rec = newFixture(t, fakeStore{err: errors.New("down")}).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, fakeStore{})
	f.do(t, http.MethodGet, "/health", "", "")

	rec := f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}

func TestFrontendOrganizations(t *testing.T) {
	f := newFixture(t, fakeStore{})

	rec := f.do(t, http.MethodGet, "/v1/frontend/organizations?sortLang=en&includeChildOrganizations=true", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", f.reference.lang)
	assert.True(t, f.reference.includeChild)

	var orgs []entities.Organization
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orgs))
	require.Len(t, orgs, 1)
	assert.Equal(t, orgID.String(), orgs[0].ID)

	rec = f.do(t, http.MethodGet, "/v1/frontend/organizations", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fi", f.reference.lang)
	assert.False(t, f.reference.includeChild)

	rec = f.do(t, http.MethodGet, "/v1/frontend/organizations?includeChildOrganizations=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFrontendServiceCategoriesError(t *testing.T) {
	rec := newFixture(t, fakeStore{}).do(t, http.MethodGet, "/v1/frontend/service-categories", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, pkgerrors.ErrorTypeUnavailable, body.Type)
	assert.NotEmpty(t, body.RequestID)
}

func TestUserEndpointsRequireAuthentication(t *testing.T) {
	f := newFixture(t, fakeStore{})

	rec := f.do(t, http.MethodGet, "/v1/user/requests", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/user/requests", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/user/requests", "", f.token(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t, fakeStore{})

	rec := f.do(t, http.MethodGet, "/v1/user/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var anonymous security.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anonymous))
	assert.True(t, anonymous.Anonymous)

	rec = f.do(t, http.MethodGet, "/v1/user/", "", f.token(t))
	require.Equal(t, http.StatusOK, rec.Code)
	var user security.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, []security.Role{security.RoleMember}, user.RolesInOrganizations[orgID])
}

func TestSendRequest(t *testing.T) {
	f := newFixture(t, fakeStore{})
	token := f.token(t)

	body := `{"organizationId":"` + orgID.String() + `","roles":["DATA_MODEL_EDITOR"]}`
	rec := f.do(t, http.MethodPost, "/v1/user/requests", body, token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, orgID, f.users.sentOrg)
	assert.Equal(t, []string{"DATA_MODEL_EDITOR"}, f.users.sentRoles)
	assert.Equal(t, "test@example.com", f.users.sentBy.Email)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"bad organization", `{"organizationId":"x","roles":["MEMBER"]}`},
		{"no roles", `{"organizationId":"` + orgID.String() + `","roles":[]}`},
		{"unknown role", `{"organizationId":"` + orgID.String() + `","roles":["OWNER"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/v1/user/requests", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFakeableUsers(t *testing.T) {
	rec := newFixture(t, fakeStore{}).do(t, http.MethodGet, "/v1/user/fakeable-users", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@example.com")
}

func preflight(handler http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/v1/frontend/organizations", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSDefaultOriginsAllowCredentials(t *testing.T) {
	f := newFixture(t, fakeStore{})
	rec := preflight(f.handler, "https://example.com")

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSConfiguredOrigins(t *testing.T) {
	handler := NewRouter(Dependencies{
		Store:          fakeStore{},
		Reference:      &fakeReference{},
		Users:          &fakeUsers{},
		AllowedOrigins: []string{"https://app.example.com"},
	}, nil).Setup()

	rec := preflight(handler, "https://app.example.com")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = preflight(handler, "https://other.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSearchOrganizations(t *testing.T) {
	f := newFixture(t, fakeStore{})

	rec := f.do(t, http.MethodGet, "/v1/frontend/organizations/search?query=virasto&pageSize=5&pageFrom=2&sortLang=sv", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, search.BaseSearchRequest{Query: "virasto", SortLang: "sv", PageSize: 5, PageFrom: 2}, f.searcher.request)

	var result search.SearchResponse[search.IndexOrganization]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.EqualValues(t, 1, result.TotalHitCount)
	assert.Equal(t, orgID.String(), result.ResponseObjects[0].ID)

	rec = f.do(t, http.MethodGet, "/v1/frontend/organizations/search?pageSize=ten", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
