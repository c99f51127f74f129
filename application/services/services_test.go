package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"yti-common/application/mappers"
	"yti-common/application/security"
	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

var (
	parentOrg = uuid.MustParse("7d3a3c00-5a6b-489b-a3ed-63bb58c26a63")
	childOrg  = uuid.MustParse("74776e94-7f51-48dc-aeec-c084c4defa09")
	userID    = uuid.MustParse("4ce70937-6fa4-49af-a229-b5f10328adb8")
)

type fakeStore struct {
	mu            sync.Mutex
	graphs        map[string]*rdf.Graph
	categories    *rdf.Graph
	invalidations int
	puts          []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{graphs: map[string]*rdf.Graph{}, categories: rdf.NewGraph()}
}

func (f *fakeStore) Fetch(_ context.Context, graph string) (*rdf.Graph, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.graphs[graph]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(graph)
	}
	return g.Copy(), nil
}

func (f *fakeStore) Put(_ context.Context, graph string, g *rdf.Graph) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphs[graph] = g
	f.puts = append(f.puts, graph)
	return nil
}

func (f *fakeStore) GraphExists(_ context.Context, graph string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.graphs[graph]
	return ok && !g.IsEmpty(), nil
}

func (f *fakeStore) ResourceExistsInGraph(_ context.Context, graph, resource string, _ bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.graphs[graph]
	if !ok {
		return false, nil
	}
	return g.Contains(rdf.IRI(resource), nil, nil), nil
}

func (f *fakeStore) Organizations(ctx context.Context) (*rdf.Graph, error) {
	return f.Fetch(ctx, vocabulary.OrganizationGraph)
}

func (f *fakeStore) InvalidateOrganizationCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}

func (f *fakeStore) ServiceCategories(context.Context) (*rdf.Graph, error) {
	return f.categories, nil
}

type fakeDirectory struct {
	mu            sync.Mutex
	organizations []entities.GroupManagementOrganization
	users         []entities.GroupManagementUser
	publicUsers   []entities.GroupManagementUser
	requests      []entities.GroupManagementUserRequest
	sent          []string
	since         []time.Time
	err           error
}

func (f *fakeDirectory) Organizations(_ context.Context, modifiedSince time.Time) ([]entities.GroupManagementOrganization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = append(f.since, modifiedSince)
	return f.organizations, f.err
}

func (f *fakeDirectory) Users(_ context.Context, public bool, modifiedSince time.Time) ([]entities.GroupManagementUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = append(f.since, modifiedSince)
	if public {
		return f.publicUsers, f.err
	}
	return f.users, f.err
}

func (f *fakeDirectory) UserRequests(_ context.Context, id uuid.UUID) ([]entities.GroupManagementUserRequest, error) {
	if id != userID {
		return nil, errors.New("unexpected user")
	}
	return f.requests, f.err
}

func (f *fakeDirectory) SendRequest(_ context.Context, user, org uuid.UUID, roles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, user.String()+" "+org.String()+" "+roles[0])
	return f.err
}

func testOrganizations() []entities.GroupManagementOrganization {
	return []entities.GroupManagementOrganization{
		{UUID: parentOrg, PrefLabel: map[string]string{"fi": "Yhdistys", "en": "Association"}},
		{UUID: childOrg, PrefLabel: map[string]string{"fi": "Alaosasto", "sv": "Avdelning"}, ParentID: &parentOrg},
	}
}

func testUsers() []entities.GroupManagementUser {
	return []entities.GroupManagementUser{{ID: userID, FirstName: "Test", LastName: "User"}}
}

func newTestService(store *fakeStore, dir *fakeDirectory, config GroupManagementConfig, user *security.User) *GroupManagementService {
	provider := security.UserProviderFunc(func(context.Context) *security.User { return user })
	s := NewGroupManagementService(store, dir, provider, config, observability.NewCollector("test"), nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }
	return s
}

func TestInit(t *testing.T) {
	store := newFakeStore()
	dir := &fakeDirectory{organizations: testOrganizations(), users: testUsers()}
	s := newTestService(store, dir, GroupManagementConfig{}, security.AnonymousUser())

	require.NoError(t, s.Init(context.Background()))

	g := store.graphs[vocabulary.OrganizationGraph]
	require.NotNil(t, g)
	assert.Len(t, mappers.MapToListOrganizationDTO(g), 2)
	assert.Equal(t, 1, store.invalidations)

	u, ok := s.User(userID)
	require.True(t, ok)
	assert.Equal(t, "Test", u.FirstName)
	for _, since := range dir.since {
		assert.True(t, since.IsZero())
	}
}

func TestInitFailsWithoutData(t *testing.T) {
	s := newTestService(newFakeStore(), &fakeDirectory{users: testUsers()}, GroupManagementConfig{}, nil)
	err := s.InitOrganizations(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))

	s = newTestService(newFakeStore(), &fakeDirectory{organizations: testOrganizations()}, GroupManagementConfig{}, nil)
	err = s.InitUsers(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))

	s = newTestService(newFakeStore(), &fakeDirectory{err: errors.New("down")}, GroupManagementConfig{}, nil)
	assert.Error(t, s.Init(context.Background()))
}

func TestUpdateOrganizations(t *testing.T) {
	store := newFakeStore()
	dir := &fakeDirectory{organizations: testOrganizations()}
	s := newTestService(store, dir, GroupManagementConfig{ModifiedSince: 15 * time.Minute}, nil)
	require.NoError(t, s.InitOrganizations(context.Background()))

	dir.organizations = nil
	require.NoError(t, s.UpdateOrganizations(context.Background()))
	assert.Equal(t, 1, store.invalidations)

	renamed := testOrganizations()[:1]
	renamed[0].PrefLabel = map[string]string{"fi": "Uusi nimi"}
	dir.organizations = renamed
	require.NoError(t, s.UpdateOrganizations(context.Background()))

	assert.Equal(t, 2, store.invalidations)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), dir.since[len(dir.since)-1])

	orgs, err := mappers.MapOrganizationsToDTO(
		mappers.OrganizationURIs([]uuid.UUID{parentOrg, childOrg}),
		store.graphs[vocabulary.OrganizationGraph])
	require.NoError(t, err)
	assert.Equal(t, "Uusi nimi", orgs[0].Label["fi"])
	assert.Equal(t, "Alaosasto", orgs[1].Label["fi"])
}

func TestOrganizationListenersRunAfterChanges(t *testing.T) {
	store := newFakeStore()
	dir := &fakeDirectory{organizations: testOrganizations()}
	s := newTestService(store, dir, GroupManagementConfig{}, nil)

	var runs []int
	s.OnOrganizationsChanged(func(context.Context) { runs = append(runs, store.invalidations) })

	require.NoError(t, s.InitOrganizations(context.Background()))
	assert.Equal(t, []int{1}, runs)

	dir.organizations = nil
	require.NoError(t, s.UpdateOrganizations(context.Background()))
	assert.Equal(t, []int{1}, runs)

	dir.organizations = testOrganizations()[:1]
	require.NoError(t, s.UpdateOrganizations(context.Background()))
	assert.Equal(t, []int{1, 2}, runs)
}

func TestUpdateUsersMerges(t *testing.T) {
	dir := &fakeDirectory{users: testUsers()}
	s := newTestService(newFakeStore(), dir, GroupManagementConfig{}, nil)
	require.NoError(t, s.InitUsers(context.Background()))

	other := uuid.New()
	dir.users = []entities.GroupManagementUser{{ID: other, FirstName: "Other", LastName: "Person"}}
	require.NoError(t, s.UpdateUsers(context.Background()))

	_, ok := s.User(userID)
	assert.True(t, ok)
	u, ok := s.User(other)
	require.True(t, ok)
	assert.Equal(t, "Other Person", u.FullName())
	assert.False(t, dir.since[len(dir.since)-1].IsZero())
}

func TestMapUser(t *testing.T) {
	s := newTestService(newFakeStore(), &fakeDirectory{users: testUsers()}, GroupManagementConfig{}, nil)
	require.NoError(t, s.InitUsers(context.Background()))

	info := &entities.ResourceCommonInfo{
		Creator:  &entities.User{ID: userID.String()},
		Modifier: &entities.User{ID: uuid.NewString()},
	}
	s.MapUser()(info)
	assert.Equal(t, "Test User", info.Creator.Name)
	assert.Equal(t, "", info.Modifier.Name)

	untouched := &entities.ResourceCommonInfo{
		Creator:  &entities.User{ID: userID.String(), Name: "keep"},
		Modifier: &entities.User{},
	}
	s.MapUser()(untouched)
	assert.Equal(t, "keep", untouched.Creator.Name)
}

func TestOrganizationsForUser(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, &fakeDirectory{organizations: testOrganizations()}, GroupManagementConfig{}, nil)
	require.NoError(t, s.InitOrganizations(context.Background()))

	children, err := s.ChildOrganizations(context.Background(), childOrg)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{parentOrg}, children)

	children, err = s.ChildOrganizations(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, children)

	user := &security.User{RolesInOrganizations: map[uuid.UUID][]security.Role{
		childOrg:  {security.RoleMember},
		parentOrg: {security.RoleAdmin},
	}}
	orgs, err := s.OrganizationsForUser(context.Background(), user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{parentOrg, childOrg}, orgs)
}

func TestFakeableUsers(t *testing.T) {
	dir := &fakeDirectory{publicUsers: testUsers()}

	users, err := newTestService(newFakeStore(), dir, GroupManagementConfig{}, nil).FakeableUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = newTestService(newFakeStore(), dir, GroupManagementConfig{FakeLoginAllowed: true}, nil).FakeableUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRequestsRequireAuthentication(t *testing.T) {
	dir := &fakeDirectory{requests: []entities.GroupManagementUserRequest{{OrganizationID: parentOrg, Role: []string{"MEMBER"}}}}

	anonymous := newTestService(newFakeStore(), dir, GroupManagementConfig{}, security.AnonymousUser())
	_, err := anonymous.UserRequests(context.Background())
	assert.True(t, pkgerrors.IsUnauthorized(err))
	assert.True(t, pkgerrors.IsUnauthorized(anonymous.SendRequest(context.Background(), parentOrg, []string{"MEMBER"})))

	signedIn := newTestService(newFakeStore(), dir, GroupManagementConfig{}, &security.User{ID: userID})
	requests, err := signedIn.UserRequests(context.Background())
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	require.NoError(t, signedIn.SendRequest(context.Background(), parentOrg, []string{"MEMBER"}))
	assert.Equal(t, []string{userID.String() + " " + parentOrg.String() + " MEMBER"}, dir.sent)
}

func TestStartRunsUpdates(t *testing.T) {
	dir := &fakeDirectory{}
	s := newTestService(newFakeStore(), dir, GroupManagementConfig{
		OrganizationInterval: 10 * time.Millisecond,
		UserInterval:         10 * time.Millisecond,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		dir.mu.Lock()
		defer dir.mu.Unlock()
		return len(dir.since) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestFrontendService(t *testing.T) {
	store := newFakeStore()
	orgGraph := rdf.NewGraph()
	require.NoError(t, mappers.MapOrganizationsToModel(testOrganizations(), orgGraph))
	store.graphs[vocabulary.OrganizationGraph] = orgGraph

	store.categories.Resource("http://urn.fi/URN:NBN:fi:au:ptvl:v1090").
		Add(vocabulary.RDFType, rdf.IRI(vocabulary.FOAFGroup)).
		Add(vocabulary.RDFSLabel, mustLang(t, "Asuminen", "fi"))
	store.categories.Resource("http://urn.fi/URN:NBN:fi:au:ptvl:v1105").
		Add(vocabulary.RDFType, rdf.IRI(vocabulary.FOAFGroup)).
		Add(vocabulary.RDFSLabel, mustLang(t, "Ympäristö", "fi")).
		Add(vocabulary.RDFSLabel, mustLang(t, "Environment", "en"))

	s := NewFrontendService(store)
	ctx := context.Background()

	orgs, err := s.Organizations(ctx, "fi", true)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Alaosasto", orgs[0].Label["fi"])

	orgs, err = s.Organizations(ctx, "en", false)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, parentOrg.String(), orgs[0].ID)

	categories, err := s.ServiceCategories(ctx, "en")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Asuminen", categories[0].Label["fi"])
	assert.Equal(t, "Environment", categories[1].Label["en"])
}

func mustLang(t *testing.T, v, lang string) rdf.Literal {
	t.Helper()
	l, err := rdf.LangLiteral(v, lang)
	require.NoError(t, err)
	return l
}

func TestVersionService(t *testing.T) {
	store := newFakeStore()
	s := NewVersionService(store, "")
	ctx := context.Background()

	initialized, err := s.IsVersionGraphInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)

	_, err = s.VersionNumber(ctx)
	assert.True(t, pkgerrors.IsNotFound(err))

	require.NoError(t, s.SetVersionNumber(ctx, 7))
	version, err := s.VersionNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, version)

	initialized, err = s.IsVersionGraphInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestAuditService(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := NewAuditService("Model", zap.New(core))

	audit.Log(ActionCreate, "https://iri.suomi.fi/model/test/", security.AnonymousUser())
	assert.Equal(t, 0, logs.Len())

	audit.Log(ActionUpdate, "https://iri.suomi.fi/model/test/", &security.User{ID: userID})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t,
		"Model UPDATE: <https://iri.suomi.fi/model/test/>, User[id=4ce70937-6fa4-49af-a229-b5f10328adb8]",
		logs.All()[0].Message)
}

func TestExistence(t *testing.T) {
	store := newFakeStore()
	g := rdf.NewGraph()
	g.Resource("https://iri.suomi.fi/model/test/Class").Add(vocabulary.RDFType, rdf.IRI(vocabulary.OWLNamespace+"Class"))
	store.graphs["https://iri.suomi.fi/model/test/"] = g
	ctx := context.Background()

	exists, err := NewGraphExistence(store).Exists(ctx, "https://iri.suomi.fi/model/test/")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = NewResourceExistence(store).Exists(ctx, "https://iri.suomi.fi/model/test/", "https://iri.suomi.fi/model/test/Class")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = NewResourceExistence(store).Exists(ctx, "https://iri.suomi.fi/model/other/", "x")
	require.NoError(t, err)
	assert.False(t, exists)
}
