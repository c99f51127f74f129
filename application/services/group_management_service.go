package services

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"yti-common/application/mappers"
	"yti-common/application/ports"
	"yti-common/application/security"
	"yti-common/domain/core/entities"
	"yti-common/domain/vocabulary"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// GroupManagementConfig controls directory synchronization.
type GroupManagementConfig struct {
	// ModifiedSince is the look back window of periodic updates.
	ModifiedSince        time.Duration
	OrganizationInterval time.Duration
	UserInterval         time.Duration
	FakeLoginAllowed     bool
}

// DefaultGroupManagementConfig syncs every 30 minutes.
func DefaultGroupManagementConfig() GroupManagementConfig {
	return GroupManagementConfig{
		ModifiedSince:        30 * time.Minute,
		OrganizationInterval: 30 * time.Minute,
		UserInterval:         30 * time.Minute,
	}
}

// GroupManagementService mirrors directory organizations into the
// organization graph and keeps an in-memory user cache.
type GroupManagementService struct {
	store     ports.CommonStore
	directory ports.Directory
	users     security.UserProvider
	config    GroupManagementConfig
	metrics   *observability.Collector
	logger    *zap.Logger

	mu        sync.RWMutex
	userCache map[uuid.UUID]entities.GroupManagementUser
	listeners []func(context.Context)

	now func() time.Time
}

// NewGroupManagementService creates the service. A nil user provider reads
// the user from the request context.
func NewGroupManagementService(
	store ports.CommonStore,
	directory ports.Directory,
	users security.UserProvider,
	config GroupManagementConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *GroupManagementService {
	if users == nil {
		users = security.ContextUserProvider
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultGroupManagementConfig()
	if config.ModifiedSince <= 0 {
		config.ModifiedSince = defaults.ModifiedSince
	}
	if config.OrganizationInterval <= 0 {
		config.OrganizationInterval = defaults.OrganizationInterval
	}
	if config.UserInterval <= 0 {
		config.UserInterval = defaults.UserInterval
	}
	return &GroupManagementService{
		store:     store,
		directory: directory,
		users:     users,
		config:    config,
		metrics:   metrics,
		logger:    logger,
		userCache: make(map[uuid.UUID]entities.GroupManagementUser),
		now:       time.Now,
	}
}

// OnOrganizationsChanged registers fn to run after the organization graph
// has been rewritten, e.g. to refresh a search index.
func (s *GroupManagementService) OnOrganizationsChanged(fn func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *GroupManagementService) organizationsChanged(ctx context.Context) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx)
	}
}

// Init loads organizations and users concurrently.
func (s *GroupManagementService) Init(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.InitOrganizations(ctx) })
	g.Go(func() error { return s.InitUsers(ctx) })
	return g.Wait()
}

// InitOrganizations replaces the organization graph with every valid
// directory organization.
func (s *GroupManagementService) InitOrganizations(ctx context.Context) (err error) {
	defer func() { s.metrics.RecordSync("organizations_init", err) }()

	organizations, err := s.directory.Organizations(ctx, time.Time{})
	if err != nil {
		return err
	}
	if len(organizations) == 0 {
		return pkgerrors.NewUnavailableError("group management").
			WithCause(errors.New("no organizations found, is group management service down?"))
	}

	g := rdf.NewGraph()
	if err := mappers.MapOrganizationsToModel(organizations, g); err != nil {
		return err
	}
	if err := s.store.Put(ctx, vocabulary.OrganizationGraph, g); err != nil {
		return err
	}
	s.store.InvalidateOrganizationCache()

	s.organizationsChanged(ctx)

	s.logger.Info("Initialized organizations", zap.Int("count", len(organizations)))
	return nil
}

// UpdateOrganizations merges organizations changed within the look back
// window into the stored graph.
func (s *GroupManagementService) UpdateOrganizations(ctx context.Context) (err error) {
	defer func() { s.metrics.RecordSync("organizations", err) }()

	s.logger.Info("Updating organizations cache")
	organizations, err := s.directory.Organizations(ctx, s.now().Add(-s.config.ModifiedSince))
	if err != nil {
		return err
	}
	if len(organizations) == 0 {
		s.logger.Info("No updates to organizations found")
		return nil
	}

	g, err := s.store.Fetch(ctx, vocabulary.OrganizationGraph)
	if err != nil {
		return err
	}
	if err := mappers.MapOrganizationsToModel(organizations, g); err != nil {
		return err
	}
	if err := s.store.Put(ctx, vocabulary.OrganizationGraph, g); err != nil {
		return err
	}
	s.store.InvalidateOrganizationCache()

	s.organizationsChanged(ctx)

	s.logger.Info("Updated organizations to fuseki", zap.Int("count", len(organizations)))
	return nil
}

// InitUsers replaces the user cache with all private directory users.
func (s *GroupManagementService) InitUsers(ctx context.Context) (err error) {
	defer func() { s.metrics.RecordSync("users_init", err) }()

	s.logger.Info("Initializing user cache")
	users, err := s.directory.Users(ctx, false, time.Time{})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return pkgerrors.NewUnavailableError("group management").
			WithCause(errors.New("no users found, is group management service down?"))
	}

	cache := make(map[uuid.UUID]entities.GroupManagementUser, len(users))
	for _, u := range users {
		cache[u.ID] = u
	}

	s.mu.Lock()
	s.userCache = cache
	s.mu.Unlock()

	s.logger.Info("Initialized user cache", zap.Int("count", len(cache)))
	return nil
}

// UpdateUsers merges users changed within the look back window.
func (s *GroupManagementService) UpdateUsers(ctx context.Context) (err error) {
	defer func() { s.metrics.RecordSync("users", err) }()

	s.logger.Info("Updating user cache")
	users, err := s.directory.Users(ctx, false, s.now().Add(-s.config.ModifiedSince))
	if err != nil {
		return err
	}
	if len(users) == 0 {
		s.logger.Info("No modifications to users found")
		return nil
	}

	s.mu.Lock()
	oldCount := len(s.userCache)
	for _, u := range users {
		s.userCache[u.ID] = u
	}
	newCount := len(s.userCache)
	s.mu.Unlock()

	s.logger.Info("Updated users to cache",
		zap.Int("updated", len(users)),
		zap.Int("old_count", oldCount),
		zap.Int("new_count", newCount))
	return nil
}

// Start runs the periodic updates until ctx is done. The first update runs
// one interval after start.
func (s *GroupManagementService) Start(ctx context.Context) {
	orgTicker := time.NewTicker(s.config.OrganizationInterval)
	defer orgTicker.Stop()
	userTicker := time.NewTicker(s.config.UserInterval)
	defer userTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-orgTicker.C:
			if err := s.UpdateOrganizations(ctx); err != nil {
				s.logger.Error("Organization update failed", zap.Error(err))
			}
		case <-userTicker.C:
			if err := s.UpdateUsers(ctx); err != nil {
				s.logger.Error("User update failed", zap.Error(err))
			}
		}
	}
}

// User returns a cached directory user.
func (s *GroupManagementService) User(id uuid.UUID) (entities.GroupManagementUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.userCache[id]
	return u, ok
}

// MapUser returns a mapper that fills creator and modifier names from the
// user cache. Unknown users get an empty name. Nothing changes unless both
// ids are present.
func (s *GroupManagementService) MapUser() func(*entities.ResourceCommonInfo) {
	return func(info *entities.ResourceCommonInfo) {
		if info.Creator == nil || info.Modifier == nil || info.Creator.ID == "" || info.Modifier.ID == "" {
			return
		}
		info.Creator.Name = s.userName(info.Creator.ID)
		info.Modifier.Name = s.userName(info.Modifier.ID)
	}
}

func (s *GroupManagementService) userName(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ""
	}
	if u, ok := s.User(parsed); ok {
		return u.FullName()
	}
	return ""
}

// ChildOrganizations returns the suomi-meta:parentOrganization values stored
// for the organization. Unknown organizations give an empty list.
func (s *GroupManagementService) ChildOrganizations(ctx context.Context, organizationID uuid.UUID) ([]uuid.UUID, error) {
	urn := vocabulary.URNUUID + organizationID.String()
	exists, err := s.store.ResourceExistsInGraph(ctx, vocabulary.OrganizationGraph, urn, true)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Warn("Organization not found", zap.String("organization", urn))
		return []uuid.UUID{}, nil
	}

	g, err := s.store.Organizations(ctx)
	if err != nil {
		return nil, err
	}

	out := []uuid.UUID{}
	for _, v := range mappers.ArrayPropertyToList(g.Resource(urn), vocabulary.SuomiMetaParentOrganization) {
		if id, ok := mappers.UUIDFromURN(v); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// OrganizationsForUser returns the organizations the user has roles in
// together with their child organizations, sorted.
func (s *GroupManagementService) OrganizationsForUser(ctx context.Context, user *security.User) ([]uuid.UUID, error) {
	orgs := user.Organizations()
	out := slices.Clone(orgs)
	for _, org := range orgs {
		children, err := s.ChildOrganizations(ctx, org)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}

	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return slices.Compact(out), nil
}

// FakeableUsers lists public users when fake login is allowed.
func (s *GroupManagementService) FakeableUsers(ctx context.Context) ([]entities.GroupManagementUser, error) {
	if !s.config.FakeLoginAllowed {
		return []entities.GroupManagementUser{}, nil
	}
	return s.directory.Users(ctx, true, time.Time{})
}

// UserRequests returns the pending role requests of the current user.
func (s *GroupManagementService) UserRequests(ctx context.Context) ([]entities.GroupManagementUserRequest, error) {
	user := s.users.User(ctx)
	if user.Anonymous {
		return nil, pkgerrors.NewUnauthorizedError("User not authenticated")
	}
	return s.directory.UserRequests(ctx, user.ID)
}

// SendRequest requests roles in organization for the current user.
func (s *GroupManagementService) SendRequest(ctx context.Context, organizationID uuid.UUID, roles []string) error {
	user := s.users.User(ctx)
	if user.Anonymous {
		return pkgerrors.NewUnauthorizedError("User not authenticated")
	}
	return s.directory.SendRequest(ctx, user.ID, organizationID, roles)
}
