package groupmanagement

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "yti-common/pkg/errors"
)

var (
	userID = uuid.MustParse("4ce70937-6fa4-49af-a229-b5f10328adb8")
	orgID  = uuid.MustParse("7d3a3c00-5a6b-489b-a3ed-63bb58c26a63")
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", WithMaxElapsedTime(2*time.Second))
}

func TestOrganizations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public-api/organizations", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("onlyValid"))
		assert.Empty(t, r.Header.Get("If-Modified-Since"))
		_, _ = io.WriteString(w, `[{"uuid":"7d3a3c00-5a6b-489b-a3ed-63bb58c26a63",
			"prefLabel":{"fi":"Testiorganisaatio","en":"Test organization"},
			"parentId":"74776e94-7f51-48dc-aeec-c084c4defa09"}]`)
	})

	orgs, err := client.Organizations(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, orgID, orgs[0].UUID)
	assert.Equal(t, "Test organization", orgs[0].PrefLabel["en"])
	require.NotNil(t, orgs[0].ParentID)
	assert.Equal(t, "74776e94-7f51-48dc-aeec-c084c4defa09", orgs[0].ParentID.String())
}

func TestNotModified(t *testing.T) {
	since := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/private-api/users", r.URL.Path)
		assert.Equal(t, "Fri, 01 Mar 2024 10:00:00 GMT", r.Header.Get("If-Modified-Since"))
		w.WriteHeader(http.StatusNotModified)
	})

	users, err := client.Users(context.Background(), false, since)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestPublicUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public-api/users", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":"4ce70937-6fa4-49af-a229-b5f10328adb8","firstName":"Test","lastName":"User"}]`)
	})

	users, err := client.Users(context.Background(), true, time.Time{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Test User", users[0].FullName())
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})

	requests, err := client.UserRequests(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, requests)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.UserRequests(context.Background(), userID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	assert.Equal(t, int32(1), calls.Load())
}

func TestUserRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/private-api/requests", r.URL.Path)
		assert.Equal(t, userID.String(), r.URL.Query().Get("userId"))
		_, _ = io.WriteString(w, `[{"organizationId":"7d3a3c00-5a6b-489b-a3ed-63bb58c26a63","role":["DATA_MODEL_EDITOR"]}]`)
	})

	requests, err := client.UserRequests(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, orgID, requests[0].OrganizationID)
	assert.Equal(t, []string{"DATA_MODEL_EDITOR"}, requests[0].Role)
}

func TestSendRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/private-api/request", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, userID.String(), q.Get("userId"))
		assert.Equal(t, orgID.String(), q.Get("organizationId"))
		assert.Equal(t, []string{"ADMIN", "MEMBER"}, q["role"])
	})

	require.NoError(t, client.SendRequest(context.Background(), userID, orgID, []string{"ADMIN", "MEMBER"}))
}

func TestSendRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.SendRequest(context.Background(), userID, orgID, []string{"MEMBER"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Organizations(ctx, time.Time{})
	assert.Error(t, err)
}
