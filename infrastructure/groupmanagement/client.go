// Package groupmanagement is the HTTP client of the directory service that
// owns organizations, users and role requests.
package groupmanagement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"yti-common/domain/core/entities"
	pkgerrors "yti-common/pkg/errors"
)

const serviceName = "groupmanagement"

// Client talks to the directory service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	maxElapsed time.Duration
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithMaxElapsedTime bounds the total time spent retrying one call.
func WithMaxElapsedTime(d time.Duration) Option {
	return func(cl *Client) { cl.maxElapsed = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
		maxElapsed: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Organizations returns valid organizations. With a non zero modifiedSince
// only organizations changed after it are returned; nil means no changes.
func (c *Client) Organizations(ctx context.Context, modifiedSince time.Time) ([]entities.GroupManagementOrganization, error) {
	var orgs []entities.GroupManagementOrganization
	_, err := c.get(ctx, "/public-api/organizations", url.Values{"onlyValid": {"true"}}, modifiedSince, &orgs)
	return orgs, err
}

// Users returns public or private user listings, filtered by modifiedSince
// like Organizations.
func (c *Client) Users(ctx context.Context, public bool, modifiedSince time.Time) ([]entities.GroupManagementUser, error) {
	path := "/private-api/users"
	if public {
		path = "/public-api/users"
	}
	var users []entities.GroupManagementUser
	_, err := c.get(ctx, path, nil, modifiedSince, &users)
	return users, err
}

// UserRequests returns the pending role requests of a user.
func (c *Client) UserRequests(ctx context.Context, userID uuid.UUID) ([]entities.GroupManagementUserRequest, error) {
	requests := []entities.GroupManagementUserRequest{}
	_, err := c.get(ctx, "/private-api/requests", url.Values{"userId": {userID.String()}}, time.Time{}, &requests)
	return requests, err
}

// SendRequest asks for roles in organization on behalf of a user. It is
// sent once; a failed request is not retried.
func (c *Client) SendRequest(ctx context.Context, userID, organizationID uuid.UUID, roles []string) error {
	query := url.Values{
		"userId":         {userID.String()},
		"organizationId": {organizationID.String()},
		"role":           roles,
	}
	_, err := c.do(ctx, http.MethodPost, "/private-api/request", query, time.Time{}, nil)
	return err
}

// get decodes the JSON body into out. The bool is false on 304.
func (c *Client) get(ctx context.Context, path string, query url.Values, modifiedSince time.Time, out any) (bool, error) {
	return c.do(ctx, http.MethodGet, path, query, modifiedSince, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, modifiedSince time.Time, out any) (bool, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	modified := true
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if !modifiedSince.IsZero() {
			req.Header.Set("If-Modified-Since", modifiedSince.UTC().Format(http.TimeFormat))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotModified:
			modified = false
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return backoff.Permanent(fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body))))
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", path, err))
		}
		return nil
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if method == http.MethodGet {
		exponential := backoff.NewExponentialBackOff()
		exponential.InitialInterval = 200 * time.Millisecond
		exponential.MaxElapsedTime = c.maxElapsed
		policy = exponential
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Directory request failed, retrying",
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return false, pkgerrors.NewExternalError(serviceName, err)
	}
	return modified, nil
}
