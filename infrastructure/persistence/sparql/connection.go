// Package sparql talks to a SPARQL 1.1 store over HTTP: the Graph Store
// Protocol for whole graphs and the query and update protocols for the rest.
package sparql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/rdf"
	pkgerrors "yti-common/pkg/errors"
)

// Media types exchanged with the store.
const (
	contentTypeForm    = "application/x-www-form-urlencoded"
	contentTypeResults = "application/sparql-results+json"
	acceptGraph        = rdf.ContentTypeNTriples + ", " + rdf.ContentTypeTurtle + ";q=0.9"
)

// Connection is one endpoint of the store.
type Connection interface {
	Fetch(ctx context.Context, graph string) (*rdf.Graph, error)
	Put(ctx context.Context, graph string, g *rdf.Graph) error
	Delete(ctx context.Context, graph string) error
	Ask(ctx context.Context, query string) (bool, error)
	Select(ctx context.Context, query string) (*Results, error)
	Construct(ctx context.Context, query string) (*rdf.Graph, error)
	Update(ctx context.Context, update string) error
}

// StatusError is a non-2xx answer from the store.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// HTTPConnection implements Connection against a single endpoint URL.
type HTTPConnection struct {
	endpoint string
	name     string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
	metrics  *observability.Collector
	tracer   trace.Tracer
}

// Option configures an HTTPConnection.
type Option func(*connectionOptions)

type connectionOptions struct {
	client  *http.Client
	logger  *zap.Logger
	metrics *observability.Collector
	breaker BreakerConfig
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *connectionOptions) { o.client = client }
}

// WithTimeout sets the timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *connectionOptions) { o.client = &http.Client{Timeout: timeout} }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *connectionOptions) { o.logger = logger }
}

// WithMetrics records every call in collector.
func WithMetrics(collector *observability.Collector) Option {
	return func(o *connectionOptions) { o.metrics = collector }
}

// WithBreakerConfig overrides DefaultBreakerConfig.
func WithBreakerConfig(config BreakerConfig) Option {
	return func(o *connectionOptions) { o.breaker = config }
}

// NewHTTPConnection creates a connection to endpoint, e.g. http://fuseki:3030/core/get.
func NewHTTPConnection(endpoint string, opts ...Option) *HTTPConnection {
	options := connectionOptions{
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: DefaultBreakerConfig(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	endpoint = strings.TrimRight(endpoint, "/")
	name := path.Base(endpoint)
	logger := options.logger.With(zap.String("endpoint", endpoint))

	return &HTTPConnection{
		endpoint: endpoint,
		name:     name,
		client:   options.client,
		breaker:  newBreaker("sparql-"+name, options.breaker, logger),
		logger:   logger,
		metrics:  options.metrics,
		tracer:   observability.Tracer(),
	}
}

// Endpoint returns the URL the connection talks to.
func (c *HTTPConnection) Endpoint() string {
	return c.endpoint
}

// Fetch reads a named graph.
func (c *HTTPConnection) Fetch(ctx context.Context, graph string) (*rdf.Graph, error) {
	res, err := c.do(ctx, "fetch", graph, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL(graph), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", acceptGraph)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return rdf.Decode(bytes.NewReader(res.body), rdf.FormatForContentType(res.contentType))
}

// Put replaces a named graph.
func (c *HTTPConnection) Put(ctx context.Context, graph string, g *rdf.Graph) error {
	body, err := rdf.EncodeString(g)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "put", graph, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.graphURL(graph), strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", rdf.ContentTypeNTriples)
		return req, nil
	})
	return err
}

// Delete drops a named graph.
func (c *HTTPConnection) Delete(ctx context.Context, graph string) error {
	_, err := c.do(ctx, "delete", graph, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, c.graphURL(graph), nil)
	})
	return err
}

// Ask runs an ASK query.
func (c *HTTPConnection) Ask(ctx context.Context, query string) (bool, error) {
	results, err := c.Select(ctx, query)
	if err != nil {
		return false, err
	}
	if results.Boolean == nil {
		return false, fmt.Errorf("%s: ASK response without boolean", c.endpoint)
	}
	return *results.Boolean, nil
}

// Select runs a SELECT (or ASK) query and decodes the JSON results.
func (c *HTTPConnection) Select(ctx context.Context, query string) (*Results, error) {
	res, err := c.do(ctx, "query", "", c.form("query", query, contentTypeResults))
	if err != nil {
		return nil, err
	}
	var results Results
	if err := json.Unmarshal(res.body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode query results: %w", err)
	}
	return &results, nil
}

// Construct runs a CONSTRUCT or DESCRIBE query.
func (c *HTTPConnection) Construct(ctx context.Context, query string) (*rdf.Graph, error) {
	res, err := c.do(ctx, "construct", "", c.form("query", query, acceptGraph))
	if err != nil {
		return nil, err
	}
	return rdf.Decode(bytes.NewReader(res.body), rdf.FormatForContentType(res.contentType))
}

// Update runs a SPARQL update request.
func (c *HTTPConnection) Update(ctx context.Context, update string) error {
	_, err := c.do(ctx, "update", "", c.form("update", update, ""))
	return err
}

func (c *HTTPConnection) form(field, text, accept string) func(context.Context) (*http.Request, error) {
	body := url.Values{field: {text}}.Encode()
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentTypeForm)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		return req, nil
	}
}

func (c *HTTPConnection) graphURL(graph string) string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + "graph=" + url.QueryEscape(graph)
}

type response struct {
	body        []byte
	contentType string
}

// do executes one request through the breaker. A 404 is returned as a
// NOT_FOUND error for target; other failure statuses as *StatusError.
func (c *HTTPConnection) do(ctx context.Context, operation, target string, build func(context.Context) (*http.Request, error)) (*response, error) {
	ctx, span := c.tracer.Start(ctx, "sparql."+operation, trace.WithAttributes(
		attribute.String("sparql.endpoint", c.endpoint),
		attribute.String("sparql.graph", target),
	))
	start := time.Now()

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Endpoint: c.endpoint, StatusCode: resp.StatusCode, Body: string(body)}
		}
		return &response{body: body, contentType: resp.Header.Get("Content-Type")}, nil
	})

	c.metrics.RecordSPARQL(operation, c.name, time.Since(start), err)
	observability.EndSpan(span, err)

	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			if target == "" {
				target = c.endpoint
			}
			return nil, pkgerrors.NewNotFoundError(target).WithCause(err)
		}
		c.logger.Debug("sparql request failed",
			zap.String("operation", operation),
			zap.String("graph", target),
			zap.Error(err))
		return nil, err
	}
	return result.(*response), nil
}
