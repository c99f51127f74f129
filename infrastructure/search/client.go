// Package search wraps the OpenSearch client with index lifecycle, document
// and query helpers.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"yti-common/infrastructure/observability"
	pkgerrors "yti-common/pkg/errors"
)

// DefaultBulkMaxSize is the number of documents sent in one bulk request.
const DefaultBulkMaxSize = 500

// ClientConfig configures NewClient.
type ClientConfig struct {
	URL      string
	Username string
	Password string
	// InsecureSkipVerify disables TLS verification for development clusters.
	InsecureSkipVerify bool
}

// NewClient creates an OpenSearch API client with a 5s connect timeout and a
// 60s response timeout.
func NewClient(cfg ClientConfig) (*opensearchapi.Client, error) {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		ResponseHeaderTimeout: 60 * time.Second,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec
	}
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{cfg.URL},
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: transport,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", err)
	}
	return client, nil
}

// ClientWrapper performs index and document operations. Write failures are
// logged and swallowed; search failures are returned as SEARCH errors.
type ClientWrapper struct {
	client      *opensearchapi.Client
	bulkMaxSize int
	logger      *zap.Logger
	metrics     *observability.Collector
	tracer      trace.Tracer
}

// NewClientWrapper wraps client. A non-positive bulkMaxSize means DefaultBulkMaxSize.
func NewClientWrapper(client *opensearchapi.Client, bulkMaxSize int, logger *zap.Logger, metrics *observability.Collector) *ClientWrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bulkMaxSize <= 0 {
		bulkMaxSize = DefaultBulkMaxSize
	}
	return &ClientWrapper{
		client:      client,
		bulkMaxSize: bulkMaxSize,
		logger:      logger,
		metrics:     metrics,
		tracer:      observability.Tracer(),
	}
}

// IndexExists reports whether index exists.
func (c *ClientWrapper) IndexExists(ctx context.Context, index string) (bool, error) {
	resp, err := c.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{Indices: []string{index}})
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CleanIndexes deletes the given indexes when they exist.
func (c *ClientWrapper) CleanIndexes(ctx context.Context, indexes ...string) error {
	for _, index := range indexes {
		exists, err := c.IndexExists(ctx, index)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		c.logger.Info("Cleaning index", zap.String("index", index))
		_, err = c.client.Indices.Delete(ctx, opensearchapi.IndicesDeleteReq{Indices: []string{index}})
		c.metrics.RecordSearch("delete_index", err)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateIndex creates index with the shared analysis settings and mappings.
func (c *ClientWrapper) CreateIndex(ctx context.Context, index string, mappings TypeMapping) {
	body := map[string]any{
		"settings": indexSettings(),
		"mappings": mappings,
	}
	logPayload(c.logger, "create index", index, body)

	reader, err := jsonBody(body)
	if err == nil {
		_, err = c.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
			Index: index,
			Body:  reader,
		})
	}
	c.metrics.RecordSearch("create_index", err)
	if err != nil {
		c.logger.Warn("Index creation failed", zap.String("index", index), zap.Error(err))
		return
	}
	c.logger.Info("Index created", zap.String("index", index))
}

// PutToIndex indexes doc and refreshes the index.
func (c *ClientWrapper) PutToIndex(ctx context.Context, index string, doc Document) {
	logPayload(c.logger, "index document", index, doc)
	reader, err := jsonBody(doc)
	if err == nil {
		_, err = c.client.Index(ctx, opensearchapi.IndexReq{
			Index:      index,
			DocumentID: EncodeID(doc.DocumentID()),
			Body:       reader,
			Params:     opensearchapi.IndexParams{Refresh: "true"},
		})
	}
	c.metrics.RecordSearch("index", err)
	if err != nil {
		c.logger.Warn("Could not add to index", zap.String("id", doc.DocumentID()), zap.String("index", index), zap.Error(err))
		return
	}
	c.logger.Debug("Indexed document", zap.String("id", doc.DocumentID()), zap.String("index", index))
}

// UpdateToIndex partially updates doc and refreshes the index.
func (c *ClientWrapper) UpdateToIndex(ctx context.Context, index string, doc Document) {
	body := map[string]any{"doc": doc}
	logPayload(c.logger, "update document", index, body)
	reader, err := jsonBody(body)
	if err == nil {
		_, err = c.client.Update(ctx, opensearchapi.UpdateReq{
			Index:      index,
			DocumentID: EncodeID(doc.DocumentID()),
			Body:       reader,
			Params:     opensearchapi.UpdateParams{Refresh: "true"},
		})
	}
	c.metrics.RecordSearch("update", err)
	if err != nil {
		c.logger.Warn("Could not update to index", zap.String("id", doc.DocumentID()), zap.String("index", index), zap.Error(err))
		return
	}
	c.logger.Debug("Updated document", zap.String("id", doc.DocumentID()), zap.String("index", index))
}

// BulkInsert indexes docs in batches of bulkMaxSize. Failed items are logged.
func BulkInsert[T Document](ctx context.Context, c *ClientWrapper, index string, docs []T) {
	if len(docs) == 0 {
		c.logger.Info("No data to index", zap.String("index", index))
		return
	}

	for start := 0; start < len(docs); start += c.bulkMaxSize {
		end := min(start+c.bulkMaxSize, len(docs))
		batch := make([]Document, 0, end-start)
		for _, doc := range docs[start:end] {
			batch = append(batch, doc)
		}
		c.bulk(ctx, index, batch)
	}
}

func (c *ClientWrapper) bulk(ctx context.Context, index string, batch []Document) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range batch {
		action := map[string]any{"index": map[string]any{"_index": index, "_id": EncodeID(doc.DocumentID())}}
		if err := enc.Encode(action); err != nil {
			c.logger.Warn("Error in bulk operation", zap.Error(err))
			return
		}
		if err := enc.Encode(doc); err != nil {
			c.logger.Warn("Error in bulk operation", zap.String("id", doc.DocumentID()), zap.Error(err))
			return
		}
	}

	resp, err := c.client.Bulk(ctx, opensearchapi.BulkReq{Body: &buf})
	c.metrics.RecordSearch("bulk", err)
	if err != nil {
		c.logger.Warn("Error in bulk operation", zap.String("index", index), zap.Error(err))
		return
	}
	if resp.Errors {
		c.logger.Warn("Errors occurred in bulk operation", zap.String("index", index))
		for _, item := range resp.Items {
			for _, result := range item {
				if result.Error != nil {
					c.logger.Warn("Error in document",
						zap.String("id", result.ID),
						zap.String("reason", result.Error.Reason))
				}
			}
		}
	}
	c.logger.Debug("Bulk insert status",
		zap.String("index", index),
		zap.Bool("errors", resp.Errors),
		zap.Int("items", len(resp.Items)),
		zap.Int("tookMs", resp.Took))
}

// RemoveFromIndexWithQuery deletes every document of index matching query.
func (c *ClientWrapper) RemoveFromIndexWithQuery(ctx context.Context, index string, query Query) {
	start := time.Now()
	reader, err := jsonBody(map[string]any{"query": query})
	if err != nil {
		c.logger.Warn("Delete by query failed", zap.String("index", index), zap.Error(err))
		return
	}
	resp, err := c.client.Document.DeleteByQuery(ctx, opensearchapi.DocumentDeleteByQueryReq{
		Indices: []string{index},
		Body:    reader,
		Params:  opensearchapi.DocumentDeleteByQueryParams{Refresh: opensearchapi.ToPointer(true)},
	})
	c.metrics.RecordSearch("delete_by_query", err)
	if err != nil {
		c.logger.Warn("Delete by query failed", zap.String("index", index), zap.Error(err))
		return
	}
	c.logger.Info("Removed items from index",
		zap.Int("deleted", resp.Deleted),
		zap.String("index", index),
		zap.Duration("took", time.Since(start)))
}

// RemoveFromIndex deletes the document with id from index.
func (c *ClientWrapper) RemoveFromIndex(ctx context.Context, index, id string) {
	start := time.Now()
	_, err := c.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      index,
		DocumentID: EncodeID(id),
		Params:     opensearchapi.DocumentDeleteParams{Refresh: "wait_for"},
	})
	c.metrics.RecordSearch("delete", err)
	if err != nil {
		c.logger.Warn("Could not remove from index", zap.String("id", id), zap.String("index", index), zap.Error(err))
		return
	}
	c.logger.Info("Removed from index",
		zap.String("id", id),
		zap.String("index", index),
		zap.Duration("took", time.Since(start)))
}

// SearchRequest is a search over one or more indexes.
type SearchRequest struct {
	Indices   []string
	Query     Query
	From      int
	Size      int
	Sort      []map[string]any
	Highlight map[string]any
}

func (r SearchRequest) body() map[string]any {
	body := map[string]any{
		"from": r.From,
		"size": r.Size,
	}
	if r.Query != nil {
		body["query"] = r.Query
	}
	if len(r.Sort) > 0 {
		body["sort"] = r.Sort
	}
	if r.Highlight != nil {
		body["highlight"] = r.Highlight
	}
	return body
}

// SearchHit is a search hit together with its highlight fragments.
type SearchHit struct {
	opensearchapi.SearchHit
	Highlight map[string][]string `json:"highlight"`
}

// RawSearchResponse is the decoded body of a search call.
type RawSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []SearchHit `json:"hits"`
	} `json:"hits"`
}

// SearchResponse runs request and returns the decoded response. The request
// goes through the transport directly since the typed API response drops
// highlights.
func (c *ClientWrapper) SearchResponse(ctx context.Context, request SearchRequest) (*RawSearchResponse, error) {
	indices := strings.Join(request.Indices, ", ")
	ctx, span := c.tracer.Start(ctx, "search.query", trace.WithAttributes(
		attribute.String("search.indices", indices),
	))

	body := request.body()
	logPayload(c.logger, "search", indices, body)
	var result RawSearchResponse
	reader, err := jsonBody(body)
	if err == nil {
		var resp *opensearch.Response
		resp, err = c.client.Client.Do(ctx, opensearchapi.SearchReq{
			Indices: request.Indices,
			Body:    reader,
		}, &result)
		if err == nil && resp.IsError() {
			err = opensearch.ParseError(resp)
		}
	}
	c.metrics.RecordSearch("search", err)
	observability.EndSpan(span, err)
	if err != nil {
		c.logger.Error("Search failed", zap.String("index", indices), zap.Error(err))
		return nil, pkgerrors.NewSearchError(err.Error(), indices).WithCause(err)
	}
	return &result, nil
}

// Search runs request and decodes each hit source into T. Hits without a
// source are skipped; highlights are copied into documents implementing
// Highlighter.
func Search[T any](ctx context.Context, c *ClientWrapper, request SearchRequest) (*SearchResponse[T], error) {
	resp, err := c.SearchResponse(ctx, request)
	if err != nil {
		return nil, err
	}

	result := &SearchResponse[T]{
		TotalHitCount:   int64(resp.Hits.Total.Value),
		PageFrom:        request.From,
		PageSize:        request.Size,
		ResponseObjects: make([]T, 0, len(resp.Hits.Hits)),
	}
	for _, hit := range resp.Hits.Hits {
		if len(hit.Source) == 0 || string(hit.Source) == "null" {
			continue
		}
		var doc T
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			indices := strings.Join(request.Indices, ", ")
			return nil, pkgerrors.NewSearchError(fmt.Sprintf("failed to decode hit %s", hit.ID), indices).WithCause(err)
		}
		if h, ok := any(&doc).(Highlighter); ok {
			h.SetHighlights(hit.Highlight)
		}
		result.ResponseObjects = append(result.ResponseObjects, doc)
	}
	return result, nil
}

// EncodeID URL-encodes a document id the way form values are encoded.
func EncodeID(id string) string {
	return url.QueryEscape(id)
}

func jsonBody(v any) (*bytes.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request body: %w", err)
	}
	return bytes.NewReader(b), nil
}
