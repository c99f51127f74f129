package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAppErrorTypes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		typ    ErrorType
		status int
	}{
		{"not found", NewNotFoundError("urn:test"), ErrorTypeNotFound, http.StatusNotFound},
		{"exists", NewResourceExistsError("a", "g"), ErrorTypeConflict, http.StatusConflict},
		{"query", NewQueryError(fmt.Errorf("boom")), ErrorTypeDatabase, http.StatusInternalServerError},
		{"search", NewSearchError("failed", "models"), ErrorTypeSearch, http.StatusInternalServerError},
		{"mapping", NewMappingError("bad"), ErrorTypeMapping, http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no"), ErrorTypeUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)

			wrapped := Wrap(tt.err, "context")
			assert.True(t, IsType(wrapped, tt.typ))
		})
	}
}

func TestResourceExistsMessage(t *testing.T) {
	err := NewResourceExistsError("class-1", "https://iri.suomi.fi/model/test/")
	assert.Equal(t, "Resource class-1 already exists in graph https://iri.suomi.fi/model/test/", err.Message)
}

func TestNotFoundCarriesURI(t *testing.T) {
	err := NewNotFoundError("urn:yti:organizations")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "urn:yti:organizations", err.Details["uri"])
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.False(t, v.HasErrors())

	v.Add("should-have-value", "label")
	v.AddWithValue("invalid-value", "prefix", "1abc")

	assert.True(t, v.HasErrors())
	assert.True(t, v.Has("invalid-value", "prefix"))
	assert.False(t, v.Has("invalid-value", "label"))
	assert.Contains(t, v.Error(), "label: should-have-value")
}

func handle(h *ErrorHandler, err error) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Handle(w, r, err)
	})
	chimiddleware.RequestID(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	h := NewErrorHandler(nil, false)

	t.Run("not found", func(t *testing.T) {
		rec := handle(h, Wrap(NewNotFoundError("urn:a"), "fetch"))
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, "resource-not-found", body["message"])
		assert.Equal(t, "NOT_FOUND", body["type"])
		assert.Equal(t, map[string]any{"uri": "urn:a"}, body["details"])
		assert.NotEmpty(t, body["requestId"])
		assert.Equal(t, body["requestId"], rec.Header().Get("X-Request-ID"))
	})

	t.Run("validation errors", func(t *testing.T) {
		v := NewValidationErrors()
		v.AddWithValue("invalid-value", "prefix", "1abc")

		rec := handle(h, v)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, "Object validation failed", body["message"])
		assert.Equal(t, []any{map[string]any{"message": "invalid-value", "property": "prefix", "value": "1abc"}}, body["details"])
	})

	t.Run("search", func(t *testing.T) {
		rec := handle(h, NewSearchError("all shards failed", "models").WithCause(fmt.Errorf("500")))
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, "SEARCH", body["type"])
		assert.Equal(t, map[string]any{"index": "models"}, body["details"])
	})

	t.Run("plain error", func(t *testing.T) {
		rec := handle(h, fmt.Errorf("plain"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "An internal error occurred")
		assert.NotContains(t, rec.Body.String(), "plain")
	})
}

func TestErrorHandlerDebugShowsCause(t *testing.T) {
	h := NewErrorHandler(nil, true)

	body := decode(t, handle(h, NewQueryError(fmt.Errorf("connection refused"))))
	assert.Equal(t, "Error querying graph", body["message"])
	assert.Equal(t, map[string]any{"cause": "connection refused"}, body["details"])

	body = decode(t, handle(h, fmt.Errorf("plain")))
	assert.Equal(t, map[string]any{"cause": "plain"}, body["details"])
}

func TestErrorHandlerLogsBySeverity(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewErrorHandler(zap.New(core), false)

	handle(h, NewUnauthorizedError("token expired"))
	handle(h, NewQueryError(fmt.Errorf("down")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
}
