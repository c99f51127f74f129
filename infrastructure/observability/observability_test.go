package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector("test")

	c.RecordSPARQL("fetch", "core", 10*time.Millisecond, nil)
	c.RecordSPARQL("fetch", "core", 10*time.Millisecond, errors.New("boom"))
	c.RecordCache("organizations", true)
	c.RecordCache("organizations", false)
	c.RecordSearch("bulk", nil)
	c.RecordSync("users", nil)
	c.RecordHTTP("GET", "/health", 503, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.SPARQLOperations.WithLabelValues("fetch", "core", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SPARQLOperations.WithLabelValues("fetch", "core", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits.WithLabelValues("organizations")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheMisses.WithLabelValues("organizations")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/health", "5xx")))

	families, err := c.GetRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordSPARQL("fetch", "core", time.Millisecond, nil)
		c.RecordCache("x", true)
		c.RecordSearch("x", nil)
		c.RecordSync("x", nil)
		c.RecordHTTP("GET", "/", 200, time.Millisecond)
	})
}

func TestNewLogger(t *testing.T) {
	logger, level, err := NewLogger("debug", "production")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	level.SetLevel(zapcore.WarnLevel)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, _, err = NewLogger("loud", "production")
	assert.Error(t, err)
}
