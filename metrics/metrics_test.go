package metrics

import (
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledReturnsStubs(t *testing.T) {
	atomic.StoreInt32(&enabled, 0)

	c := NewCounter("test/disabled/counter")
	c.Inc(5)
	assert.Equal(t, int64(0), c.Count())
	assert.IsType(t, new(metrics.NilTimer), NewTimer("test/disabled/timer"))
	assert.IsType(t, new(metrics.NilMeter), NewMeter("test/disabled/meter"))
	assert.IsType(t, new(metrics.NilGauge), NewGauge("test/disabled/gauge"))
}

func TestEnabledRegisters(t *testing.T) {
	Enable()
	defer atomic.StoreInt32(&enabled, 0)
	require.True(t, Enabled())

	c := NewCounter("test/enabled/counter")
	c.Inc(2)
	assert.Equal(t, int64(2), NewCounter("test/enabled/counter").Count())

	srv := NewServer("127.0.0.1:0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "test/enabled/counter")
}
