package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true, EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("generations", "Generations", "mode").WithLabelValues("diagram_url").Add(5)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_generations{mode="diagram_url"} 5`)
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_counter", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_counter", "help").WithLabelValues().Inc()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_counter 2")
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("sessions", "Sessions")
	g.WithLabelValues().Set(10)
	g.WithLabelValues().Dec()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_sessions 9")
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("latency", "Latency", nil).WithLabelValues().Observe(0.1)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_latency_bucket")
	assert.Contains(t, out, "test_unit_latency_count 1")
}

func TestTypeConflictReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	g := c.RegisterGauge("conflict", "help")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(10) })
	assert.Contains(t, scrapeMetrics(t, c), "# TYPE test_unit_conflict counter")
}

func TestTimer_ObserveDuration(t *testing.T) {
	c := newTestCollector(t)
	timer := NewTimer(c.RegisterHistogram("timer", "Timer", nil).WithLabelValues())
	time.Sleep(5 * time.Millisecond)

	assert.GreaterOrEqual(t, timer.ObserveDuration(), 5*time.Millisecond)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_count 1")
	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_concurrent{id="1"} 50`)
}

func TestMustRegister_CustomCollector(t *testing.T) {
	c := newTestCollector(t)
	c.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_collector"}))

	assert.Contains(t, scrapeMetrics(t, c), "custom_collector")
}

func TestNoopCollector(t *testing.T) {
	c := NewNoopCollector()
	assert.NotPanics(t, func() {
		c.RegisterCounter("a", "b").WithLabelValues("x").Inc()
		c.RegisterGauge("a", "b").WithLabelValues("x").Set(1)
		c.RegisterHistogram("a", "b", nil).WithLabelValues("x").Observe(1)
		c.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "ignored"}))
	})

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

//Personal.AI order the ending
