package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/pkg/types/common"
)

// HealthChecker is an interface for components that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	timeout  time.Duration
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// NewHealthHandler creates a new HealthHandler.  Nil checkers are skipped so
// optional components can be passed unconditionally.
func NewHealthHandler(version string, metrics *prometheus.AppMetrics, logger logging.Logger, checkers ...HealthChecker) *HealthHandler {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &HealthHandler{version: version, timeout: 5 * time.Second, metrics: metrics, logger: logger}
	for _, c := range checkers {
		if c != nil {
			h.checkers = append(h.checkers, c)
		}
	}
	return h
}

// Liveness handles GET /healthz.  It never consults dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.HealthReport{Status: common.HealthUp, Version: h.version})
}

// Readiness handles GET /readyz.  Any failing component answers 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	report := common.HealthReport{Status: common.HealthUp, Version: h.version, Components: h.checkAll(ctx)}
	code := http.StatusOK
	for _, c := range report.Components {
		if c.Status != common.HealthUp {
			report.Status = common.HealthDown
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, report)
}

// checkAll runs all health checkers concurrently, sorted by name.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	results := make([]common.ComponentHealth, 0, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := c.Check(ctx)
			ch := common.ComponentHealth{Name: c.Name(), Status: common.HealthUp, Latency: time.Since(start)}
			gauge := 1.0
			if err != nil {
				ch.Status = common.HealthDown
				ch.Message = err.Error()
				gauge = 0
				h.logger.Warn("health check failed", logging.String("component", c.Name()), logging.Err(err))
			}
			h.metrics.HealthCheckStatus.WithLabelValues(c.Name()).Set(gauge)

			mu.Lock()
			results = append(results, ch)
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

//Personal.AI order the ending
