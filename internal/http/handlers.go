package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// appMetrics tracks application-level counters exposed on /metrics.
type appMetrics struct {
	totalRequests  int64
	entriesCreated int64
	cacheHits      int64
	cacheMisses    int64
	startTime      time.Time
}

func newAppMetrics() *appMetrics {
	return &appMetrics{startTime: time.Now()}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.startTime).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks := map[string]string{}
	ready := true

	if err := s.storage.Ping(ctx); err != nil {
		checks["storage"] = "unavailable: " + err.Error()
		ready = false
	} else {
		checks["storage"] = "ok"
	}

	checks["cache"] = fmt.Sprintf("ok (%d summaries, %d stats)", s.summaryCache.Size(), s.statsCache.Size())
	checks["rate_limiter"] = fmt.Sprintf("ok (%d clients)", s.rateLimiter.activeClients())

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	writeJSON(w, status, map[string]any{
		"status": state,
		"checks": checks,
	})
}

// handleMetrics exposes counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n", atomic.LoadInt64(&s.appMetrics.totalRequests))
	fmt.Fprintf(w, "# HELP entries_total Total number of entries created\n")
	fmt.Fprintf(w, "# TYPE entries_total counter\n")
	fmt.Fprintf(w, "entries_total %d\n", atomic.LoadInt64(&s.appMetrics.entriesCreated))
	fmt.Fprintf(w, "# HELP cache_hits_total Report cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n", atomic.LoadInt64(&s.appMetrics.cacheHits))
	fmt.Fprintf(w, "# HELP cache_misses_total Report cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n", atomic.LoadInt64(&s.appMetrics.cacheMisses))
	fmt.Fprintf(w, "# HELP cache_entries Current number of cached reports\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries %d\n", s.summaryCache.Size()+s.statsCache.Size())
	fmt.Fprintf(w, "# HELP rate_limit_hits_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n", atomic.LoadInt64(&s.secMetrics.rateLimitHits))
	fmt.Fprintf(w, "# HELP suspicious_requests_total Requests flagged as suspicious\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n", atomic.LoadInt64(&s.secMetrics.suspiciousRequests))
	fmt.Fprintf(w, "# HELP uptime_seconds Time since the server started\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.appMetrics.startTime).Seconds())
}
