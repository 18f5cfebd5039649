// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"diaria/internal/cache"
	"diaria/internal/report"
	"diaria/internal/services"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	users   *services.UserService
	entries *services.EntryService
	reports *services.ReportService
	storage Pinger

	apiToken    string
	rateLimiter *rateLimiter
	secMetrics  securityMetrics
	appMetrics  *appMetrics

	// Report results are cached per user and invalidated on any entry change.
	summaryCache *cache.LRUCache[report.PeriodSummary]
	statsCache   *cache.LRUCache[report.UserStats]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr, apiToken string, users *services.UserService, entries *services.EntryService, reports *services.ReportService, storage Pinger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		users:        users,
		entries:      entries,
		reports:      reports,
		storage:      storage,
		apiToken:     apiToken,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[report.PeriodSummary](200, 5*time.Minute),
		statsCache:   cache.NewLRUCache[report.UserStats](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
		appMetrics:   newAppMetrics(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withCommon(s.withAuth(h))
	}

	mux.HandleFunc("POST /api/users", api(s.handleCreateUser))
	mux.HandleFunc("GET /api/users", api(s.handleListUsers))
	mux.HandleFunc("GET /api/users/email/{email}", api(s.handleGetUserByEmail))
	mux.HandleFunc("GET /api/users/{id}", api(s.handleGetUser))

	mux.HandleFunc("POST /api/entries", api(s.handleCreateEntry))
	mux.HandleFunc("GET /api/entries", api(s.handleListEntries))
	mux.HandleFunc("GET /api/entries/{id}", api(s.handleGetEntry))
	mux.HandleFunc("PATCH /api/entries/{id}", api(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", api(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/reports/weekly", api(s.handleWeeklyReport))
	mux.HandleFunc("GET /api/reports/monthly", api(s.handleMonthlyReport))
	mux.HandleFunc("GET /api/reports/by-day/{userId}", api(s.handleByDayReport))
	mux.HandleFunc("GET /api/reports/stats/{userId}", api(s.handleUserStats))
	mux.HandleFunc("GET /api/reports/stats/{userId}/filtered", api(s.handleFilteredStats))
	mux.HandleFunc("GET /api/reports/recent/summary", api(s.handleRecentDays))
	mux.HandleFunc("GET /api/reports/recent/{userId}", api(s.handleRecentEntries))
	mux.HandleFunc("GET /api/reports/day/details", api(s.handleDayDetails))

	return s
}

// Shutdown stops the server and its background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withAuth enforces the static bearer token on API routes. The scheme name
// is matched case-insensitively, so "bearer" and "BEARER" also pass.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || token != s.apiToken {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid bearer token")
			return
		}
		next(w, r)
	}
}

func (s *Server) invalidateUser(userID string) {
	s.summaryCache.DeletePrefix(userID + ":")
	s.statsCache.DeletePrefix(userID + ":")
}
