package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"diaria/internal/core"
)

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredQuery(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	startRaw, err := requiredQuery(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	endRaw, err := requiredQuery(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	start, err := parseDate(startRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	end, err := parseDate(endRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	summary, err := s.reports.PeriodSummary(r.Context(), userID, start, end)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodSummaryDTO(summary))
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredQuery(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	year, err := requiredQueryInt(r, "year", 1970, 9999)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	month, err := requiredQueryInt(r, "month", 1, 12)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%s:monthly:%d-%02d", userID, year, month)
	if cached, ok := s.summaryCache.Get(key); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		writeJSON(w, http.StatusOK, toPeriodSummaryDTO(cached))
		return
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	summary, err := s.reports.MonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		mapError(w, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, toPeriodSummaryDTO(summary))
}

// handleByDayReport exposes just the weekday breakdown of a monthly summary.
func (s *Server) handleByDayReport(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	now := time.Now().UTC()
	year, err := queryInt(r, "year", now.Year(), 1970, 9999)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	month, err := queryInt(r, "month", int(now.Month()), 1, 12)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	summary, err := s.reports.MonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		mapError(w, err)
		return
	}
	dto := toPeriodSummaryDTO(summary)
	writeJSON(w, http.StatusOK, map[string]any{
		"year":        year,
		"month":       month,
		"byDayOfWeek": dto.ByDayOfWeek,
	})
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	key := userID + ":stats"
	if cached, ok := s.statsCache.Get(key); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		writeJSON(w, http.StatusOK, toUserStatsDTO(cached))
		return
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	stats, err := s.reports.Stats(r.Context(), userID)
	if err != nil {
		mapError(w, err)
		return
	}
	s.statsCache.Set(key, stats)
	writeJSON(w, http.StatusOK, toUserStatsDTO(stats))
}

// handleFilteredStats restricts the statistics to a date range. The bounds
// are optional as a pair: unless both are present no filter is applied.
func (s *Server) handleFilteredStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	startRaw := r.URL.Query().Get("startDate")
	endRaw := r.URL.Query().Get("endDate")

	if startRaw == "" || endRaw == "" {
		stats, err := s.reports.Stats(r.Context(), userID)
		if err != nil {
			mapError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserStatsDTO(stats))
		return
	}

	start, err := parseDate(startRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	end, err := parseDate(endRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	stats, err := s.reports.FilteredStats(r.Context(), userID, start, end)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserStatsDTO(stats))
}

func (s *Server) handleRecentEntries(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	limit, err := queryInt(r, "limit", 10, 1, 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	entries, err := s.reports.RecentEntries(r.Context(), userID, limit)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": toEntryDTOs(entries)})
}

// handleDayDetails reports one calendar day. Without a userId the report
// spans every user's entries on that day.
func (s *Server) handleDayDetails(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	dateRaw, err := requiredQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	date, err := parseDate(dateRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	details, err := s.reports.DayDetails(r.Context(), userID, date)
	if err != nil {
		mapError(w, err)
		return
	}
	if details == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "no entries recorded for "+date.String())
		return
	}
	writeJSON(w, http.StatusOK, toDayReportDTO(details))
}

// handleRecentDays returns the backward day-by-day rollup. userId is
// optional; absent, the rollup covers all users.
func (s *Server) handleRecentDays(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	days, err := queryInt(r, "days", 7, 1, 31)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	// The window ends at today unless an explicit reference date is given.
	reference := core.DateOf(time.Now().UTC())
	if raw := r.URL.Query().Get("reference"); raw != "" {
		reference, err = parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
			return
		}
	}

	rows, err := s.reports.RecentDays(r.Context(), userID, reference, days)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": toDaySummaryDTOs(rows)})
}
