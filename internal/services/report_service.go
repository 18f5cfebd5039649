package services

import (
	"context"
	"fmt"

	"diaria/internal/core"
	"diaria/internal/report"
)

// ReportService loads a user's entries and feeds them to the aggregation
// functions in the report package. All heavy lifting is pure; this layer only
// does lookups.
type ReportService struct {
	repo Repository
}

func NewReportService(repo Repository) *ReportService {
	return &ReportService{repo: repo}
}

// userEntriesInRange verifies the user exists before querying. An empty
// userID skips the check and spans every user.
func (s *ReportService) userEntriesInRange(ctx context.Context, userID string, start, end core.Date) ([]core.Entry, error) {
	if userID != "" {
		if _, err := s.repo.GetUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}
	return s.repo.EntriesInRange(ctx, userID, start, end)
}

// PeriodSummary aggregates a user's entries between two dates inclusive.
func (s *ReportService) PeriodSummary(ctx context.Context, userID string, start, end core.Date) (report.PeriodSummary, error) {
	entries, err := s.userEntriesInRange(ctx, userID, start, end)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	return report.Summarize(entries, start, end), nil
}

// MonthlySummary aggregates a user's entries for a calendar month.
func (s *ReportService) MonthlySummary(ctx context.Context, userID string, year, month int) (report.PeriodSummary, error) {
	start, end := report.MonthRange(year, month)
	return s.PeriodSummary(ctx, userID, start, end)
}

// Stats computes lifetime totals, averages and best/worst days for a user.
func (s *ReportService) Stats(ctx context.Context, userID string) (report.UserStats, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return report.UserStats{}, fmt.Errorf("lookup user: %w", err)
	}
	entries, err := s.repo.EntriesForUser(ctx, userID)
	if err != nil {
		return report.UserStats{}, err
	}
	return report.Stats(entries), nil
}

// FilteredStats computes the same statistics restricted to a date range.
func (s *ReportService) FilteredStats(ctx context.Context, userID string, start, end core.Date) (report.UserStats, error) {
	entries, err := s.userEntriesInRange(ctx, userID, start, end)
	if err != nil {
		return report.UserStats{}, err
	}
	return report.Stats(entries), nil
}

// RecentEntries returns a user's latest entries, newest first.
func (s *ReportService) RecentEntries(ctx context.Context, userID string, limit int) ([]core.Entry, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return s.repo.RecentEntries(ctx, userID, limit)
}

// DayDetails returns the aggregated report for a single day, or nil when no
// entries exist on that day. An empty userID covers all users.
func (s *ReportService) DayDetails(ctx context.Context, userID string, date core.Date) (*report.DayReport, error) {
	if userID != "" {
		if _, err := s.repo.GetUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}
	entries, err := s.repo.EntriesOnDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return report.DayDetails(entries, date), nil
}

// RecentDays returns one row per calendar day, walking backward from the
// reference date, including days without entries.
func (s *ReportService) RecentDays(ctx context.Context, userID string, reference core.Date, days int) ([]report.DaySummary, error) {
	if days <= 0 {
		return nil, nil
	}
	start := reference.AddDays(-(days - 1))
	entries, err := s.userEntriesInRange(ctx, userID, start, reference)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]core.Entry, len(entries))
	for _, e := range entries {
		key := e.Date.String()
		byDay[key] = append(byDay[key], e)
	}
	return report.RecentDays(reference, days, byDay), nil
}
