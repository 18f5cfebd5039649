// Package report is the aggregation engine: pure functions that reduce a
// slice of ledger entries into period summaries, user statistics, per-day
// details and recent-days rollups. Nothing here touches the database or the
// wall clock; callers fetch and filter entries, the engine only folds them.
package report

import (
	"strings"

	"diaria/internal/core"
)

type (
	// Totals accumulates the three monetary sums of a set of entries.
	Totals struct {
		Gross    core.Money
		Expenses core.Money
		Net      core.Money
	}

	// WeekdayGroup accumulates entries sharing the same stored day-of-week
	// label. Groups appear in first-seen order of the input; labels absent
	// from the input produce no group.
	WeekdayGroup struct {
		DayOfWeek string
		Gross     core.Money
		Expenses  core.Money
		Net       core.Money
		Count     int
	}

	Period struct {
		Start core.Date
		End   core.Date
	}

	// PeriodSummary is the weekly/monthly report shape.
	PeriodSummary struct {
		Totals      Totals
		ByDayOfWeek []WeekdayGroup
		DaysCount   int
		Period      Period
	}

	StatsTotals struct {
		Entries  int
		Gross    core.Money
		Expenses core.Money
		Net      core.Money
	}

	// Averages are expressed in fractional cents. They are exact quotients
	// of the totals; rounding for display is the caller's concern.
	Averages struct {
		GrossCents    float64
		ExpensesCents float64
		NetCents      float64
	}

	// DayExtreme is the best or worst day of a set. Its weekday label is
	// always derived from the date, never taken from the stored field.
	DayExtreme struct {
		Date      core.Date
		DayOfWeek string
		Gross     core.Money
		Expenses  core.Money
		Net       core.Money
	}

	UserStats struct {
		Totals   StatsTotals
		Averages Averages
		BestDay  *DayExtreme
		WorstDay *DayExtreme
	}

	// DayReport details a single calendar day. Nil means no entries exist
	// for that day.
	DayReport struct {
		Date          core.Date
		TotalGross    core.Money
		TotalExpenses core.Money
		TotalNet      core.Money
		Description   string
		EntriesCount  int
		Entries       []core.Entry
	}

	// DaySummary is one row of the recent-days rollup.
	DaySummary struct {
		Date               core.Date
		DayOfWeek          string
		DayOfWeekShort     string
		TotalGross         core.Money
		TotalExpenses      core.Money
		TotalNet           core.Money
		EntriesCount       int
		HasEntries         bool
		PreviewDescription string
	}
)

// Summarize reduces entries already filtered to [start, end] and one user
// into totals plus a breakdown grouped on the STORED day-of-week label.
// An empty input yields zero totals, no groups and DaysCount 0.
func Summarize(entries []core.Entry, start, end core.Date) PeriodSummary {
	s := PeriodSummary{
		DaysCount: len(entries),
		Period:    Period{Start: start, End: end},
	}

	index := make(map[string]int, 7)
	for _, e := range entries {
		s.Totals.Gross.Cents += e.Gross.Cents
		s.Totals.Expenses.Cents += e.Expenses.Cents
		s.Totals.Net.Cents += e.Net.Cents

		i, ok := index[e.DayOfWeek]
		if !ok {
			i = len(s.ByDayOfWeek)
			index[e.DayOfWeek] = i
			s.ByDayOfWeek = append(s.ByDayOfWeek, WeekdayGroup{DayOfWeek: e.DayOfWeek})
		}
		g := &s.ByDayOfWeek[i]
		g.Gross.Cents += e.Gross.Cents
		g.Expenses.Cents += e.Expenses.Cents
		g.Net.Cents += e.Net.Cents
		g.Count++
	}
	return s
}

// MonthRange returns the first and last calendar day of a month. The end is
// computed as day 0 of the following month, so varying month lengths and
// leap years fall out of the date arithmetic.
func MonthRange(year, month int) (start, end core.Date) {
	start = core.NewDate(year, month, 1)
	end = core.NewDate(year, month+1, 0)
	return start, end
}

// Stats reduces the whole entry set of a user into totals, averages and the
// best/worst day by net amount. Ties keep the first entry encountered in
// input order. An empty set yields all zeroes and nil extremes; the division
// for averages is never attempted in that case.
func Stats(entries []core.Entry) UserStats {
	var st UserStats
	st.Totals.Entries = len(entries)
	if len(entries) == 0 {
		return st
	}

	best, worst := 0, 0
	for i, e := range entries {
		st.Totals.Gross.Cents += e.Gross.Cents
		st.Totals.Expenses.Cents += e.Expenses.Cents
		st.Totals.Net.Cents += e.Net.Cents
		// Strict comparisons keep the first entry on ties.
		if e.Net.Cents > entries[best].Net.Cents {
			best = i
		}
		if e.Net.Cents < entries[worst].Net.Cents {
			worst = i
		}
	}

	n := float64(st.Totals.Entries)
	st.Averages = Averages{
		GrossCents:    float64(st.Totals.Gross.Cents) / n,
		ExpensesCents: float64(st.Totals.Expenses.Cents) / n,
		NetCents:      float64(st.Totals.Net.Cents) / n,
	}
	st.BestDay = extreme(entries[best])
	st.WorstDay = extreme(entries[worst])
	return st
}

func extreme(e core.Entry) *DayExtreme {
	return &DayExtreme{
		Date:      e.Date,
		DayOfWeek: core.WeekdayName(e.Date),
		Gross:     e.Gross,
		Expenses:  e.Expenses,
		Net:       e.Net,
	}
}

// DayDetails reduces the entries of one calendar day. Nil signals "no record
// for that day". The net total is recomputed from gross and expenses rather
// than summed from per-entry nets, and the description joins every non-empty
// entry description in input order.
func DayDetails(entries []core.Entry, date core.Date) *DayReport {
	if len(entries) == 0 {
		return nil
	}
	r := &DayReport{
		Date:         date,
		EntriesCount: len(entries),
		Entries:      entries,
	}
	var descs []string
	for _, e := range entries {
		r.TotalGross.Cents += e.Gross.Cents
		r.TotalExpenses.Cents += e.Expenses.Cents
		if e.Description != "" {
			descs = append(descs, e.Description)
		}
	}
	r.TotalNet = core.Net(r.TotalGross, r.TotalExpenses)
	r.Description = strings.Join(descs, ", ")
	return r
}

// RecentDays builds one summary per calendar day, walking backward from
// reference: reference, reference-1, ... reference-(days-1). byDay maps a
// YYYY-MM-DD key to that day's entries in the order the caller fetched them;
// days without a key (or with an empty set) produce a zeroed row.
func RecentDays(reference core.Date, days int, byDay map[string][]core.Entry) []DaySummary {
	if days <= 0 {
		return nil
	}
	out := make([]DaySummary, 0, days)
	for i := 0; i < days; i++ {
		day := reference.AddDays(-i)
		entries := byDay[day.String()]

		ds := DaySummary{
			Date:           day,
			DayOfWeek:      core.WeekdayName(day),
			DayOfWeekShort: core.WeekdayShort(day),
			EntriesCount:   len(entries),
			HasEntries:     len(entries) > 0,
		}
		for _, e := range entries {
			ds.TotalGross.Cents += e.Gross.Cents
			ds.TotalExpenses.Cents += e.Expenses.Cents
		}
		ds.TotalNet = core.Net(ds.TotalGross, ds.TotalExpenses)
		if len(entries) > 0 {
			ds.PreviewDescription = entries[0].Description
		}
		out = append(out, ds)
	}
	return out
}
