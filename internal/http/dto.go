package http

import (
	"time"

	"diaria/internal/core"
	"diaria/internal/report"
)

// moneyDTO exposes every amount both as integer cents and as a formatted
// decimal string so clients never have to do float arithmetic.
type moneyDTO struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func toMoneyDTO(m core.Money) moneyDTO {
	return moneyDTO{Cents: m.Cents, Formatted: m.Decimal()}
}

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserDTO(u core.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type entryDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Date        core.Date `json:"date"`
	DayOfWeek   string    `json:"dayOfWeek"`
	Gross       moneyDTO  `json:"gross"`
	Expenses    moneyDTO  `json:"expenses"`
	Net         moneyDTO  `json:"net"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toEntryDTO(e core.Entry) entryDTO {
	return entryDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		Date:        e.Date,
		DayOfWeek:   e.DayOfWeek,
		Gross:       toMoneyDTO(e.Gross),
		Expenses:    toMoneyDTO(e.Expenses),
		Net:         toMoneyDTO(e.Net),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEntryDTOs(entries []core.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out
}

type weekdayGroupDTO struct {
	DayOfWeek string   `json:"dayOfWeek"`
	Gross     moneyDTO `json:"gross"`
	Expenses  moneyDTO `json:"expenses"`
	Net       moneyDTO `json:"net"`
	Count     int      `json:"count"`
}

type periodSummaryDTO struct {
	Start       core.Date         `json:"start"`
	End         core.Date         `json:"end"`
	TotalGross  moneyDTO          `json:"totalGross"`
	TotalExp    moneyDTO          `json:"totalExpenses"`
	TotalNet    moneyDTO          `json:"totalNet"`
	DaysCount   int               `json:"daysCount"`
	ByDayOfWeek []weekdayGroupDTO `json:"byDayOfWeek"`
}

func toPeriodSummaryDTO(s report.PeriodSummary) periodSummaryDTO {
	dto := periodSummaryDTO{
		Start:       s.Period.Start,
		End:         s.Period.End,
		TotalGross:  toMoneyDTO(s.Totals.Gross),
		TotalExp:    toMoneyDTO(s.Totals.Expenses),
		TotalNet:    toMoneyDTO(s.Totals.Net),
		DaysCount:   s.DaysCount,
		ByDayOfWeek: make([]weekdayGroupDTO, 0, len(s.ByDayOfWeek)),
	}
	for _, g := range s.ByDayOfWeek {
		dto.ByDayOfWeek = append(dto.ByDayOfWeek, weekdayGroupDTO{
			DayOfWeek: g.DayOfWeek,
			Gross:     toMoneyDTO(g.Gross),
			Expenses:  toMoneyDTO(g.Expenses),
			Net:       toMoneyDTO(g.Net),
			Count:     g.Count,
		})
	}
	return dto
}

type averagesDTO struct {
	GrossCents    float64 `json:"grossCents"`
	ExpensesCents float64 `json:"expensesCents"`
	NetCents      float64 `json:"netCents"`
}

type dayExtremeDTO struct {
	Date      core.Date `json:"date"`
	DayOfWeek string    `json:"dayOfWeek"`
	Gross     moneyDTO  `json:"gross"`
	Expenses  moneyDTO  `json:"expenses"`
	Net       moneyDTO  `json:"net"`
}

type userStatsDTO struct {
	TotalEntries  int            `json:"totalEntries"`
	TotalGross    moneyDTO       `json:"totalGross"`
	TotalExpenses moneyDTO       `json:"totalExpenses"`
	TotalNet      moneyDTO       `json:"totalNet"`
	Averages      averagesDTO    `json:"averages"`
	BestDay       *dayExtremeDTO `json:"bestDay"`
	WorstDay      *dayExtremeDTO `json:"worstDay"`
}

func toUserStatsDTO(st report.UserStats) userStatsDTO {
	dto := userStatsDTO{
		TotalEntries:  st.Totals.Entries,
		TotalGross:    toMoneyDTO(st.Totals.Gross),
		TotalExpenses: toMoneyDTO(st.Totals.Expenses),
		TotalNet:      toMoneyDTO(st.Totals.Net),
		Averages: averagesDTO{
			GrossCents:    st.Averages.GrossCents,
			ExpensesCents: st.Averages.ExpensesCents,
			NetCents:      st.Averages.NetCents,
		},
	}
	dto.BestDay = toDayExtremeDTO(st.BestDay)
	dto.WorstDay = toDayExtremeDTO(st.WorstDay)
	return dto
}

func toDayExtremeDTO(x *report.DayExtreme) *dayExtremeDTO {
	if x == nil {
		return nil
	}
	return &dayExtremeDTO{
		Date:      x.Date,
		DayOfWeek: x.DayOfWeek,
		Gross:     toMoneyDTO(x.Gross),
		Expenses:  toMoneyDTO(x.Expenses),
		Net:       toMoneyDTO(x.Net),
	}
}

type dayReportDTO struct {
	Date          core.Date  `json:"date"`
	TotalGross    moneyDTO   `json:"totalGross"`
	TotalExpenses moneyDTO   `json:"totalExpenses"`
	TotalNet      moneyDTO   `json:"totalNet"`
	Description   string     `json:"description"`
	EntriesCount  int        `json:"entriesCount"`
	Entries       []entryDTO `json:"entries"`
}

func toDayReportDTO(r *report.DayReport) dayReportDTO {
	return dayReportDTO{
		Date:          r.Date,
		TotalGross:    toMoneyDTO(r.TotalGross),
		TotalExpenses: toMoneyDTO(r.TotalExpenses),
		TotalNet:      toMoneyDTO(r.TotalNet),
		Description:   r.Description,
		EntriesCount:  r.EntriesCount,
		Entries:       toEntryDTOs(r.Entries),
	}
}

type daySummaryDTO struct {
	Date               core.Date `json:"date"`
	DayOfWeek          string    `json:"dayOfWeek"`
	DayOfWeekShort     string    `json:"dayOfWeekShort"`
	TotalGross         moneyDTO  `json:"totalGross"`
	TotalExpenses      moneyDTO  `json:"totalExpenses"`
	TotalNet           moneyDTO  `json:"totalNet"`
	EntriesCount       int       `json:"entriesCount"`
	HasEntries         bool      `json:"hasEntries"`
	PreviewDescription string    `json:"previewDescription"`
}

func toDaySummaryDTOs(rows []report.DaySummary) []daySummaryDTO {
	out := make([]daySummaryDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, daySummaryDTO{
			Date:               d.Date,
			DayOfWeek:          d.DayOfWeek,
			DayOfWeekShort:     d.DayOfWeekShort,
			TotalGross:         toMoneyDTO(d.TotalGross),
			TotalExpenses:      toMoneyDTO(d.TotalExpenses),
			TotalNet:           toMoneyDTO(d.TotalNet),
			EntriesCount:       d.EntriesCount,
			HasEntries:         d.HasEntries,
			PreviewDescription: d.PreviewDescription,
		})
	}
	return out
}
