package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"diaria/internal/services"
	"diaria/internal/storage/memory"
)

const testToken = "test-token"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo := memory.New()
	users := services.NewUserService(repo)
	entries := services.NewEntryService(repo, nil)
	reports := services.NewReportService(repo)
	s := NewServer(":0", testToken, users, entries, reports, repo)
	t.Cleanup(func() {
		if err := s.Shutdown(context.Background()); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	})
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createTestUser(t *testing.T, s *Server, email string) string {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/users",
		fmt.Sprintf(`{"email":%q,"name":"Maria","password":"secret1"}`, email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var u struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &u)
	return u.ID
}

func createTestEntry(t *testing.T, s *Server, userID, date, gross, expenses, desc string) string {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/entries",
		fmt.Sprintf(`{"userId":%q,"date":%q,"gross":%s,"expenses":%s,"description":%q}`,
			userID, date, gross, expenses, desc))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var e struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &e)
	return e.ID
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"wrong token", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("got status %d, want 401", rec.Code)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			decodeBody(t, rec, &body)
			if body.Error.Code != codeUnauthorized {
				t.Errorf("got error code %q, want %q", body.Error.Code, codeUnauthorized)
			}
		})
	}
}

func TestAuthSchemeCaseInsensitive(t *testing.T) {
	s := newTestServer(t)

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		t.Run(scheme, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", scheme+" "+testToken)
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("got status %d, want 200", rec.Code)
			}
		})
	}
}

func TestHealthEndpointsSkipAuth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got status %d, want 200", path, rec.Code)
		}
	}
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t)

	id := createTestUser(t, s, "maria@example.com")

	rec := doRequest(t, s, http.MethodGet, "/api/users/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: got status %d", rec.Code)
	}
	var u userDTO
	decodeBody(t, rec, &u)
	if u.Email != "maria@example.com" {
		t.Errorf("got email %q", u.Email)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/users/email/maria@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get by email: got status %d", rec.Code)
	}

	// Password must never leak over the API.
	if strings.Contains(rec.Body.String(), "secret1") || strings.Contains(rec.Body.String(), "password") {
		t.Error("response exposes the password field")
	}

	rec = doRequest(t, s, http.MethodPost, "/api/users",
		`{"email":"maria@example.com","name":"Other","password":"secret2"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate email: got status %d, want 409", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/users/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: got status %d, want 404", rec.Code)
	}

	// Listing returns the newest registration first.
	createTestUser(t, s, "joana@example.com")
	rec = doRequest(t, s, http.MethodGet, "/api/users", "")
	var listed struct {
		Users []userDTO `json:"users"`
		Total int       `json:"total"`
	}
	decodeBody(t, rec, &listed)
	if listed.Total != 2 || len(listed.Users) != 2 {
		t.Fatalf("got total %d, %d users", listed.Total, len(listed.Users))
	}
	if listed.Users[0].Email != "joana@example.com" || listed.Users[1].Email != "maria@example.com" {
		t.Errorf("got order %q, %q; want newest first", listed.Users[0].Email, listed.Users[1].Email)
	}
}

func TestCreateUserValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/users",
		`{"email":"x@example.com","name":"X","password":"1234"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("short password: got status %d, want 422", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/users", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: got status %d, want 400", rec.Code)
	}
}

func TestEntryLifecycle(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")

	// 2024-05-06 is a Monday.
	rec := doRequest(t, s, http.MethodPost, "/api/entries",
		fmt.Sprintf(`{"userId":%q,"date":"2024-05-06","gross":100.00,"expenses":20.00,"description":"feira"}`, userID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var e entryDTO
	decodeBody(t, rec, &e)
	if e.DayOfWeek != "segunda" {
		t.Errorf("got dayOfWeek %q, want segunda", e.DayOfWeek)
	}
	if e.Gross.Cents != 10000 || e.Expenses.Cents != 2000 || e.Net.Cents != 8000 {
		t.Errorf("got amounts %d/%d/%d", e.Gross.Cents, e.Expenses.Cents, e.Net.Cents)
	}
	if e.Net.Formatted != "80.00" {
		t.Errorf("got formatted net %q", e.Net.Formatted)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/entries/"+e.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got status %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPatch, "/api/entries/"+e.ID, `{"gross":150.00}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var updated entryDTO
	decodeBody(t, rec, &updated)
	if updated.Gross.Cents != 15000 || updated.Net.Cents != 13000 {
		t.Errorf("patch did not recompute net: %d/%d", updated.Gross.Cents, updated.Net.Cents)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/entries/"+e.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: got status %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodGet, "/api/entries/"+e.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got status %d, want 404", rec.Code)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			"unknown user",
			`{"userId":"missing","date":"2024-05-06","gross":10.00,"expenses":0}`,
			http.StatusNotFound,
		},
		{
			"bad date",
			fmt.Sprintf(`{"userId":%q,"date":"06/05/2024","gross":10.00,"expenses":0}`, userID),
			http.StatusBadRequest,
		},
		{
			"negative gross",
			fmt.Sprintf(`{"userId":%q,"date":"2024-05-06","gross":-10.00,"expenses":0}`, userID),
			http.StatusUnprocessableEntity,
		},
		{
			"too many decimals",
			fmt.Sprintf(`{"userId":%q,"date":"2024-05-06","gross":10.123,"expenses":0}`, userID),
			http.StatusCreated, // sub-cent digits round half-up
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/entries", tt.body)
			if rec.Code != tt.want {
				t.Errorf("got status %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestListEntriesPagination(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	for day := 1; day <= 5; day++ {
		createTestEntry(t, s, userID, fmt.Sprintf("2024-05-%02d", day), "10.00", "1.00", "")
	}

	rec := doRequest(t, s, http.MethodGet, "/api/entries?userId="+userID+"&skip=1&take=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got status %d", rec.Code)
	}
	var out struct {
		Entries []entryDTO `json:"entries"`
		Total   int        `json:"total"`
		Skip    int        `json:"skip"`
		Take    int        `json:"take"`
	}
	decodeBody(t, rec, &out)
	if out.Total != 5 || len(out.Entries) != 2 || out.Skip != 1 || out.Take != 2 {
		t.Errorf("got total=%d len=%d skip=%d take=%d", out.Total, len(out.Entries), out.Skip, out.Take)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/entries", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing userId: got status %d, want 400", rec.Code)
	}
}

func TestWeeklyReport(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	// Monday and Tuesday of the same week.
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "feira")
	createTestEntry(t, s, userID, "2024-05-07", "50.00", "10.00", "")

	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/weekly?userId="+userID+"&start=2024-05-06&end=2024-05-12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var out periodSummaryDTO
	decodeBody(t, rec, &out)
	if out.TotalGross.Cents != 15000 || out.TotalExp.Cents != 3000 || out.TotalNet.Cents != 12000 {
		t.Errorf("got totals %d/%d/%d", out.TotalGross.Cents, out.TotalExp.Cents, out.TotalNet.Cents)
	}
	if out.DaysCount != 2 {
		t.Errorf("got daysCount %d, want 2", out.DaysCount)
	}
	if len(out.ByDayOfWeek) != 2 || out.ByDayOfWeek[0].DayOfWeek != "segunda" || out.ByDayOfWeek[1].DayOfWeek != "terça" {
		t.Errorf("got groups %+v", out.ByDayOfWeek)
	}
}

func TestMonthlyReportAndCacheInvalidation(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "")

	path := "/api/reports/monthly?userId=" + userID + "&year=2024&month=5"

	rec := doRequest(t, s, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var first periodSummaryDTO
	decodeBody(t, rec, &first)
	if first.TotalNet.Cents != 8000 {
		t.Fatalf("got net %d, want 8000", first.TotalNet.Cents)
	}
	if first.Start.String() != "2024-05-01" || first.End.String() != "2024-05-31" {
		t.Errorf("got period %s..%s", first.Start, first.End)
	}

	// A new entry must invalidate the cached report.
	createTestEntry(t, s, userID, "2024-05-07", "50.00", "10.00", "")
	rec = doRequest(t, s, http.MethodGet, path, "")
	var second periodSummaryDTO
	decodeBody(t, rec, &second)
	if second.TotalNet.Cents != 12000 {
		t.Errorf("got net %d after new entry, want 12000", second.TotalNet.Cents)
	}
}

func TestReportParamValidation(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")

	tests := []struct {
		name string
		path string
	}{
		{"month too large", "/api/reports/monthly?userId=" + userID + "&year=2024&month=13"},
		{"month zero", "/api/reports/monthly?userId=" + userID + "&year=2024&month=0"},
		{"year out of range", "/api/reports/monthly?userId=" + userID + "&year=123&month=5"},
		{"month not a number", "/api/reports/monthly?userId=" + userID + "&year=2024&month=may"},
		{"missing year", "/api/reports/monthly?userId=" + userID + "&month=5"},
		{"days over cap", "/api/reports/recent/summary?userId=" + userID + "&days=100"},
		{"limit over cap", "/api/reports/recent/" + userID + "?limit=1000"},
		{"take over cap", "/api/entries?userId=" + userID + "&take=1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}

	// Parse failures name the offending parameter instead of a generic
	// "required" message.
	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/monthly?userId="+userID+"&year=2024&month=13", "")
	if !strings.Contains(rec.Body.String(), "month") {
		t.Errorf("error message does not mention the parameter: %s", rec.Body.String())
	}
}

func TestByDayReport(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "")
	createTestEntry(t, s, userID, "2024-05-13", "50.00", "10.00", "")

	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/by-day/"+userID+"?year=2024&month=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var out struct {
		Year        int               `json:"year"`
		Month       int               `json:"month"`
		ByDayOfWeek []weekdayGroupDTO `json:"byDayOfWeek"`
	}
	decodeBody(t, rec, &out)
	if out.Year != 2024 || out.Month != 5 {
		t.Errorf("got period %d-%d", out.Year, out.Month)
	}
	// Both entries fall on Mondays, so a single group accumulates them.
	if len(out.ByDayOfWeek) != 1 || out.ByDayOfWeek[0].DayOfWeek != "segunda" ||
		out.ByDayOfWeek[0].Count != 2 || out.ByDayOfWeek[0].Net.Cents != 12000 {
		t.Errorf("got groups %+v", out.ByDayOfWeek)
	}
}

func TestUserStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "")
	createTestEntry(t, s, userID, "2024-05-07", "50.00", "10.00", "")

	rec := doRequest(t, s, http.MethodGet, "/api/reports/stats/"+userID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var out userStatsDTO
	decodeBody(t, rec, &out)
	if out.TotalEntries != 2 {
		t.Errorf("got totalEntries %d", out.TotalEntries)
	}
	if out.BestDay == nil || out.BestDay.Net.Cents != 8000 || out.BestDay.DayOfWeek != "segunda" {
		t.Errorf("got bestDay %+v", out.BestDay)
	}
	if out.WorstDay == nil || out.WorstDay.Net.Cents != 4000 {
		t.Errorf("got worstDay %+v", out.WorstDay)
	}
	if out.Averages.NetCents != 6000 {
		t.Errorf("got average net %f", out.Averages.NetCents)
	}
}

func TestFilteredStatsBoundsOptional(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "")
	createTestEntry(t, s, userID, "2024-06-10", "50.00", "10.00", "")

	// Both bounds present: the range applies.
	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/stats/"+userID+"/filtered?startDate=2024-05-01&endDate=2024-05-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var filtered userStatsDTO
	decodeBody(t, rec, &filtered)
	if filtered.TotalEntries != 1 || filtered.TotalNet.Cents != 8000 {
		t.Errorf("got filtered %d entries, net %d", filtered.TotalEntries, filtered.TotalNet.Cents)
	}

	// A missing bound drops the filter entirely.
	for _, path := range []string{
		"/api/reports/stats/" + userID + "/filtered",
		"/api/reports/stats/" + userID + "/filtered?startDate=2024-05-01",
		"/api/reports/stats/" + userID + "/filtered?endDate=2024-05-31",
	} {
		rec := doRequest(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: got status %d", path, rec.Code)
		}
		var all userStatsDTO
		decodeBody(t, rec, &all)
		if all.TotalEntries != 2 || all.TotalNet.Cents != 12000 {
			t.Errorf("%s: got %d entries, net %d, want unfiltered 2/12000",
				path, all.TotalEntries, all.TotalNet.Cents)
		}
	}
}

func TestDayDetailsEndpoint(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "feira")

	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/day/details?userId="+userID+"&date=2024-05-06", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var out dayReportDTO
	decodeBody(t, rec, &out)
	if out.TotalNet.Cents != 8000 || out.EntriesCount != 1 || out.Description != "feira" {
		t.Errorf("got %+v", out)
	}

	rec = doRequest(t, s, http.MethodGet,
		"/api/reports/day/details?userId="+userID+"&date=2024-05-07", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty day: got status %d, want 404", rec.Code)
	}
}

func TestDayDetailsAllUsers(t *testing.T) {
	s := newTestServer(t)
	first := createTestUser(t, s, "maria@example.com")
	second := createTestUser(t, s, "joana@example.com")
	createTestEntry(t, s, first, "2024-05-06", "100.00", "20.00", "feira")
	createTestEntry(t, s, second, "2024-05-06", "50.00", "10.00", "faxina")

	// Without userId the day report spans every user.
	rec := doRequest(t, s, http.MethodGet, "/api/reports/day/details?date=2024-05-06", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var out dayReportDTO
	decodeBody(t, rec, &out)
	if out.EntriesCount != 2 || out.TotalNet.Cents != 12000 {
		t.Errorf("got %d entries, net %d", out.EntriesCount, out.TotalNet.Cents)
	}
	if out.Description != "feira, faxina" {
		t.Errorf("got description %q", out.Description)
	}
}

func TestRecentDaysAllUsers(t *testing.T) {
	s := newTestServer(t)
	first := createTestUser(t, s, "maria@example.com")
	second := createTestUser(t, s, "joana@example.com")
	createTestEntry(t, s, first, "2024-05-06", "100.00", "20.00", "")
	createTestEntry(t, s, second, "2024-05-07", "50.00", "10.00", "")

	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/recent/summary?days=2&reference=2024-05-07", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Days []daySummaryDTO `json:"days"`
	}
	decodeBody(t, rec, &out)
	if len(out.Days) != 2 || !out.Days[0].HasEntries || !out.Days[1].HasEntries {
		t.Fatalf("got rows %+v", out.Days)
	}
	if out.Days[0].TotalNet.Cents != 4000 || out.Days[1].TotalNet.Cents != 8000 {
		t.Errorf("got nets %d/%d", out.Days[0].TotalNet.Cents, out.Days[1].TotalNet.Cents)
	}
}

func TestRecentDaysEndpoint(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "100.00", "20.00", "faxina")

	rec := doRequest(t, s, http.MethodGet,
		"/api/reports/recent/summary?userId="+userID+"&days=3&reference=2024-05-07", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Days []daySummaryDTO `json:"days"`
	}
	decodeBody(t, rec, &out)
	if len(out.Days) != 3 {
		t.Fatalf("got %d rows, want 3", len(out.Days))
	}
	if out.Days[0].HasEntries || !out.Days[1].HasEntries || out.Days[2].HasEntries {
		t.Errorf("got hasEntries pattern %v/%v/%v",
			out.Days[0].HasEntries, out.Days[1].HasEntries, out.Days[2].HasEntries)
	}
	if out.Days[1].PreviewDescription != "faxina" || out.Days[1].DayOfWeekShort != "seg" {
		t.Errorf("got %+v", out.Days[1])
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/users", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("got X-Content-Type-Options %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("got X-Frame-Options %q", got)
	}
}

func TestRateLimitOnMutatingRequests(t *testing.T) {
	s := newTestServer(t)

	var limited bool
	for i := 0; i < 70; i++ {
		rec := doRequest(t, s, http.MethodPost, "/api/users", `{}`)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Errorf("got Retry-After %q", got)
			}
			break
		}
	}
	if !limited {
		t.Error("rate limiter never triggered after 70 mutating requests")
	}

	// Reads are not rate limited.
	rec := doRequest(t, s, http.MethodGet, "/api/users", "")
	if rec.Code != http.StatusOK {
		t.Errorf("read after limit: got status %d", rec.Code)
	}
}

func TestMetricsOutput(t *testing.T) {
	s := newTestServer(t)
	userID := createTestUser(t, s, "maria@example.com")
	createTestEntry(t, s, userID, "2024-05-06", "10.00", "0", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"entries_total 1",
		"rate_limit_hits_total",
		"uptime_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %q", metric)
		}
	}
}
