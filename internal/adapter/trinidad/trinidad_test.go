package trinidad

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/human83/meetingwatch/internal/meeting"
)

type stubSummarizer struct{ bullets []string }

func (s stubSummarizer) Bullets(context.Context, string) []string { return s.bullets }

func calendarHandler(t *testing.T) http.Handler {
	t.Helper()
	list := `<html><body>
<a href="calendar.php?view=day&month=11&day=05&year=2099&calendar=&id=845">City Council Regular Meeting</a>
<a href="calendar.php?view=day&month=11&day=05&year=2099&calendar=&id=845">City Council Regular Meeting</a>
<a href="calendar.php?view=day&month=11&day=12&year=2099&calendar=&id=850">Planning Commission</a>
<a href="calendar.php?view=day&month=3&day=05&year=2001&calendar=&id=12">City Council Regular Meeting</a>
<a href="calendar.php?view=month&id=9">City Council Regular Meeting</a>
</body></html>`
	day := `<html><body>
<h1>City Council Regular Meeting</h1>
<p>6:00 PM - 8:00 PM</p>
<p>City Hall, 135 N Animas St</p>
<a href="/docs/agenda-2099-11-05.pdf">Agenda</a>
</body></html>`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("view") {
		case "day":
			fmt.Fprint(w, day)
		default:
			fmt.Fprint(w, list)
		}
	})
}

func TestMeetings_DayViewEnrichment(t *testing.T) {
	srv := httptest.NewServer(calendarHandler(t))
	defer srv.Close()

	a, err := New(Config{
		Name:         "trinidad",
		BaseURL:      srv.URL + "/calendar.php",
		Organization: "City of Trinidad",
		MeetingType:  "City Council Regular Meeting",
		MonthsAhead:  1,
	}, stubSummarizer{bullets: []string{"Resolution 2099-8 water rates"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := a.Meetings(context.Background())
	if err != nil {
		t.Fatalf("Meetings: %v", err)
	}
	// Duplicate day link deduplicated, off-title and past rows skipped.
	if len(got) != 1 {
		t.Fatalf("expected one record, got %d: %+v", len(got), got)
	}
	rec := got[0]
	if rec.Date != "2099-11-05" {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.StartTimeLocal != "6:00 PM" {
		t.Errorf("start time = %q", rec.StartTimeLocal)
	}
	if rec.Status != meeting.StatusScheduled {
		t.Errorf("status = %q", rec.Status)
	}
	if !strings.HasSuffix(rec.AgendaURL, "/docs/agenda-2099-11-05.pdf") {
		t.Errorf("agenda url = %q", rec.AgendaURL)
	}
	if !strings.HasPrefix(rec.Location, "City Hall, 135 N Animas St") {
		t.Errorf("location = %q", rec.Location)
	}
	if len(rec.AgendaSummary) != 1 {
		t.Errorf("summary = %v", rec.AgendaSummary)
	}
}

func TestMeetings_DayViewWithoutAgenda(t *testing.T) {
	list := `<html><body>
<a href="calendar.php?view=day&month=6&day=20&year=2099&calendar=&id=7">City Council Regular Meeting</a>
</body></html>`
	day := `<html><body><h1>City Council Regular Meeting</h1></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("view") == "day" {
			fmt.Fprint(w, day)
			return
		}
		fmt.Fprint(w, list)
	}))
	defer srv.Close()

	a, err := New(Config{Name: "trinidad", BaseURL: srv.URL + "/calendar.php", MonthsAhead: 1}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := a.Meetings(context.Background())
	if err != nil {
		t.Fatalf("Meetings: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one record, got %d", len(got))
	}
	rec := got[0]
	if rec.Status != meeting.StatusNoAgendaYet {
		t.Errorf("status = %q", rec.Status)
	}
	if rec.StartTimeLocal != meeting.TimeTBD {
		t.Errorf("start time = %q", rec.StartTimeLocal)
	}
	if rec.AgendaURL != "" {
		t.Errorf("agenda url = %q", rec.AgendaURL)
	}
}

func TestDateFromDayHref(t *testing.T) {
	cases := []struct {
		href string
		want string
		ok   bool
	}{
		{"calendar.php?view=day&month=11&day=05&year=2025&calendar=&id=845", "2025-11-05", true},
		{"calendar.php?view=day&month=3&day=7&year=2026&id=1", "2026-03-07", true},
		{"calendar.php?view=day&id=845", "", false},
		{"calendar.php?view=day&month=13&day=05&year=2025&id=845", "", false},
		{"calendar.php?view=day&month=11&day=40&year=2025&id=845", "", false},
	}
	for _, tc := range cases {
		got, ok := dateFromDayHref(tc.href)
		if got != tc.want || ok != tc.ok {
			t.Errorf("dateFromDayHref(%q) = %q, %v; want %q, %v", tc.href, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	if _, err := New(Config{Name: "trinidad"}, nil); err == nil {
		t.Fatal("empty base URL must fail")
	}
	if _, err := New(Config{Name: "trinidad", BaseURL: "://calendar.php"}, nil); err == nil {
		t.Fatal("unparseable base URL must fail")
	}
}

func TestMonthURL(t *testing.T) {
	a, err := New(Config{Name: "trinidad", BaseURL: "https://example.gov/calendar.php", CalendarID: "22"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	u := a.monthURL(2026, 3)
	for _, part := range []string{"view=list", "month=3", "year=2026", "calendar=22"} {
		if !strings.Contains(u, part) {
			t.Errorf("month URL %q missing %q", u, part)
		}
	}
}
