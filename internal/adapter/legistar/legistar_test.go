package legistar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/human83/meetingwatch/internal/meeting"
)

type stubSummarizer struct {
	urls    []string
	bullets []string
}

func (s *stubSummarizer) Bullets(_ context.Context, url string) []string {
	s.urls = append(s.urls, url)
	return s.bullets
}

func intp(n int) *int { return &n }

func eventsJSON() string {
	return `[
  {"EventBodyName":"City Council","EventMeetingTypeName":"Regular Meeting",
   "EventDate":"2099-11-05T00:00:00","EventTime":570,
   "EventLocation":"City Hall,  107 N Nevada Ave",
   "EventAgendaFile":"https://legistar.example/agenda/123.pdf"},
  {"EventBodyName":"City Council Work Session","EventMeetingTypeName":"Work Session",
   "EventDate":"2099-11-12T00:00:00","EventTime":null,
   "EventLocation":"","EventAgendaFile":""},
  {"EventBodyName":"Planning Commission","EventMeetingTypeName":"Regular Meeting",
   "EventDate":"2099-11-19T00:00:00","EventTime":540,
   "EventLocation":"","EventAgendaFile":""},
  {"EventBodyName":"City Council","EventMeetingTypeName":"Regular Meeting",
   "EventDate":"2001-01-05T00:00:00","EventTime":570,
   "EventLocation":"","EventAgendaFile":""},
  {"EventBodyName":"City Council","EventMeetingTypeName":"Regular Meeting",
   "EventDate":"","EventTime":570,"EventLocation":"","EventAgendaFile":""}
]`
}

func TestMeetings_FilterAndMap(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, eventsJSON())
	}))
	defer srv.Close()

	sum := &stubSummarizer{bullets: []string{"Ordinance 2099-1 annexation"}}
	a, err := New(Config{
		Name:         "cos-council",
		BaseURL:      srv.URL,
		Organization: "Colorado Springs — City Council",
		BodyContains: "council",
		SourceURL:    "https://coloradosprings.legistar.com/Calendar.aspx",
	}, sum)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := a.Meetings(context.Background())
	if err != nil {
		t.Fatalf("Meetings: %v", err)
	}
	// Planning Commission filtered, past and dateless events skipped.
	if len(got) != 2 {
		t.Fatalf("expected two records, got %d: %+v", len(got), got)
	}

	rec := got[0]
	if rec.Date != "2099-11-05" {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.StartTimeLocal != "9:30 AM" {
		t.Errorf("start time = %q", rec.StartTimeLocal)
	}
	if rec.Status != meeting.StatusScheduled {
		t.Errorf("status = %q", rec.Status)
	}
	if rec.MeetingType != "Regular Meeting" {
		t.Errorf("meeting type = %q", rec.MeetingType)
	}
	if rec.Location != "City Hall, 107 N Nevada Ave" {
		t.Errorf("location = %q", rec.Location)
	}
	if rec.Source != "https://coloradosprings.legistar.com/Calendar.aspx" {
		t.Errorf("source = %q", rec.Source)
	}
	if len(sum.urls) != 1 || sum.urls[0] != "https://legistar.example/agenda/123.pdf" {
		t.Errorf("summarizer called with %v", sum.urls)
	}

	noAgenda := got[1]
	if noAgenda.Status != meeting.StatusNoAgendaYet {
		t.Errorf("status = %q", noAgenda.Status)
	}
	if noAgenda.StartTimeLocal != meeting.TimeTBD {
		t.Errorf("null EventTime should map to TBD, got %q", noAgenda.StartTimeLocal)
	}

	for _, part := range []string{"EventDate+ge+datetime", "%24orderby=EventDate+asc", "%24top=200"} {
		if !strings.Contains(gotQuery, part) {
			t.Errorf("query %q missing %q", gotQuery, part)
		}
	}
}

func TestMeetings_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad $filter", http.StatusBadRequest)
	}))
	defer srv.Close()

	a, err := New(Config{Name: "cos", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Meetings(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	} else if !strings.Contains(err.Error(), "bad $filter") {
		t.Fatalf("error should carry the response snippet, got %v", err)
	}
}

func TestClockFromMinutes(t *testing.T) {
	cases := []struct {
		in   *int
		want string
	}{
		{intp(0), "12:00 AM"},
		{intp(540), "9:00 AM"},
		{intp(570), "9:30 AM"},
		{intp(720), "12:00 PM"},
		{intp(780), "1:00 PM"},
		{intp(1439), "11:59 PM"},
		{intp(1440), "Time TBD"},
		{intp(-5), "Time TBD"},
		{nil, "Time TBD"},
	}
	for _, c := range cases {
		if got := clockFromMinutes(c.in); got != c.want {
			t.Errorf("clockFromMinutes(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDatePart(t *testing.T) {
	if d, ok := datePart("2025-11-05T00:00:00"); !ok || d != "2025-11-05" {
		t.Fatalf("got %q, %v", d, ok)
	}
	for _, raw := range []string{"", "garbage", "2025-13-05T00:00:00"} {
		if d, ok := datePart(raw); ok {
			t.Errorf("datePart(%q) = %q, want rejection", raw, d)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Name: "x"}, nil); err == nil {
		t.Fatal("missing base URL must fail")
	}
	if _, err := New(Config{Name: "x", BaseURL: "://events"}, nil); err == nil {
		t.Fatal("unparseable base URL must fail")
	}
}
