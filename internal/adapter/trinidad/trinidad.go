// Package trinidad scrapes the server-rendered calendar.php portal used by
// the City of Trinidad: month list views link day views whose query string
// carries the event date, and the day view holds the time range and any
// agenda PDF.
package trinidad

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/human83/meetingwatch/internal/adapter"
	"github.com/human83/meetingwatch/internal/meeting"
	"github.com/human83/meetingwatch/internal/normalize"
)

var timeRangeRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[AP]M)\s*[-–]\s*\d{1,2}:\d{2}\s*[AP]M`)

var venueRe = regexp.MustCompile(`(?i)(city hall[^\n]*|council chambers[^\n]*)`)

type Config struct {
	Name         string
	BaseURL      string // e.g. https://www.trinidad.co.gov/calendar.php
	CalendarID   string
	Organization string
	MeetingType  string
	// TitleContains filters events by listing title, case-insensitive.
	TitleContains string
	MonthsAhead   int
	UserAgent     string
	Timeout       time.Duration
}

type Adapter struct {
	cfg        Config
	client     *http.Client
	summarizer adapter.AgendaSummarizer
}

func New(cfg Config, summarizer adapter.AgendaSummarizer) (*Adapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("trinidad: base URL required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("trinidad: base URL: %w", err)
	}
	if cfg.MonthsAhead <= 0 {
		cfg.MonthsAhead = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TitleContains == "" {
		cfg.TitleContains = "city council regular meeting"
	}
	return &Adapter{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, summarizer: summarizer}, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Meetings(ctx context.Context) ([]meeting.Record, error) {
	now := time.Now().In(meeting.Zone())
	year, month := now.Year(), int(now.Month())

	var records []meeting.Record
	seen := map[string]bool{}
	for i := 0; i < a.cfg.MonthsAhead; i++ {
		listURL := a.monthURL(year, month)
		doc, err := a.get(ctx, listURL)
		if err != nil {
			log.Warn().Err(err).Str("url", listURL).Msg("trinidad month fetch failed")
		} else {
			a.collectMonth(ctx, doc, seen, &records)
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return records, nil
}

func (a *Adapter) collectMonth(ctx context.Context, doc *goquery.Document, seen map[string]bool, records *[]meeting.Record) {
	doc.Find(`a[href*="view=day"][href*="id="]`).Each(func(_ int, sel *goquery.Selection) {
		title := normalize.CollapseSpace(sel.Text())
		if !strings.Contains(strings.ToLower(title), strings.ToLower(a.cfg.TitleContains)) {
			return
		}
		href := sel.AttrOr("href", "")
		dateISO, ok := dateFromDayHref(href)
		if !ok {
			// The day-view query string is the only date source; skip.
			log.Debug().Str("href", href).Msg("trinidad: day href without parseable date")
			return
		}
		if !meeting.IsFuture(dateISO) || seen[dateISO] {
			return
		}
		seen[dateISO] = true

		dayURL := a.resolve(href)
		*records = append(*records, a.dayRecord(ctx, dayURL, dateISO))
	})
}

func (a *Adapter) dayRecord(ctx context.Context, dayURL, dateISO string) meeting.Record {
	clock := meeting.TimeTBD
	agendaURL := ""
	location := ""

	if doc, err := a.get(ctx, dayURL); err == nil {
		text := doc.Text()
		if m := timeRangeRe.FindStringSubmatch(text); m != nil {
			clock = meeting.ParseClock(m[1])
		} else {
			clock = meeting.ParseClock(text)
		}
		doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			h := sel.AttrOr("href", "")
			if strings.Contains(strings.ToLower(h), ".pdf") {
				agendaURL = a.resolve(h)
				return false
			}
			return true
		})
		if m := venueRe.FindString(text); m != "" {
			location = normalize.Truncate(normalize.CollapseSpace(m), 200)
		}
	} else {
		log.Warn().Err(err).Str("url", dayURL).Msg("trinidad day fetch failed")
	}

	status := meeting.StatusNoAgendaYet
	var bullets []string
	if agendaURL != "" {
		status = meeting.StatusScheduled
		if a.summarizer != nil {
			bullets = a.summarizer.Bullets(ctx, agendaURL)
		}
	}
	return meeting.New(a.cfg.Organization, a.cfg.MeetingType, dateISO, clock, status, location, agendaURL, bullets, dayURL)
}

// dateFromDayHref pulls the date out of a day-view link such as
// calendar.php?view=day&month=11&day=05&year=2025&calendar=&id=845.
func dateFromDayHref(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	q := u.Query()
	year, err1 := strconv.Atoi(q.Get("year"))
	month, err2 := strconv.Atoi(q.Get("month"))
	day, err3 := strconv.Atoi(q.Get("day"))
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func (a *Adapter) monthURL(year, month int) string {
	u, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return a.cfg.BaseURL
	}
	q := u.Query()
	q.Set("view", "list")
	q.Set("month", strconv.Itoa(month))
	q.Set("day", "1")
	q.Set("year", strconv.Itoa(year))
	q.Set("calendar", a.cfg.CalendarID)
	u.RawQuery = q.Encode()
	return u.String()
}

func (a *Adapter) get(ctx context.Context, u string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if a.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", a.cfg.UserAgent)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func (a *Adapter) resolve(href string) string {
	base, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
