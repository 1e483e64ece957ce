// Package legistar reads upcoming events from a Legistar InSite web API
// tenant (webapi.legistar.com). The API is plain JSON over HTTP with OData
// query options, so no HTML parsing or rendering is involved.
package legistar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/human83/meetingwatch/internal/adapter"
	"github.com/human83/meetingwatch/internal/meeting"
	"github.com/human83/meetingwatch/internal/normalize"
)

const maxEvents = 200

type Config struct {
	Name         string
	BaseURL      string // e.g. https://webapi.legistar.com/v1/coloradosprings/events
	Organization string
	// MeetingType overrides the per-event type when set.
	MeetingType string
	// BodyContains keeps only events whose body name contains this substring,
	// case-insensitive. Empty keeps all bodies.
	BodyContains string
	// SourceURL is recorded on each emitted record; the public calendar page
	// rather than the API endpoint. Defaults to BaseURL.
	SourceURL string
	// DaysAhead bounds the query window.
	DaysAhead int
	UserAgent string
	Timeout   time.Duration
}

type Adapter struct {
	cfg        Config
	client     *http.Client
	summarizer adapter.AgendaSummarizer
}

// event mirrors the fields of the Legistar event payload this adapter reads.
// EventTime is minutes after midnight; null means no posted time.
type event struct {
	EventBodyName         string `json:"EventBodyName"`
	EventMeetingTypeName  string `json:"EventMeetingTypeName"`
	EventAgendaStatusName string `json:"EventAgendaStatusName"`
	EventDate             string `json:"EventDate"`
	EventTime             *int   `json:"EventTime"`
	EventLocation         string `json:"EventLocation"`
	EventAgendaFile       string `json:"EventAgendaFile"`
	EventAgendaURL        string `json:"EventAgendaUrl"`
}

func New(cfg Config, summarizer adapter.AgendaSummarizer) (*Adapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("legistar: base URL required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("legistar: base URL: %w", err)
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = 120
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.SourceURL == "" {
		cfg.SourceURL = cfg.BaseURL
	}
	return &Adapter{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, summarizer: summarizer}, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Meetings(ctx context.Context) ([]meeting.Record, error) {
	events, err := a.fetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("legistar events: %w", err)
	}

	var records []meeting.Record
	for _, ev := range events {
		body := strings.TrimSpace(ev.EventBodyName)
		if a.cfg.BodyContains != "" &&
			!strings.Contains(strings.ToLower(body), strings.ToLower(a.cfg.BodyContains)) {
			continue
		}

		dateISO, ok := datePart(ev.EventDate)
		if !ok {
			log.Debug().Str("adapter", a.Name()).Str("raw", ev.EventDate).Msg("skipping event without date")
			continue
		}
		if !meeting.IsFuture(dateISO) {
			continue
		}

		meetingType := a.cfg.MeetingType
		if meetingType == "" {
			meetingType = firstNonEmpty(ev.EventMeetingTypeName, ev.EventAgendaStatusName, body)
		}

		agendaURL := strings.TrimSpace(firstNonEmpty(ev.EventAgendaFile, ev.EventAgendaURL))
		status := meeting.StatusNoAgendaYet
		var bullets []string
		if agendaURL != "" {
			status = meeting.StatusScheduled
			if a.summarizer != nil {
				bullets = a.summarizer.Bullets(ctx, agendaURL)
			}
		}

		records = append(records, meeting.New(
			a.cfg.Organization,
			meetingType,
			dateISO,
			clockFromMinutes(ev.EventTime),
			status,
			normalize.Truncate(normalize.CollapseSpace(ev.EventLocation), 200),
			agendaURL,
			bullets,
			a.cfg.SourceURL,
		))
	}
	return records, nil
}

func (a *Adapter) fetchEvents(ctx context.Context) ([]event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.queryURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if a.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", a.cfg.UserAgent)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// The API returns a descriptive body when the OData filter is off.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, normalize.CollapseSpace(string(snippet)))
	}
	var events []event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// queryURL builds the OData window: today through DaysAhead, ascending, capped.
func (a *Adapter) queryURL() string {
	now := time.Now().In(meeting.Zone())
	start := now.Format("2006-01-02") + "T00:00:00"
	end := now.AddDate(0, 0, a.cfg.DaysAhead).Format("2006-01-02") + "T23:59:59"

	q := url.Values{}
	q.Set("$filter", fmt.Sprintf("EventDate ge datetime'%s' and EventDate le datetime'%s'", start, end))
	q.Set("$orderby", "EventDate asc")
	q.Set("$top", strconv.Itoa(maxEvents))

	u, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return a.cfg.BaseURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// datePart takes the civil date out of an OData datetime such as
// "2025-11-05T00:00:00".
func datePart(raw string) (string, bool) {
	d, _, _ := strings.Cut(strings.TrimSpace(raw), "T")
	if len(d) != 10 {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return "", false
	}
	return d, true
}

// clockFromMinutes renders minutes-after-midnight as "H:MM AM". Null or
// out-of-range values mean the portal has not posted a start time.
func clockFromMinutes(mins *int) string {
	if mins == nil || *mins < 0 || *mins >= 24*60 {
		return meeting.TimeTBD
	}
	h, m := *mins/60, *mins%60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, ampm)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
