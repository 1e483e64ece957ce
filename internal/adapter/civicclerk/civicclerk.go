// Package civicclerk handles CivicClerk portals. Their event pages are a
// hydrated single-page app, so DOM access goes through render.Renderer; the
// link scoring and the plainText file-stream endpoint rewrite are plain Go
// and carry the useful logic.
package civicclerk

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/human83/meetingwatch/internal/adapter"
	"github.com/human83/meetingwatch/internal/meeting"
	"github.com/human83/meetingwatch/internal/normalize"
	"github.com/human83/meetingwatch/internal/render"
)

var (
	eventLinkRe   = regexp.MustCompile(`(?i)/event/|/meeting/`)
	agendaFileRe  = regexp.MustCompile(`(?i)/files/agenda/(\d+)`)
	streamParamRe = regexp.MustCompile(`(?i)GetMeetingFileStream`)
	// Event pages show "Tuesday, October 22, 2025 6:00 PM" style lines.
	eventDateRe  = regexp.MustCompile(`(?i)(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday),\s+\w+\s+\d{1,2},\s+\d{4}`)
	agendaTextRe = regexp.MustCompile(`(?i)\bagenda\b`)
)

type Config struct {
	Name         string
	Organization string
	MeetingType  string
	EntryURLs    []string
	Timeout      time.Duration
}

type Adapter struct {
	cfg        Config
	renderer   render.Renderer
	summarizer adapter.AgendaSummarizer
}

func New(cfg Config, renderer render.Renderer, summarizer adapter.AgendaSummarizer) (*Adapter, error) {
	if renderer == nil {
		return nil, fmt.Errorf("civicclerk: renderer required")
	}
	if len(cfg.EntryURLs) == 0 {
		return nil, fmt.Errorf("civicclerk: entry URLs required")
	}
	return &Adapter{cfg: cfg, renderer: renderer, summarizer: summarizer}, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Meetings(ctx context.Context) ([]meeting.Record, error) {
	links := a.eventLinks(ctx)
	var records []meeting.Record
	seen := map[string]bool{}
	for _, eventURL := range links {
		snap, err := a.renderer.Render(ctx, eventURL)
		if err != nil {
			log.Warn().Err(err).Str("url", eventURL).Msg("civicclerk event render failed")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
		if err != nil {
			continue
		}

		title := eventTitle(doc)
		dateISO, clock, ok := eventDateTime(doc)
		if !ok {
			// No parseable date on the page: skip the event entirely.
			log.Debug().Str("url", eventURL).Msg("civicclerk: no parseable event date")
			continue
		}
		if !meeting.IsFuture(dateISO) {
			continue
		}
		dedup := title + "|" + dateISO + "|" + clock
		if seen[dedup] {
			continue
		}
		seen[dedup] = true

		agendaURL := BestAgendaLink(doc, snap.URL)
		status := meeting.StatusNoAgendaYet
		var bullets []string
		if agendaURL != "" {
			status = meeting.StatusScheduled
			// The plaintext stream bypasses PDF parsing entirely when the
			// portal supports it; the fetcher accepts either form.
			target := agendaURL
			if pt, ok := PlainTextEndpoint(agendaURL); ok {
				target = pt
			}
			if a.summarizer != nil {
				bullets = a.summarizer.Bullets(ctx, target)
			}
		}

		meetingType := a.cfg.MeetingType
		if meetingType == "" {
			meetingType = title
		}
		records = append(records, meeting.New(a.cfg.Organization, meetingType, dateISO, clock, status, "", agendaURL, bullets, eventURL))
	}
	return records, nil
}

func (a *Adapter) eventLinks(ctx context.Context) []string {
	found := map[string]bool{}
	for _, entry := range a.cfg.EntryURLs {
		snap, err := a.renderer.Render(ctx, entry)
		if err != nil {
			log.Warn().Err(err).Str("url", entry).Msg("civicclerk listing render failed")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
		if err != nil {
			continue
		}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href := resolve(snap.URL, sel.AttrOr("href", ""))
			if href != "" && eventLinkRe.MatchString(href) {
				found[href] = true
			}
		})
	}
	links := make([]string, 0, len(found))
	for l := range found {
		links = append(links, l)
	}
	sort.Strings(links)
	return links
}

// BestAgendaLink scores every anchor on an event page: "agenda" in the link
// text and an agenda file path each weigh heavily, a bare .pdf suffix weighs a
// little. Ties break on URL order for determinism.
func BestAgendaLink(doc *goquery.Document, baseURL string) string {
	type scored struct {
		score int
		href  string
	}
	var candidates []scored
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := resolve(baseURL, sel.AttrOr("href", ""))
		if href == "" {
			return
		}
		text := normalize.CollapseSpace(sel.Text())
		score := 0
		if agendaTextRe.MatchString(text) {
			score += 5
		}
		if agendaFileRe.MatchString(href) || streamParamRe.MatchString(href) {
			score += 5
		}
		if strings.HasSuffix(strings.ToLower(href), ".pdf") {
			score++
		}
		if score > 0 {
			candidates = append(candidates, scored{score, href})
		}
	})
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].href < candidates[j].href
	})
	return candidates[0].href
}

// PlainTextEndpoint rewrites an agenda URL into the portal's plaintext file
// stream, which skips PDF extraction. It handles /files/agenda/<id> paths and
// existing GetMeetingFileStream URLs; anything else returns ok=false.
func PlainTextEndpoint(agendaURL string) (string, bool) {
	if m := agendaFileRe.FindStringSubmatch(agendaURL); m != nil {
		u, err := url.Parse(agendaURL)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%s://%s/WebAPI/MeetingFile/GetMeetingFileStream?fileId=%s&plainText=true", u.Scheme, u.Host, m[1]), true
	}
	if streamParamRe.MatchString(agendaURL) {
		u, err := url.Parse(agendaURL)
		if err != nil {
			return "", false
		}
		q := u.Query()
		q.Set("plainText", "true")
		u.RawQuery = q.Encode()
		return u.String(), true
	}
	return "", false
}

func eventTitle(doc *goquery.Document) string {
	for _, sel := range []string{"h1", "h2", "header h1", "header h2"} {
		t := normalize.CollapseSpace(doc.Find(sel).First().Text())
		if t != "" {
			return t
		}
	}
	return ""
}

func eventDateTime(doc *goquery.Document) (string, string, bool) {
	text := doc.Text()
	m := eventDateRe.FindString(text)
	if m == "" {
		return "", "", false
	}
	dateISO, err := meeting.ParseDate(m)
	if err != nil {
		return "", "", false
	}
	return dateISO, meeting.ParseClock(text), true
}

func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	r, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := b.ResolveReference(r)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
