// Package agendasuite scrapes AgendaSuite portals, which render meeting
// listings server-side: an "upcoming meetings" box links each detail page,
// and detail pages carry the venue and a /file/getfile/ agenda link.
package agendasuite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/human83/meetingwatch/internal/adapter"
	"github.com/human83/meetingwatch/internal/meeting"
	"github.com/human83/meetingwatch/internal/normalize"
)

// Listing rows read like "10/28/2025 at 9:00 AM for Board of County Commissioners".
var listDateTimeRe = regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{4})\s+at\s+(\d{1,2}:\d{2}\s*[AP]M)`)

var heldAtRe = regexp.MustCompile(`(?i)Held at:\s*([^\n\r]+)`)

var agendaWordRe = regexp.MustCompile(`(?i)\bagenda\b`)

// Config holds the per-portal settings, passed in at construction so that
// several AgendaSuite tenants can coexist in one process.
type Config struct {
	Name         string
	BaseURL      string
	Organization string
	MeetingType  string
	// AllowTitle keeps only listings whose text matches; empty keeps all.
	AllowTitle string
	// BlockTitle drops work-session style listings; empty blocks none.
	BlockTitle string
	UserAgent  string
	Timeout    time.Duration
}

type Adapter struct {
	cfg        Config
	allow      *regexp.Regexp
	block      *regexp.Regexp
	client     *http.Client
	summarizer adapter.AgendaSummarizer
}

func New(cfg Config, summarizer adapter.AgendaSummarizer) (*Adapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("agendasuite: base URL required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	a := &Adapter{
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Timeout},
		summarizer: summarizer,
	}
	var err error
	if cfg.AllowTitle != "" {
		if a.allow, err = regexp.Compile("(?i)" + cfg.AllowTitle); err != nil {
			return nil, fmt.Errorf("agendasuite: allow pattern: %w", err)
		}
	}
	if cfg.BlockTitle != "" {
		if a.block, err = regexp.Compile("(?i)" + cfg.BlockTitle); err != nil {
			return nil, fmt.Errorf("agendasuite: block pattern: %w", err)
		}
	}
	return a, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Meetings(ctx context.Context) ([]meeting.Record, error) {
	doc, err := a.get(ctx, a.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("agendasuite list: %w", err)
	}

	var records []meeting.Record
	doc.Find("div.nextmeetings a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := normalize.CollapseSpace(sel.Text())
		href, _ := sel.Attr("href")
		if href == "" || text == "" {
			return
		}
		if a.allow != nil && !a.allow.MatchString(text) {
			return
		}
		if a.block != nil && a.block.MatchString(text) {
			return
		}
		m := listDateTimeRe.FindStringSubmatch(text)
		if m == nil {
			return
		}
		dateISO, err := meeting.ParseDate(m[1])
		if err != nil {
			// Unparseable date: skip the row, never emit a sentinel.
			log.Debug().Str("adapter", a.Name()).Str("text", text).Msg("skipping row with unparseable date")
			return
		}
		if !meeting.IsFuture(dateISO) {
			return
		}
		detailURL := a.resolve(href)
		rec := a.detail(ctx, detailURL, dateISO, meeting.ParseClock(m[2]))
		records = append(records, rec)
	})
	return records, nil
}

// detail enriches one meeting from its detail page. Detail fetch failures
// still yield a record from the listing fields alone.
func (a *Adapter) detail(ctx context.Context, detailURL, dateISO, clock string) meeting.Record {
	meetingType := a.cfg.MeetingType
	location := ""
	agendaURL := ""

	if doc, err := a.get(ctx, detailURL); err == nil {
		if m := heldAtRe.FindStringSubmatch(doc.Text()); m != nil {
			location = normalize.Truncate(normalize.CollapseSpace(strings.Trim(m[1], " :-")), 200)
		}
		agendaURL = a.findAgendaHref(doc)
		if t := a.refineTitle(doc); t != "" {
			meetingType = t
		}
	} else {
		log.Warn().Err(err).Str("url", detailURL).Msg("agendasuite detail fetch failed")
	}

	status := meeting.StatusNoAgendaYet
	var bullets []string
	if agendaURL != "" {
		status = meeting.StatusScheduled
		if a.summarizer != nil {
			bullets = a.summarizer.Bullets(ctx, agendaURL)
		}
	}
	return meeting.New(a.cfg.Organization, meetingType, dateISO, clock, status, location, agendaURL, bullets, detailURL)
}

// findAgendaHref prefers an explicit "Agenda" link, then any attachments-table
// row mentioning an agenda, then any getfile link at all.
func (a *Adapter) findAgendaHref(doc *goquery.Document) string {
	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label := sel.AttrOr("aria-label", "") + " " + sel.Text()
		h := sel.AttrOr("href", "")
		if strings.Contains(h, "/file/getfile/") && containsWordAgenda(label) {
			href = a.resolve(h)
			return false
		}
		return true
	})
	if href != "" {
		return href
	}
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !containsWordAgenda(row.Text()) {
			return true
		}
		row.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if h := sel.AttrOr("href", ""); strings.Contains(h, "/file/getfile/") {
				href = a.resolve(h)
				return false
			}
			return true
		})
		return href == ""
	})
	if href != "" {
		return href
	}
	doc.Find("a[href*='/file/getfile/']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href = a.resolve(sel.AttrOr("href", ""))
		return false
	})
	return href
}

// refineTitle picks the shortest heading matching the allow pattern, with any
// blocked phrase stripped.
func (a *Adapter) refineTitle(doc *goquery.Document) string {
	if a.allow == nil {
		return ""
	}
	var best string
	doc.Find("h1, h2, h3, div, span").Each(func(_ int, sel *goquery.Selection) {
		t := normalize.CollapseSpace(sel.Text())
		if t == "" || !a.allow.MatchString(t) {
			return
		}
		if best == "" || len(t) < len(best) {
			best = t
		}
	})
	if best == "" {
		return ""
	}
	if a.block != nil {
		best = normalize.CollapseSpace(a.block.ReplaceAllString(best, ""))
	}
	return normalize.Truncate(strings.Trim(best, " -:"), 150)
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

func containsWordAgenda(s string) bool {
	return agendaWordRe.MatchString(s)
}
