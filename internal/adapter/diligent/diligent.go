// Package diligent handles Diligent Community portals (e.g. the City of
// Alamosa). The portal is a script-heavy ASP.NET app, so page access goes
// through render.Renderer; listing anchors link per-meeting detail pages that
// carry the date, time, venue, and agenda packet PDF.
package diligent

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
	detailHrefRe = regexp.MustCompile(`(?i)MeetingDetail|MeetingInformation`)
	// Detail pages show the date as "Tuesday, November 4, 2099".
	detailDateRe = regexp.MustCompile(`(?i)(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday),?\s+\w+\s+\d{1,2},\s+\d{4}`)
	packetWordRe = regexp.MustCompile(`(?i)\b(agenda|packet)\b`)
)

const defaultTitlePattern = `city council regular meeting|regular city council meeting`

type Config struct {
	Name         string
	PortalURL    string
	Organization string
	MeetingType  string
	// TitlePattern selects listing anchors by text; defaults to the regular
	// council meeting phrasing.
	TitlePattern string
	// LocationPattern pulls the venue line out of the detail text.
	LocationPattern string
	Timeout         time.Duration
}

type Adapter struct {
	cfg        Config
	title      *regexp.Regexp
	location   *regexp.Regexp
	renderer   render.Renderer
	summarizer adapter.AgendaSummarizer
}

func New(cfg Config, renderer render.Renderer, summarizer adapter.AgendaSummarizer) (*Adapter, error) {
	if renderer == nil {
		return nil, fmt.Errorf("diligent: renderer required")
	}
	if cfg.PortalURL == "" {
		return nil, fmt.Errorf("diligent: portal URL required")
	}
	if cfg.MeetingType == "" {
		cfg.MeetingType = "City Council Regular Meeting"
	}
	if cfg.TitlePattern == "" {
		cfg.TitlePattern = defaultTitlePattern
	}
	if cfg.LocationPattern == "" {
		cfg.LocationPattern = `(?i)council chambers[^\n]*`
	}
	title, err := regexp.Compile("(?i)" + cfg.TitlePattern)
	if err != nil {
		return nil, fmt.Errorf("diligent: title pattern: %w", err)
	}
	location, err := regexp.Compile(cfg.LocationPattern)
	if err != nil {
		return nil, fmt.Errorf("diligent: location pattern: %w", err)
	}
	return &Adapter{cfg: cfg, title: title, location: location, renderer: renderer, summarizer: summarizer}, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Meetings(ctx context.Context) ([]meeting.Record, error) {
	links, err := a.detailLinks(ctx)
	if err != nil {
		return nil, err
	}

	var records []meeting.Record
	seen := map[string]bool{}
	for _, detailURL := range links {
		snap, err := a.renderer.Render(ctx, detailURL)
		if err != nil {
			log.Warn().Err(err).Str("url", detailURL).Msg("diligent detail render failed")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
		if err != nil {
			continue
		}
		text := doc.Text()

		raw := detailDateRe.FindString(text)
		if raw == "" {
			log.Debug().Str("url", detailURL).Msg("diligent: no date line on detail page")
			continue
		}
		dateISO, err := meeting.ParseDate(raw)
		if err != nil {
			continue
		}
		if !meeting.IsFuture(dateISO) {
			continue
		}
		clock := meeting.ParseClock(text)
		agendaURL := a.packetLink(doc, snap.URL)

		// The listing repeats meetings across generic tiles; one record per
		// (date, time, packet) is enough.
		key := dateISO + "|" + clock + "|" + agendaURL
		if seen[key] {
			continue
		}
		seen[key] = true

		location := ""
		if m := a.location.FindString(text); m != "" {
			location = normalize.Truncate(normalize.CollapseSpace(m), 200)
		}

		status := meeting.StatusNoAgendaYet
		var bullets []string
		if agendaURL != "" {
			status = meeting.StatusScheduled
			if a.summarizer != nil {
				bullets = a.summarizer.Bullets(ctx, agendaURL)
			}
		}
		records = append(records, meeting.New(a.cfg.Organization, a.cfg.MeetingType, dateISO, clock, status, location, agendaURL, bullets, detailURL))
	}
	return records, nil
}

// detailLinks collects per-meeting detail URLs from the portal listing:
// anchors whose text matches the title pattern, falling back to any
// meeting-detail href when the phrasing changed.
func (a *Adapter) detailLinks(ctx context.Context) ([]string, error) {
	snap, err := a.renderer.Render(ctx, a.cfg.PortalURL)
	if err != nil {
		return nil, fmt.Errorf("diligent listing: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, err
	}

	found := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := normalize.CollapseSpace(sel.Text())
		if text == "" || !a.title.MatchString(text) {
			return
		}
		if href := resolve(snap.URL, sel.AttrOr("href", "")); href != "" {
			found[href] = true
		}
	})
	if len(found) == 0 {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			h := sel.AttrOr("href", "")
			if detailHrefRe.MatchString(h) {
				if href := resolve(snap.URL, h); href != "" {
					found[href] = true
				}
			}
		})
	}
	links := make([]string, 0, len(found))
	for l := range found {
		links = append(links, l)
	}
	sort.Strings(links)
	return links, nil
}

// packetLink prefers an agenda/packet-labelled PDF, then any PDF on the
// detail page. ".pdf" may appear mid-URL ahead of a querystring.
func (a *Adapter) packetLink(doc *goquery.Document, baseURL string) string {
	var labelled, any string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := resolve(baseURL, sel.AttrOr("href", ""))
		if href == "" || !strings.Contains(strings.ToLower(href), ".pdf") {
			return
		}
		if any == "" {
			any = href
		}
		if labelled == "" && packetWordRe.MatchString(sel.Text()) {
			labelled = href
		}
	})
	if labelled != "" {
		return labelled
	}
	return any
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
