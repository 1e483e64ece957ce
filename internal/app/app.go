// Package app wires configuration, adapters, and the summarization pipeline
// into one run that writes the merged meetings document.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/human83/meetingwatch/internal/adapter"
	"github.com/human83/meetingwatch/internal/adapter/agendasuite"
	"github.com/human83/meetingwatch/internal/adapter/civicclerk"
	"github.com/human83/meetingwatch/internal/adapter/diligent"
	"github.com/human83/meetingwatch/internal/adapter/legistar"
	"github.com/human83/meetingwatch/internal/adapter/trinidad"
	"github.com/human83/meetingwatch/internal/fetch"
	"github.com/human83/meetingwatch/internal/llm"
	"github.com/human83/meetingwatch/internal/meeting"
	"github.com/human83/meetingwatch/internal/render"
	"github.com/human83/meetingwatch/internal/summarize"
)

// App owns a configured run.
type App struct {
	cfg        Config
	summarizer *summarize.Summarizer
	// Renderer backs CivicClerk-style hydrated portals. Nil skips those sites.
	Renderer render.Renderer
}

// New validates configuration and builds the shared pipeline. An uncreatable
// cache directory fails here, before any site is visited.
func New(cfg Config) (*App, error) {
	fetcher := &fetch.Client{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	}

	var client llm.Client
	if cfg.APIKey != "" && cfg.Model != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		client = &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(oc)}
	}

	s, err := summarize.New(fetcher, client, cfg.CacheDir, summarize.Config{
		MaxPages:   cfg.MaxPages,
		MaxChars:   cfg.MaxChars,
		MaxBullets: cfg.MaxBullets,
		Model:      cfg.Model,
		Disable:    cfg.Disable,
		Strict:     cfg.Strict,
		Debug:      cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	return &App{cfg: cfg, summarizer: s}, nil
}

// RegisterSites builds an adapter per configured site and registers it.
func (a *App) RegisterSites(sites []Site) error {
	for _, site := range sites {
		built, err := a.buildAdapter(site)
		if err != nil {
			return fmt.Errorf("site %q: %w", site.Name, err)
		}
		if built == nil {
			log.Warn().Str("site", site.Name).Msg("no renderer configured; skipping hydrated portal")
			continue
		}
		if err := adapter.Register(built); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) buildAdapter(site Site) (adapter.Adapter, error) {
	switch site.Provider {
	case "agendasuite":
		return agendasuite.New(agendasuite.Config{
			Name:         site.Name,
			BaseURL:      site.URL,
			Organization: site.Organization,
			MeetingType:  site.MeetingType,
			AllowTitle:   site.AllowTitle,
			BlockTitle:   site.BlockTitle,
			UserAgent:    a.cfg.UserAgent,
			Timeout:      a.cfg.HTTPTimeout,
		}, a.summarizer)
	case "trinidad":
		return trinidad.New(trinidad.Config{
			Name:          site.Name,
			BaseURL:       site.URL,
			CalendarID:    site.CalendarID,
			Organization:  site.Organization,
			MeetingType:   site.MeetingType,
			TitleContains: site.AllowTitle,
			MonthsAhead:   site.MonthsAhead,
			UserAgent:     a.cfg.UserAgent,
			Timeout:       a.cfg.HTTPTimeout,
		}, a.summarizer)
	case "legistar":
		return legistar.New(legistar.Config{
			Name:         site.Name,
			BaseURL:      site.URL,
			Organization: site.Organization,
			MeetingType:  site.MeetingType,
			BodyContains: site.BodyContains,
			SourceURL:    site.SourceURL,
			DaysAhead:    site.DaysAhead,
			UserAgent:    a.cfg.UserAgent,
			Timeout:      a.cfg.HTTPTimeout,
		}, a.summarizer)
	case "civicclerk":
		if a.Renderer == nil {
			return nil, nil
		}
		return civicclerk.New(civicclerk.Config{
			Name:         site.Name,
			Organization: site.Organization,
			MeetingType:  site.MeetingType,
			EntryURLs:    site.EntryURLs,
			Timeout:      a.cfg.HTTPTimeout,
		}, a.Renderer, a.summarizer)
	case "diligent":
		if a.Renderer == nil {
			return nil, nil
		}
		return diligent.New(diligent.Config{
			Name:         site.Name,
			PortalURL:    site.URL,
			Organization: site.Organization,
			MeetingType:  site.MeetingType,
			TitlePattern: site.AllowTitle,
			Timeout:      a.cfg.HTTPTimeout,
		}, a.Renderer, a.summarizer)
	default:
		return nil, fmt.Errorf("unknown provider %q", site.Provider)
	}
}

// Run invokes every registered adapter sequentially, merging whatever each
// one manages to produce. An adapter failure is logged and skipped; it never
// aborts the run.
func (a *App) Run(ctx context.Context) error {
	var records []meeting.Record
	for _, ad := range adapter.All() {
		got, err := ad.Meetings(ctx)
		if err != nil {
			log.Warn().Err(err).Str("adapter", ad.Name()).Msg("adapter failed; continuing")
			continue
		}
		log.Info().Str("adapter", ad.Name()).Int("count", len(got)).Msg("adapter done")
		records = append(records, got...)
	}
	return a.write(meeting.NewDocument(records))
}

func (a *App) write(doc meeting.Document) error {
	if dir := filepath.Dir(a.cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, b, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Int("meetings", len(doc.Meetings)).Msg("wrote output")
	return nil
}
