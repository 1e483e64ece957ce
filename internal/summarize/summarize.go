// Package summarize turns an agenda URL into a bounded list of newsworthy
// bullets: fetch and extract the document, detect single-topic work sessions,
// merge narrative-backend output with rule-based extraction, and memoize the
// result on disk.
package summarize

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/human83/meetingwatch/internal/cache"
	"github.com/human83/meetingwatch/internal/extract"
	"github.com/human83/meetingwatch/internal/fetch"
	"github.com/human83/meetingwatch/internal/llm"
	"github.com/human83/meetingwatch/internal/normalize"
)

// heuristicVersion is folded into the cache key so that changing the
// extraction heuristics invalidates previously cached summaries.
const heuristicVersion = "h3"

// Config carries the tunables for one Summarizer instance. Multiple instances
// with different settings can coexist in one process.
type Config struct {
	MaxPages   int    // pages extracted from a PDF
	MaxChars   int    // characters sent to the narrative backend
	MaxBullets int    // cap on the final bullet list
	Model      string // narrative backend model identifier; empty disables it
	Disable    bool   // short-circuit: always return an empty summary
	Strict     bool   // suppress the loose fallback pass
	Debug      bool   // write per-call metadata next to cache entries
}

// Summarizer is the public entry point of the pipeline. Its Bullets method
// never returns an error: every failure degrades to an empty list.
type Summarizer struct {
	fetcher   *fetch.Client
	narrative *Narrative
	store     *cache.SummaryCache
	cfg       Config
}

// New builds a Summarizer and creates the cache directory. An uncreatable
// cache directory is a configuration error and fails fast here rather than
// silently disabling caching for the run.
func New(fetcher *fetch.Client, client llm.Client, cacheDir string, cfg Config) (*Summarizer, error) {
	if fetcher == nil {
		return nil, errors.New("summarize: nil fetcher")
	}
	if cfg.MaxBullets <= 0 {
		cfg.MaxBullets = 12
	}
	store := &cache.SummaryCache{Dir: cacheDir}
	if err := store.EnsureDir(); err != nil {
		return nil, err
	}
	var narrative *Narrative
	if client != nil && cfg.Model != "" {
		narrative = &Narrative{Client: client, Model: cfg.Model, MaxChars: cfg.MaxChars}
	}
	return &Summarizer{fetcher: fetcher, narrative: narrative, store: store, cfg: cfg}, nil
}

// Bullets summarizes the agenda at url. An empty list means "no summary
// available", never an error. Results are cached by (url, max pages, model);
// a hit returns the cached list without re-fetching, even when it is empty.
func (s *Summarizer) Bullets(ctx context.Context, url string) []string {
	if url == "" || s.cfg.Disable {
		return []string{}
	}

	key := cache.Key(url, s.cfg.MaxPages, s.cfg.Model, heuristicVersion)
	if cached, ok := s.store.Get(ctx, key); ok {
		return cached
	}

	text := s.agendaText(ctx, url)
	if text == "" {
		// Not cached: the entry lifecycle starts at the first successful
		// extraction, so a later fix upstream gets a fresh chance.
		return []string{}
	}

	meta := cache.Meta{URL: url, MaxPages: s.cfg.MaxPages, Model: s.cfg.Model, Chars: len(text)}

	var bullets []string
	if topic, ok := SingleTopic(text); ok {
		bullets = []string{topic}
		meta.SingleTopic = true
	} else {
		var narrated []string
		if s.narrative != nil {
			narrated = s.narrative.Bullets(ctx, text, s.cfg.MaxBullets)
		}
		ruled := ExtractItems(text, s.cfg.MaxBullets)
		meta.NarrativeCount = len(narrated)
		meta.RuleCount = len(ruled)
		bullets = merge(s.cfg.MaxBullets, narrated, ruled)

		if len(bullets) == 0 && !s.cfg.Strict {
			bullets = LoosePass(text, s.cfg.MaxBullets)
			meta.LooseCount = len(bullets)
		}
	}
	if bullets == nil {
		bullets = []string{}
	}

	if err := s.store.Save(ctx, key, bullets); err != nil {
		log.Debug().Err(err).Str("url", url).Msg("summary cache write failed")
	}
	if s.cfg.Debug {
		if err := s.store.SaveMeta(key, meta); err != nil {
			log.Debug().Err(err).Str("url", url).Msg("summary meta write failed")
		}
	}
	return bullets
}

// agendaText fetches and extracts plain text, degrading every failure to "".
func (s *Summarizer) agendaText(ctx context.Context, url string) string {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("agenda fetch failed")
		return ""
	}
	switch doc.Kind {
	case fetch.KindPDF:
		text, err := extract.PDFText(doc.Data, s.cfg.MaxPages)
		if err != nil {
			log.Debug().Err(err).Str("url", url).Msg("pdf extraction failed")
			return ""
		}
		return text
	default:
		return string(doc.Data)
	}
}

// merge combines stage outputs in order, deduplicating case-insensitively and
// stopping at the cap. Narrative bullets come first when present.
func merge(max int, stages ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, stage := range stages {
		for _, b := range stage {
			b = normalize.CollapseSpace(b)
			if b == "" {
				continue
			}
			key := normalize.FoldKey(b)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, b)
			if len(out) >= max {
				return out
			}
		}
	}
	return out
}
