// Package render models browser automation as an external capability: render
// a JavaScript-heavy page, return a DOM snapshot. Extraction logic stays
// testable without a real browser; a headless-browser implementation of
// Renderer lives outside this module.
package render

import (
	"context"
	"fmt"
)

// Snapshot is the rendered state of one page.
type Snapshot struct {
	URL  string
	HTML string
}

// Renderer produces a DOM snapshot for a URL.
type Renderer interface {
	Render(ctx context.Context, url string) (Snapshot, error)
}

// Static serves canned HTML by URL. It backs tests and offline replays.
type Static struct {
	Pages map[string]string
}

func (s *Static) Render(_ context.Context, url string) (Snapshot, error) {
	html, ok := s.Pages[url]
	if !ok {
		return Snapshot{}, fmt.Errorf("no snapshot for %s", url)
	}
	return Snapshot{URL: url, HTML: html}, nil
}
