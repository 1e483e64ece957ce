// Package cache persists agenda summaries on disk, one JSON file per key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SummaryCache stores bullet lists keyed by a digest of the source URL and the
// extraction parameters. Entries are never invalidated automatically; clearing
// the directory forces recomputation.
type SummaryCache struct {
	Dir string
}

// Key builds the deterministic cache key. version identifies the heuristic
// revision so that shipping a heuristic fix invalidates stale entries.
func Key(url string, maxPages int, model string, version string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s\n%d\n%s\n%s", url, maxPages, model, version)))
	return hex.EncodeToString(h[:])
}

// EnsureDir creates the cache directory. Callers should treat failure as a
// startup-time configuration error.
func (c *SummaryCache) EnsureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *SummaryCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns the cached bullet list for key. A stored empty list is a hit.
func (c *SummaryCache) Get(_ context.Context, key string) ([]string, bool) {
	if c == nil || c.Dir == "" {
		return nil, false
	}
	b, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var bullets []string
	if err := json.Unmarshal(b, &bullets); err != nil {
		return nil, false
	}
	if bullets == nil {
		bullets = []string{}
	}
	return bullets, true
}

// Save writes the bullet list for key.
func (c *SummaryCache) Save(_ context.Context, key string, bullets []string) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	if bullets == nil {
		bullets = []string{}
	}
	b, err := json.Marshal(bullets)
	if err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(key), b, 0o644)
}

// Meta records per-call diagnostics written alongside an entry in debug mode.
// It is useful for tuning the heuristics and not required for correctness.
type Meta struct {
	URL            string `json:"url"`
	MaxPages       int    `json:"max_pages"`
	Model          string `json:"model,omitempty"`
	Chars          int    `json:"chars"`
	SingleTopic    bool   `json:"single_topic"`
	NarrativeCount int    `json:"narrative_count"`
	RuleCount      int    `json:"rule_count"`
	LooseCount     int    `json:"loose_count"`
}

// SaveMeta writes the sibling metadata file for key.
func (c *SummaryCache) SaveMeta(key string, m Meta) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Dir, key+".meta.json"), b, 0o644)
}
