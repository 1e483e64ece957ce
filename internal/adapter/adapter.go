// Package adapter defines the one stable interface every site-specific
// scraper implements, and the registry the orchestrator selects them from.
package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/human83/meetingwatch/internal/meeting"
)

// Adapter discovers upcoming meetings on one government portal and emits
// canonical records. Implementations must skip records whose date does not
// parse rather than emit a sentinel.
type Adapter interface {
	Name() string
	Meetings(ctx context.Context) ([]meeting.Record, error)
}

// AgendaSummarizer is the slice of the summarization pipeline adapters need.
type AgendaSummarizer interface {
	Bullets(ctx context.Context, url string) []string
}

var (
	mu       sync.Mutex
	registry = map[string]Adapter{}
)

// Register adds a named adapter. Registering the same name twice is a
// programming error.
func Register(a Adapter) error {
	mu.Lock()
	defer mu.Unlock()
	if a == nil || a.Name() == "" {
		return fmt.Errorf("adapter: empty name")
	}
	if _, dup := registry[a.Name()]; dup {
		return fmt.Errorf("adapter: duplicate name %q", a.Name())
	}
	registry[a.Name()] = a
	return nil
}

// All returns the registered adapters in name order.
func All() []Adapter {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Adapter, 0, len(names))
	for _, n := range names {
		out = append(out, registry[n])
	}
	return out
}

// Reset clears the registry. Tests use it between cases.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Adapter{}
}
