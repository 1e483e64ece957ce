package app

import "time"

// Config holds runtime configuration for one run. Explicit values take
// precedence over environment variables; see ApplyEnv.
type Config struct {
	// Output
	OutputPath string
	SitesPath  string

	// Fetching
	HTTPTimeout time.Duration
	UserAgent   string

	// Summarization
	MaxPages   int
	MaxChars   int
	MaxBullets int
	Model      string
	Disable    bool
	Strict     bool
	Debug      bool
	CacheDir   string

	// Narrative backend
	APIKey  string
	BaseURL string

	Verbose bool
}

// Default returns the deployment defaults.
func Default() Config {
	return Config{
		OutputPath:  "data/meetings.json",
		SitesPath:   "sites.yaml",
		HTTPTimeout: 30 * time.Second,
		UserAgent:   "MeetingWatch/1.0 (+https://github.com/human83/meetingwatch)",
		MaxPages:    25,
		MaxChars:    72000,
		MaxBullets:  12,
		CacheDir:    "data/cache/agenda_summaries",
	}
}
