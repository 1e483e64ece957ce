package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site configures one portal adapter. Keeping these in a file rather than
// per-adapter module globals lets several tenants of the same provider
// coexist and be tested independently.
type Site struct {
	Name         string   `yaml:"name"`
	Provider     string   `yaml:"provider"` // agendasuite | trinidad | legistar | civicclerk | diligent
	Organization string   `yaml:"organization"`
	MeetingType  string   `yaml:"meeting_type"`
	URL          string   `yaml:"url"`
	EntryURLs    []string `yaml:"entry_urls"`
	CalendarID   string   `yaml:"calendar_id"`
	AllowTitle   string   `yaml:"allow_title"`
	BlockTitle   string   `yaml:"block_title"`
	MonthsAhead  int      `yaml:"months_ahead"`
	BodyContains string   `yaml:"body_contains"`
	SourceURL    string   `yaml:"source_url"`
	DaysAhead    int      `yaml:"days_ahead"`
}

type sitesFile struct {
	Sites []Site `yaml:"sites"`
}

// LoadSites reads the portal configuration file.
func LoadSites(path string) ([]Site, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}
	var f sitesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse sites file: %w", err)
	}
	for i, s := range f.Sites {
		if s.Name == "" || s.Provider == "" {
			return nil, fmt.Errorf("sites file: entry %d missing name or provider", i)
		}
	}
	return f.Sites, nil
}
