package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv populates cfg from the recognized environment variables. Callers
// register flags with the resulting values as defaults, so an explicit flag
// wins over env; string values already set on cfg are likewise kept.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}

	setInt := func(dst *int, key string) {
		if s := os.Getenv(key); s != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
				*dst = n
			}
		}
	}
	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}

	setInt(&cfg.MaxPages, "PDF_SUMMARY_MAX_PAGES")
	setInt(&cfg.MaxChars, "PDF_SUMMARY_MAX_CHARS")
	setInt(&cfg.MaxBullets, "PDF_SUMMARY_MAX_BULLETS")

	if s := os.Getenv("HTTP_TIMEOUT_SEC"); s != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && f > 0 {
			cfg.HTTPTimeout = time.Duration(f * float64(time.Second))
		}
	}

	if cfg.Model == "" {
		cfg.Model = os.Getenv("SUMMARIZER_MODEL")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = os.Getenv("SUMMARY_CACHE_DIR")
	}
	if v := os.Getenv("SUMMARY_CACHE_DIR"); v != "" && cfg.CacheDir == Default().CacheDir {
		cfg.CacheDir = v
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	setBool(&cfg.Disable, "SUMMARIZER_DISABLE")
	setBool(&cfg.Strict, "SUMMARIZER_STRICT")
	setBool(&cfg.Debug, "PDF_SUMMARY_DEBUG")
}
