package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/human83/meetingwatch/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Env overlays the defaults; the result seeds the flag defaults, so an
	// explicit flag always wins.
	cfg := app.Default()
	app.ApplyEnv(&cfg)

	flag.StringVar(&cfg.SitesPath, "sites", cfg.SitesPath, "Path to the portal configuration file")
	flag.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Path to write the merged meetings document")
	flag.StringVar(&cfg.CacheDir, "cache.dir", cfg.CacheDir, "Agenda summary cache directory")
	flag.StringVar(&cfg.Model, "model", cfg.Model, "Narrative summarizer model identifier")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "Per-request HTTP timeout")
	flag.IntVar(&cfg.MaxPages, "max.pages", cfg.MaxPages, "Maximum PDF pages extracted per agenda")
	flag.IntVar(&cfg.MaxBullets, "max.bullets", cfg.MaxBullets, "Maximum bullets per agenda summary")
	flag.BoolVar(&cfg.Disable, "summarizer.disable", cfg.Disable, "Skip summarization entirely")
	flag.BoolVar(&cfg.Strict, "summarizer.strict", cfg.Strict, "Suppress the loose fallback pass")
	flag.BoolVar(&cfg.Debug, "summarizer.debug", cfg.Debug, "Write per-call summary metadata")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.Parse()

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	sites, err := app.LoadSites(cfg.SitesPath)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	if err := a.RegisterSites(sites); err != nil {
		return err
	}
	return a.Run(context.Background())
}
