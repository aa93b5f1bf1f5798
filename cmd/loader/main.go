package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/logger"
	"github.com/woozymasta/heritagemap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	URL        string        `short:"u" long:"url"     env:"SITES_URL"   description:"Override the configured sites_url"`
	Output     string        `short:"o" long:"out"     env:"SITES_FILE"  description:"Override the configured sites_file"`
	Format     string        `short:"f" long:"format"  env:"SITES_FORMAT" description:"Override the configured sites_format" choice:"geojson" choice:"list"`
	Timeout    time.Duration `short:"t" long:"timeout" description:"HTTP timeout" default:"15s"`
	Force      bool          `long:"force"             description:"Force overwrite of existing file"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.URL != "" {
		cfg.SitesURL = opts.URL
	}
	if opts.Output != "" {
		cfg.SitesFile = opts.Output
	}
	if opts.Format != "" {
		cfg.SitesFormat = opts.Format
	}

	client := &http.Client{Timeout: opts.Timeout}

	log.Info().
		Str("url", cfg.SitesURL).
		Str("out", cfg.SitesFile).
		Bool("force", opts.Force).
		Msg("Starting loader")

	if err := processor.ProcessSites(context.Background(), client, cfg, opts.Force); err != nil {
		log.Fatal().Err(err).Msg("Failed to process sites")
	}

	log.Info().Msg("Loader finished successfully")
}
