package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/logger"
	"github.com/woozymasta/heritagemap/internal/notify"
	"github.com/woozymasta/heritagemap/internal/server"
	"github.com/woozymasta/heritagemap/internal/viewer"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE"    description:"Path to configuration file (defaults apply when empty)"`
	SitesFile  string `short:"s" long:"sites"      env:"SITES_FILE"     description:"GeoJSON site collection overriding the configured source"`
	Addr       string `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"       env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.SitesFile != "" {
		cfg.SitesInline = nil
		cfg.SitesFile = opts.SitesFile
	}

	dir, err := cfg.LoadSites()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load heritage sites data")
	}

	v := viewer.New(cfg, dir, notify.NewCenter(cfg.NotificationTTL))

	srvCtx, err := server.NewServerContext(cfg, v)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	handler := server.RequestLogger(srvCtx.Routes())

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Int("sites_loaded", dir.Len()).
		Int("default_zoom", cfg.Zoom).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
