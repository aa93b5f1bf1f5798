// Package processor handles the downloading and processing of site data.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/sites"

	"github.com/rs/zerolog/log"
)

// maxFeedBytes caps the size of a remote site feed.
const maxFeedBytes = 8 << 20

// ErrNoSource is returned when the configuration names no remote feed.
var ErrNoSource = errors.New("sites_url is not configured")

// ProcessSites downloads the configured remote site feed, validates it and
// stores it as GeoJSON in the configured sites file.
// An existing file is kept unless force is set.
func ProcessSites(ctx context.Context, client *http.Client, cfg *config.Config, force bool) error {
	if cfg.SitesURL == "" {
		return ErrNoSource
	}
	if cfg.SitesFile == "" {
		return errors.New("sites_file is not configured")
	}

	if _, err := os.Stat(cfg.SitesFile); err == nil && !force {
		log.Debug().Str("path", cfg.SitesFile).Msg("Sites file exists, skipping")
		return nil
	}

	log.Info().
		Str("source", cfg.SitesURL).
		Str("format", cfg.SitesFormat).
		Msg("Processing sites from URL")

	body, err := fetch(ctx, client, cfg.SitesURL)
	if err != nil {
		return err
	}

	var list []sites.Site
	switch cfg.SitesFormat {
	case config.FormatList:
		list, err = parseSiteList(body)
	default:
		list, err = sites.Parse(body)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", cfg.SitesURL, err)
	}

	dir, err := sites.NewDirectory(list)
	if err != nil {
		return fmt.Errorf("validate %s: %w", cfg.SitesURL, err)
	}

	if err := saveGeoJSON(cfg.SitesFile, dir); err != nil {
		return err
	}

	log.Info().
		Str("path", cfg.SitesFile).
		Int("sites", dir.Len()).
		Msg("Sites file written")

	return nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
}

// saveGeoJSON marshals the collection and writes it to disk.
func saveGeoJSON(path string, dir *sites.Directory) error {
	data, err := dir.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
