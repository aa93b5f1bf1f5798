package server

import (
	"fmt"

	"github.com/woozymasta/heritagemap/assets"
	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/viewer"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Viewer    *viewer.Viewer
	IndexHTML []byte
	Favicon   []byte
	// SitesJSON is the pre-rendered collection served by /api/sites.
	SitesJSON []byte
}

// NewServerContext renders the front-end and the site collection once.
func NewServerContext(cfg *config.Config, v *viewer.Viewer) (*ServerContext, error) {
	log.Info().Int("sites", v.Directory().Len()).Msg("Initializing server context")

	index, err := assets.Render(cfg.Title)
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}

	sitesJSON, err := v.Directory().FeatureCollection().MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode sites: %w", err)
	}

	log.Debug().
		Int("index_bytes", len(index)).
		Int("sites_bytes", len(sitesJSON)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:    cfg,
		Viewer:    v,
		IndexHTML: index,
		Favicon:   assets.Favicon,
		SitesJSON: sitesJSON,
	}, nil
}
