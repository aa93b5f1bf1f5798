// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/measure"
	"github.com/woozymasta/heritagemap/internal/notify"
	"github.com/woozymasta/heritagemap/internal/sites"

	"gopkg.in/yaml.v3"
)

// Remote site feed formats understood by the loader.
const (
	FormatGeoJSON = "geojson"
	FormatList    = "list"
)

// Config represents the root configuration file structure.
type Config struct {
	Layers Layers `yaml:"layers" json:"layers"`

	Measure measure.LineStyle `yaml:"measure" json:"measure"`

	Title       string `yaml:"title,omitempty" json:"title"`
	Attribution string `yaml:"attribution,omitempty" json:"attribution,omitempty"`

	// Site collection sources, first non-empty wins: inline, file, embedded.
	SitesInline []sites.Site `yaml:"sites,omitempty" json:"-"`
	SitesFile   string       `yaml:"sites_file,omitempty" json:"-"`
	// SitesURL is fetched by the loader into SitesFile.
	SitesURL    string `yaml:"sites_url,omitempty" json:"-"`
	SitesFormat string `yaml:"sites_format,omitempty" json:"-"`

	// Center is the home view; nil means the built-in Egypt center, so 0,0
	// stays a valid explicit choice.
	Center *geo.Point `yaml:"center,omitempty" json:"center"`

	NotificationTTL time.Duration `yaml:"notification_ttl,omitempty" json:"-"`

	Zoom       int `yaml:"zoom,omitempty" json:"zoom"`
	SiteZoom   int `yaml:"site_zoom,omitempty" json:"site_zoom"`
	LocateZoom int `yaml:"locate_zoom,omitempty" json:"locate_zoom"`
	MaxZoom    int `yaml:"max_zoom,omitempty" json:"max_zoom"`
}

// Layers lists the basemap tile sources.
type Layers struct {
	Base      TileLayer `yaml:"base" json:"base"`
	Satellite TileLayer `yaml:"satellite" json:"satellite"`
}

// TileLayer is an XYZ tile source rendered by the browser.
type TileLayer struct {
	URL         string `yaml:"url" json:"url"`
	Attribution string `yaml:"attribution,omitempty" json:"attribution,omitempty"`
}

// DefaultCenter is the home view over Egypt.
var DefaultCenter = geo.Point{Lat: 26.8206, Lng: 30.8025}

// Default returns the built-in configuration centered on Egypt.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Title == "" {
		c.Title = "Egypt Heritage Sites"
	}
	if c.Center == nil {
		center := DefaultCenter
		c.Center = &center
	}
	if c.Zoom <= 0 {
		c.Zoom = 6
	}
	if c.SiteZoom <= 0 {
		c.SiteZoom = 12
	}
	if c.LocateZoom <= 0 {
		c.LocateZoom = 10
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = 18
	}
	if c.NotificationTTL <= 0 {
		c.NotificationTTL = notify.DefaultTTL
	}
	if c.SitesFormat == "" {
		c.SitesFormat = FormatGeoJSON
	}

	if c.Layers.Base.URL == "" {
		c.Layers.Base = TileLayer{
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors",
		}
	}
	if c.Layers.Satellite.URL == "" {
		c.Layers.Satellite = TileLayer{
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "© Esri, Maxar, GeoEye, Earthstar Geographics, CNES/Airbus DS, USDA, USGS, AeroGRID, IGN, and the GIS User Community",
		}
	}

	if c.Measure.Color == "" {
		c.Measure.Color = "#e74c3c"
	}
	if c.Measure.Weight <= 0 {
		c.Measure.Weight = 3
	}
	if c.Measure.DashArray == "" {
		c.Measure.DashArray = "10, 10"
	}
}

// Validate checks that configured values are sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Center != nil && !c.Center.Valid() {
		errs = append(errs, fmt.Sprintf("center %v is out of range", *c.Center))
	}
	zooms := []struct {
		name string
		z    int
	}{{"zoom", c.Zoom}, {"site_zoom", c.SiteZoom}, {"locate_zoom", c.LocateZoom}}
	for _, z := range zooms {
		if z.z > c.MaxZoom {
			errs = append(errs, fmt.Sprintf("%s %d exceeds max_zoom %d", z.name, z.z, c.MaxZoom))
		}
	}
	if c.SitesFormat != FormatGeoJSON && c.SitesFormat != FormatList {
		errs = append(errs, fmt.Sprintf("sites_format must be %q or %q, got %q", FormatGeoJSON, FormatList, c.SitesFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Home returns the configured home center.
func (c *Config) Home() geo.Point {
	if c.Center == nil {
		return DefaultCenter
	}
	return *c.Center
}

// LoadSites builds the site directory from the configured source.
func (c *Config) LoadSites() (*sites.Directory, error) {
	switch {
	case len(c.SitesInline) > 0:
		return sites.NewDirectory(c.SitesInline)
	case c.SitesFile != "":
		return sites.LoadFile(c.SitesFile)
	default:
		return sites.Default()
	}
}
