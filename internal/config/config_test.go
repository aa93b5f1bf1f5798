package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/woozymasta/heritagemap/internal/geo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Center == nil || *cfg.Center != (geo.Point{Lat: 26.8206, Lng: 30.8025}) || cfg.Zoom != 6 {
		t.Errorf("home view = %v @ %d", cfg.Center, cfg.Zoom)
	}
	if cfg.SiteZoom != 12 || cfg.LocateZoom != 10 || cfg.MaxZoom != 18 {
		t.Errorf("zooms = %d/%d/%d", cfg.SiteZoom, cfg.LocateZoom, cfg.MaxZoom)
	}
	if cfg.NotificationTTL != 3*time.Second {
		t.Errorf("ttl = %v", cfg.NotificationTTL)
	}
	if cfg.Measure.Color != "#e74c3c" || cfg.Measure.Weight != 3 || cfg.Measure.DashArray != "10, 10" {
		t.Errorf("measure style = %+v", cfg.Measure)
	}
	if !strings.Contains(cfg.Layers.Base.URL, "openstreetmap") {
		t.Errorf("base layer = %q", cfg.Layers.Base.URL)
	}

	d, err := cfg.LoadSites()
	if err != nil || d.Len() != 3 {
		t.Fatalf("LoadSites() = %v, %v", d, err)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
title: Nile Valley
center: {lat: 25.7, lng: 32.6}
zoom: 8
notification_ttl: 5s
measure:
  color: "#000000"
sites:
  - name: Luxor Temple
    description: Temple on the east bank
    point: {lat: 25.6995, lng: 32.6391}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "Nile Valley" || cfg.Zoom != 8 || cfg.NotificationTTL != 5*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Measure.Color != "#000000" || cfg.Measure.Weight != 3 {
		t.Errorf("measure style = %+v", cfg.Measure)
	}

	d, err := cfg.LoadSites()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.FindByName("Luxor Temple"); !ok || d.Len() != 1 {
		t.Errorf("inline sites not used: %+v", d.All())
	}
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Load(missing); !errors.Is(err, fs.ErrNotExist) || !strings.Contains(err.Error(), missing) {
		t.Errorf("Load(missing) error = %v, want wrapped fs.ErrNotExist", err)
	}
	if _, err := Load(writeConfig(t, "zoom: [")); err == nil {
		t.Error("expected parse error")
	}

	_, err := Load(writeConfig(t, "zoom: 20\nsites_format: csv\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"zoom 20 exceeds max_zoom 18", "sites_format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q lacks %q", err, want)
		}
	}
}

func TestZeroCenterIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "center: {lat: 0, lng: 0}\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Center == nil || *cfg.Center != (geo.Point{}) || cfg.Home() != (geo.Point{}) {
		t.Errorf("center = %v, want 0,0", cfg.Center)
	}

	if got := (&Config{}).Home(); got != DefaultCenter {
		t.Errorf("unset Home() = %v, want %v", got, DefaultCenter)
	}
}
