// Package viewer holds the state of the heritage map and applies user actions
// to it. All methods are safe for concurrent use and apply in call order.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/measure"
	"github.com/woozymasta/heritagemap/internal/metrics"
	"github.com/woozymasta/heritagemap/internal/notify"
	"github.com/woozymasta/heritagemap/internal/sites"

	"github.com/rs/zerolog/log"
)

// ErrGeolocationUnsupported is returned by Locate when no locator is available.
var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// MarkerUser is the marker kind of the located user.
const MarkerUser = "user"

// Locator resolves the user's current position.
type Locator interface {
	Locate(ctx context.Context) (geo.Point, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (geo.Point, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context) (geo.Point, error) { return f(ctx) }

// Layers is the visibility of the toggleable layers.
type Layers struct {
	Heritage  bool `json:"heritage"`
	Satellite bool `json:"satellite"`
}

// Info is the map info panel.
type Info struct {
	Zoom       string `json:"zoom"`
	Center     string `json:"center"`
	TotalSites int    `json:"total_sites"`
}

// MeasureState is the public view of the measurement session.
type MeasureState struct {
	Anchor *geo.Point           `json:"anchor,omitempty"`
	Last   *measure.Measurement `json:"last,omitempty"`
	State  measure.State        `json:"state"`
	Cursor measure.Cursor       `json:"cursor"`
}

// State is a snapshot of everything the browser renders.
type State struct {
	Info          Info                  `json:"info"`
	Measure       MeasureState          `json:"measure"`
	Highlighted   string                `json:"highlighted,omitempty"`
	OpenPopup     string                `json:"open_popup,omitempty"`
	Lines         []Line                `json:"lines"`
	Labels        []Label               `json:"labels"`
	Markers       []Marker              `json:"markers"`
	Notifications []notify.Notification `json:"notifications"`
	View          View                  `json:"view"`
	Layers        Layers                `json:"layers"`
	Fullscreen    bool                  `json:"fullscreen"`
}

// Viewer is the map controller.
type Viewer struct {
	cfg         *config.Config
	dir         *sites.Directory
	surface     *Surface
	tool        *measure.Tool
	notes       *notify.Center
	highlighted string
	popup       string
	layers      Layers
	fullscreen  bool
	mu          sync.Mutex
}

// New creates a viewer showing the configured home view with the heritage
// layer visible over the base layer.
func New(cfg *config.Config, dir *sites.Directory, notes *notify.Center) *Viewer {
	if notes == nil {
		notes = notify.NewCenter(cfg.NotificationTTL)
	}

	v := &Viewer{
		cfg:     cfg,
		dir:     dir,
		notes:   notes,
		surface: NewSurface(View{Center: cfg.Home(), Zoom: cfg.Zoom}),
		layers:  Layers{Heritage: true},
	}

	v.tool = measure.New(v.surface, notifier{v.notes}, cfg.Measure)
	v.tool.OnMeasured = func(m measure.Measurement) {
		metrics.MeasurementsTotal.Inc()
		metrics.MeasuredKm.Observe(m.Km)
	}

	log.Info().
		Int("sites", dir.Len()).
		Str("center", cfg.Home().String()).
		Int("zoom", cfg.Zoom).
		Msg("Viewer initialized")

	return v
}

// Directory returns the loaded sites.
func (v *Viewer) Directory() *sites.Directory { return v.dir }

// State returns a snapshot of the viewer.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	view := v.surface.View()
	st := State{
		View:        view,
		Layers:      v.layers,
		Fullscreen:  v.fullscreen,
		Highlighted: v.highlighted,
		OpenPopup:   v.popup,
		Lines:       v.surface.Lines(),
		Labels:      v.surface.Labels(),
		Markers:     v.surface.Markers(),
		Info: Info{
			Zoom:       fmt.Sprintf("%d", view.Zoom),
			Center:     view.Center.String(),
			TotalSites: v.dir.Len(),
		},
		Measure: MeasureState{
			State:  v.tool.State(),
			Cursor: v.surface.Cursor(),
		},
		Notifications: v.notes.Active(),
	}

	if p, ok := v.tool.Anchor(); ok {
		st.Measure.Anchor = &p
	}
	if m, ok := v.tool.Last(); ok {
		st.Measure.Last = &m
	}

	return st
}

// Notifications returns the active notifications.
func (v *Viewer) Notifications() []notify.Notification {
	return v.notes.Active()
}

// SetHeritageVisible shows or hides the heritage site markers.
func (v *Viewer) SetHeritageVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.layers.Heritage = visible
	log.Debug().Bool("visible", visible).Msg("Heritage layer toggled")
}

// SetSatellite swaps the base layer for satellite imagery and back.
func (v *Viewer) SetSatellite(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.layers.Satellite = enabled
	log.Debug().Bool("satellite", enabled).Msg("Base layer switched")
}

// ZoomToHome resets the view to the configured home.
func (v *Viewer) ZoomToHome() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.surface.SetView(v.cfg.Home(), v.cfg.Zoom)
}

// ZoomToSite centers the map on a site, opens its popup and highlights it.
// Unknown names are ignored.
func (v *Viewer) ZoomToSite(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	site, ok := v.dir.FindByName(name)
	if !ok {
		log.Debug().Str("site", name).Msg("Zoom to unknown site ignored")
		return false
	}

	v.surface.SetView(site.Point, v.cfg.SiteZoom)
	v.popup = site.Name
	v.highlighted = site.Name
	return true
}

// Highlight marks a site as selected in the list. Unknown names are ignored.
func (v *Viewer) Highlight(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.dir.FindByName(name); !ok {
		return false
	}
	v.highlighted = name
	return true
}

// SiteDetails returns the detail view of a site.
func (v *Viewer) SiteDetails(name string) (sites.Details, bool) {
	site, ok := v.dir.FindByName(name)
	if !ok {
		return sites.Details{}, false
	}
	return site.Details(), true
}

// ToggleFullscreen flips fullscreen mode and returns the new value.
func (v *Viewer) ToggleFullscreen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.fullscreen = !v.fullscreen
	return v.fullscreen
}

// ToggleMeasure arms or disarms the measurement tool and returns the new state.
func (v *Viewer) ToggleMeasure() measure.State {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.tool.Toggle()
	return v.tool.State()
}

// Click delivers a map click.
func (v *Viewer) Click(p geo.Point) measure.State {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.surface.Click(p)
	return v.tool.State()
}

// Locate asks the locator for the user's position and shows it.
// Failures are reported as error notifications and returned.
func (v *Viewer) Locate(ctx context.Context, loc Locator) error {
	if loc == nil {
		v.notify(notify.Error, "Geolocation is not supported by this browser")
		return ErrGeolocationUnsupported
	}

	p, err := loc.Locate(ctx)
	if err == nil && !p.Valid() {
		err = fmt.Errorf("position %v out of range", p)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Geolocation failed")
		v.notify(notify.Error, "Unable to get your location")
		return err
	}

	v.mu.Lock()
	v.surface.SetView(p, v.cfg.LocateZoom)
	v.surface.AddMarker(MarkerUser, p, "Your Location")
	v.mu.Unlock()

	v.notify(notify.Success, "Location found!")
	return nil
}

// Export serializes the site collection for download.
func (v *Viewer) Export() ([]byte, error) {
	data, err := v.dir.Export()
	if err != nil {
		v.notify(notify.Error, "Failed to export data")
		return nil, fmt.Errorf("export sites: %w", err)
	}

	metrics.ExportsTotal.Inc()
	v.notify(notify.Success, "Data exported successfully!")
	return data, nil
}

func (v *Viewer) notify(s notify.Severity, msg string) {
	notifier{v.notes}.Notify(s, msg)
}

type notifier struct{ c *notify.Center }

func (n notifier) Notify(s notify.Severity, msg string) {
	metrics.NotificationsTotal.WithLabelValues(s.String()).Inc()
	n.c.Notify(s, msg)
}
