// Package server handles HTTP requests and middleware.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"

	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/metrics"
	"github.com/woozymasta/heritagemap/internal/sites"
	"github.com/woozymasta/heritagemap/internal/viewer"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 4 << 10

// Routes registers every handler on a new mux.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", s.HandleConfig)
	mux.HandleFunc("GET /api/sites", s.HandleSites)
	mux.HandleFunc("GET /api/sites/{name}", s.HandleSiteDetails)
	mux.HandleFunc("GET /api/export", s.HandleExport)
	mux.HandleFunc("GET /api/state", s.HandleState)
	mux.HandleFunc("GET /api/notifications", s.HandleNotifications)

	mux.HandleFunc("POST /api/view/home", s.HandleZoomHome)
	mux.HandleFunc("POST /api/view/site/{name}", s.HandleZoomSite)
	mux.HandleFunc("POST /api/view/highlight/{name}", s.HandleHighlight)
	mux.HandleFunc("POST /api/view/fullscreen", s.HandleFullscreen)
	mux.HandleFunc("POST /api/layers", s.HandleLayers)
	mux.HandleFunc("POST /api/measure/toggle", s.HandleMeasureToggle)
	mux.HandleFunc("POST /api/measure/click", s.HandleMeasureClick)
	mux.HandleFunc("POST /api/locate", s.HandleLocate)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /favicon.ico", s.HandleFavicon)
	mux.HandleFunc("GET /{$}", s.HandleIndex)

	return mux
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, s.IndexHTML, "text/html; charset=utf-8", "public, no-cache")
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, s.Favicon, "image/svg+xml", "public, max-age=86400")
}

// HandleConfig serves the map configuration used to build the map.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config)
}

// HandleSites serves the site collection as GeoJSON.
func (s *ServerContext) HandleSites(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, s.SitesJSON, "application/geo+json", "public, no-cache")
}

// HandleSiteDetails serves the detail view of one site.
func (s *ServerContext) HandleSiteDetails(w http.ResponseWriter, r *http.Request) {
	details, ok := s.Viewer.SiteDetails(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// HandleExport serves the collection as a downloadable file.
func (s *ServerContext) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Viewer.Export()
	if err != nil {
		log.Error().Err(err).Msg("Export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sites.ExportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// HandleState serves the viewer snapshot.
func (s *ServerContext) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Viewer.State())
}

// HandleNotifications serves the active notifications.
func (s *ServerContext) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Viewer.Notifications())
}

// HandleZoomHome resets the view.
func (s *ServerContext) HandleZoomHome(w http.ResponseWriter, r *http.Request) {
	s.Viewer.ZoomToHome()
	s.HandleState(w, r)
}

// HandleZoomSite zooms to a site. Unknown names leave the view unchanged.
func (s *ServerContext) HandleZoomSite(w http.ResponseWriter, r *http.Request) {
	s.Viewer.ZoomToSite(r.PathValue("name"))
	s.HandleState(w, r)
}

// HandleHighlight selects a site in the list.
func (s *ServerContext) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	s.Viewer.Highlight(r.PathValue("name"))
	s.HandleState(w, r)
}

// HandleFullscreen toggles fullscreen mode.
func (s *ServerContext) HandleFullscreen(w http.ResponseWriter, r *http.Request) {
	s.Viewer.ToggleFullscreen()
	s.HandleState(w, r)
}

type layersRequest struct {
	Heritage  *bool `json:"heritage"`
	Satellite *bool `json:"satellite"`
}

// HandleLayers switches layer visibility. Omitted fields are left as they are.
func (s *ServerContext) HandleLayers(w http.ResponseWriter, r *http.Request) {
	var req layersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Heritage != nil {
		s.Viewer.SetHeritageVisible(*req.Heritage)
	}
	if req.Satellite != nil {
		s.Viewer.SetSatellite(*req.Satellite)
	}
	s.HandleState(w, r)
}

// HandleMeasureToggle arms or disarms the measurement tool.
func (s *ServerContext) HandleMeasureToggle(w http.ResponseWriter, r *http.Request) {
	s.Viewer.ToggleMeasure()
	s.HandleState(w, r)
}

// HandleMeasureClick delivers a map click.
func (s *ServerContext) HandleMeasureClick(w http.ResponseWriter, r *http.Request) {
	var p geo.Point
	if !decodeBody(w, r, &p) {
		return
	}
	if !p.Valid() {
		http.Error(w, "coordinates out of range", http.StatusBadRequest)
		return
	}

	s.Viewer.Click(p)
	s.HandleState(w, r)
}

type locateRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

// HandleLocate applies a position reported by the browser's geolocation.
// A report with error "unsupported" means the browser lacks the capability.
func (s *ServerContext) HandleLocate(w http.ResponseWriter, r *http.Request) {
	var req locateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var loc viewer.Locator
	if req.Error != "unsupported" {
		loc = viewer.LocatorFunc(func(context.Context) (geo.Point, error) {
			if req.Error != "" {
				return geo.Point{}, errors.New(req.Error)
			}
			if req.Lat == nil || req.Lng == nil {
				return geo.Point{}, errors.New("position missing")
			}
			return geo.Point{Lat: *req.Lat, Lng: *req.Lng}, nil
		})
	}

	if err := s.Viewer.Locate(r.Context(), loc); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, s.Viewer.State())
		return
	}
	s.HandleState(w, r)
}

// serveStatic writes an in-memory asset with a content-hash ETag.
func (s *ServerContext) serveStatic(w http.ResponseWriter, r *http.Request, body []byte, contentType, cacheControl string) {
	h := fnv.New64a()
	_, _ = h.Write(body)
	etag := fmt.Sprintf(`"%x"`, h.Sum64())

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", cacheControl)
	_, _ = w.Write(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
