package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/measure"
	"github.com/woozymasta/heritagemap/internal/notify"
	"github.com/woozymasta/heritagemap/internal/sites"
	"github.com/woozymasta/heritagemap/internal/viewer"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	dir, err := sites.Default()
	if err != nil {
		t.Fatal(err)
	}

	ctx, err := NewServerContext(cfg, viewer.New(cfg, dir, notify.NewCenter(time.Minute)))
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	srv := httptest.NewServer(RequestLogger(ctx.Routes()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeState(t *testing.T, resp *http.Response) viewer.State {
	t.Helper()

	var st viewer.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestIndexAndFavicon(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/", "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("GET / = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	etag := resp.Header.Get("ETag")
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("If-None-Match", etag)
	cached, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = cached.Body.Close()
	if cached.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET = %d, want 304", cached.StatusCode)
	}

	if resp := do(t, srv, http.MethodGet, "/favicon.ico", ""); resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Errorf("favicon content type = %q", resp.Header.Get("Content-Type"))
	}
	if resp := do(t, srv, http.MethodGet, "/nope.js", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /nope.js = %d", resp.StatusCode)
	}
}

func TestSitesAndDetails(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/sites", "")
	body, _ := io.ReadAll(resp.Body)
	d, err := sites.ParseDirectory(body)
	if err != nil {
		t.Fatalf("GET /api/sites is not a valid collection: %v", err)
	}
	if d.Len() != 3 {
		t.Errorf("sites = %d", d.Len())
	}

	resp = do(t, srv, http.MethodGet, "/api/sites/Karnak%20Temple", "")
	var details sites.Details
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		t.Fatal(err)
	}
	if details.Latitude != "25.718800°" || details.Longitude != "32.657300°" {
		t.Errorf("details = %+v", details)
	}

	if resp := do(t, srv, http.MethodGet, "/api/sites/Nonexistent", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown site = %d", resp.StatusCode)
	}
}

func TestExportDownload(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/export", "")
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="egypt_heritage_sites.geojson"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"Name": "Giza Pyramids"`) {
		t.Errorf("export body:\n%s", body)
	}

	var notes []notify.Notification
	if err := json.NewDecoder(do(t, srv, http.MethodGet, "/api/notifications", "").Body).Decode(&notes); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].Message != "Data exported successfully!" || notes[0].Severity != notify.Success {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestMeasureFlow(t *testing.T) {
	srv := newTestServer(t)

	st := decodeState(t, do(t, srv, http.MethodPost, "/api/measure/toggle", ""))
	if st.Measure.State != measure.WaitingFirst {
		t.Fatalf("after toggle: %v", st.Measure.State)
	}

	st = decodeState(t, do(t, srv, http.MethodPost, "/api/measure/click", `{"lat":29.9792,"lng":31.1342}`))
	if st.Measure.State != measure.WaitingSecond || len(st.Lines) != 0 {
		t.Fatalf("after first click: %+v", st.Measure)
	}

	st = decodeState(t, do(t, srv, http.MethodPost, "/api/measure/click", `{"lat":25.7188,"lng":32.6573}`))
	if len(st.Lines) != 1 || len(st.Labels) != 1 || st.Labels[0].Text != "Distance: 496.82 km" {
		t.Fatalf("after second click: lines=%d labels=%+v", len(st.Lines), st.Labels)
	}

	st = decodeState(t, do(t, srv, http.MethodPost, "/api/measure/toggle", ""))
	if st.Measure.State != measure.Disabled || len(st.Lines) != 0 || len(st.Labels) != 0 {
		t.Fatalf("after toggle-off: %+v", st)
	}

	for _, body := range []string{`{"lat":95,"lng":0}`, `not json`} {
		if resp := do(t, srv, http.MethodPost, "/api/measure/click", body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("click %s = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestStateEncodesEmptyCollections(t *testing.T) {
	srv := newTestServer(t)

	rawState := func(resp *http.Response) map[string]json.RawMessage {
		t.Helper()
		var m map[string]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return m
	}
	assertArrays := func(stage string, m map[string]json.RawMessage) {
		t.Helper()
		for _, key := range []string{"lines", "labels", "markers", "notifications"} {
			raw, ok := m[key]
			if !ok || !strings.HasPrefix(string(raw), "[") {
				t.Errorf("%s: %s = %s, want array", stage, key, raw)
			}
		}
	}

	assertArrays("fresh", rawState(do(t, srv, http.MethodGet, "/api/state", "")))

	do(t, srv, http.MethodPost, "/api/measure/toggle", "")
	do(t, srv, http.MethodPost, "/api/measure/click", `{"lat":29.9792,"lng":31.1342}`)
	do(t, srv, http.MethodPost, "/api/measure/click", `{"lat":25.7188,"lng":32.6573}`)
	assertArrays("toggle-off", rawState(do(t, srv, http.MethodPost, "/api/measure/toggle", "")))
}

func TestViewAndLayers(t *testing.T) {
	srv := newTestServer(t)

	st := decodeState(t, do(t, srv, http.MethodPost, "/api/view/site/Abu%20Simbel%20Temples", ""))
	if st.View.Zoom != 12 || st.OpenPopup != "Abu Simbel Temples" {
		t.Errorf("zoom to site: %+v", st)
	}

	st = decodeState(t, do(t, srv, http.MethodPost, "/api/view/home", ""))
	if st.View.Zoom != 6 || st.Info.Center != "26.8206, 30.8025" {
		t.Errorf("home: %+v", st.View)
	}

	st = decodeState(t, do(t, srv, http.MethodPost, "/api/layers", `{"satellite":true}`))
	if !st.Layers.Satellite || !st.Layers.Heritage {
		t.Errorf("layers: %+v", st.Layers)
	}

	st = decodeState(t, do(t, srv, http.MethodPost, "/api/view/fullscreen", ""))
	if !st.Fullscreen {
		t.Error("fullscreen not toggled")
	}

	if resp := do(t, srv, http.MethodGet, "/api/view/home", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST route = %d", resp.StatusCode)
	}
}

func TestLocate(t *testing.T) {
	srv := newTestServer(t)

	if resp := do(t, srv, http.MethodPost, "/api/locate", `{"error":"unsupported"}`); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unsupported = %d", resp.StatusCode)
	}
	if resp := do(t, srv, http.MethodPost, "/api/locate", `{"error":"User denied Geolocation"}`); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("denied = %d", resp.StatusCode)
	}

	resp := do(t, srv, http.MethodPost, "/api/locate", `{"lat":30.0444,"lng":31.2357}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("locate = %d", resp.StatusCode)
	}
	st := decodeState(t, resp)
	if st.View.Zoom != 10 || len(st.Markers) != 1 {
		t.Errorf("after locate: view=%+v markers=%+v", st.View, st.Markers)
	}
}

func TestConfigAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	var cfg struct {
		Center *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"center"`
		TTL    *json.RawMessage `json:"notification_ttl"`
		Zoom   int              `json:"zoom"`
		Layers struct {
			Base struct {
				URL string `json:"url"`
			} `json:"base"`
		} `json:"layers"`
	}
	if err := json.NewDecoder(do(t, srv, http.MethodGet, "/api/config", "").Body).Decode(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Zoom != 6 || cfg.Layers.Base.URL == "" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Center == nil || cfg.Center.Lat != 26.8206 || cfg.Center.Lng != 30.8025 {
		t.Errorf("center = %+v", cfg.Center)
	}
	if cfg.TTL != nil {
		t.Errorf("notification_ttl exposed: %s", *cfg.TTL)
	}

	body, _ := io.ReadAll(do(t, srv, http.MethodGet, "/metrics", "").Body)
	if !strings.Contains(string(body), "heritagemap_http_requests_total") {
		t.Error("metrics lack request counter")
	}
}
