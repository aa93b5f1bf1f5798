package viewer

import (
	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/measure"

	"github.com/google/uuid"
)

// View is the visible map window.
type View struct {
	Center geo.Point `json:"center"`
	Zoom   int       `json:"zoom"`
}

// Line is a polyline between two points.
type Line struct {
	ID    measure.Handle    `json:"id"`
	Style measure.LineStyle `json:"style"`
	From  geo.Point         `json:"from"`
	To    geo.Point         `json:"to"`
}

// Label is a free popup anchored at a point.
type Label struct {
	ID   measure.Handle `json:"id"`
	Text string         `json:"text"`
	At   geo.Point      `json:"at"`
}

// Marker is a point marker that is not a heritage site.
type Marker struct {
	ID    measure.Handle `json:"id"`
	Kind  string         `json:"kind"`
	Popup string         `json:"popup,omitempty"`
	At    geo.Point      `json:"at"`
}

type listener struct {
	fn func(geo.Point)
	id uint64
}

// Surface is the server-side model of the browser map. The browser renders
// whatever it holds. Not safe for concurrent use.
type Surface struct {
	cursor    measure.Cursor
	listeners []listener
	lines     []Line
	labels    []Label
	markers   []Marker
	view      View
	nextID    uint64
}

// NewSurface creates a surface showing the given view.
func NewSurface(view View) *Surface {
	return &Surface{view: view}
}

// OnClick registers a click listener.
func (s *Surface) OnClick(fn func(geo.Point)) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Click dispatches a map click to every registered listener in
// registration order.
func (s *Surface) Click(p geo.Point) {
	ls := make([]listener, len(s.listeners))
	copy(ls, s.listeners)
	for _, l := range ls {
		l.fn(p)
	}
}

// Listeners returns the number of registered click listeners.
func (s *Surface) Listeners() int { return len(s.listeners) }

// DrawLine adds a line and returns its handle.
func (s *Surface) DrawLine(from, to geo.Point, style measure.LineStyle) measure.Handle {
	h := newHandle()
	s.lines = append(s.lines, Line{ID: h, From: from, To: to, Style: style})
	return h
}

// RemoveLine removes a line. Unknown handles are ignored.
func (s *Surface) RemoveLine(h measure.Handle) {
	for i, l := range s.lines {
		if l.ID == h {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// ShowLabel opens a popup at a point and returns its handle.
func (s *Surface) ShowLabel(at geo.Point, text string) measure.Handle {
	h := newHandle()
	s.labels = append(s.labels, Label{ID: h, At: at, Text: text})
	return h
}

// RemoveLabel closes a popup. Unknown handles are ignored.
func (s *Surface) RemoveLabel(h measure.Handle) {
	for i, l := range s.labels {
		if l.ID == h {
			s.labels = append(s.labels[:i], s.labels[i+1:]...)
			return
		}
	}
}

// AddMarker places a marker and returns its handle.
func (s *Surface) AddMarker(kind string, at geo.Point, popup string) measure.Handle {
	h := newHandle()
	s.markers = append(s.markers, Marker{ID: h, Kind: kind, At: at, Popup: popup})
	return h
}

// SetCursor sets the pointer style.
func (s *Surface) SetCursor(c measure.Cursor) { s.cursor = c }

// Cursor returns the pointer style.
func (s *Surface) Cursor() measure.Cursor { return s.cursor }

// SetView pans and zooms the map.
func (s *Surface) SetView(center geo.Point, zoom int) {
	s.view = View{Center: center, Zoom: zoom}
}

// View returns the visible window.
func (s *Surface) View() View { return s.view }

// Lines returns a copy of the drawn lines.
func (s *Surface) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Labels returns a copy of the open labels.
func (s *Surface) Labels() []Label {
	out := make([]Label, len(s.labels))
	copy(out, s.labels)
	return out
}

// Markers returns a copy of the extra markers.
func (s *Surface) Markers() []Marker {
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

func newHandle() measure.Handle {
	return measure.Handle(uuid.NewString())
}
