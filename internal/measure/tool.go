// Package measure implements the two-click distance measurement tool.
package measure

import (
	"fmt"

	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/notify"

	"github.com/rs/zerolog/log"
)

// State of the measurement tool.
type State int

// Tool states.
const (
	Disabled State = iota
	WaitingFirst
	WaitingSecond
)

func (s State) String() string {
	switch s {
	case WaitingFirst:
		return "waiting_first"
	case WaitingSecond:
		return "waiting_second"
	default:
		return "disabled"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "disabled":
		*s = Disabled
	case "waiting_first":
		*s = WaitingFirst
	case "waiting_second":
		*s = WaitingSecond
	default:
		return fmt.Errorf("unknown measure state %q", text)
	}
	return nil
}

// Measurement is a completed pair of points.
type Measurement struct {
	From geo.Point `json:"from"`
	To   geo.Point `json:"to"`
	Km   float64   `json:"km"`
}

// Label is the text shown at the midpoint of a measurement.
func (m Measurement) Label() string {
	return "Distance: " + geo.FormatKm(m.Km)
}

// Tool is the measurement session. It is not safe for concurrent use;
// the owner serializes events.
type Tool struct {
	surface  Surface
	notifier Notifier
	cancel   func()
	anchor   *geo.Point
	last     *Measurement
	line     Handle
	label    Handle
	style    LineStyle
	state    State
	// OnMeasured is called after each completed pair, if set.
	OnMeasured func(Measurement)
}

// New creates a disabled tool bound to a surface.
func New(surface Surface, notifier Notifier, style LineStyle) *Tool {
	return &Tool{
		surface:  surface,
		notifier: notifier,
		style:    style,
	}
}

// State returns the current state.
func (t *Tool) State() State { return t.state }

// Armed reports whether the tool listens for clicks.
func (t *Tool) Armed() bool { return t.state != Disabled }

// Anchor returns the pending first point, if any.
func (t *Tool) Anchor() (geo.Point, bool) {
	if t.anchor == nil {
		return geo.Point{}, false
	}
	return *t.anchor, true
}

// Last returns the most recent completed measurement of this session.
func (t *Tool) Last() (Measurement, bool) {
	if t.last == nil {
		return Measurement{}, false
	}
	return *t.last, true
}

// Toggle enables a disabled tool and disables an armed one.
func (t *Tool) Toggle() {
	if t.Armed() {
		t.Disable()
		return
	}
	t.Enable()
}

// Enable arms the tool. Calling it on an armed tool does nothing.
func (t *Tool) Enable() {
	if t.Armed() {
		return
	}

	t.anchor = nil
	t.last = nil
	t.state = WaitingFirst
	t.cancel = t.surface.OnClick(t.handleClick)

	log.Debug().Msg("Measure tool enabled")
	t.notify(notify.Info, "Click two points on the map to measure distance")
}

// Disable detaches the listener and removes everything the tool has drawn.
// Calling it on a disabled tool does nothing.
func (t *Tool) Disable() {
	if !t.Armed() {
		return
	}

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.clearDrawables()
	t.surface.SetCursor(CursorDefault)
	t.anchor = nil
	t.last = nil
	t.state = Disabled

	log.Debug().Msg("Measure tool disabled")
	t.notify(notify.Info, "Measuring tool stopped")
}

func (t *Tool) handleClick(p geo.Point) {
	switch t.state {
	case WaitingFirst:
		t.anchor = &p
		t.state = WaitingSecond
		t.surface.SetCursor(CursorCrosshair)
		t.notify(notify.Info, "Click the second point to complete measurement")

	case WaitingSecond:
		from := *t.anchor
		m := Measurement{From: from, To: p, Km: geo.Distance(from, p)}

		t.clearDrawables()
		t.line = t.surface.DrawLine(from, p, t.style)
		t.label = t.surface.ShowLabel(geo.Midpoint(from, p), m.Label())

		t.last = &m
		t.anchor = nil
		t.state = WaitingFirst
		t.surface.SetCursor(CursorCrosshair)

		log.Info().
			Str("from", from.String()).
			Str("to", p.String()).
			Float64("km", m.Km).
			Msg("Distance measured")

		t.notify(notify.Success, fmt.Sprintf(
			"Distance measured: %s. Click two more points for another measurement.",
			geo.FormatKm(m.Km)))

		if t.OnMeasured != nil {
			t.OnMeasured(m)
		}
	}
}

func (t *Tool) clearDrawables() {
	if t.line != "" {
		t.surface.RemoveLine(t.line)
		t.line = ""
	}
	if t.label != "" {
		t.surface.RemoveLabel(t.label)
		t.label = ""
	}
}

func (t *Tool) notify(severity notify.Severity, message string) {
	if t.notifier != nil {
		t.notifier.Notify(severity, message)
	}
}
