package measure

import (
	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/notify"
)

// Handle identifies a drawable owned by the map surface.
type Handle string

// Cursor is the pointer style over the map.
type Cursor string

// Cursors used by the tool.
const (
	CursorDefault   Cursor = ""
	CursorCrosshair Cursor = "crosshair"
)

// LineStyle describes how the measurement line is drawn.
type LineStyle struct {
	Color     string `json:"color" yaml:"color"`
	DashArray string `json:"dash_array,omitempty" yaml:"dash_array,omitempty"`
	Weight    int    `json:"weight" yaml:"weight"`
}

// Surface is the map the tool draws on.
type Surface interface {
	// OnClick registers a listener and returns a function that removes it.
	OnClick(fn func(geo.Point)) (cancel func())
	DrawLine(from, to geo.Point, style LineStyle) Handle
	RemoveLine(h Handle)
	ShowLabel(at geo.Point, text string) Handle
	RemoveLabel(h Handle)
	SetCursor(c Cursor)
}

// Notifier receives user-facing messages.
type Notifier interface {
	Notify(severity notify.Severity, message string)
}
