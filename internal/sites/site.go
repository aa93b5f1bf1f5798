// Package sites holds the heritage site collection and its GeoJSON codec.
package sites

import (
	"fmt"

	"github.com/woozymasta/heritagemap/internal/geo"
)

// Site is a single heritage site.
type Site struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Point       geo.Point `json:"point" yaml:"point"`
}

// Details is the detail view of a site with display-ready coordinates.
type Details struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

// Details formats the site for the detail view.
func (s Site) Details() Details {
	return Details{
		Name:        s.Name,
		Description: s.Description,
		Latitude:    fmt.Sprintf("%.6f°", s.Point.Lat),
		Longitude:   fmt.Sprintf("%.6f°", s.Point.Lng),
	}
}
