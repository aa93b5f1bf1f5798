package processor

import (
	"encoding/json"
	"strings"

	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/sites"
)

// Internal structure for plain JSON site lists
type listSite struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// parseSiteList converts a plain JSON array of sites.
func parseSiteList(data []byte) ([]sites.Site, error) {
	var raw []listSite
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	list := make([]sites.Site, 0, len(raw))
	for _, s := range raw {
		list = append(list, sites.Site{
			Name:        strings.TrimSpace(s.Name),
			Description: strings.TrimSpace(s.Description),
			Point:       geo.Point{Lat: s.Lat, Lng: s.Lng},
		})
	}

	return list, nil
}
