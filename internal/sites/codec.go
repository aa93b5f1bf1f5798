package sites

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/heritagemap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

// ExportFilename is the download name of the exported collection.
const ExportFilename = "egypt_heritage_sites.geojson"

// Feature property keys.
const (
	PropName        = "Name"
	PropDescription = "Description"
)

//go:embed data/egypt_heritage_sites.geojson
var embedded []byte

// Embedded returns the raw collection compiled into the binary.
func Embedded() []byte {
	return embedded
}

// Default builds a directory from the embedded collection.
func Default() (*Directory, error) {
	return ParseDirectory(embedded)
}

// LoadFile reads a GeoJSON collection from disk.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	d, err := ParseDirectory(data)
	if err != nil {
		return nil, fmt.Errorf("sites file %s: %w", path, err)
	}

	return d, nil
}

// ParseDirectory decodes a GeoJSON FeatureCollection into a directory.
func ParseDirectory(data []byte) (*Directory, error) {
	list, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewDirectory(list)
}

// Parse decodes a GeoJSON FeatureCollection of Point features carrying
// Name and Description properties.
func Parse(data []byte) ([]Site, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	list := make([]Site, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("%w: feature #%d is not a Point", ErrInvalidFeature, i)
		}

		// non-string names fall through to the empty-name check
		name, _ := f.Properties[PropName].(string)
		desc, _ := f.Properties[PropDescription].(string)

		list = append(list, Site{
			Name:        name,
			Description: desc,
			Point:       geo.FromOrb(pt),
		})
	}

	return list, nil
}

// FeatureCollection converts the directory back to GeoJSON.
func (d *Directory) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range d.sites {
		f := geojson.NewFeature(s.Point.Orb())
		f.Properties[PropName] = s.Name
		f.Properties[PropDescription] = s.Description
		fc.Append(f)
	}
	return fc
}

// Export serializes the whole collection as indented GeoJSON.
func (d *Directory) Export() ([]byte, error) {
	return json.MarshalIndent(d.FeatureCollection(), "", "  ")
}

// ExportYAML serializes the collection as a plain YAML site list.
func (d *Directory) ExportYAML() ([]byte, error) {
	return yaml.Marshal(d.sites)
}
