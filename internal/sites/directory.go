package sites

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a collection holds no sites.
	ErrEmpty = errors.New("site collection is empty")
	// ErrDuplicateName is returned when two sites share a name.
	ErrDuplicateName = errors.New("duplicate site name")
	// ErrInvalidFeature is returned for features that cannot be a site.
	ErrInvalidFeature = errors.New("invalid site feature")
)

// Directory is an immutable, ordered set of sites indexed by name.
type Directory struct {
	byName map[string]int
	sites  []Site
}

// NewDirectory validates the sites and builds the name index.
// Order is preserved.
func NewDirectory(list []Site) (*Directory, error) {
	if len(list) == 0 {
		return nil, ErrEmpty
	}

	d := &Directory{
		sites:  make([]Site, len(list)),
		byName: make(map[string]int, len(list)),
	}
	copy(d.sites, list)

	for i, s := range d.sites {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: site #%d has no name", ErrInvalidFeature, i)
		}
		if !s.Point.Valid() {
			return nil, fmt.Errorf("%w: site %q has out of range coordinates %v", ErrInvalidFeature, s.Name, s.Point)
		}
		if _, ok := d.byName[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
		}
		d.byName[s.Name] = i
	}

	return d, nil
}

// FindByName returns the site with the exact name.
func (d *Directory) FindByName(name string) (Site, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Site{}, false
	}
	return d.sites[i], true
}

// All returns the sites in load order. The slice is a copy.
func (d *Directory) All() []Site {
	out := make([]Site, len(d.sites))
	copy(out, d.sites)
	return out
}

// Len returns the number of sites.
func (d *Directory) Len() int { return len(d.sites) }
