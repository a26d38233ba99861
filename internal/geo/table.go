// Package geo holds the static reference table of named locations used by the
// geo-drift rule, and the great-circle distance between two of its points.
package geo

import (
	"fmt"
	"os"
	"sort"

	"github.com/umahmood/haversine"
	"gopkg.in/yaml.v3"
)

// LocationPoint is a named location and its coordinates in degrees.
type LocationPoint struct {
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
}

// Table is an immutable lookup of location name to coordinates. It is safe for
// concurrent use because nothing writes to it after construction.
type Table struct {
	points map[string]LocationPoint
}

var defaultPoints = []LocationPoint{
	{Name: "Chennai", Latitude: 13.0827, Longitude: 80.2707},
	{Name: "Mumbai", Latitude: 19.0760, Longitude: 72.8777},
	{Name: "Delhi", Latitude: 28.6139, Longitude: 77.2090},
	{Name: "Bangalore", Latitude: 12.9716, Longitude: 77.5946},
}

// DefaultTable returns the built-in city table.
func DefaultTable() *Table {
	return NewTable(defaultPoints)
}

// NewTable builds a table from points. Later duplicates replace earlier ones.
func NewTable(points []LocationPoint) *Table {
	t := &Table{points: make(map[string]LocationPoint, len(points))}
	for _, p := range points {
		t.points[p.Name] = p
	}
	return t
}

type tableFile struct {
	Locations []LocationPoint `yaml:"locations"`
}

// LoadFile reads a YAML document of the form
//
//	locations:
//	  - name: Chennai
//	    latitude: 13.0827
//	    longitude: 80.2707
//
// and returns a table holding exactly those points.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse locations file: %w", err)
	}
	if len(f.Locations) == 0 {
		return nil, fmt.Errorf("locations file %s defines no locations", path)
	}

	for i, p := range f.Locations {
		if p.Name == "" {
			return nil, fmt.Errorf("location %d has no name", i)
		}
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return nil, fmt.Errorf("location %q has out-of-range coordinates", p.Name)
		}
	}

	return NewTable(f.Locations), nil
}

// Lookup returns the point registered under name.
func (t *Table) Lookup(name string) (LocationPoint, bool) {
	p, ok := t.points[name]
	return p, ok
}

// Names returns the registered location names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.points))
	for n := range t.points {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DistanceKm returns the great-circle distance between a and b in kilometres.
func DistanceKm(a, b LocationPoint) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)
	return km
}
