// Package directory provides the static region/city lookup used by the
// location step of the listing wizard. The data is embedded so the server
// works deterministically and offline.
package directory

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

type regionEntry struct {
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

type regionsFile struct {
	Regions []regionEntry `yaml:"regions"`
}

// Directory maps a region name to its ordered city list
type Directory struct {
	order  []string
	cities map[string][]string
}

// Load parses the embedded region directory
func Load() (*Directory, error) {
	var file regionsFile
	if err := yaml.Unmarshal(regionsYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded regions.yaml: %w", err)
	}
	if len(file.Regions) == 0 {
		return nil, fmt.Errorf("embedded regions.yaml contains no regions")
	}

	d := &Directory{cities: make(map[string][]string, len(file.Regions))}
	for _, r := range file.Regions {
		if r.Name == "" {
			return nil, fmt.Errorf("embedded regions.yaml contains a region without a name")
		}
		d.order = append(d.order, r.Name)
		d.cities[r.Name] = r.Cities
	}
	return d, nil
}

// Regions returns the region names in file order
func (d *Directory) Regions() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// CitiesFor returns the ordered city list for a region. Unknown regions
// yield an empty list, mirroring the HTTP cities endpoint.
func (d *Directory) CitiesFor(region string) []string {
	cities, ok := d.cities[region]
	if !ok {
		return []string{}
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}

// HasRegion reports whether the region exists in the directory
func (d *Directory) HasRegion(region string) bool {
	_, ok := d.cities[region]
	return ok
}

// HasCity reports whether the city belongs to the region's list
func (d *Directory) HasCity(region, city string) bool {
	for _, c := range d.cities[region] {
		if c == city {
			return true
		}
	}
	return false
}
