package location

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// The YAML reference file nests districts under provinces and neighborhoods
// under districts:
//
//	provinces:
//	  - id: "34"
//	    name: İSTANBUL
//	    districts:
//	      - id: "1421"
//	        name: KADIKÖY
//	        neighborhoods:
//	          - {id: "40100", name: CAFERAĞA}
type fileNeighborhood struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type fileDistrict struct {
	ID            string             `yaml:"id"`
	Name          string             `yaml:"name"`
	Neighborhoods []fileNeighborhood `yaml:"neighborhoods"`
}

type fileProvince struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Districts []fileDistrict `yaml:"districts"`
}

type fileDataset struct {
	Provinces []fileProvince `yaml:"provinces"`
}

// Dataset is the indexed, read-only reference data.
type Dataset struct {
	provinces     []Province
	provinceByID  map[string]Province
	districts     map[string][]District
	districtByID  map[string]District
	neighborhoods map[string][]Neighborhood
	neighborhood  map[string]Neighborhood
}

func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open location data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Dataset, error) {
	var raw fileDataset
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode location data: %w", err)
	}

	names := newNameNormalizer()
	ds := &Dataset{
		provinceByID:  make(map[string]Province),
		districts:     make(map[string][]District),
		districtByID:  make(map[string]District),
		neighborhoods: make(map[string][]Neighborhood),
		neighborhood:  make(map[string]Neighborhood),
	}
	for _, p := range raw.Provinces {
		if _, dup := ds.provinceByID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate province id %q", p.ID)
		}
		prov := Province{ID: p.ID, Name: names.normalize(p.Name)}
		ds.provinces = append(ds.provinces, prov)
		ds.provinceByID[p.ID] = prov

		for _, d := range p.Districts {
			if _, dup := ds.districtByID[d.ID]; dup {
				return nil, fmt.Errorf("duplicate district id %q", d.ID)
			}
			dist := District{ID: d.ID, Name: names.normalize(d.Name), ProvinceID: prov.ID, ProvinceName: prov.Name}
			ds.districts[prov.ID] = append(ds.districts[prov.ID], dist)
			ds.districtByID[d.ID] = dist

			for _, n := range d.Neighborhoods {
				if _, dup := ds.neighborhood[n.ID]; dup {
					return nil, fmt.Errorf("duplicate neighborhood id %q", n.ID)
				}
				nb := Neighborhood{
					ID:           n.ID,
					Name:         names.normalize(n.Name),
					DistrictID:   dist.ID,
					DistrictName: dist.Name,
					ProvinceID:   prov.ID,
					ProvinceName: prov.Name,
				}
				ds.neighborhoods[dist.ID] = append(ds.neighborhoods[dist.ID], nb)
				ds.neighborhood[n.ID] = nb
			}
		}
	}
	return ds, nil
}

func (d *Dataset) Provinces() []Province { return d.provinces }

func (d *Dataset) Districts(provinceID string) []District { return d.districts[provinceID] }

func (d *Dataset) Neighborhoods(districtID string) []Neighborhood { return d.neighborhoods[districtID] }

func (d *Dataset) Province(id string) (Province, bool) {
	p, ok := d.provinceByID[id]
	return p, ok
}

func (d *Dataset) District(id string) (District, bool) {
	v, ok := d.districtByID[id]
	return v, ok
}

func (d *Dataset) Neighborhood(id string) (Neighborhood, bool) {
	v, ok := d.neighborhood[id]
	return v, ok
}
