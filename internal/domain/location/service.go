package location

import (
	"context"

	"github.com/CemBlt/dent-admin-app/internal/platform/cache"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// Directory answers reference lookups, caching list responses.
type Directory struct {
	data  *Dataset
	cache cache.Cache
}

func NewDirectory(data *Dataset, c cache.Cache) *Directory {
	if c == nil {
		c = cache.Nop{}
	}
	return &Directory{data: data, cache: c}
}

func (d *Directory) Provinces(ctx context.Context) []Province {
	var out []Province
	if d.cache.Get(ctx, "loc:provinces", &out) {
		return out
	}
	out = nonNil(d.data.Provinces())
	d.cache.Set(ctx, "loc:provinces", out)
	return out
}

func (d *Directory) Districts(ctx context.Context, provinceID string) []District {
	if provinceID == "" {
		return []District{}
	}
	key := "loc:districts:" + provinceID
	var out []District
	if d.cache.Get(ctx, key, &out) {
		return out
	}
	out = nonNil(d.data.Districts(provinceID))
	d.cache.Set(ctx, key, out)
	return out
}

func (d *Directory) Neighborhoods(ctx context.Context, districtID string) []Neighborhood {
	if districtID == "" {
		return []Neighborhood{}
	}
	key := "loc:neighborhoods:" + districtID
	var out []Neighborhood
	if d.cache.Get(ctx, key, &out) {
		return out
	}
	out = nonNil(d.data.Neighborhoods(districtID))
	d.cache.Set(ctx, key, out)
	return out
}

// Resolve checks that the neighborhood lies in the district and the district
// in the province.
func (d *Directory) Resolve(provinceID, districtID, neighborhoodID string) (*Snapshot, error) {
	province, ok := d.data.Province(provinceID)
	if !ok {
		return nil, apperr.Invalid("province", "geçersiz il seçimi")
	}
	district, ok := d.data.District(districtID)
	if !ok || district.ProvinceID != province.ID {
		return nil, apperr.Invalid("district", "geçersiz ilçe seçimi")
	}
	neighborhood, ok := d.data.Neighborhood(neighborhoodID)
	if !ok || neighborhood.DistrictID != district.ID {
		return nil, apperr.Invalid("neighborhood", "geçersiz mahalle seçimi")
	}
	return &Snapshot{Province: province, District: district, Neighborhood: neighborhood}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
