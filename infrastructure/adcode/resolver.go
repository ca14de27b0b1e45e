package adcode

import (
	"strings"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

const (
	provincePrefixLength = 2
	cityPrefixLength     = 4
)

// FindProvince returns the province-tier row that code belongs to.
func (t *Table) FindProvince(code string) (model.Location, bool) {
	if len(code) < provincePrefixLength {
		return model.Location{}, false
	}
	return t.Get(code[:provincePrefixLength] + "0000")
}

// FindCity returns the city-tier row that code belongs to.
//
// Districts of a municipality usually have none.
func (t *Table) FindCity(code string) (model.Location, bool) {
	if len(code) < cityPrefixLength {
		return model.Location{}, false
	}
	return t.Get(code[:cityPrefixLength] + "00")
}

// DistrictsInProvince returns the district-tier rows whose code starts with the 2-digit prefix.
func (t *Table) DistrictsInProvince(prefix string) []model.Location {
	return t.districtsWithPrefix(prefix)
}

// DistrictsInCity returns the district-tier rows whose code starts with the 4-digit prefix.
func (t *Table) DistrictsInCity(prefix string) []model.Location {
	return t.districtsWithPrefix(prefix)
}

func (t *Table) districtsWithPrefix(prefix string) []model.Location {
	var out []model.Location
	for _, r := range t.rows {
		if r.Tier() != model.TierDistrict || !strings.HasPrefix(r.Code, prefix) {
			continue
		}
		out = append(out, r)
	}
	return out
}
