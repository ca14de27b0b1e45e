package adcode

import "github.com/miyamo2/amap-flomo-mcp/domain/model"

// FullName returns the human-readable name of loc prefixed by its ancestors.
//
//   - province: its own name.
//   - city: prefixed by its province unless the province is a municipality.
//   - district: prefixed by its province, and by its city as well unless it is a
//     county-level city or sits under a municipality.
//
// Missing ancestors are skipped; a district without a province keeps its own name.
func (t *Table) FullName(loc model.Location) string {
	switch loc.Tier() {
	case model.TierProvince:
		return loc.Name
	case model.TierCity:
		province, ok := t.FindProvince(loc.Code)
		if ok && !province.IsMunicipality() {
			return province.Name + loc.Name
		}
		return loc.Name
	}

	province, ok := t.FindProvince(loc.Code)
	if !ok {
		return loc.Name
	}
	if loc.IsCountyLevelCity() || province.IsMunicipality() {
		return province.Name + loc.Name
	}
	if city, ok := t.FindCity(loc.Code); ok {
		return province.Name + city.Name + loc.Name
	}
	return province.Name + loc.Name
}
