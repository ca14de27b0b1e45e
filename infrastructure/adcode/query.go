package adcode

import (
	"slices"
	"strings"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

const (
	// SoftLimit stops Search from expanding further matches once this many rows are collected.
	// It is checked between matches, so one match may push the result past it.
	SoftLimit = 10

	// HardLimit is the most rows Search ever returns.
	HardLimit = 100
)

// Get returns the row with the exact code.
func (t *Table) Get(code string) (model.Location, bool) {
	i, ok := t.byCode[code]
	if !ok {
		return model.Location{}, false
	}
	return t.rows[i], true
}

// Search returns the rows whose name contains query, expanded down to districts.
//
// An empty query matches every row. A province match expands to its districts and yields
// nothing when it has none. A city match expands to its districts, or to the city itself when
// it has none. Names in the result are composed with FullName.
func (t *Table) Search(query string) []model.Location {
	var expanded []model.Location
	for _, r := range t.rows {
		if len(expanded) >= SoftLimit {
			break
		}
		if !strings.Contains(r.Name, query) {
			continue
		}
		switch r.Tier() {
		case model.TierProvince:
			expanded = append(expanded, t.DistrictsInProvince(r.Code[:provincePrefixLength])...)
		case model.TierCity:
			districts := t.DistrictsInCity(r.Code[:cityPrefixLength])
			if len(districts) == 0 {
				districts = []model.Location{r}
			}
			expanded = append(expanded, districts...)
		default:
			expanded = append(expanded, r)
		}
	}
	if len(expanded) > HardLimit {
		expanded = expanded[:HardLimit]
	}

	out := make([]model.Location, 0, len(expanded))
	for _, r := range expanded {
		out = append(out, t.composed(r))
	}
	return out
}

// Match returns the first row whose name equals name or, failing that, the first row
// whose name contains it. The row is not expanded; its name is composed with FullName.
func (t *Table) Match(name string) (model.Location, bool) {
	if name == "" {
		return model.Location{}, false
	}
	i := slices.IndexFunc(t.rows, func(r model.Location) bool { return r.Name == name })
	if i < 0 {
		i = slices.IndexFunc(t.rows, func(r model.Location) bool { return strings.Contains(r.Name, name) })
	}
	if i < 0 {
		return model.Location{}, false
	}
	return t.composed(t.rows[i]), true
}

// composed returns a copy of loc named by FullName.
func (t *Table) composed(loc model.Location) model.Location {
	loc.Name = t.FullName(loc)
	return loc
}
