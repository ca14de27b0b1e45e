package model

import "strings"

// Tier is the administrative level of a Location, derived from its code.
type Tier int

const (
	TierProvince Tier = iota
	TierCity
	TierDistrict
)

func (t Tier) String() string {
	switch t {
	case TierProvince:
		return "province"
	case TierCity:
		return "city"
	case TierDistrict:
		return "district"
	default:
		return "unknown"
	}
}

// countyLevelCitySuffix marks a district-tier unit that is a county-level city.
const countyLevelCitySuffix = "市"

// municipalities are the province-tier codes governed directly, with no city tier beneath them.
var municipalities = map[string]struct{}{
	"110000": {}, // 北京市
	"120000": {}, // 天津市
	"310000": {}, // 上海市
	"500000": {}, // 重庆市
}

// Location is one row of the administrative division table.
type Location struct {
	// Name of the unit. Unique only among siblings.
	Name string `json:"name"`

	// Code is the 6-digit adcode: digits 1-2 province, 1-4 city, 1-6 district.
	Code string `json:"code"`

	// ServiceCode is the telephone area code; passed through unchanged.
	ServiceCode string `json:"serviceCode"`
}

// TierOf classifies a code by its trailing zeros.
func TierOf(code string) Tier {
	switch {
	case strings.HasSuffix(code, "0000"):
		return TierProvince
	case strings.HasSuffix(code, "00"):
		return TierCity
	default:
		return TierDistrict
	}
}

// Tier returns the tier of l.
func (l Location) Tier() Tier {
	return TierOf(l.Code)
}

// IsMunicipality reports whether l is one of the directly-governed municipalities.
func (l Location) IsMunicipality() bool {
	_, ok := municipalities[l.Code]
	return ok
}

// IsCountyLevelCity reports whether l is a district-tier unit named as a city.
func (l Location) IsCountyLevelCity() bool {
	return l.Tier() == TierDistrict && strings.HasSuffix(l.Name, countyLevelCitySuffix)
}
