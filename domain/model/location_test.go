package model

import "testing"

func TestTierOf(t *testing.T) {
	type test struct {
		code string
		tier Tier
	}
	tests := map[string]test{
		"province": {
			code: "330000",
			tier: TierProvince,
		},
		"city": {
			code: "330100",
			tier: TierCity,
		},
		"district": {
			code: "330106",
			tier: TierDistrict,
		},
		"district ending in a single zero": {
			code: "110110",
			tier: TierDistrict,
		},
		"city ending in 000 but not 0000": {
			code: "441000",
			tier: TierCity,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := TierOf(tc.code); got != tc.tier {
				t.Errorf("expected %v, got %v", tc.tier, got)
			}
		})
	}
}

func TestTier_String(t *testing.T) {
	type test struct {
		tier Tier
		str  string
	}
	tests := map[string]test{
		"province": {tier: TierProvince, str: "province"},
		"city":     {tier: TierCity, str: "city"},
		"district": {tier: TierDistrict, str: "district"},
		"other":    {tier: -1, str: "unknown"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.tier.String(); got != tc.str {
				t.Errorf("expected %s, got %s", tc.str, got)
			}
		})
	}
}

func TestLocation_IsMunicipality(t *testing.T) {
	for _, code := range []string{"110000", "120000", "310000", "500000"} {
		t.Run(code, func(t *testing.T) {
			if !(Location{Code: code}).IsMunicipality() {
				t.Fatalf("expected %s to be a municipality", code)
			}
		})
	}
	for _, code := range []string{"330000", "110101", "110100", "810000", ""} {
		t.Run("not "+code, func(t *testing.T) {
			if (Location{Code: code}).IsMunicipality() {
				t.Fatalf("expected %s not to be a municipality", code)
			}
		})
	}
}

func TestLocation_IsCountyLevelCity(t *testing.T) {
	type test struct {
		loc  Location
		want bool
	}
	tests := map[string]test{
		"county-level city": {
			loc:  Location{Name: "建德市", Code: "330182"},
			want: true,
		},
		"ordinary district": {
			loc:  Location{Name: "西湖区", Code: "330106"},
			want: false,
		},
		"prefecture-level city": {
			loc:  Location{Name: "杭州市", Code: "330100"},
			want: false,
		},
		"municipality": {
			loc:  Location{Name: "北京市", Code: "110000"},
			want: false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.loc.IsCountyLevelCity(); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
