package adcode

import (
	"testing"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

func TestTable_FindProvince(t *testing.T) {
	tbl := fixture(t)
	type test struct {
		code     string
		expected string
		found    bool
	}
	tests := map[string]test{
		"from district": {
			code:     "330106",
			expected: "330000",
			found:    true,
		},
		"from city": {
			code:     "330100",
			expected: "330000",
			found:    true,
		},
		"from itself": {
			code:     "330000",
			expected: "330000",
			found:    true,
		},
		"absent province": {
			code:  "990101",
			found: false,
		},
		"too short": {
			code:  "3",
			found: false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := tbl.FindProvince(tc.code)
			if ok != tc.found {
				t.Fatalf("expected found=%v, got %v", tc.found, ok)
			}
			if ok && got.Code != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got.Code)
			}
		})
	}
}

func TestTable_FindProvince_CodeShape(t *testing.T) {
	tbl := fixture(t)
	for _, r := range tbl.Rows() {
		got, ok := tbl.FindProvince(r.Code)
		if !ok {
			continue
		}
		if want := r.Code[:2] + "0000"; got.Code != want {
			t.Errorf("FindProvince(%s) = %s, want %s", r.Code, got.Code, want)
		}
	}
}

func TestTable_FindCity(t *testing.T) {
	tbl := fixture(t)
	type test struct {
		code     string
		expected string
		found    bool
	}
	tests := map[string]test{
		"district with city": {
			code:     "330106",
			expected: "330100",
			found:    true,
		},
		"municipality district": {
			code:  "110101",
			found: false,
		},
		"county-level city without parent row": {
			code:  "469001",
			found: false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := tbl.FindCity(tc.code)
			if ok != tc.found {
				t.Fatalf("expected found=%v, got %v", tc.found, ok)
			}
			if ok && got.Code != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got.Code)
			}
		})
	}
}

func TestTable_DistrictsInProvince(t *testing.T) {
	tbl := fixture(t)
	got := codes(tbl.DistrictsInProvince("33"))
	expected := []string{"330106", "330182"}
	if !equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	if got := tbl.DistrictsInProvince("81"); len(got) != 0 {
		t.Fatalf("expected no districts, got %v", got)
	}
}

func TestTable_DistrictsInCity(t *testing.T) {
	tbl := fixture(t)
	got := codes(tbl.DistrictsInCity("3301"))
	expected := []string{"330106", "330182"}
	if !equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	if got := tbl.DistrictsInCity("4419"); len(got) != 0 {
		t.Fatalf("expected no districts, got %v", got)
	}
}

func codes(locs []model.Location) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		out = append(out, l.Code)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
