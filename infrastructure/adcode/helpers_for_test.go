package adcode

import (
	"strings"
	"testing"
)

// MustLoad loads a table from rows, prepending a header.
func MustLoad(t *testing.T, rows ...string) *Table {
	t.Helper()
	src := "name,code,serviceCode\n" + strings.Join(rows, "\n")
	tbl, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to load table: %v", err)
	}
	return tbl
}

// fixture is a small table covering every naming rule.
func fixture(t *testing.T) *Table {
	t.Helper()
	return MustLoad(t,
		"北京市,110000,010",
		"东城区,110101,010",
		"西城区,110102,010",
		"浙江省,330000,",
		"杭州市,330100,0571",
		"西湖区,330106,0571",
		"建德市,330182,0571",
		"宁波市,330200,0574",
		"广东省,440000,",
		"东莞市,441900,0769",
		"海南省,460000,",
		"五指山市,469001,1897",
		"香港特别行政区,810000,1852",
		"孤岛区,990101,",
	)
}
