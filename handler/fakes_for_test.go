package handler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/adcode"
)

// testRows is a slice of the division table in its source format.
var testRows = []string{
	"中文名,adcode,citycode",
	"北京市,110000,010",
	"东城区,110101,010",
	"朝阳区,110105,010",
	"浙江省,330000,",
	"杭州市,330100,0571",
	"上城区,330102,0571",
	"西湖区,330106,0571",
}

// newTestDivision loads testRows into the table the server uses in production.
func newTestDivision(t *testing.T) *adcode.Lazy {
	t.Helper()
	tbl, err := adcode.Load(strings.NewReader(strings.Join(testRows, "\n")))
	if err != nil {
		t.Fatalf("failed to load table: %v", err)
	}
	return adcode.NewLazy(func() (*adcode.Table, error) { return tbl, nil })
}

type fakeWeather struct {
	adcodes []string
}

func (f *fakeWeather) Weather(_ context.Context, adcode string, forecast bool) (*model.Weather, error) {
	if adcode == "999999" {
		return nil, errors.New("upstream down")
	}
	f.adcodes = append(f.adcodes, adcode)
	w := &model.Weather{Live: &model.LiveWeather{Adcode: adcode, Weather: "晴", Temperature: "21"}}
	if forecast {
		w.Forecasts = []model.DailyForecast{{Date: "2026-10-18", DayWeather: "多云"}}
	}
	return w, nil
}

func (f *fakeWeather) Geocode(_ context.Context, address, city string) ([]model.Geocode, error) {
	return []model.Geocode{{FormattedAddress: address, City: city, Adcode: "110105", Location: "116.48,39.99"}}, nil
}

type fakeNote struct {
	written []model.Note
}

func (f *fakeNote) Write(_ context.Context, note model.Note) (*model.NoteReceipt, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, errors.New("note content is empty")
	}
	f.written = append(f.written, note)
	return &model.NoteReceipt{Message: "已记录", Slug: "MTIz"}, nil
}
