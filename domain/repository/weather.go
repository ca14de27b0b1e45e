package repository

import (
	"context"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

type Weather interface {
	Weather(ctx context.Context, adcode string, forecast bool) (*model.Weather, error)
	Geocode(ctx context.Context, address, city string) ([]model.Geocode, error)
}
