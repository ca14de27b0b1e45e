package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
	"github.com/miyamo2/amap-flomo-mcp/domain/repository"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/cache"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/httpclient"
	"github.com/miyamo2/amap-flomo-mcp/internal/metrics"
)

const (
	upstreamAMap       = "amap"
	defaultAMapBaseURL = "https://restapi.amap.com"
)

// ErrMissingAMapKey is returned when no AMap web service key is configured.
var ErrMissingAMapKey = errors.New("amap: missing key")

// AMapError is a response whose status is not "1".
type AMapError struct {
	Info     string
	InfoCode string
}

func (e *AMapError) Error() string {
	return fmt.Sprintf("amap: %s (infocode %s)", e.Info, e.InfoCode)
}

// compatibility check
var _ repository.Weather = (*AMap)(nil)

// AMap is the AMap web service client.
type AMap struct {
	key      string
	baseURL  string
	client   *httpclient.Client
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// AMapOption configures AMap.
type AMapOption func(*AMap)

// AMapWithBaseURL overrides https://restapi.amap.com.
func AMapWithBaseURL(baseURL string) AMapOption {
	return func(a *AMap) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// AMapWithCache caches Weather results for ttl.
func AMapWithCache(c cache.Cache, ttl time.Duration) AMapOption {
	return func(a *AMap) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// AMapWithLogger sets the logger.
func AMapWithLogger(l *slog.Logger) AMapOption {
	return func(a *AMap) {
		a.logger = l
	}
}

// NewAMap returns an AMap client.
func NewAMap(key string, client *httpclient.Client, options ...AMapOption) *AMap {
	a := &AMap{
		key:     key,
		baseURL: defaultAMapBaseURL,
		client:  client,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// flexString decodes a JSON string, treating the empty array AMap sends for blank fields as "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = flexString(v)
	return nil
}

type amapStatus struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	InfoCode string `json:"infocode"`
}

func (s amapStatus) err() error {
	if s.Status == "1" {
		return nil
	}
	return &AMapError{Info: s.Info, InfoCode: s.InfoCode}
}

type weatherLiveResponse struct {
	amapStatus
	Lives []struct {
		Province      flexString `json:"province"`
		City          flexString `json:"city"`
		Adcode        flexString `json:"adcode"`
		Weather       flexString `json:"weather"`
		Temperature   flexString `json:"temperature"`
		WindDirection flexString `json:"winddirection"`
		WindPower     flexString `json:"windpower"`
		Humidity      flexString `json:"humidity"`
		ReportTime    flexString `json:"reporttime"`
	} `json:"lives"`
}

type weatherForecastResponse struct {
	amapStatus
	Forecasts []struct {
		Casts []struct {
			Date         flexString `json:"date"`
			Week         flexString `json:"week"`
			DayWeather   flexString `json:"dayweather"`
			NightWeather flexString `json:"nightweather"`
			DayTemp      flexString `json:"daytemp"`
			NightTemp    flexString `json:"nighttemp"`
			DayWind      flexString `json:"daywind"`
			NightWind    flexString `json:"nightwind"`
			DayPower     flexString `json:"daypower"`
			NightPower   flexString `json:"nightpower"`
		} `json:"casts"`
	} `json:"forecasts"`
}

type geocodeResponse struct {
	amapStatus
	Geocodes []struct {
		FormattedAddress flexString `json:"formatted_address"`
		Province         flexString `json:"province"`
		City             flexString `json:"city"`
		District         flexString `json:"district"`
		Adcode           flexString `json:"adcode"`
		Location         flexString `json:"location"`
		Level            flexString `json:"level"`
	} `json:"geocodes"`
}

// Weather returns the live weather for adcode and, when forecast is set, the daily forecast.
func (a *AMap) Weather(ctx context.Context, adcode string, forecast bool) (*model.Weather, error) {
	if a.key == "" {
		return nil, ErrMissingAMapKey
	}
	key := fmt.Sprintf("weather:%s:%t", adcode, forecast)
	if w, ok := a.cached(ctx, key); ok {
		return w, nil
	}

	w := &model.Weather{}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		live, err := a.live(ctx, adcode)
		if err != nil {
			return err
		}
		w.Live = live
		return nil
	})
	if forecast {
		eg.Go(func() error {
			casts, err := a.forecasts(ctx, adcode)
			if err != nil {
				return err
			}
			w.Forecasts = casts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a.store(ctx, key, w)
	return w, nil
}

func (a *AMap) live(ctx context.Context, adcode string) (*model.LiveWeather, error) {
	var resp weatherLiveResponse
	if err := a.get(ctx, "/v3/weather/weatherInfo", url.Values{"city": {adcode}, "extensions": {"base"}}, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if len(resp.Lives) == 0 {
		return nil, nil
	}
	l := resp.Lives[0]
	return &model.LiveWeather{
		Province:      string(l.Province),
		City:          string(l.City),
		Adcode:        string(l.Adcode),
		Weather:       string(l.Weather),
		Temperature:   string(l.Temperature),
		WindDirection: string(l.WindDirection),
		WindPower:     string(l.WindPower),
		Humidity:      string(l.Humidity),
		ReportTime:    string(l.ReportTime),
	}, nil
}

func (a *AMap) forecasts(ctx context.Context, adcode string) ([]model.DailyForecast, error) {
	var resp weatherForecastResponse
	if err := a.get(ctx, "/v3/weather/weatherInfo", url.Values{"city": {adcode}, "extensions": {"all"}}, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if len(resp.Forecasts) == 0 {
		return nil, nil
	}
	casts := resp.Forecasts[0].Casts
	out := make([]model.DailyForecast, 0, len(casts))
	for _, c := range casts {
		out = append(out, model.DailyForecast{
			Date:         string(c.Date),
			Week:         string(c.Week),
			DayWeather:   string(c.DayWeather),
			NightWeather: string(c.NightWeather),
			DayTemp:      string(c.DayTemp),
			NightTemp:    string(c.NightTemp),
			DayWind:      string(c.DayWind),
			NightWind:    string(c.NightWind),
			DayPower:     string(c.DayPower),
			NightPower:   string(c.NightPower),
		})
	}
	return out, nil
}

// Geocode resolves a structured address. city narrows the search and may be empty.
func (a *AMap) Geocode(ctx context.Context, address, city string) ([]model.Geocode, error) {
	if a.key == "" {
		return nil, ErrMissingAMapKey
	}
	q := url.Values{"address": {address}}
	if city != "" {
		q.Set("city", city)
	}
	var resp geocodeResponse
	if err := a.get(ctx, "/v3/geocode/geo", q, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	out := make([]model.Geocode, 0, len(resp.Geocodes))
	for _, g := range resp.Geocodes {
		out = append(out, model.Geocode{
			FormattedAddress: string(g.FormattedAddress),
			Province:         string(g.Province),
			City:             string(g.City),
			District:         string(g.District),
			Adcode:           string(g.Adcode),
			Location:         string(g.Location),
			Level:            string(g.Level),
		})
	}
	return out, nil
}

func (a *AMap) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", a.key)
	q.Set("output", "JSON")
	return a.client.GetJSON(ctx, upstreamAMap, a.baseURL+path, q, out)
}

func (a *AMap) cached(ctx context.Context, key string) (*model.Weather, bool) {
	if a.cache == nil {
		return nil, false
	}
	b, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.Warn("weather_cache_error", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	var w model.Weather
	if err := json.Unmarshal(b, &w); err != nil {
		a.logger.Warn("weather_cache_decode_error", "key", key, "err", err)
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return &w, true
}

func (a *AMap) store(ctx context.Context, key string, w *model.Weather) {
	if a.cache == nil {
		return
	}
	b, err := json.Marshal(w)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, b, a.cacheTTL); err != nil {
		a.logger.Warn("weather_cache_error", "key", key, "err", err)
	}
}
