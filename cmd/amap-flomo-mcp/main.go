// Command amap-flomo-mcp serves AMap weather, geocoding and flomo notes over MCP stdio.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/miyamo2/amap-flomo-mcp/handler"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/adcode"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/api"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/cache"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/httpclient"
	"github.com/miyamo2/amap-flomo-mcp/internal/config"
	"github.com/miyamo2/amap-flomo-mcp/internal/logger"
	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
	"github.com/miyamo2/amap-flomo-mcp/internal/metrics"
)

var version = "dev"

const instructions = "Use search_city to find a division, get_weather for the weather of a city name or adcode, " +
	"geocode to resolve an address, and write_note to save a memo to flomo."

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "err", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.AdcodeTable, "table", cfg.AdcodeTable, "path to an adcode table; empty uses the bundled one")
	flag.StringVar(&cfg.AMapKey, "amap-key", cfg.AMapKey, "AMap web service key")
	flag.StringVar(&cfg.FlomoAPIURL, "flomo-url", cfg.FlomoAPIURL, "flomo incoming webhook URL")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve /metrics on; empty disables it")
	flag.Parse()

	l := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	l.Debug("log_init_ok")

	if cfg.AMapKey == "" {
		l.Warn("config_amap_missing", "err", api.ErrMissingAMapKey)
	}
	if cfg.FlomoAPIURL == "" {
		l.Warn("config_flomo_missing", "err", api.ErrMissingFlomoURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			l.Info("metrics_listen", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Error("metrics_listen_error", "err", err)
			}
		}()
		defer srv.Close()
	}

	s, closeFn := newServer(ctx, cfg, l)
	defer closeFn()

	l.Info("mcp_start", "version", version)
	if err := s.Start(mcp.StartWithContext(ctx)); err != nil {
		l.Error("mcp_stop_error", "err", err)
		os.Exit(1)
	}
	l.Info("mcp_stop")
}

// newServer wires the configured upstreams into an MCP server. The returned func releases
// connections opened on the way.
func newServer(ctx context.Context, cfg *config.Config, l *slog.Logger) (*mcp.Server, func()) {
	closeFn := func() {}
	var c cache.Cache = cache.NewMemory(nil)
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
			rc.Close()
		} else {
			l.Info("redis_ping_ok")
			c = cache.NewRedis(rc, "amap-flomo-mcp:")
			closeFn = func() { rc.Close() }
		}
	} else {
		l.Info("redis_disabled")
	}

	client := httpclient.New(
		httpclient.WithTimeout(cfg.HTTPTimeout),
		httpclient.WithRetries(cfg.HTTPRetries),
		httpclient.WithLogger(l))

	amap := api.NewAMap(cfg.AMapKey, client,
		api.AMapWithBaseURL(cfg.AMapBaseURL),
		api.AMapWithCache(c, cfg.CacheTTL),
		api.AMapWithLogger(l))
	flomo := api.NewFlomo(cfg.FlomoAPIURL, client)
	division := adcode.NewLazy(adcode.Source(cfg.AdcodeTable))

	s := mcp.New("amap-flomo-mcp",
		mcp.WithVersion(version),
		mcp.WithInstructions(instructions),
		mcp.WithJSONMarshalFunc(json.Marshal),
		mcp.WithJSONUnmarshalFunc(json.Unmarshal),
		mcp.WithLogger(l))
	handler.New(division, amap, flomo, l).Register(s)
	return s, closeFn
}
