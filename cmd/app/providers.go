package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/lifepattern/internal/domain/analyzer"
	"github.com/yanqian/lifepattern/internal/domain/pattern"
	"github.com/yanqian/lifepattern/internal/infra/config"
	"github.com/yanqian/lifepattern/internal/infra/ipapi"
	"github.com/yanqian/lifepattern/internal/infra/lookupcache"
	"github.com/yanqian/lifepattern/internal/infra/nominatim"
	"github.com/yanqian/lifepattern/internal/infra/openmeteo"
	"github.com/yanqian/lifepattern/internal/infra/warmup"
	httpiface "github.com/yanqian/lifepattern/internal/interface/http"
)

func provideAnalyzerConfig(cfg *config.Config) analyzer.Config {
	return analyzer.Config{UseLocationTimezone: cfg.Analysis.UseLocationTimezone}
}

func provideIPLocator(cfg *config.Config) analyzer.IPLocator {
	return ipapi.NewClient(cfg.Upstream.IPAPIBaseURL, cfg.Upstream.Timeout)
}

func provideReverseGeocoder(cfg *config.Config) analyzer.ReverseGeocoder {
	return nominatim.NewClient(cfg.Upstream.NominatimBaseURL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout)
}

func provideWeatherClient(cfg *config.Config, store lookupcache.Store, logger *slog.Logger) analyzer.WeatherClient {
	client := openmeteo.NewWeatherClient(cfg.Upstream.WeatherBaseURL, cfg.Upstream.Timeout)
	return lookupcache.NewCachedWeather(client, store, cfg.Cache.WeatherTTL, cfg.Upstream.Timeout, logger)
}

func provideGeocoder(cfg *config.Config, store lookupcache.Store, logger *slog.Logger) analyzer.Geocoder {
	geocoder := openmeteo.NewGeocoder(cfg.Upstream.GeocodingBaseURL, cfg.Upstream.Timeout)
	return lookupcache.NewCachedGeocoder(geocoder, store, cfg.Cache.GeocodeTTL, cfg.Upstream.Timeout, logger)
}

func provideTipPicker() *pattern.TipPicker {
	return pattern.NewTipPicker(nil)
}

func provideCacheInfo(store lookupcache.Store) httpiface.CacheInfo {
	return store
}

func provideLookupStore(cfg *config.Config, logger *slog.Logger) lookupcache.Store {
	if !cfg.Cache.Enabled {
		logger.Info("lookup cache disabled")
		return lookupcache.NoopStore{}
	}
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return lookupcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return lookupcache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("lookup cache valkey store enabled", "addr", cfg.Cache.Valkey.Addr)
			return lookupcache.NewValkeyStore(client, cfg.Cache.Valkey.Prefix)
		}
	}
	return lookupcache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Cache.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}, nil
}

// provideWarmer returns nil when warmup is disabled; App treats that as "no warmer".
func provideWarmer(cfg *config.Config, geocoder analyzer.Geocoder, weather analyzer.WeatherClient, logger *slog.Logger) *warmup.Warmer {
	if !cfg.Warmup.Enabled || !cfg.Cache.Enabled {
		return nil
	}
	return warmup.NewWarmer(cfg.Warmup.Schedule, cfg.Warmup.Cities, geocoder, weather, logger)
}
