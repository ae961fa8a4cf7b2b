package lookupcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanqian/lifepattern/internal/domain/analyzer"
	"github.com/yanqian/lifepattern/internal/domain/pattern"
)

// CachedWeather is a read-through cache over a WeatherClient. Identical concurrent
// misses share one upstream call.
type CachedWeather struct {
	inner       analyzer.WeatherClient
	store       Store
	ttl         time.Duration
	callTimeout time.Duration
	group       singleflight.Group
	logger      *slog.Logger
}

// NewCachedWeather wraps inner. callTimeout bounds the shared upstream call once it
// no longer follows any single caller's context.
func NewCachedWeather(inner analyzer.WeatherClient, store Store, ttl, callTimeout time.Duration, logger *slog.Logger) *CachedWeather {
	return &CachedWeather{
		inner:       inner,
		store:       store,
		ttl:         ttl,
		callTimeout: callTimeout,
		logger:      logger.With("component", "lookupcache.weather"),
	}
}

// WeatherKey buckets coordinates to roughly one kilometre.
func WeatherKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f,%.2f", lat, lon)
}

// Current implements analyzer.WeatherClient.
func (c *CachedWeather) Current(ctx context.Context, lat, lon float64) (pattern.WeatherObservation, error) {
	key := WeatherKey(lat, lon)
	var obs pattern.WeatherObservation
	if readThrough(ctx, c.store, key, &obs, c.logger) {
		return obs, nil
	}

	return shared(ctx, &c.group, key, c.callTimeout, func(callCtx context.Context) (pattern.WeatherObservation, error) {
		fresh, err := c.inner.Current(callCtx, lat, lon)
		if err != nil {
			return pattern.WeatherObservation{}, err
		}
		writeBack(callCtx, c.store, key, fresh, c.ttl, c.logger)
		return fresh, nil
	})
}

// CachedGeocoder caches city lookups, including misses.
type CachedGeocoder struct {
	inner       analyzer.Geocoder
	store       Store
	ttl         time.Duration
	callTimeout time.Duration
	group       singleflight.Group
	logger      *slog.Logger
}

type geocodeRecord struct {
	Location pattern.Location `json:"location"`
	Found    bool             `json:"found"`
}

// NewCachedGeocoder wraps inner.
func NewCachedGeocoder(inner analyzer.Geocoder, store Store, ttl, callTimeout time.Duration, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		inner:       inner,
		store:       store,
		ttl:         ttl,
		callTimeout: callTimeout,
		logger:      logger.With("component", "lookupcache.geocoder"),
	}
}

// GeocodeKey normalises a city query.
func GeocodeKey(city string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// Search implements analyzer.Geocoder.
func (c *CachedGeocoder) Search(ctx context.Context, city string) (pattern.Location, bool, error) {
	key := GeocodeKey(city)
	var rec geocodeRecord
	if readThrough(ctx, c.store, key, &rec, c.logger) {
		return rec.Location, rec.Found, nil
	}

	fresh, err := shared(ctx, &c.group, key, c.callTimeout, func(callCtx context.Context) (geocodeRecord, error) {
		loc, ok, err := c.inner.Search(callCtx, city)
		if err != nil {
			return geocodeRecord{}, err
		}
		rec := geocodeRecord{Location: loc, Found: ok}
		writeBack(callCtx, c.store, key, rec, c.ttl, c.logger)
		return rec, nil
	})
	if err != nil {
		return pattern.Location{}, false, err
	}
	return fresh.Location, fresh.Found, nil
}

// shared runs fn once per key for all concurrent callers. The call keeps the
// leader's values but not its cancellation, so a leader that gives up does not
// fail the followers; each caller still stops waiting when its own ctx ends.
func shared[T any](ctx context.Context, group *singleflight.Group, key string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ch := group.DoChan(key, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, timeout)
			defer cancel()
		}
		v, err := fn(callCtx)
		if err != nil {
			return nil, err
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Cache failures degrade to a miss; they never fail the lookup.
func readThrough(ctx context.Context, store Store, key string, out any, logger *slog.Logger) bool {
	payload, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		logger.Warn("cache entry malformed", "key", key, "error", err)
		return false
	}
	logger.Debug("cache hit", "key", key)
	return true
}

func writeBack(ctx context.Context, store Store, key string, value any, ttl time.Duration, logger *slog.Logger) {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := store.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
}

var (
	_ analyzer.WeatherClient = (*CachedWeather)(nil)
	_ analyzer.Geocoder      = (*CachedGeocoder)(nil)
)
