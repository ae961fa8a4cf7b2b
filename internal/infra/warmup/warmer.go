// Package warmup prefetches geocoding and weather for configured cities on a cron schedule
// so that the first request for a popular city is served from cache.
package warmup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	rcron "github.com/robfig/cron/v3"

	"github.com/yanqian/lifepattern/internal/domain/analyzer"
)

// Warmer owns the cron scheduler for cache prefetching.
type Warmer struct {
	schedule string
	cities   []string
	geocoder analyzer.Geocoder
	weather  analyzer.WeatherClient
	logger   *slog.Logger

	mu     sync.Mutex
	cron   *rcron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Result summarises one warmup pass.
type Result struct {
	Warmed  int
	Missing []string
	Failed  []string
}

// NewWarmer expects the cached collaborators so the prefetch lands in the shared store.
func NewWarmer(schedule string, cities []string, geocoder analyzer.Geocoder, weather analyzer.WeatherClient, logger *slog.Logger) *Warmer {
	return &Warmer{
		schedule: schedule,
		cities:   append([]string(nil), cities...),
		geocoder: geocoder,
		weather:  weather,
		logger:   logger.With("component", "warmup"),
	}
}

// Start registers the job and runs an initial pass in the background.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := rcron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.RunOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("register warmup schedule %q: %w", w.schedule, err)
	}
	c.Start()
	w.cron = c
	w.cancel = cancel
	w.logger.Info("warmup scheduled", "schedule", w.schedule, "cities", len(w.cities))

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.RunOnce(runCtx)
	}()
	return nil
}

// Stop halts the scheduler and waits for any running pass to return.
func (w *Warmer) Stop() {
	w.mu.Lock()
	c, cancel := w.cron, w.cancel
	w.cron, w.cancel = nil, nil
	w.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	w.wg.Wait()
}

// RunOnce warms every configured city sequentially.
func (w *Warmer) RunOnce(ctx context.Context) Result {
	var res Result
	for _, city := range w.cities {
		if ctx.Err() != nil {
			break
		}
		loc, ok, err := w.geocoder.Search(ctx, city)
		if err != nil {
			w.logger.Warn("warmup geocode failed", "city", city, "error", err)
			res.Failed = append(res.Failed, city)
			continue
		}
		if !ok {
			res.Missing = append(res.Missing, city)
			continue
		}
		if _, err := w.weather.Current(ctx, loc.Latitude, loc.Longitude); err != nil {
			w.logger.Warn("warmup weather failed", "city", city, "error", err)
			res.Failed = append(res.Failed, city)
			continue
		}
		res.Warmed++
	}
	w.logger.Info("warmup pass finished", "warmed", res.Warmed, "missing", len(res.Missing), "failed", len(res.Failed))
	return res
}
