package warmup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
)

type stubGeocoder struct{}

func (stubGeocoder) Search(_ context.Context, city string) (pattern.Location, bool, error) {
	switch city {
	case "Atlantis":
		return pattern.Location{}, false, nil
	case "Broken":
		return pattern.Location{}, false, errors.New("upstream down")
	case "Rainy":
		return pattern.Location{City: city, Latitude: -1}, true, nil
	}
	return pattern.Location{City: city, Latitude: 1, Longitude: 2}, true, nil
}

type stubWeather struct{ calls atomic.Int32 }

func (s *stubWeather) Current(_ context.Context, lat, _ float64) (pattern.WeatherObservation, error) {
	s.calls.Add(1)
	if lat < 0 {
		return pattern.WeatherObservation{}, errors.New("timeout")
	}
	return pattern.DefaultWeather(), nil
}

func newWarmer(schedule string, cities []string, weather *stubWeather) *Warmer {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewWarmer(schedule, cities, stubGeocoder{}, weather, logger)
}

func TestRunOnceClassifiesCities(t *testing.T) {
	weather := &stubWeather{}
	w := newWarmer("@every 1h", []string{"Tokyo", "Atlantis", "Broken", "Rainy", "Paris"}, weather)

	res := w.RunOnce(context.Background())
	require.Equal(t, 2, res.Warmed)
	require.Equal(t, []string{"Atlantis"}, res.Missing)
	require.Equal(t, []string{"Broken", "Rainy"}, res.Failed)
	require.EqualValues(t, 3, weather.calls.Load())
}

func TestRunOnceStopsOnCancelledContext(t *testing.T) {
	weather := &stubWeather{}
	w := newWarmer("@every 1h", []string{"Tokyo", "Paris"}, weather)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := w.RunOnce(ctx)
	require.Zero(t, res.Warmed)
	require.Zero(t, weather.calls.Load())
}

func TestStartRunsInitialPassAndStops(t *testing.T) {
	weather := &stubWeather{}
	w := newWarmer("@every 1h", []string{"Tokyo"}, weather)

	require.NoError(t, w.Start(context.Background()))
	require.Eventually(t, func() bool { return weather.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := newWarmer("not a schedule", []string{"Tokyo"}, &stubWeather{})
	require.Error(t, w.Start(context.Background()))
}
