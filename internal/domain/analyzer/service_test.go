package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
	apperrors "github.com/yanqian/lifepattern/pkg/errors"
	"github.com/yanqian/lifepattern/pkg/util"
)

var fixedNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

type testDeps struct {
	ip       *stubIPLocator
	geocoder *stubGeocoder
	reverse  *stubReverseGeocoder
	weather  *stubWeatherClient
}

func newServiceUnderTest(cfg Config) (*service, testDeps) {
	deps := testDeps{
		ip:       &stubIPLocator{loc: pattern.Location{City: "Berlin", Country: "Germany", Latitude: 52.52, Longitude: 13.4, Timezone: "Europe/Berlin"}},
		geocoder: &stubGeocoder{},
		reverse:  &stubReverseGeocoder{},
		weather:  &stubWeatherClient{obs: pattern.WeatherObservation{Temperature: 20, Condition: pattern.ConditionClearSky}},
	}
	svc := &service{
		cfg:      cfg,
		ip:       deps.ip,
		geocoder: deps.geocoder,
		reverse:  deps.reverse,
		weather:  deps.weather,
		tips:     pattern.NewTipPicker(rand.NewPCG(1, 2)),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      util.FixedClock(fixedNow),
	}
	return svc, deps
}

func TestAnalyzeWithGPSCoordinates(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	lat, lon := 38.72, -9.14

	resp, err := svc.Analyze(context.Background(), Request{Lat: &lat, Lon: &lon, City: "Lisbon", Country: "Portugal", Timezone: "Europe/Lisbon"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, pattern.SourceGPS, resp.Location.Source)
	require.Equal(t, "GPS (exact)", resp.Location.SourceLabel)
	require.Equal(t, "Lisbon", resp.Location.City)
	require.Equal(t, 0, deps.reverse.calls)
	require.Equal(t, 0, deps.ip.calls)
	require.Equal(t, [2]float64{lat, lon}, deps.weather.last)

	require.Len(t, resp.Analysis.HourlyPredictions, pattern.ForecastHours)
	require.Equal(t, 10, resp.Analysis.HourlyPredictions[0].Hour)
	require.Equal(t, 54.5, resp.Analysis.HourlyPredictions[0].Mental)
	require.Equal(t, "Lisbon, Portugal", resp.Analysis.Factors.Location)
	require.Equal(t, pattern.CurrentEnergy(10), resp.Circadian.CurrentEnergy)
	require.Equal(t, pattern.ChronotypeGuess, resp.Circadian.ChronotypeGuess)
	require.Contains(t, pattern.Tips(), resp.Tip)
	require.Equal(t, fixedNow.Format(time.RFC3339), resp.Timestamp)
}

func TestAnalyzeGPSWithoutCityUsesReverseGeocoder(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	deps.reverse.loc = pattern.Location{City: "Porto", Country: "Portugal", Region: "Norte"}
	lat, lon := 41.15, -8.61

	resp, err := svc.Analyze(context.Background(), Request{Lat: &lat, Lon: &lon})
	require.NoError(t, err)
	require.Equal(t, "Porto", resp.Location.City)
	require.Equal(t, "Portugal", resp.Location.Country)
	require.Equal(t, "Norte", resp.Location.Region)
	require.Equal(t, 1, deps.reverse.calls)
}

func TestAnalyzeTreatsZeroCoordinatesAsGPS(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	lat, lon := 0.0, 0.0

	resp, err := svc.Analyze(context.Background(), Request{Lat: &lat, Lon: &lon})
	require.NoError(t, err)
	require.Equal(t, pattern.SourceGPS, resp.Location.Source)
	require.Equal(t, 0, deps.ip.calls)
	require.Equal(t, [2]float64{0, 0}, deps.weather.last)
}

func TestAnalyzeGPSReverseFailureKeepsDefaultName(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	deps.reverse.err = errors.New("nominatim down")
	deps.weather.obs.Timezone = "Europe/Lisbon"
	lat, lon := 41.15, -8.61

	resp, err := svc.Analyze(context.Background(), Request{Lat: &lat, Lon: &lon})
	require.NoError(t, err)
	require.Equal(t, "Your Location", resp.Location.City)
	require.Equal(t, "Europe/Lisbon", resp.Location.Timezone)
}

func TestAnalyzeRejectsInvalidCoordinates(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"lat too large", 91, 0},
		{"lon too small", 0, -181},
		{"nan", math.NaN(), 10},
		{"inf", 10, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := tt.lat, tt.lon
			_, err := svc.Analyze(context.Background(), Request{Lat: &lat, Lon: &lon})
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
		})
	}
	require.Equal(t, 0, deps.weather.calls)
}

func TestAnalyzeManualCity(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	deps.geocoder.loc = pattern.Location{City: "Tokyo", Country: "Japan", Latitude: 35.69, Longitude: 139.69, Timezone: "Asia/Tokyo"}
	deps.geocoder.ok = true

	resp, err := svc.Analyze(context.Background(), Request{City: "  tokyo "})
	require.NoError(t, err)
	require.Equal(t, "tokyo", deps.geocoder.lastQuery)
	require.Equal(t, pattern.SourceManual, resp.Location.Source)
	require.Equal(t, "Manual entry", resp.Location.SourceLabel)
	require.Equal(t, "Tokyo, Japan", resp.Analysis.Factors.Location)
}

func TestAnalyzeManualCityNotFound(t *testing.T) {
	svc, _ := newServiceUnderTest(Config{})

	_, err := svc.Analyze(context.Background(), Request{City: "Atlantis"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeCityNotFound))
	require.Equal(t, `City "Atlantis" not found. Try a different spelling.`, apperrors.PublicMessage(err))
}

func TestAnalyzeManualCityGeocoderError(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	deps.geocoder.err = errors.New("timeout")

	_, err := svc.Analyze(context.Background(), Request{City: "Paris"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeocodingError))
}

func TestAnalyzeFallsBackToIP(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})

	resp, err := svc.Analyze(context.Background(), Request{ClientIP: "203.0.113.9"})
	require.NoError(t, err)
	require.Equal(t, "203.0.113.9", deps.ip.lastIP)
	require.Equal(t, pattern.SourceIP, resp.Location.Source)
	require.Equal(t, "Berlin", resp.Location.City)
}

func TestAnalyzeUsesFallbackLocationAndWeather(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{})
	deps.ip.err = errors.New("ip-api unreachable")
	deps.weather.err = errors.New("open-meteo unreachable")

	resp, err := svc.Analyze(context.Background(), Request{})
	require.NoError(t, err)
	require.Equal(t, "San Francisco", resp.Location.City)
	require.Equal(t, pattern.DefaultWeather(), resp.Weather)
	require.Equal(t, 110.0, resp.Analysis.Factors.WeatherImpact)
}

func TestAnalyzeUsesLocationTimezone(t *testing.T) {
	svc, deps := newServiceUnderTest(Config{UseLocationTimezone: true})
	deps.ip.loc.Timezone = "Asia/Tokyo"

	resp, err := svc.Analyze(context.Background(), Request{})
	require.NoError(t, err)
	// 10:00 UTC is 19:00 in Tokyo.
	require.Equal(t, 19, resp.Analysis.HourlyPredictions[0].Hour)
}

func TestAnalyzeIsDeterministicApartFromTip(t *testing.T) {
	svc, _ := newServiceUnderTest(Config{})
	a, err := svc.Analyze(context.Background(), Request{})
	require.NoError(t, err)
	b, err := svc.Analyze(context.Background(), Request{})
	require.NoError(t, err)
	require.Equal(t, a.Analysis, b.Analysis)
	require.Equal(t, a.Moon, b.Moon)
}

func TestQuickInsight(t *testing.T) {
	svc, _ := newServiceUnderTest(Config{})
	got := svc.QuickInsight(context.Background())
	require.True(t, got.Success)
	require.Equal(t, "10:00", got.CurrentTime)
	require.Equal(t, pattern.MoonPhase(fixedNow).Phase, got.MoonPhase)
	require.NotEmpty(t, got.Tip)
}

func TestMoon(t *testing.T) {
	svc, _ := newServiceUnderTest(Config{})

	state, err := svc.Moon(context.Background(), "2000-01-21")
	require.NoError(t, err)
	require.Equal(t, pattern.MoonPhase(time.Date(2000, time.January, 21, 12, 0, 0, 0, time.UTC)), state)

	state, err = svc.Moon(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, pattern.MoonPhase(fixedNow), state)

	_, err = svc.Moon(context.Background(), "21/01/2000")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

type stubIPLocator struct {
	loc    pattern.Location
	err    error
	lastIP string
	calls  int
}

func (s *stubIPLocator) Locate(ctx context.Context, ip string) (pattern.Location, error) {
	s.calls++
	s.lastIP = ip
	if s.err != nil {
		return pattern.Location{}, s.err
	}
	return s.loc, nil
}

type stubGeocoder struct {
	loc       pattern.Location
	ok        bool
	err       error
	lastQuery string
}

func (s *stubGeocoder) Search(ctx context.Context, city string) (pattern.Location, bool, error) {
	s.lastQuery = city
	if s.err != nil {
		return pattern.Location{}, false, s.err
	}
	return s.loc, s.ok, nil
}

type stubReverseGeocoder struct {
	loc   pattern.Location
	err   error
	calls int
}

func (s *stubReverseGeocoder) Reverse(ctx context.Context, lat, lon float64) (pattern.Location, error) {
	s.calls++
	if s.err != nil {
		return pattern.Location{}, s.err
	}
	return s.loc, nil
}

type stubWeatherClient struct {
	obs   pattern.WeatherObservation
	err   error
	last  [2]float64
	calls int
}

func (s *stubWeatherClient) Current(ctx context.Context, lat, lon float64) (pattern.WeatherObservation, error) {
	s.calls++
	s.last = [2]float64{lat, lon}
	if s.err != nil {
		return pattern.WeatherObservation{}, s.err
	}
	return s.obs, nil
}
