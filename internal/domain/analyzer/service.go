package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
	apperrors "github.com/yanqian/lifepattern/pkg/errors"
	"github.com/yanqian/lifepattern/pkg/util"
)

// Service exposes the life pattern analysis capabilities.
type Service interface {
	Analyze(ctx context.Context, req Request) (Response, error)
	QuickInsight(ctx context.Context) QuickInsight
	Moon(ctx context.Context, date string) (pattern.LunarState, error)
}

// IPLocator approximates a location from a client IP address.
type IPLocator interface {
	Locate(ctx context.Context, ip string) (pattern.Location, error)
}

// Geocoder resolves a city name. ok is false when nothing matched.
type Geocoder interface {
	Search(ctx context.Context, city string) (loc pattern.Location, ok bool, err error)
}

// ReverseGeocoder names the place at a coordinate.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (pattern.Location, error)
}

// WeatherClient reports the current conditions at a coordinate.
type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (pattern.WeatherObservation, error)
}

const gpsDefaultCity = "Your Location"

// FallbackLocation is used when IP geolocation fails.
func FallbackLocation() pattern.Location {
	return pattern.Location{
		City:      "San Francisco",
		Country:   "United States",
		Latitude:  37.7749,
		Longitude: -122.4194,
		Timezone:  "America/Los_Angeles",
		Source:    pattern.SourceIP,
	}
}

type service struct {
	cfg      Config
	ip       IPLocator
	geocoder Geocoder
	reverse  ReverseGeocoder
	weather  WeatherClient
	tips     *pattern.TipPicker
	logger   *slog.Logger
	now      util.Clock
}

// NewService wires up the analyzer domain.
func NewService(cfg Config, ip IPLocator, geocoder Geocoder, reverse ReverseGeocoder, weather WeatherClient, tips *pattern.TipPicker, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		ip:       ip,
		geocoder: geocoder,
		reverse:  reverse,
		weather:  weather,
		tips:     tips,
		logger:   logger.With("component", "analyzer.service"),
		now:      util.SystemClock,
	}
}

func (s *service) Analyze(ctx context.Context, req Request) (Response, error) {
	loc, err := s.resolveLocation(ctx, req)
	if err != nil {
		return Response{}, err
	}

	weather, err := s.weather.Current(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.logger.Warn("weather fetch failed, using defaults", "lat", loc.Latitude, "lon", loc.Longitude, "error", err)
		weather = pattern.DefaultWeather()
	}
	if loc.Timezone == "" {
		loc.Timezone = firstNonEmpty(weather.Timezone, "UTC")
	}

	now := s.localNow(loc)
	result := pattern.Synthesize(now, loc, weather)
	s.logger.Info("analysis complete",
		"city", loc.City,
		"source", loc.Source,
		"condition", weather.Condition,
		"insights", len(result.Insights),
	)

	return Response{
		Success:   true,
		Timestamp: now.Format(time.RFC3339),
		Location:  LocationView{Location: loc, SourceLabel: loc.Source.Label()},
		Weather:   weather,
		Moon:      pattern.MoonPhase(now),
		Circadian: Circadian{
			CurrentEnergy:   pattern.CurrentEnergy(now.Hour()),
			Schedule:        pattern.Schedule(),
			ChronotypeGuess: pattern.ChronotypeGuess,
		},
		Analysis: result.Rounded(),
		Tip:      s.tips.Pick(),
	}, nil
}

func (s *service) QuickInsight(_ context.Context) QuickInsight {
	now := s.now()
	moon := pattern.MoonPhase(now)
	return QuickInsight{
		Success:     true,
		MoonPhase:   moon.Phase,
		MoonEmoji:   moon.Emoji,
		CurrentTime: now.Format("15:04"),
		Tip:         s.tips.Pick(),
	}
}

func (s *service) Moon(_ context.Context, date string) (pattern.LunarState, error) {
	trimmed := strings.TrimSpace(date)
	if trimmed == "" {
		return pattern.MoonPhase(s.now()), nil
	}
	day, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return pattern.LunarState{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}
	return pattern.MoonPhase(day.Add(12 * time.Hour)), nil
}

func (s *service) resolveLocation(ctx context.Context, req Request) (pattern.Location, error) {
	switch {
	case req.Lat != nil && req.Lon != nil:
		return s.gpsLocation(ctx, req)
	case strings.TrimSpace(req.City) != "":
		return s.manualLocation(ctx, strings.TrimSpace(req.City))
	default:
		loc, err := s.ip.Locate(ctx, req.ClientIP)
		if err != nil {
			s.logger.Warn("ip geolocation failed, using fallback location", "ip", req.ClientIP, "error", err)
			loc = FallbackLocation()
		}
		loc.Source = pattern.SourceIP
		return loc, nil
	}
}

func (s *service) gpsLocation(ctx context.Context, req Request) (pattern.Location, error) {
	lat, lon := *req.Lat, *req.Lon
	if err := validateCoordinates(lat, lon); err != nil {
		return pattern.Location{}, err
	}
	loc := pattern.Location{
		City:      strings.TrimSpace(req.City),
		Country:   strings.TrimSpace(req.Country),
		Region:    strings.TrimSpace(req.Region),
		Latitude:  lat,
		Longitude: lon,
		Timezone:  strings.TrimSpace(req.Timezone),
		Source:    pattern.SourceGPS,
	}
	if loc.City == "" && s.reverse != nil {
		named, err := s.reverse.Reverse(ctx, lat, lon)
		if err != nil {
			s.logger.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		} else {
			loc.City = named.City
			loc.Country = firstNonEmpty(loc.Country, named.Country)
			loc.Region = firstNonEmpty(loc.Region, named.Region)
		}
	}
	loc.City = firstNonEmpty(loc.City, gpsDefaultCity)
	return loc, nil
}

func (s *service) manualLocation(ctx context.Context, city string) (pattern.Location, error) {
	loc, ok, err := s.geocoder.Search(ctx, city)
	if err != nil {
		return pattern.Location{}, apperrors.Wrap(apperrors.CodeGeocodingError, "failed to look up city", err)
	}
	if !ok {
		return pattern.Location{}, apperrors.Wrap(apperrors.CodeCityNotFound, fmt.Sprintf("City %q not found. Try a different spelling.", city), nil)
	}
	loc.City = firstNonEmpty(loc.City, city)
	loc.Source = pattern.SourceManual
	return loc, nil
}

func (s *service) localNow(loc pattern.Location) time.Time {
	now := s.now()
	if !s.cfg.UseLocationTimezone {
		return now
	}
	return util.InZone(now, loc.Timezone)
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "lat must be a number between -90 and 90", nil)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "lon must be a number between -180 and 180", nil)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
