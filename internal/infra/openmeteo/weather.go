// Package openmeteo talks to the free Open-Meteo forecast and geocoding APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
	apperrors "github.com/yanqian/lifepattern/pkg/errors"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	currentFields      = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m,pressure_msl"
	hourlyFields       = "temperature_2m,relative_humidity_2m,weather_code"
)

// WeatherClient fetches current conditions.
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewWeatherClient builds a forecast API client.
func NewWeatherClient(baseURL string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL:    trimBase(baseURL, defaultForecastURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Current retrieves the current observation at lat/lon.
func (c *WeatherClient) Current(ctx context.Context, lat, lon float64) (pattern.WeatherObservation, error) {
	params := url.Values{}
	params.Set("latitude", formatCoord(lat))
	params.Set("longitude", formatCoord(lon))
	params.Set("current", currentFields)
	params.Set("hourly", hourlyFields)
	params.Set("timezone", "auto")

	var raw forecastResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), "weather", &raw); err != nil {
		return pattern.WeatherObservation{}, err
	}
	return normalizeForecast(raw), nil
}

type forecastResponse struct {
	Timezone string       `json:"timezone"`
	Current  currentBlock `json:"current"`
	Hourly   hourlyBlock  `json:"hourly"`
}

type currentBlock struct {
	Temperature *float64 `json:"temperature_2m"`
	Humidity    *float64 `json:"relative_humidity_2m"`
	WeatherCode *int     `json:"weather_code"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
	Pressure    *float64 `json:"pressure_msl"`
}

type hourlyBlock struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
	Humidity    []float64 `json:"relative_humidity_2m"`
	WeatherCode []int     `json:"weather_code"`
}

// normalizeForecast fills fields missing upstream with neutral defaults.
func normalizeForecast(raw forecastResponse) pattern.WeatherObservation {
	code := valueOr(raw.Current.WeatherCode, 0)
	obs := pattern.WeatherObservation{
		Temperature: round1(valueOr(raw.Current.Temperature, 20)),
		Humidity:    valueOr(raw.Current.Humidity, 50),
		WindSpeed:   round1(valueOr(raw.Current.WindSpeed, 10)),
		Pressure:    valueOr(raw.Current.Pressure, 1013),
		Condition:   pattern.ConditionForCode(code),
		Code:        code,
		Timezone:    raw.Timezone,
	}

	n := len(raw.Hourly.Time)
	if n > 0 {
		obs.Hourly = make([]pattern.WeatherHour, 0, n)
	}
	for i := 0; i < n; i++ {
		hour := pattern.WeatherHour{Time: raw.Hourly.Time[i]}
		if i < len(raw.Hourly.Temperature) {
			hour.Temperature = raw.Hourly.Temperature[i]
		}
		if i < len(raw.Hourly.Humidity) {
			hour.Humidity = raw.Hourly.Humidity[i]
		}
		if i < len(raw.Hourly.WeatherCode) {
			hour.Condition = pattern.ConditionForCode(raw.Hourly.WeatherCode[i])
		} else {
			hour.Condition = pattern.ConditionClearSky
		}
		obs.Hourly = append(obs.Hourly, hour)
	}
	return obs
}

func getJSON(ctx context.Context, client *http.Client, endpoint, kind string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", kind, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apperrors.Wrap(apperrors.CodeUpstreamError, kind+" upstream rejected the request",
			fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", kind, err)
	}
	return nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

// round1 rounds the exact binary value to one decimal, so 0.15 (really 0.1499...) gives 0.1.
func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func trimBase(raw, fallback string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = fallback
	}
	return strings.TrimRight(base, "/")
}
