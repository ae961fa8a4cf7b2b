package openmeteo

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
)

const defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// Geocoder looks up city names.
type Geocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocoder builds a geocoding API client.
func NewGeocoder(baseURL string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		baseURL:    trimBase(baseURL, defaultGeocodingURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Search returns the best match for city. ok is false when the API found nothing.
func (g *Geocoder) Search(ctx context.Context, city string) (pattern.Location, bool, error) {
	params := url.Values{}
	params.Set("name", strings.TrimSpace(city))
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	var raw geocodingResponse
	if err := getJSON(ctx, g.httpClient, g.baseURL+"?"+params.Encode(), "geocoding", &raw); err != nil {
		return pattern.Location{}, false, err
	}
	if len(raw.Results) == 0 {
		return pattern.Location{}, false, nil
	}
	r := raw.Results[0]
	name := r.Name
	if name == "" {
		name = city
	}
	timezone := r.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return pattern.Location{
		City:      name,
		Country:   r.Country,
		Region:    r.Admin1,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  timezone,
		Source:    pattern.SourceManual,
	}, true, nil
}
