// Package nominatim names coordinates using the OpenStreetMap Nominatim reverse API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
)

const defaultReverseURL = "https://nominatim.openstreetmap.org/reverse"

// Client performs reverse geocoding. Nominatim allows at most one request per second
// and requires an identifying User-Agent.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	minGap     time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient builds a reverse geocoding client.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultReverseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		minGap:     time.Second,
	}
}

type reverseResponse struct {
	Address address `json:"address"`
}

type address struct {
	Suburb       string `json:"suburb"`
	Village      string `json:"village"`
	Town         string `json:"town"`
	City         string `json:"city"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	Region       string `json:"region"`
	Country      string `json:"country"`
}

// Reverse returns the place name at lat/lon. Timezone is left empty; Nominatim does not report one.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (pattern.Location, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	if err := c.wait(ctx); err != nil {
		return pattern.Location{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return pattern.Location{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pattern.Location{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pattern.Location{}, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var raw reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return pattern.Location{}, fmt.Errorf("decoding response: %w", err)
	}

	a := raw.Address
	return pattern.Location{
		City:      firstNonEmpty(a.Suburb, a.Village, a.Town, a.City, a.Municipality, a.County, "Your Location"),
		Country:   a.Country,
		Region:    firstNonEmpty(a.State, a.Region),
		Latitude:  lat,
		Longitude: lon,
		Source:    pattern.SourceGPS,
	}, nil
}

// wait spaces calls at least minGap apart.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lastCall.IsZero() {
		if gap := c.minGap - time.Since(c.lastCall); gap > 0 {
			timer := time.NewTimer(gap)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	c.lastCall = time.Now()
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
