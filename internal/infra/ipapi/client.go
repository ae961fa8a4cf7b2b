// Package ipapi approximates a caller's location with ip-api.com.
package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/lifepattern/internal/domain/pattern"
	apperrors "github.com/yanqian/lifepattern/pkg/errors"
)

const defaultBaseURL = "http://ip-api.com/json"

// Client resolves IP addresses to coarse locations.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an ip-api client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Timezone   string  `json:"timezone"`
}

// Locate geolocates ip. Private, loopback or unparsable addresses are not sent upstream;
// ip-api then answers for the server's own public address.
func (c *Client) Locate(ctx context.Context, ip string) (pattern.Location, error) {
	endpoint := c.baseURL + "/"
	if isPublic(ip) {
		endpoint += url.PathEscape(ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pattern.Location{}, fmt.Errorf("build ip lookup request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pattern.Location{}, fmt.Errorf("ip lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return pattern.Location{}, apperrors.Wrap(apperrors.CodeUpstreamError, "ip lookup upstream rejected the request",
			fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload)))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return pattern.Location{}, fmt.Errorf("decode ip lookup response: %w", err)
	}
	if raw.Status != "" && raw.Status != "success" {
		return pattern.Location{}, apperrors.Wrap(apperrors.CodeUpstreamError, "ip lookup rejected: "+raw.Message, nil)
	}

	return pattern.Location{
		City:      orDefault(raw.City, "Unknown"),
		Country:   orDefault(raw.Country, "Unknown"),
		Region:    raw.RegionName,
		Latitude:  raw.Lat,
		Longitude: raw.Lon,
		Timezone:  orDefault(raw.Timezone, "UTC"),
		Source:    pattern.SourceIP,
	}, nil
}

func isPublic(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	return !(addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast())
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
