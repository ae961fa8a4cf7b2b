package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lifepattern/internal/infra/config"
)

func TestIPRateLimiterRefills(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1})
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.allowAt("10.0.0.1", start))
	require.False(t, limiter.allowAt("10.0.0.1", start.Add(100*time.Millisecond)))
	require.True(t, limiter.allowAt("10.0.0.2", start), "visitors are tracked independently")
	require.True(t, limiter.allowAt("10.0.0.1", start.Add(1100*time.Millisecond)))
}

func TestIPRateLimiterEvictsIdleVisitors(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1})
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	limiter.allowAt("10.0.0.1", start)
	limiter.allowAt("10.0.0.2", start.Add(10*time.Minute))
	require.Len(t, limiter.visitors, 1)
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("https://a.example", nil))
	allowed := []string{"https://a.example", "https://b.example"}
	require.Equal(t, "https://B.example", resolveOrigin("https://B.example", allowed))
	require.Equal(t, "https://a.example", resolveOrigin("https://evil.example", allowed))
}
