package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Warmup   WarmupConfig   `yaml:"warmup"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// UpstreamConfig points at the third-party location and weather APIs.
type UpstreamConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	UserAgent        string        `yaml:"userAgent"`
	WeatherBaseURL   string        `yaml:"weatherBaseUrl"`
	GeocodingBaseURL string        `yaml:"geocodingBaseUrl"`
	IPAPIBaseURL     string        `yaml:"ipApiBaseUrl"`
	NominatimBaseURL string        `yaml:"nominatimBaseUrl"`
}

// CacheConfig controls the read-through cache in front of the upstream APIs.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	WeatherTTL time.Duration `yaml:"weatherTtl"`
	GeocodeTTL time.Duration `yaml:"geocodeTtl"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// WarmupConfig schedules background prefetching of weather for popular cities.
type WarmupConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Schedule string   `yaml:"schedule"`
	Cities   []string `yaml:"cities"`
}

// AnalysisConfig tunes how a request is evaluated.
type AnalysisConfig struct {
	UseLocationTimezone bool `yaml:"useLocationTimezone"`
}

// Load reads configuration from a YAML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setDuration(&cfg.HTTP.ReadTimeout, "HTTP_READ_TIMEOUT")
	setDuration(&cfg.HTTP.WriteTimeout, "HTTP_WRITE_TIMEOUT")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setList(&cfg.HTTP.CORSOrigins, "HTTP_CORS_ORIGINS")

	setDuration(&cfg.Upstream.Timeout, "UPSTREAM_TIMEOUT")
	setString(&cfg.Upstream.UserAgent, "UPSTREAM_USER_AGENT")
	setString(&cfg.Upstream.WeatherBaseURL, "WEATHER_BASE_URL")
	setString(&cfg.Upstream.GeocodingBaseURL, "GEOCODING_BASE_URL")
	setString(&cfg.Upstream.IPAPIBaseURL, "IPAPI_BASE_URL")
	setString(&cfg.Upstream.NominatimBaseURL, "NOMINATIM_BASE_URL")

	setBool(&cfg.Cache.Enabled, "CACHE_ENABLED")
	setDuration(&cfg.Cache.WeatherTTL, "CACHE_WEATHER_TTL")
	setDuration(&cfg.Cache.GeocodeTTL, "CACHE_GEOCODE_TTL")
	setBool(&cfg.Cache.Valkey.Enabled, "CACHE_VALKEY_ENABLED")
	setString(&cfg.Cache.Valkey.Addr, "CACHE_VALKEY_ADDR")
	setString(&cfg.Cache.Valkey.Prefix, "CACHE_VALKEY_PREFIX")

	setBool(&cfg.Warmup.Enabled, "WARMUP_ENABLED")
	setString(&cfg.Warmup.Schedule, "WARMUP_SCHEDULE")
	setList(&cfg.Warmup.Cities, "WARMUP_CITIES")

	setBool(&cfg.Analysis.UseLocationTimezone, "ANALYSIS_USE_LOCATION_TIMEZONE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*dst = out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":5555",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 20 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Upstream: UpstreamConfig{
			Timeout:          5 * time.Second,
			UserAgent:        "LifePatternAnalyzer/1.0",
			WeatherBaseURL:   "https://api.open-meteo.com/v1/forecast",
			GeocodingBaseURL: "https://geocoding-api.open-meteo.com/v1/search",
			IPAPIBaseURL:     "http://ip-api.com/json",
			NominatimBaseURL: "https://nominatim.openstreetmap.org/reverse",
		},
		Cache: CacheConfig{
			Enabled:    true,
			WeatherTTL: 10 * time.Minute,
			GeocodeTTL: 24 * time.Hour,
			Valkey: ValkeyConfig{
				Prefix: "lifepattern",
			},
		},
		Warmup: WarmupConfig{
			Enabled:  false,
			Schedule: "@every 30m",
		},
		Analysis: AnalysisConfig{
			UseLocationTimezone: true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if strings.TrimSpace(c.Upstream.UserAgent) == "" {
		return errors.New("upstream.userAgent cannot be empty")
	}
	if c.Upstream.WeatherBaseURL == "" || c.Upstream.GeocodingBaseURL == "" || c.Upstream.IPAPIBaseURL == "" || c.Upstream.NominatimBaseURL == "" {
		return errors.New("upstream base urls cannot be empty")
	}
	if c.Cache.WeatherTTL < 0 || c.Cache.GeocodeTTL < 0 {
		return errors.New("cache ttls cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Warmup.Enabled {
		if len(c.Warmup.Cities) == 0 {
			return errors.New("warmup.cities cannot be empty when warmup is enabled")
		}
		if _, err := cron.ParseStandard(c.Warmup.Schedule); err != nil {
			return fmt.Errorf("warmup.schedule: %w", err)
		}
	}
	return nil
}
