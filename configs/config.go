package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/resource"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	ZoneServer = "server"
	ZoneCity   = "city"
	ZoneUTC    = "utc"
)

var defaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

type ServerConfig struct {
	Port        int
	ContextPath string
	// TrustedProxies are the peers whose X-Forwarded-For header names the
	// client. Empty means the socket peer is the client.
	TrustedProxies []*net.IPNet
}

type OpenWeatherConfig struct {
	APIKey           string
	BaseURL          string
	GeoURL           string
	Timeout          time.Duration
	ForecastDateZone string
}

type RateLimitConfig struct {
	PerMinute int
	Store     string
	Namespace string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	Database int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// AppConfig is the validated application configuration. It is built once at
// startup and handed to every component, which only read it.
type AppConfig struct {
	Name        string
	Version     string
	Debug       bool
	LogLevel    string
	Server      ServerConfig
	CORSOrigins []string
	OpenWeather OpenWeatherConfig
	RateLimit   RateLimitConfig
	Redis       RedisConfig
	Metrics     MetricsConfig
}

// Load reads the message catalogue (MESSAGES_FILE_PATH or the embedded messages.yml),
// the optional .env file and the properties document (PROPERTIES_FILE_PATH or the
// embedded application.yml), then builds and validates the AppConfig.
func Load() (*AppConfig, error) {
	if err := msg.Init(os.Getenv("MESSAGES_FILE_PATH"), DefaultMessages); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fail to load .env: %w", err)
		}
		log.Debug(msg.GetMessage("app.env-skip", err.Error()))
	}

	props, err := resource.Load(os.Getenv("PROPERTIES_FILE_PATH"), DefaultProperties)
	if err != nil {
		return nil, err
	}

	return FromProperties(props)
}

// FromProperties builds the AppConfig out of already loaded properties.
func FromProperties(props *resource.Properties) (*AppConfig, error) {
	cfg := &AppConfig{
		Name:     props.GetString("app.name"),
		Version:  props.GetString("app.version"),
		Debug:    props.GetBool("app.debug"),
		LogLevel: props.GetString("app.log-level"),
		Server: ServerConfig{
			Port:        props.GetInt("app.server.port"),
			ContextPath: normalizeContextPath(props.GetString("app.server.context-path")),
		},
		CORSOrigins: ParseOrigins(props.GetString("app.cors.origins")),
		OpenWeather: OpenWeatherConfig{
			APIKey:           strings.TrimSpace(props.GetString("openweather.api-key")),
			BaseURL:          strings.TrimRight(props.GetString("openweather.base-url"), "/"),
			GeoURL:           strings.TrimRight(props.GetString("openweather.geo-url"), "/"),
			ForecastDateZone: strings.ToLower(strings.TrimSpace(props.GetString("openweather.forecast-date-zone"))),
		},
		RateLimit: RateLimitConfig{
			PerMinute: props.GetInt("rate-limit.per-minute"),
			Store:     strings.ToLower(strings.TrimSpace(props.GetString("rate-limit.store"))),
			Namespace: props.GetString("rate-limit.namespace"),
		},
		Redis: RedisConfig{
			Host:     props.GetString("redis.host"),
			Port:     props.GetInt("redis.port"),
			Password: props.GetString("redis.password"),
			Database: props.GetInt("redis.database"),
		},
		Metrics: MetricsConfig{
			Enabled: props.GetBool("metrics.enabled"),
			Path:    props.GetString("metrics.path"),
		},
	}

	proxies, err := ParseTrustedProxies(props.GetString("app.server.trusted-proxies"))
	if err != nil {
		return nil, err
	}
	cfg.Server.TrustedProxies = proxies

	timeout, err := time.ParseDuration(strings.TrimSpace(props.GetString("openweather.timeout")))
	if err != nil {
		return nil, fmt.Errorf("invalid openweather.timeout: %w", err)
	}
	cfg.OpenWeather.Timeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field whose bad value would only surface at request time.
func (c *AppConfig) Validate() error {
	if c.OpenWeather.APIKey == "" {
		return errors.New("openweather.api-key is required (OPENWEATHER_API_KEY)")
	}
	if c.OpenWeather.BaseURL == "" || c.OpenWeather.GeoURL == "" {
		return errors.New("openweather.base-url and openweather.geo-url are required")
	}
	if c.OpenWeather.Timeout <= 0 {
		return fmt.Errorf("invalid openweather.timeout: %v, must be positive", c.OpenWeather.Timeout)
	}
	switch c.OpenWeather.ForecastDateZone {
	case ZoneServer, ZoneCity, ZoneUTC:
	default:
		return fmt.Errorf("invalid openweather.forecast-date-zone: %q", c.OpenWeather.ForecastDateZone)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid app.server.port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("invalid rate-limit.per-minute: %d, must be positive", c.RateLimit.PerMinute)
	}
	switch c.RateLimit.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("invalid rate-limit.store: %q", c.RateLimit.Store)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics.path: %q", c.Metrics.Path)
	}
	return nil
}

// ParseOrigins splits a comma-separated origin list, dropping blank entries.
// An empty result falls back to the local development origins.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), defaultCORSOrigins...)
	}
	return origins
}

// ParseTrustedProxies reads a comma-separated list of CIDRs or bare IPs.
func ParseTrustedProxies(raw string) ([]*net.IPNet, error) {
	var proxies []*net.IPNet
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid app.server.trusted-proxies entry: %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid app.server.trusted-proxies entry: %w", err)
		}
		proxies = append(proxies, ipNet)
	}
	return proxies, nil
}

func normalizeContextPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(path, "/")
}
