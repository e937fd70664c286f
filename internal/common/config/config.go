package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// ErrUnknownRoute is returned when a route name matches no configured route.
var ErrUnknownRoute = errors.New("unknown route")

type Config struct {
	Dataset DatasetConfig
	Routes  RoutesConfig
	Web     WebConfig
	Discord DiscordConfig
	Logging LoggingConfig
}

// DatasetConfig points at the open-data explore API serving the records.
type DatasetConfig struct {
	BaseURL  string
	Dataset  string
	PageSize int
	Timeout  time.Duration
}

type RoutesConfig struct {
	File    string
	Default string
	Routes  []models.Route
}

type WebConfig struct {
	ListenAddr string
}

type DiscordConfig struct {
	WebhookURL string
}

type LoggingConfig struct {
	Level    string
	FilePath string
}

func Load() (*Config, error) {
	cfg := &Config{
		Dataset: DatasetConfig{
			BaseURL:  getEnv("TGVMAX_API_BASE", "https://ressources.data.sncf.com/api/explore/v2.1"),
			Dataset:  getEnv("TGVMAX_DATASET", "tgvmax"),
			PageSize: getIntEnv("TGVMAX_PAGE_SIZE", 100),
			Timeout:  getDurationEnv("TGVMAX_HTTP_TIMEOUT", 30*time.Second),
		},
		Routes: RoutesConfig{
			File:    getEnv("TGVMAX_ROUTES_FILE", ""),
			Default: getEnv("TGVMAX_DEFAULT_ROUTE", "lyon-paris"),
			Routes:  models.DefaultRoutes(),
		},
		Web: WebConfig{
			ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		},
		Discord: DiscordConfig{
			WebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", ""),
		},
	}

	if cfg.Routes.File != "" {
		routes, err := LoadRoutesFile(cfg.Routes.File)
		if err != nil {
			return nil, err
		}
		cfg.Routes.Routes = routes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Dataset.BaseURL == "" {
		return fmt.Errorf("TGVMAX_API_BASE must not be empty")
	}
	if c.Dataset.Dataset == "" {
		return fmt.Errorf("TGVMAX_DATASET must not be empty")
	}
	// The explore API rejects limit values above 100.
	if c.Dataset.PageSize < 1 || c.Dataset.PageSize > 100 {
		return fmt.Errorf("TGVMAX_PAGE_SIZE must be between 1 and 100, got %d", c.Dataset.PageSize)
	}
	if len(c.Routes.Routes) == 0 {
		return fmt.Errorf("no routes configured")
	}
	for _, r := range c.Routes.Routes {
		if r.Name == "" || r.Origin.Code == "" || r.Destination.Code == "" {
			return fmt.Errorf("route %q needs a name and both station codes", r.Name)
		}
	}
	if _, err := c.Routes.Find(c.Routes.Default); err != nil {
		return fmt.Errorf("default route: %w", err)
	}
	return nil
}

// Find returns the route with the given name. An empty name selects the
// default route.
func (c RoutesConfig) Find(name string) (models.Route, error) {
	if name == "" {
		name = c.Default
	}
	for _, r := range c.Routes {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return models.Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
}

type routesFile struct {
	Routes []models.Route `yaml:"routes"`
}

// LoadRoutesFile reads a YAML list of routes:
//
//	routes:
//	  - name: lyon-paris
//	    origin: {name: LYON, code: FRLPD}
//	    destination: {name: PARIS, code: FRPLY}
func LoadRoutesFile(path string) ([]models.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading routes file: %w", err)
	}

	var f routesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing routes file %s: %w", path, err)
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("routes file %s lists no routes", path)
	}
	return f.Routes, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
