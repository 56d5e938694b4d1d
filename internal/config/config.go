package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/internal/logger"
)

// Config holds the application configuration.
// See .env.example for more documentation.
type Config struct {
	Landscape LandscapeConfig
	MCP       MCPConfig
	Dashboard DashboardConfig

	// Tag categorization allowlists. Empty means the built-in lists.
	TeamTags     []string `env:"TEAM_TAGS" envSeparator:","`
	LocationTags []string `env:"LOCATION_TAGS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// LandscapeConfig is the remote API connection.
type LandscapeConfig struct {
	URI       string        `env:"LANDSCAPE_API_URI"`
	AccessKey string        `env:"LANDSCAPE_API_KEY"`
	SecretKey string        `env:"LANDSCAPE_API_SECRET"`
	CAFile    string        `env:"LANDSCAPE_API_CA_FILE"`
	Timeout   time.Duration `env:"LANDSCAPE_API_TIMEOUT" envDefault:"30s"`
}

// MCPConfig is the listen address of the MCP HTTP transport.
type MCPConfig struct {
	Host string `env:"MCP_HTTP_HOST" envDefault:"0.0.0.0"`
	Port uint16 `env:"MCP_HTTP_PORT" envDefault:"8000"`
}

// Address joins Host and Port.
func (c MCPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// DashboardConfig controls the dashboard server and its snapshot.
type DashboardConfig struct {
	Address    string        `env:"DASHBOARD_ADDRESS" envDefault:":8501"`
	CacheTTL   time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"5m"`
	FetchQuery string        `env:"DASHBOARD_FETCH_QUERY" envDefault:"tag:ALL"`
	FetchLimit int           `env:"DASHBOARD_FETCH_LIMIT" envDefault:"300"`
}

// NewConfig loads .env when present and parses the process environment.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}
	return parse(env.Options{})
}

// FromMap parses configuration from an explicit environment, ignoring the
// process environment.
func FromMap(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the remote API can be reached with these settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Landscape.URI == "" {
		errs = append(errs, errors.New("LANDSCAPE_API_URI is required"))
	}
	if c.Landscape.AccessKey == "" {
		errs = append(errs, errors.New("LANDSCAPE_API_KEY is required"))
	}
	if c.Landscape.SecretKey == "" {
		errs = append(errs, errors.New("LANDSCAPE_API_SECRET is required"))
	}
	if c.Dashboard.FetchLimit <= 0 {
		errs = append(errs, errors.New("DASHBOARD_FETCH_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

// LandscapeClientConfig converts the connection settings for the client.
func (c *Config) LandscapeClientConfig() landscape.Config {
	return landscape.Config{
		URI:       c.Landscape.URI,
		AccessKey: c.Landscape.AccessKey,
		SecretKey: c.Landscape.SecretKey,
		CAFile:    c.Landscape.CAFile,
		Timeout:   c.Landscape.Timeout,
	}
}

// LoggerConfig converts the logging settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}
