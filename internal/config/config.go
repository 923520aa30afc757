// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (WBSERVER_ prefix, runtime override)
//  2. Config file (~/.wbserver/config.yaml or ./config.yaml)
//  3. Default values
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingDataFile indicates no data file path is configured.
	ErrMissingDataFile = errors.New("missing data file path")

	// ErrInvalidHost indicates the listen host is invalid.
	ErrInvalidHost = errors.New("invalid host")

	// ErrInvalidPort indicates the listen port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidUpstreamURL indicates an upstream API base URL is invalid.
	ErrInvalidUpstreamURL = errors.New("invalid upstream URL")

	// ErrInvalidTimeout indicates the HTTP timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid HTTP timeout")
)

// Defaults mirror the public endpoints the server was built against.
const (
	DefaultDataFile         = "data/world_bank_indicators.csv"
	DefaultHost             = "127.0.0.1"
	DefaultPort             = 8765
	DefaultRESTCountriesURL = "https://restcountries.com/v3.1"
	DefaultWorldBankURL     = "https://api.worldbank.org/v2"
	DefaultHTTPTimeoutSecs  = 30
)

// Config stores application configuration.
type Config struct {
	// DataFile is the path to the local World Bank indicators CSV snapshot.
	DataFile string `mapstructure:"data_file"`

	// Host and Port define the streamable HTTP listen address.
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Upstream API base URLs. Overridable so tests can point the clients
	// at httptest servers.
	RESTCountriesURL string `mapstructure:"rest_countries_url"`
	WorldBankURL     string `mapstructure:"world_bank_url"`

	// HTTPTimeoutSecs bounds every outbound API request. There is no
	// caller-supplied cancellation; this is the only bound.
	HTTPTimeoutSecs int `mapstructure:"http_timeout"`

	// Logging configuration.
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration from file and environment, applies defaults,
// and validates the result (fail-fast).
func Load() (*Config, error) {
	v := viper.New()

	// Configuration directory: ~/.wbserver/
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".wbserver")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Also support current directory

	setDefaults(v)

	v.SetEnvPrefix("WBSERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_file", DefaultDataFile)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("rest_countries_url", DefaultRESTCountriesURL)
	v.SetDefault("world_bank_url", DefaultWorldBankURL)
	v.SetDefault("http_timeout", DefaultHTTPTimeoutSecs)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// Validate checks all fields and returns the first violation found.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	if strings.TrimSpace(c.DataFile) == "" {
		return ErrMissingDataFile
	}
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidHost)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPort, c.Port)
	}
	for _, u := range []string{c.RESTCountriesURL, c.WorldBankURL} {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidUpstreamURL, u)
		}
	}
	if c.HTTPTimeoutSecs < 1 {
		return fmt.Errorf("%w: %d (must be positive seconds)", ErrInvalidTimeout, c.HTTPTimeoutSecs)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// HTTPTimeout returns the outbound request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}
