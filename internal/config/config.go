// ABOUTME: Configuration loading and parsing for the NocoDB MCP server.
// ABOUTME: Supports YAML files with environment variable expansion plus pure-env fallback.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the fallback NocoDB host used when neither the config
// file nor NOCODB_URL provides one.
const DefaultBaseURL = "https://nocodb.v1su4.com"

// DefaultPort is the listening port used when neither the config file nor
// PORT provides one.
const DefaultPort = "3001"

// Config represents the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	NocoDB  NocoDBConfig  `yaml:"nocodb"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the listening address configuration.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// NocoDBConfig holds the remote NocoDB instance configuration.
type NocoDBConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`

	RequestTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	RequestTimeoutRaw string `yaml:"request_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded and
// duration strings are parsed into time.Duration values. Fields left empty by
// the file fall back to the same environment variables and defaults Resolve
// uses.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyEnvDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config purely from environment variables and defaults,
// for deployments that ship no config file.
func FromEnv() (*Config, error) {
	var cfg Config
	cfg.applyEnvDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Resolve loads the config file at path when it exists, and falls back to a
// pure-env configuration when it does not.
func Resolve(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return FromEnv()
}

// applyEnvDefaults fills empty fields from environment variables, then from
// fixed fallbacks.
func (c *Config) applyEnvDefaults() {
	if c.NocoDB.BaseURL == "" {
		c.NocoDB.BaseURL = os.Getenv("NOCODB_URL")
	}
	if c.NocoDB.BaseURL == "" {
		c.NocoDB.BaseURL = DefaultBaseURL
	}
	if c.NocoDB.APIToken == "" {
		c.NocoDB.APIToken = os.Getenv("NOCODB_API_TOKEN")
	}
	if c.Server.HTTPAddr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = DefaultPort
		}
		c.Server.HTTPAddr = "0.0.0.0:" + port
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. If the environment variable is not set, it is
// replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and
// valid. The API token is deliberately not validated here: the plain HTTP
// surface tolerates its absence until the first call. Commands that do
// require it call RequireToken.
func (c *Config) Validate() error {
	if c.NocoDB.BaseURL == "" {
		return fmt.Errorf("nocodb.base_url is required")
	}
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	return nil
}

// RequireToken fails when no API token is configured. The MCP front door
// calls this at startup; the plain HTTP front door does not.
func (c *Config) RequireToken() error {
	if c.NocoDB.APIToken == "" {
		return fmt.Errorf("nocodb.api_token is required (set NOCODB_API_TOKEN)")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.NocoDB.RequestTimeoutRaw != "" {
		cfg.NocoDB.RequestTimeout, err = time.ParseDuration(cfg.NocoDB.RequestTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing request_timeout %q: %w", cfg.NocoDB.RequestTimeoutRaw, err)
		}
	}

	return nil
}
