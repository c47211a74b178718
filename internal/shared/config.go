package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values loaded from the TOML file.
const (
	EnvHost           = "TDX_HOST"
	EnvPort           = "TDX_PORT"
	EnvIdentityHeader = "TDX_IDENTITY_HEADER"
	EnvLogLevel       = "TDX_LOG_LEVEL"
	EnvBaseURL        = "TDX_BASE_URL"
	EnvUserID         = "TDX_USER_ID"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server ServerConfig `toml:"server"`
	CORS   CORSConfig   `toml:"cors"`
	Log    LogConfig    `toml:"log"`
	Client ClientConfig `toml:"client"`
}

// ServerConfig contains HTTP gateway settings. Timeouts are in seconds.
type ServerConfig struct {
	Host              string  `toml:"host"`
	Port              int     `toml:"port"`
	IdentityHeader    string  `toml:"identity_header"`
	RateLimit         float64 `toml:"rate_limit"`
	RateBurst         int     `toml:"rate_burst"`
	ReadHeaderTimeout int     `toml:"read_header_timeout"`
	IdleTimeout       int     `toml:"idle_timeout"`
	ShutdownTimeout   int     `toml:"shutdown_timeout"`
}

// CORSConfig restricts which browser origins are reflected back.
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ClientConfig is used by the todos subcommands to reach a running gateway.
type ClientConfig struct {
	BaseURL string `toml:"base_url"`
	UserID  string `toml:"user_id"`
}

// Addr returns the host:port pair the gateway listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Seconds converts one of the integer timeout settings to a [time.Duration].
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values a running gateway depends on.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if strings.TrimSpace(c.Server.IdentityHeader) == "" {
		return fmt.Errorf("%w: server.identity_header must not be empty", ErrInvalidConfig)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ApplyEnv loads a .env file when one exists and overlays TDX_* variables onto the config.
//
// Variables already set in the process environment take precedence over the .env file.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to load env file: %v", ErrInvalidConfig, err)
	}

	if v, ok := os.LookupEnv(EnvHost); ok {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv(EnvIdentityHeader); ok {
		c.Server.IdentityHeader = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvBaseURL); ok {
		c.Client.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvUserID); ok {
		c.Client.UserID = v
	}

	return c.Validate()
}

// ResolveConfig loads the config at path when it exists, falling back to the embedded defaults, then applies
// environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}
