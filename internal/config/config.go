// Package config provides configuration loading for the auction site.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Session   SessionConfig   `yaml:"session"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	// Addr is the listen address (default: ":8080", PORT overrides the port)
	Addr string `yaml:"addr"`
	// Mode is the gin mode: debug, release or test
	Mode string `yaml:"mode"`
	// ReadTimeout bounds reading a full request including the body
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	// Path is the SQLite file or DSN
	Path string `yaml:"path"`
	// LogLevel is the gorm logger level: silent, error, warn, info
	LogLevel string `yaml:"log_level"`
}

// LogConfig configures application logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// WebSocketConfig configures the chat consumer
type WebSocketConfig struct {
	// SendBuffer is the number of outbound frames queued per connection
	SendBuffer int `yaml:"send_buffer"`
	// ReadLimit is the largest accepted inbound frame in bytes
	ReadLimit int64 `yaml:"read_limit"`
}

// SessionConfig configures the signed login session cookie
type SessionConfig struct {
	// Secret signs and encrypts session tokens; at least 32 bytes. When empty a
	// random secret is generated at startup and sessions do not survive restarts.
	Secret string `yaml:"secret"`
	// MaxAge is how long an issued session stays valid
	MaxAge time.Duration `yaml:"max_age"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:     "auction.db",
			LogLevel: "silent",
		},
		Log: LogConfig{
			Level: "info",
		},
		WebSocket: WebSocketConfig{
			SendBuffer: 32,
			ReadLimit:  4096,
		},
		Session: SessionConfig{
			MaxAge: 24 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the process environment, in that order of precedence
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if p := getenv("PORT"); p != "" {
		host := c.Server.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		c.Server.Addr = fmt.Sprintf("%s:%s", host, p)
	}
	if v := getenv("AUCTION_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("AUCTION_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := getenv("AUCTION_SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}
	if c.WebSocket.SendBuffer <= 0 {
		errs = append(errs, errors.New("websocket.send_buffer must be positive"))
	}
	if c.WebSocket.ReadLimit <= 0 {
		errs = append(errs, errors.New("websocket.read_limit must be positive"))
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("session.secret must be at least 32 bytes"))
	}
	if c.Session.MaxAge <= 0 {
		errs = append(errs, errors.New("session.max_age must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
