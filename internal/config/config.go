package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	// DefaultConfigFile is used when neither a flag nor BOOKMYTIX_CONFIG names a file.
	DefaultConfigFile = "config.yaml"
	// DefaultServerAddr is the HTTP listen address.
	DefaultServerAddr = ":8080"
	// DefaultDatabaseDSN is a local SQLite file.
	DefaultDatabaseDSN = "file:data/bookmytix.db"
	// DefaultJWTExpiry is the admin session lifetime.
	DefaultJWTExpiry = 24 * time.Hour
	// DefaultChatReplyDelay is the simulated AI thinking time.
	DefaultChatReplyDelay = 1500 * time.Millisecond
)

// ErrMissingJWTSecret is returned when serving without a signing secret.
var ErrMissingJWTSecret = errors.New("config: jwt secret is required")

// AppConfig carries process-level options supplied by the CLI.
type AppConfig struct {
	ConfigPath string // Path given via --config.
}

// Config mirrors the YAML config file.
type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Database     DatabaseConfig `yaml:"database"`
	JWT          JWTConfig      `yaml:"jwt"`
	Redis        RedisConfig    `yaml:"redis"`
	Logging      LoggingConfig  `yaml:"logging"`
	Chat         ChatConfig     `yaml:"chat"`
	SeedDemoData bool           `yaml:"seed_demo_data"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	DashboardDir string `yaml:"dashboard_dir"` // Built dashboard assets; empty serves the API only.
}

// DatabaseConfig holds the gorm DSN (postgres or sqlite).
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// JWTConfig configures admin session tokens.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// RedisConfig enables the redis-backed preference store when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether a redis address is configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// LoggingConfig configures logrus and optional file rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ChatConfig configures the chat simulation.
type ChatConfig struct {
	ReplyDelay time.Duration `yaml:"reply_delay"`
}

// ResolveConfigPath picks the config file: explicit path, BOOKMYTIX_CONFIG, then config.yaml.
func ResolveConfigPath(path string) string {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	if env := strings.TrimSpace(os.Getenv("BOOKMYTIX_CONFIG")); env != "" {
		return filepath.Clean(env)
	}
	return DefaultConfigFile
}

// Load reads the config file, applies environment overrides and fills defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	data, errRead := os.ReadFile(path)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	case errors.Is(errRead, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

// LoadDatabaseDSN returns the database DSN from the config file.
func LoadDatabaseDSN(path string) (string, error) {
	cfg, errLoad := Load(path)
	if errLoad != nil {
		return "", errLoad
	}
	return cfg.Database.DSN, nil
}

// LoadJWTConfig returns the JWT config and fails when no secret is set.
func LoadJWTConfig(path string) (JWTConfig, error) {
	cfg, errLoad := Load(path)
	if errLoad != nil {
		return JWTConfig{}, errLoad
	}
	if err := cfg.JWT.Validate(); err != nil {
		return cfg.JWT, err
	}
	return cfg.JWT, nil
}

// Validate checks that a signing secret is present.
func (c JWTConfig) Validate() error {
	if strings.TrimSpace(c.Secret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = DefaultDatabaseDSN
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = DefaultJWTExpiry
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = 50
	}
	if cfg.Logging.MaxBackups <= 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays <= 0 {
		cfg.Logging.MaxAgeDays = 14
	}
	if cfg.Chat.ReplyDelay <= 0 {
		cfg.Chat.ReplyDelay = DefaultChatReplyDelay
	}
}
