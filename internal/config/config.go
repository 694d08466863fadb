package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type CacheConfig struct {
	TTLMinutes     int `yaml:"ttl_minutes"`
	RefreshMinutes int `yaml:"refresh_minutes"`
}

// Load reads the YAML config, applies environment overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the config without defaulting or validation.
// Useful for debugging/printing partial configs. A missing file is not an
// error; environment overrides still apply.
func LoadUnchecked(path string) (*Config, error) {
	var c Config
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Fall through to env-only configuration.
	default:
		return nil, err
	}
	c.applyEnv()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 10
	}
	if c.Cache.RefreshMinutes == 0 {
		c.Cache.RefreshMinutes = 10
	}
}

func (c *Config) applyEnv() {
	setString(&c.Database.Host, "GREENLEDGER_DB_HOST")
	setInt(&c.Database.Port, "GREENLEDGER_DB_PORT")
	setString(&c.Database.User, "GREENLEDGER_DB_USER")
	setString(&c.Database.Password, "GREENLEDGER_DB_PASSWORD")
	setString(&c.Database.Name, "GREENLEDGER_DB_NAME")
	setString(&c.Database.SSLMode, "GREENLEDGER_DB_SSLMODE")
	setInt(&c.Server.Port, "GREENLEDGER_PORT")
	setInt(&c.Cache.TTLMinutes, "GREENLEDGER_CACHE_TTL_MINUTES")
	setInt(&c.Cache.RefreshMinutes, "GREENLEDGER_CACHE_REFRESH_MINUTES")
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	if c.Cache.TTLMinutes < 0 || c.Cache.RefreshMinutes < 0 {
		return errors.New("cache intervals must not be negative")
	}
	return nil
}

// DSN renders the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// TTL is the snapshot lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// RefreshInterval is the background refresh tick.
func (c CacheConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
