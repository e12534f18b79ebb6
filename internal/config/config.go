package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/drone/envsubst"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseCfg `yaml:"database" json:"database"`
	Redis    RedisCfg    `yaml:"redis" json:"redis"`
	Server   ServerCfg   `yaml:"server" json:"server"`
	Palette  []string    `yaml:"palette" json:"palette"`
	Style    StyleCfg    `yaml:"style" json:"style"`
	LogLevel string      `yaml:"log_level" json:"log_level"`
}

type DatabaseCfg struct {
	Driver string `yaml:"driver" json:"driver"`
	URL    string `yaml:"url" json:"-"`
	Path   string `yaml:"path" json:"path"`
}

type RedisCfg struct {
	URL     string        `yaml:"url" json:"-"`
	ZoneTTL time.Duration `yaml:"zone_ttl" json:"zone_ttl"`
}

type ServerCfg struct {
	Port           string  `yaml:"port" json:"port"`
	Timezone       string  `yaml:"timezone" json:"timezone"` // IANA zone for request dates
	RateLimitRPS   float64 `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" json:"rate_limit_burst"`
}

type StyleCfg struct {
	SuccessColor string `yaml:"success_color" json:"success_color"`
	FailureColor string `yaml:"failure_color" json:"failure_color"`
}

// Defaults used when neither the config file nor the environment sets a value.
func Defaults() Config {
	return Config{
		Database: DatabaseCfg{Driver: "sqlite", Path: "data/analytics.db"},
		Redis:    RedisCfg{ZoneTTL: 15 * time.Minute},
		Server:   ServerCfg{Port: "8080", Timezone: "Asia/Jakarta", RateLimitRPS: 20, RateLimitBurst: 40},
		LogLevel: "info",
	}
}

// Load reads .env (if present), then the YAML file at CONFIG_PATH with
// ${VAR:-default} expansion, then applies environment overrides.
// A missing config file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := Defaults()
	if err := cfg.readFile(Get("CONFIG_PATH", "config.yml")); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	expanded, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return fmt.Errorf("load config: expand %q: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Database.Driver = Get("DB_DRIVER", c.Database.Driver)
	c.Database.URL = Get("DATABASE_URL", c.Database.URL)
	c.Database.Path = Get("DB_PATH", c.Database.Path)
	c.Redis.URL = Get("REDIS_URL", c.Redis.URL)
	c.Server.Port = Get("PORT", c.Server.Port)
	c.Server.Timezone = Get("TIMEZONE", c.Server.Timezone)
	c.LogLevel = Get("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("ZONE_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("load config: ZONE_CACHE_TTL=%q: %w", v, err)
		}
		c.Redis.ZoneTTL = ttl
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("load config: RATE_LIMIT_RPS=%q: %w", v, err)
		}
		c.Server.RateLimitRPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("load config: RATE_LIMIT_BURST=%q: %w", v, err)
		}
		c.Server.RateLimitBurst = burst
	}
	return nil
}

// Validate rejects unknown drivers and a missing DSN for the chosen driver.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "pgx":
		if strings.TrimSpace(c.Database.URL) == "" {
			return errors.New("config: DATABASE_URL is required for driver pgx")
		}
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("config: DB_PATH is required for driver sqlite")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("config: rate limit must be positive (rps=%v burst=%d)", c.Server.RateLimitRPS, c.Server.RateLimitBurst)
	}
	if c.Redis.ZoneTTL < 0 {
		return fmt.Errorf("config: ZONE_CACHE_TTL must not be negative")
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "pgx" {
		return c.Database.URL
	}
	return c.Database.Path
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
