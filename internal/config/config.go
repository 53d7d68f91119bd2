package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml values like "15s" parse
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

// Config holds all runtime configuration
type Config struct {
	Server struct {
		Port         int      `yaml:"port"`
		ReadTimeout  Duration `yaml:"read_timeout"`
		WriteTimeout Duration `yaml:"write_timeout"`
		CORSOrigins  []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		// Per-query deadline applied to every store call
		Timeout Duration `yaml:"timeout"`
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	JWT struct {
		Secret          string   `yaml:"secret"`
		AccessTokenTTL  Duration `yaml:"access_token_ttl"`
		RefreshTokenTTL Duration `yaml:"refresh_token_ttl"`
	} `yaml:"jwt"`
}

// Load reads config from a yaml file, then applies environment overrides.
// Missing file is not fatal: defaults + env vars are enough for containers.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8082
	cfg.Server.ReadTimeout = Duration{15 * time.Second}
	cfg.Server.WriteTimeout = Duration{15 * time.Second}
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 3306
	cfg.Database.User = "promptdeck"
	cfg.Database.Name = "promptdeck"
	cfg.Database.Timeout = Duration{5 * time.Second}
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = 6379
	cfg.Redis.PoolSize = 10
	cfg.JWT.AccessTokenTTL = Duration{30 * time.Minute}
	cfg.JWT.RefreshTokenTTL = Duration{14 * 24 * time.Hour}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(&cfg.Server.Port, "PORT")
	setStr(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setStr(&cfg.Database.User, "DB_USER")
	setStr(&cfg.Database.Password, "DB_PASSWORD")
	setStr(&cfg.Database.Name, "DB_NAME")
	setStr(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setStr(&cfg.JWT.Secret, "JWT_SECRET")
}

// DSN builds the MySQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}
