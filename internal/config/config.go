package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultStatsTTL bounds how long a cached summary is served.
const DefaultStatsTTL = 5 * time.Minute

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Stats     StatsConfig     `yaml:"stats"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables serving on the tailnet through tsnet instead of a
// plain TCP listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type StatsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTNOTES_ and underscore-separated paths:
//
//	LIFTNOTES_SERVER_HOST, LIFTNOTES_SERVER_PORT,
//	LIFTNOTES_DB_HOST, LIFTNOTES_DB_PORT, LIFTNOTES_DB_NAME,
//	LIFTNOTES_DB_USER, LIFTNOTES_DB_PASSWORD, LIFTNOTES_DB_SSLMODE,
//	LIFTNOTES_AUTH_API_KEY,
//	LIFTNOTES_TS_ENABLED, LIFTNOTES_TS_HOSTNAME, LIFTNOTES_TS_STATE_DIR,
//	LIFTNOTES_STATS_TTL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Stats.TTL == 0 {
		cfg.Stats.TTL = DefaultStatsTTL
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("LIFTNOTES_SERVER_HOST", &cfg.Server.Host)
	setInt("LIFTNOTES_SERVER_PORT", &cfg.Server.Port)
	setString("LIFTNOTES_DB_HOST", &cfg.Database.Host)
	setInt("LIFTNOTES_DB_PORT", &cfg.Database.Port)
	setString("LIFTNOTES_DB_NAME", &cfg.Database.Name)
	setString("LIFTNOTES_DB_USER", &cfg.Database.User)
	setString("LIFTNOTES_DB_PASSWORD", &cfg.Database.Password)
	setString("LIFTNOTES_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("LIFTNOTES_AUTH_API_KEY", &cfg.Auth.APIKey)
	setString("LIFTNOTES_TS_HOSTNAME", &cfg.Tailscale.Hostname)
	setString("LIFTNOTES_TS_STATE_DIR", &cfg.Tailscale.StateDir)

	if v := os.Getenv("LIFTNOTES_TS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("LIFTNOTES_STATS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Stats.TTL = d
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port == 0 {
		return errors.New("database.port is required")
	}
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return errors.New("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return errors.New("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Stats.TTL < 0 {
		return errors.New("stats.ttl must not be negative")
	}
	return nil
}
