// Package config loads the service configuration: a YAML file first, then
// BASICFIT_* environment overrides, then validation.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const envPrefix = "BASICFIT_"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	Migrations string `yaml:"migrations"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables an additional listener on the tailnet.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
	AuthKey  string `yaml:"auth_key"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
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
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}

// MigrationsPath is the migrations directory, "migrations" by default.
func (d DatabaseConfig) MigrationsPath() string {
	if d.Migrations == "" {
		return "migrations"
	}
	return d.Migrations
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix BASICFIT_ and underscore-separated paths:
//
//	BASICFIT_SERVER_HOST, BASICFIT_SERVER_PORT,
//	BASICFIT_DB_HOST, BASICFIT_DB_PORT, BASICFIT_DB_NAME,
//	BASICFIT_DB_USER, BASICFIT_DB_PASSWORD, BASICFIT_DB_SSLMODE,
//	BASICFIT_AUTH_API_KEY,
//	BASICFIT_TS_ENABLED, BASICFIT_TS_HOSTNAME, BASICFIT_TS_AUTHKEY,
//	BASICFIT_METRICS_ENABLED
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:  ServerConfig{Port: 8080},
		Metrics: MetricsConfig{Enabled: true, Namespace: "basicfit"},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	str := map[string]*string{
		"SERVER_HOST":  &cfg.Server.Host,
		"DB_HOST":      &cfg.Database.Host,
		"DB_NAME":      &cfg.Database.Name,
		"DB_USER":      &cfg.Database.User,
		"DB_PASSWORD":  &cfg.Database.Password,
		"DB_SSLMODE":   &cfg.Database.SSLMode,
		"AUTH_API_KEY": &cfg.Auth.APIKey,
		"TS_HOSTNAME":  &cfg.Tailscale.Hostname,
		"TS_STATE_DIR": &cfg.Tailscale.StateDir,
		"TS_AUTHKEY":   &cfg.Tailscale.AuthKey,
	}
	for name, dst := range str {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SERVER_PORT": &cfg.Server.Port,
		"DB_PORT":     &cfg.Database.Port,
	}
	for name, dst := range ints {
		if v := os.Getenv(envPrefix + name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	bools := map[string]*bool{
		"TS_ENABLED":      &cfg.Tailscale.Enabled,
		"METRICS_ENABLED": &cfg.Metrics.Enabled,
	}
	for name, dst := range bools {
		if v := os.Getenv(envPrefix + name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
