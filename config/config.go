package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	obs "github.com/Black-And-White-Club/palette-forge/pkg/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	SQLite        SQLiteConfig        `yaml:"sqlite"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Palette       PaletteConfig       `yaml:"palette"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SQLiteConfig holds the local store configuration. Used when no Postgres DSN is set.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// NATSConfig holds NATS configuration. An empty URL keeps the bus in-process.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API listener configuration.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// PaletteConfig holds generation defaults and limits.
type PaletteConfig struct {
	Defaults  palettedomain.Controls `yaml:"defaults"`
	MaxColors int                    `yaml:"max_colors"`
}

const (
	defaultSQLitePath  = "palettes.db"
	defaultHTTPAddress = ":8080"
	defaultRateLimit   = 20
	defaultRateBurst   = 40
	defaultMaxColors   = 10
)

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLite.Path = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("PALETTE_MAX_COLORS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PALETTE_MAX_COLORS value: %v", err)
		}
		cfg.Palette.MaxColors = n
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	// Storage: Postgres when DATABASE_URL is set, otherwise the local SQLite file.
	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	cfg.SQLite.Path = os.Getenv("SQLITE_PATH")

	cfg.NATS.URL = os.Getenv("NATS_URL") // optional; empty keeps the bus in-process

	cfg.HTTP.Address = os.Getenv("HTTP_ADDRESS")
	cfg.HTTP.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))

	cfg.Observability.MetricsAddress = os.Getenv("METRICS_ADDRESS") // optional; empty disables metrics
	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")

	if v := os.Getenv("PALETTE_MAX_COLORS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PALETTE_MAX_COLORS value: %v", err)
		}
		cfg.Palette.MaxColors = n
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills every unset field.
func (c *Config) applyDefaults() {
	if c.Postgres.DSN == "" && c.SQLite.Path == "" {
		c.SQLite.Path = defaultSQLitePath
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = defaultHTTPAddress
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = defaultRateLimit
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = defaultRateBurst
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Palette.MaxColors <= 0 {
		c.Palette.MaxColors = defaultMaxColors
	}

	// A defaults block that is absent entirely means the built-in controls.
	// Once present, zero saturation, lightness and hue shift are honoured.
	defaults := palettedomain.DefaultControls()
	d := &c.Palette.Defaults
	if *d == (palettedomain.Controls{}) {
		*d = defaults
		return
	}
	if d.BaseColor == "" {
		d.BaseColor = defaults.BaseColor
	}
	if d.Mode == "" {
		d.Mode = defaults.Mode
	}
	if d.Count == 0 {
		d.Count = defaults.Count
	}
}

// Validate rejects palette defaults the engine could not generate from.
func (c *Config) Validate() error {
	if _, err := palettedomain.ParseHex(c.Palette.Defaults.BaseColor); err != nil {
		return fmt.Errorf("invalid palette.defaults.base_color: %w", err)
	}
	if c.Palette.Defaults.Count < 1 || c.Palette.Defaults.Count > c.Palette.MaxColors {
		return fmt.Errorf("palette.defaults.count must be between 1 and %d, got %d", c.Palette.MaxColors, c.Palette.Defaults.Count)
	}
	c.Palette.Defaults.Mode = palettedomain.ParseMode(string(c.Palette.Defaults.Mode))
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func ToObsConfig(appCfg *Config) obs.Config {
	return obs.Config{
		ServiceName:    "palette-forge",
		Environment:    appCfg.Observability.Environment,
		Version:        "0.4.0", // Could inject via `ldflags`
		LogLevel:       appCfg.Observability.LogLevel,
		MetricsAddress: appCfg.Observability.MetricsAddress,
	}
}
