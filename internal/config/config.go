// Package config loads service settings from defaults, an optional config
// file, MASKARADA_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable, e.g. MASKARADA_HEART_LAT.
const EnvPrefix = "MASKARADA"

// Config holds all service settings.
type Config struct {
	DB             string   `mapstructure:"db"`
	Addr           string   `mapstructure:"addr"`
	User           string   `mapstructure:"user"`
	Log            string   `mapstructure:"log"`
	LogLevel       string   `mapstructure:"log_level"`
	AMQPURL        string   `mapstructure:"amqp_url"`
	EventsExchange string   `mapstructure:"events_exchange"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	Heart          Heart    `mapstructure:"heart"`
	Jobs           Jobs     `mapstructure:"jobs"`
}

// Heart locates the heart of the city.
type Heart struct {
	Lat    float64 `mapstructure:"lat"`
	Lon    float64 `mapstructure:"lon"`
	Radius float64 `mapstructure:"radius"`
	Ashes  string  `mapstructure:"ashes"`
	Focus  string  `mapstructure:"focus"`
}

// Jobs holds cron specs for the maintenance jobs.
type Jobs struct {
	TokenPurge  string `mapstructure:"token_purge"`
	LedgerAudit string `mapstructure:"ledger_audit"`
}

var defaults = map[string]any{
	"db":                "maskarada.sqlite3",
	"addr":              ":8080",
	"user":              "admin",
	"log":               "",
	"log_level":         "info",
	"amqp_url":          "",
	"events_exchange":   "maskarada.events",
	"cors_origins":      []string{},
	"heart.lat":         46.0500,
	"heart.lon":         14.5069,
	"heart.radius":      50.0,
	"heart.ashes":       "ashes",
	"heart.focus":       "focus",
	"jobs.token_purge":  "@hourly",
	"jobs.ledger_audit": "@every 15m",
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if c.DB == "" {
		errs = append(errs, errors.New("db path must not be empty"))
	}
	if c.Heart.Radius <= 0 {
		errs = append(errs, fmt.Errorf("heart.radius must be positive, got %v", c.Heart.Radius))
	}
	if c.Heart.Lat < -90 || c.Heart.Lat > 90 || c.Heart.Lon < -180 || c.Heart.Lon > 180 {
		errs = append(errs, fmt.Errorf("heart position %v,%v out of range", c.Heart.Lat, c.Heart.Lon))
	}
	if c.Heart.Ashes == "" || c.Heart.Focus == "" {
		errs = append(errs, errors.New("heart.ashes and heart.focus must name containers"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}
