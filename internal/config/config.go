// Package config provides Viper-based configuration loading for the
// game client and the leaderboard server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// GameConfig holds client-side game settings.
type GameConfig struct {
	// SavePath is where the quicksave is written and resumed from.
	SavePath string `mapstructure:"save_path"`
	// Telemetry enables the OpenTelemetry trace exporter.
	Telemetry bool `mapstructure:"telemetry"`
}

// LeaderboardConfig holds both sides of the leaderboard protocol: the
// listen address used when serving, and the remote address used when
// submitting or fetching scores.
type LeaderboardConfig struct {
	// Host is the bind address for the leaderboard listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the leaderboard listener.
	Port int `mapstructure:"port"`
	// Server is the remote "host:port" the client talks to.
	Server string `mapstructure:"server"`
}

// Addr returns the "host:port" listen address.
func (l LeaderboardConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
func (c Config) Validate() error {
	var errs []string

	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLeaderboard(c.Leaderboard); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	if g.SavePath == "" {
		return errors.New("game.save_path must not be empty")
	}
	return nil
}

func validateLeaderboard(l LeaderboardConfig) error {
	var errs []string
	if l.Port < 1 || l.Port > 65535 {
		errs = append(errs, fmt.Sprintf("leaderboard.port must be 1-65535, got %d", l.Port))
	}
	if l.Server == "" {
		errs = append(errs, "leaderboard.server must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies
// environment variable overrides, and validates the result. An empty
// path skips the file and uses defaults plus the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with MINEDELVE_ prefix
	v.SetEnvPrefix("MINEDELVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.save_path", defaultSavePath())
	v.SetDefault("game.telemetry", false)

	v.SetDefault("leaderboard.host", "0.0.0.0")
	v.SetDefault("leaderboard.port", 8582)
	v.SetDefault("leaderboard.server", "localhost:8582")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func defaultSavePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "minedelve-save.json"
	}
	return home + "/.minedelve/save.json"
}
