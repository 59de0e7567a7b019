package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samdwyer/minedelve/internal/config"
)

var configPath string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "minedelve",
		Short:         "A deterministic mining roguelike with a shared leaderboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env is optional; real env vars take precedence anyway.
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	cmd.AddCommand(
		playCmd(),
		serveCmd(),
		verifyCmd(),
		submitCmd(),
		scoresCmd(),
	)
	return cmd
}

// loadConfig resolves configuration from file, environment and
// defaults, and builds the logger it describes.
func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
