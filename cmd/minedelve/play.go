package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samdwyer/minedelve/internal/game"
	"github.com/samdwyer/minedelve/internal/telemetry"
	"github.com/samdwyer/minedelve/internal/ui"
)

func playCmd() *cobra.Command {
	var (
		seed   uint64
		resume bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a new run, or resume the quicksave with --resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			if cfg.Game.Telemetry {
				shutdown, err := telemetry.Setup(ctx)
				if err != nil {
					logger.Warn("telemetry setup failed, continuing without", zap.Error(err))
				} else {
					defer func() {
						shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
						defer cancel()
						if err := shutdown(shutdownCtx); err != nil {
							logger.Warn("telemetry shutdown failed", zap.Error(err))
						}
					}()
				}
			}

			var dungeon *game.Dungeon
			if resume {
				data, err := os.ReadFile(cfg.Game.SavePath)
				if err != nil {
					return fmt.Errorf("reading quicksave: %w", err)
				}
				dungeon, err = game.FromBytes(ctx, data)
				if err != nil {
					return fmt.Errorf("resuming quicksave: %w", err)
				}
				logger.Info("run resumed",
					zap.Uint64("seed", dungeon.Seed()),
					zap.Uint64("round", dungeon.Round()))
			} else {
				if !cmd.Flags().Changed("seed") {
					seed = uint64(time.Now().UnixNano())
				}
				dungeon = game.New(ctx, seed)
				logger.Info("new run started", zap.Uint64("seed", seed))
			}

			app, err := ui.NewApp(dungeon, cfg.Game.SavePath, logger)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "world seed (default: time-based)")
	cmd.Flags().BoolVar(&resume, "resume", false, "resume the quicksave instead of starting fresh")
	return cmd
}
