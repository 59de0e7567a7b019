package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samdwyer/minedelve/internal/leaderboard"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the leaderboard server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			server := leaderboard.NewServer(cfg.Leaderboard.Addr(), logger)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				logger.Info("shutting down", zap.String("signal", sig.String()))
				server.Stop()
			}()

			return server.ListenAndServe(cmd.Context())
		},
	}
}
