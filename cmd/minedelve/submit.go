package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samdwyer/minedelve/internal/leaderboard"
)

func submitCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "submit [save-file]",
		Short: "Upload a finished run to the leaderboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			name = strings.ToUpper(name)
			if !leaderboard.ValidName(name) {
				return fmt.Errorf("name must be exactly 3 characters from A-Z0-9, got %q", name)
			}

			path := cfg.Game.SavePath
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := leaderboard.Upload(cfg.Leaderboard.Server, name, data); err != nil {
				return err
			}
			logger.Info("run submitted",
				zap.String("name", name),
				zap.String("server", cfg.Leaderboard.Server))
			fmt.Println("Run submitted.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "three-character leaderboard name (A-Z0-9)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
