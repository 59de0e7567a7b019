package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samdwyer/minedelve/internal/game"
)

func verifyCmd() *cobra.Command {
	var fast bool

	c := &cobra.Command{
		Use:   "verify [save-file]",
		Short: "Replay a saved run and report its final statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			path := cfg.Game.SavePath
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			replay := game.FromBytes
			if fast {
				replay = game.FromBytesUnverified
			}
			dungeon, err := replay(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("replay failed: %w", err)
			}

			status := "in progress"
			switch {
			case dungeon.IsGameOver():
				status = "incapacitated"
			case dungeon.FinalTreasureFound():
				status = "finished"
			}
			fmt.Printf("seed:      %d\n", dungeon.Seed())
			fmt.Printf("commands:  %d\n", len(dungeon.Commands()))
			fmt.Printf("round:     %d\n", dungeon.Round())
			fmt.Printf("minerals:  %d\n", dungeon.PlayerTreasure())
			fmt.Printf("status:    %s\n", status)
			return nil
		},
	}
	c.Flags().BoolVar(&fast, "fast", false, "skip the per-command replay self-check")
	return c
}
