package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/minedelve/internal/leaderboard"
)

func scoresCmd() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Fetch and print the leaderboard",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			entries, err := leaderboard.Download(cfg.Leaderboard.Server)
			if err != nil {
				return err
			}

			switch sortBy {
			case "name":
				leaderboard.SortByName(entries)
			case "rounds":
				leaderboard.SortByRounds(entries)
			case "treasure":
				leaderboard.SortByTreasure(entries)
			default:
				return fmt.Errorf("unknown sort key %q", sortBy)
			}

			if len(entries) == 0 {
				fmt.Println("No runs submitted yet.")
				return nil
			}
			fmt.Printf("%-4s  %9s  %7s\n", "NAME", "MINERALS", "ROUNDS")
			for _, e := range entries {
				rounds := "-"
				if e.Rounds != nil {
					rounds = fmt.Sprintf("%d", *e.Rounds)
				}
				fmt.Printf("%-4s  %9d  %7s\n", e.Name, e.Treasure, rounds)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "treasure", "sort key: treasure, rounds, or name")
	return cmd
}
