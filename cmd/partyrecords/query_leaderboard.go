package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"partyrecords/internal/store"
)

func queryLeaderboardCmd() *cobra.Command {
	var mapName string
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard <minigame>",
		Short: "Rank the players of a minigame",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryLeaderboard(strings.Join(args, " "), mapName, limit)
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "", "Map column to rank on; empty ranks by best score, or fastest map for time minigames")
	cmd.Flags().IntVar(&limit, "limit", store.DefaultLeaderboardLimit, "Number of entries")
	return cmd
}

func runQueryLeaderboard(minigame, mapName string, limit int) error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}
	game, err := catalog.Lookup(minigame)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	entries, err := db.Leaderboard(ctx, game.Name, mapName, game.Mode.LowerIsBetter(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No entries found.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%3d. %s %s\n", e.Rank, e.Player, formatScore(e.Value))
	}
	return nil
}
