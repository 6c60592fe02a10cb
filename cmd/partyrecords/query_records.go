package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"partyrecords/internal/store"
)

func queryRecordsCmd() *cobra.Command {
	var minigame string
	var player string
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List published records by minigame and player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryRecords(minigame, player)
		},
	}
	cmd.Flags().StringVar(&minigame, "minigame", "", "Minigame to filter")
	cmd.Flags().StringVar(&player, "player", "", "Player to filter")
	return cmd
}

func runQueryRecords(minigame, player string) error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}
	if minigame != "" {
		game, err := catalog.Lookup(minigame)
		if err != nil {
			return err
		}
		minigame = game.Name
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	records, err := db.ListRecords(ctx, minigame, player)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No records found.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%s [%s] best %s: %s\n", r.Player, r.Minigame, formatScore(r.BestScore), formatScores(r))
	}
	return nil
}

func formatScores(r store.Record) string {
	maps := make([]string, 0, len(r.Scores))
	for name := range r.Scores {
		maps = append(maps, name)
	}
	sort.Strings(maps)

	parts := make([]string, 0, len(maps))
	for _, name := range maps {
		parts = append(parts, fmt.Sprintf("%s=%s", name, formatScore(r.Scores[name])))
	}
	return strings.Join(parts, ", ")
}

func formatScore(v float64) string {
	return fmt.Sprintf("%g", v)
}
