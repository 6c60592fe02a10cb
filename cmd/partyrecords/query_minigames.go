package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func queryMinigamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minigames",
		Short: "List minigames with published records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryMinigames()
		},
	}
	return cmd
}

func runQueryMinigames() error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	summaries, err := db.ListMinigames(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No minigames found.")
		return nil
	}

	for _, summary := range summaries {
		mode := "unknown"
		if game, err := catalog.Lookup(summary.Name); err == nil {
			mode = string(game.Mode)
		}
		fmt.Fprintf(os.Stdout, "%s (%s) [%d players]\n", summary.Name, mode, summary.Players)
	}
	return nil
}
