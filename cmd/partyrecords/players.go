package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"partyrecords/internal/identity"
	"partyrecords/internal/logger"
	"partyrecords/internal/playerdata"
)

func playersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Collect server statistics for known players",
	}
	var activeOnly bool
	fetch := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch rank and party statistics for every player in the lookup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayersFetch(activeOnly)
		},
	}
	fetch.Flags().BoolVar(&activeOnly, "active-only", false, "Keep only players active this month")
	cmd.AddCommand(fetch)
	return cmd
}

func runPlayersFetch(activeOnly bool) error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}
	lookup, err := identity.LoadLookup(filepath.Join(cfg.Output.Dir, cfg.Output.IdentitiesFile))
	if err != nil {
		return err
	}
	names := lookup.Names()
	if len(names) == 0 {
		return fmt.Errorf("no players in %s, run identities resolve first", cfg.Output.IdentitiesFile)
	}

	client := playerdata.NewClient(cfg.API.PlayerStatsURL, cfg.API.Timeout)
	players, err := playerdata.FetchAll(ctx, client, names, cfg.API.Workers, cfg.API.Delay, logger.New())
	if err != nil {
		return err
	}
	if activeOnly {
		active := players[:0]
		for _, p := range players {
			if p.Active() {
				active = append(active, p)
			}
		}
		players = active
	}

	path, err := outputPath(cfg, cfg.Output.PlayerDataFile)
	if err != nil {
		return err
	}
	if err := playerdata.Write(path, players); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %d players to %s\n", len(players), path)
	groups := playerdata.Categorize(players, playerdata.DefaultKeywords)
	for _, keyword := range playerdata.DefaultKeywords {
		if n := len(groups[keyword]); n > 0 {
			fmt.Fprintf(os.Stdout, "  %s: %d\n", keyword, n)
		}
	}
	return nil
}
