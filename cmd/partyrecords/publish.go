package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"partyrecords/internal/export"
	"partyrecords/internal/identity"
	"partyrecords/internal/logger"
	"partyrecords/internal/store"
)

func publishCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Replace the stored records with a fresh build of all active minigames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Minigames built concurrently")
	return cmd
}

func runPublish(workers int) error {
	ctx := context.Background()
	log := logger.New()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}

	results, err := buildResults(ctx, cfg, catalog, catalog.Active(), workers)
	if err != nil {
		return err
	}

	byMinigame := make(map[string][]store.Record)
	for _, r := range export.Flat(results) {
		byMinigame[r.Minigame] = append(byMinigame[r.Minigame], store.Record{
			Player:    r.Name,
			Minigame:  r.Minigame,
			Scores:    r.Scores,
			BestScore: r.BestScore,
		})
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	published := 0
	for _, result := range results {
		if result.Inactive {
			continue
		}
		records := byMinigame[result.Minigame]
		if err := db.ReplaceRecords(ctx, result.Minigame, records); err != nil {
			return fmt.Errorf("publishing %s: %w", result.Minigame, err)
		}
		log.Debug("published minigame", "minigame", result.Minigame, "records", len(records))
		published += len(records)
	}

	lookup, err := identity.LoadLookup(filepath.Join(cfg.Output.Dir, cfg.Output.IdentitiesFile))
	if err != nil {
		return err
	}
	if len(lookup) > 0 {
		if err := db.UpsertIdentities(ctx, lookup); err != nil {
			return err
		}
	}

	fmt.Fprintln(os.Stdout, "Publish complete.")
	fmt.Fprintf(os.Stdout, "  Records:    %d\n", published)
	fmt.Fprintf(os.Stdout, "  Identities: %d\n", len(lookup))
	return nil
}
