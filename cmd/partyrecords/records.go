package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partyrecords/internal/export"
)

func recordsCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Write the flat per-player record file for all active minigames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Minigames built concurrently")
	return cmd
}

func runRecords(workers int) error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}

	results, err := buildResults(ctx, cfg, catalog, catalog.Active(), workers)
	if err != nil {
		return err
	}
	records := export.Flat(results)

	path, err := outputPath(cfg, cfg.Output.RecordsFile)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := export.WriteFlat(f, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %d records to %s\n", len(records), path)
	return nil
}
