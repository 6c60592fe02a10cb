package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"partyrecords/internal/config"
	"partyrecords/internal/export"
	"partyrecords/internal/ingest"
	"partyrecords/internal/logger"
	"partyrecords/internal/rules"
)

func buildCmd() *cobra.Command {
	var minigames []string
	var all bool
	var workers int
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the corrected record table of one or more minigames",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(minigames) == 0 && !all {
				return fmt.Errorf("--minigame or --all is required")
			}
			return runBuild(minigames, all, workers)
		},
	}
	cmd.Flags().StringArrayVar(&minigames, "minigame", nil, "Minigame to build (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Build every active minigame")
	cmd.Flags().IntVar(&workers, "workers", 4, "Minigames built concurrently")
	return cmd
}

func runBuild(minigames []string, all bool, workers int) error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}
	if all {
		minigames = catalog.Active()
	}

	results, err := buildResults(ctx, cfg, catalog, minigames, workers)
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Inactive {
			fmt.Fprintf(os.Stdout, "%s: inactive, skipped\n", result.Minigame)
			continue
		}
		payload, err := export.Tabular(result)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", result.Minigame, err)
		}
		path, err := outputPath(cfg, result.Minigame+".json")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printOutcomes(os.Stdout, result, path)
	}
	return nil
}

// buildResults loads every export once and builds the named minigames.
func buildResults(ctx context.Context, cfg *config.ProjectConfig, catalog *config.Catalog, minigames []string, workers int) ([]*ingest.Result, error) {
	log := logger.New()

	exports, err := ingest.LoadExports(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("loaded exports", "files", len(exports), "dir", cfg.Input.Dir)

	builder := ingest.NewBuilder(catalog, rules.NewEngine(nil, log), log)
	return builder.BuildAll(ctx, exports, minigames, workers)
}

func printOutcomes(out io.Writer, result *ingest.Result, path string) {
	fmt.Fprintf(out, "%s -> %s\n", result.Minigame, path)
	fmt.Fprintf(out, "  Players: %d\n", result.Table.Len())
	fmt.Fprintf(out, "  Columns: %d\n", len(result.Table.Columns()))
	if result.PlayersSkipped > 0 {
		fmt.Fprintf(out, "  Players without records: %d\n", result.PlayersSkipped)
	}
	for _, outcome := range result.Outcomes {
		if outcome.Applied {
			fmt.Fprintf(out, "  - %s: applied\n", outcome.Step)
			continue
		}
		fmt.Fprintf(out, "  - %s: skipped (%s)\n", outcome.Step, outcome.Reason)
	}
}
