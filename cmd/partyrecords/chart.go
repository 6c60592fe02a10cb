package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"partyrecords/internal/export"
)

func chartCmd() *cobra.Command {
	var minigame string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a strip chart of one minigame as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(minigame) == "" {
				return fmt.Errorf("--minigame is required")
			}
			return runChart(minigame)
		},
	}
	cmd.Flags().StringVar(&minigame, "minigame", "", "Minigame to chart")
	return cmd
}

func runChart(minigame string) error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}

	results, err := buildResults(ctx, cfg, catalog, []string{minigame}, 1)
	if err != nil {
		return err
	}
	result := results[0]
	if result.Inactive {
		fmt.Fprintf(os.Stdout, "%s is inactive, nothing to chart\n", result.Minigame)
		return nil
	}

	png, err := export.StripChart(result.Table, result.Mode)
	if err != nil {
		return err
	}
	path, err := outputPath(cfg, result.Minigame+".png")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	return nil
}
