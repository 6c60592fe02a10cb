package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partyrecords/internal/export"
)

func workbookCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "workbook",
		Short: "Write all active minigames into one spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkbook(name)
		},
	}
	cmd.Flags().StringVar(&name, "file", "records.xlsx", "Workbook file name inside the output directory")
	return cmd
}

func runWorkbook(name string) error {
	ctx := context.Background()

	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}

	results, err := buildResults(ctx, cfg, catalog, catalog.Active(), cfg.API.Workers)
	if err != nil {
		return err
	}

	book, err := export.Workbook(results)
	if err != nil {
		return err
	}
	defer book.Close()

	path, err := outputPath(cfg, name)
	if err != nil {
		return err
	}
	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d sheets to %s\n", len(book.GetSheetList()), path)
	return nil
}
