package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"partyrecords/internal/config"
	"partyrecords/internal/identity"
	"partyrecords/internal/ingest"
	"partyrecords/internal/logger"
)

func identitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identities",
		Short: "Maintain the player name to uuid lookup file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "resolve",
		Short: "Look up uuids for exported players missing from the lookup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Update player names that changed since they were resolved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh()
		},
	})
	return cmd
}

func newResolver(cfg *config.ProjectConfig) *identity.Resolver {
	client := identity.NewClient(cfg.API.ProfileURL, cfg.API.SessionURL, cfg.API.Timeout)
	return identity.NewResolver(client, cfg.API.Workers, cfg.API.Delay, logger.New())
}

func runResolve() error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}
	exports, err := ingest.LoadExports(cfg)
	if err != nil {
		return err
	}
	players := make([]string, 0, len(exports))
	for _, export := range exports {
		players = append(players, export.Player)
	}

	lookupPath := filepath.Join(cfg.Output.Dir, cfg.Output.IdentitiesFile)
	lookup, err := identity.LoadLookup(lookupPath)
	if err != nil {
		return err
	}

	updated, report, err := newResolver(cfg).ResolveMissing(ctx, lookup, players)
	if err != nil {
		return err
	}
	if err := saveIdentities(cfg, updated); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Resolution complete.")
	fmt.Fprintf(os.Stdout, "  Known players: %d\n", len(updated))
	fmt.Fprintf(os.Stdout, "  Resolved:      %d\n", report.Resolved)
	if len(report.Failed) > 0 {
		fmt.Fprintf(os.Stdout, "\nFailed (%d):\n", len(report.Failed))
		for _, name := range report.Failed {
			fmt.Fprintf(os.Stdout, "  - %s\n", name)
		}
	}
	return nil
}

func runRefresh() error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}
	lookup, err := identity.LoadLookup(filepath.Join(cfg.Output.Dir, cfg.Output.IdentitiesFile))
	if err != nil {
		return err
	}

	updated, changes, err := newResolver(cfg).RefreshNames(ctx, lookup)
	if err != nil {
		return err
	}
	if err := saveIdentities(cfg, updated); err != nil {
		return err
	}

	if len(changes) == 0 {
		fmt.Fprintln(os.Stdout, "No name changes found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Name changes (%d):\n", len(changes))
	for _, change := range changes {
		fmt.Fprintf(os.Stdout, "  - %s -> %s (%s)\n", change.Old, change.New, change.UUID)
	}
	return nil
}

func saveIdentities(cfg *config.ProjectConfig, lookup identity.Lookup) error {
	lookupPath, err := outputPath(cfg, cfg.Output.IdentitiesFile)
	if err != nil {
		return err
	}
	if err := identity.SaveLookup(lookupPath, lookup); err != nil {
		return err
	}
	namesPath, err := outputPath(cfg, cfg.Output.NamesFile)
	if err != nil {
		return err
	}
	return identity.WriteNameList(namesPath, lookup)
}
