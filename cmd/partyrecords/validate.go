package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"partyrecords/internal/identity"
	"partyrecords/internal/ingest"
	"partyrecords/internal/validate"
)

func validateCmd() *cobra.Command {
	var checkIdentities bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the player exports before a build",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(checkIdentities)
		},
	}
	cmd.Flags().BoolVar(&checkIdentities, "identities", true, "Report players missing from the uuid lookup file")
	return cmd
}

func runValidate(checkIdentities bool) error {
	cfg, catalog, err := loadProject()
	if err != nil {
		return err
	}

	exports, err := ingest.LoadExports(cfg)
	if err != nil {
		return err
	}

	var lookup identity.Lookup
	if checkIdentities {
		lookup, err = identity.LoadLookup(filepath.Join(cfg.Output.Dir, cfg.Output.IdentitiesFile))
		if err != nil {
			return err
		}
	}

	report, err := validate.Run(catalog, exports, lookup)
	if err != nil {
		return err
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Player
		if issue.FilePath != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
