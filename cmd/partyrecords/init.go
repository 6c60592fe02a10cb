package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"partyrecords/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	var inputDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new partyrecords project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(configPath, projectName, inputDir)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&inputDir, "input", "./exports/", "Directory holding the player export files")
	return cmd
}

func runInit(path, projectName, inputDir string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	contents := fmt.Sprintf("project: %s\nversion: 1\n\ninput:\n  dir: %s\n  extension: .txt\n  exclude:\n    - %sarchive/\n\noutput:\n  dir: ./out/\n\ndatabase:\n  dsn: sqlite://records.db\n\napi:\n  workers: 10\n  delay: 100ms\n  timeout: 10s\n", projectName, inputDir, inputDir)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", inputDir, err)
	}

	// The scaffolded config must load as written.
	if _, err := config.LoadProjectConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Created %s\n", path)
	return nil
}
