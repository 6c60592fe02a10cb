package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"partyrecords/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "partyrecords",
		Short: "Normalize minigame record exports into clean tables",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Project config file")
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(buildCmd())
	root.AddCommand(recordsCmd())
	root.AddCommand(workbookCmd())
	root.AddCommand(chartCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(identitiesCmd())
	root.AddCommand(playersCmd())
	root.AddCommand(publishCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(queryCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadProject() (*config.ProjectConfig, *config.Catalog, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := config.CatalogFor(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, catalog, nil
}

// outputPath places a file in the output directory, creating it if needed.
func outputPath(cfg *config.ProjectConfig, name string) (string, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(cfg.Output.Dir, name), nil
}
