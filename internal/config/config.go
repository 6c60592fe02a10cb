package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "partyrecords.yaml"

	envDatabaseDSN = "PARTYRECORDS_DATABASE_DSN"
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Catalog  string         `yaml:"catalog"`
}

type InputConfig struct {
	Dir       string   `yaml:"dir"`
	Extension string   `yaml:"extension"`
	Exclude   []string `yaml:"exclude"`
}

type OutputConfig struct {
	Dir            string `yaml:"dir"`
	RecordsFile    string `yaml:"records_file"`
	IdentitiesFile string `yaml:"identities_file"`
	NamesFile      string `yaml:"names_file"`
	PlayerDataFile string `yaml:"player_data_file"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type APIConfig struct {
	ProfileURL     string        `yaml:"profile_url"`
	SessionURL     string        `yaml:"session_url"`
	PlayerStatsURL string        `yaml:"player_stats_url"`
	Workers        int           `yaml:"workers"`
	Delay          time.Duration `yaml:"delay"`
	Timeout        time.Duration `yaml:"timeout"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Input.Extension == "" {
		cfg.Input.Extension = ".txt"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.RecordsFile == "" {
		cfg.Output.RecordsFile = "records_data.json"
	}
	if cfg.Output.IdentitiesFile == "" {
		cfg.Output.IdentitiesFile = "player_uuids.json"
	}
	if cfg.Output.NamesFile == "" {
		cfg.Output.NamesFile = "player_names.txt"
	}
	if cfg.Output.PlayerDataFile == "" {
		cfg.Output.PlayerDataFile = "player_data.json"
	}
	if cfg.API.ProfileURL == "" {
		cfg.API.ProfileURL = "https://api.mojang.com/users/profiles/minecraft"
	}
	if cfg.API.SessionURL == "" {
		cfg.API.SessionURL = "https://sessionserver.mojang.com/session/minecraft/profile"
	}
	if cfg.API.PlayerStatsURL == "" {
		cfg.API.PlayerStatsURL = "https://api.cytooxien.de/user"
	}
	if cfg.API.Workers == 0 {
		cfg.API.Workers = 10
	}
	if cfg.API.Delay == 0 {
		cfg.API.Delay = 100 * time.Millisecond
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
}

func applyEnv(cfg *ProjectConfig) {
	if dsn := strings.TrimSpace(os.Getenv(envDatabaseDSN)); dsn != "" {
		cfg.Database.DSN = dsn
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Input.Dir) == "" {
		return fmt.Errorf("input dir is required")
	}
	if !strings.HasPrefix(cfg.Input.Extension, ".") {
		return fmt.Errorf("input extension must start with a dot: %q", cfg.Input.Extension)
	}
	if cfg.API.Workers < 0 {
		return fmt.Errorf("api workers must be positive, got %d", cfg.API.Workers)
	}
	if cfg.API.Delay < 0 || cfg.API.Timeout < 0 {
		return fmt.Errorf("api delay and timeout must not be negative")
	}
	return nil
}
