package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode says how a minigame measures a record.
type Mode string

const (
	// ModeTime records are durations in seconds; lower is better.
	ModeTime Mode = "time"
	// ModePoint records are integer scores; higher is better.
	ModePoint Mode = "point"
)

func (m Mode) LowerIsBetter() bool {
	return m == ModeTime
}

var ErrUnknownMinigame = errors.New("unknown minigame")

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Version   int        `yaml:"version"`
	Minigames []Minigame `yaml:"minigames"`

	index map[string]*Minigame
}

type Minigame struct {
	Name     string `yaml:"name"`
	Mode     Mode   `yaml:"mode"`
	Inactive bool   `yaml:"inactive"`
}

func DefaultCatalog() *Catalog {
	catalog, err := parseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return catalog
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	catalog, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog, nil
}

// CatalogFor returns the catalog configured for the project, falling back to the
// built-in one.
func CatalogFor(cfg *ProjectConfig) (*Catalog, error) {
	if cfg == nil || strings.TrimSpace(cfg.Catalog) == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(cfg.Catalog)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	if err := validateCatalog(&catalog); err != nil {
		return nil, err
	}

	catalog.index = make(map[string]*Minigame, len(catalog.Minigames))
	for i := range catalog.Minigames {
		game := &catalog.Minigames[i]
		catalog.index[strings.ToLower(game.Name)] = game
	}
	return &catalog, nil
}

func validateCatalog(c *Catalog) error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported version: %d", c.Version)
	}
	if len(c.Minigames) == 0 {
		return fmt.Errorf("at least one minigame is required")
	}

	seen := make(map[string]struct{})
	for i, game := range c.Minigames {
		if strings.TrimSpace(game.Name) == "" {
			return fmt.Errorf("minigame %d name is required", i)
		}
		key := strings.ToLower(game.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate minigame name: %s", game.Name)
		}
		seen[key] = struct{}{}

		switch game.Mode {
		case ModeTime, ModePoint:
		default:
			return fmt.Errorf("minigame %s has invalid mode %q", game.Name, game.Mode)
		}
	}
	return nil
}

// Lookup resolves a minigame by name, case-insensitively. Names outside the
// catalog yield ErrUnknownMinigame.
func (c *Catalog) Lookup(name string) (Minigame, error) {
	if c != nil {
		if game, ok := c.index[strings.ToLower(strings.TrimSpace(name))]; ok {
			return *game, nil
		}
	}
	return Minigame{}, fmt.Errorf("%w: %q", ErrUnknownMinigame, name)
}

// Active returns the names of all minigames that are not flagged inactive,
// sorted alphabetically.
func (c *Catalog) Active() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Minigames))
	for _, game := range c.Minigames {
		if game.Inactive {
			continue
		}
		names = append(names, game.Name)
	}
	sort.Strings(names)
	return names
}
