package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"partyrecords/internal/config"
	"partyrecords/internal/logger"
	"partyrecords/internal/parser"
	"partyrecords/internal/record"
	"partyrecords/internal/rules"
)

type Result struct {
	Minigame string
	Mode     config.Mode
	// Inactive minigames produce no table and are not an error.
	Inactive       bool
	Table          *record.Table
	Outcomes       []rules.Outcome
	PinSum         bool
	OmitSum        bool
	PlayersSkipped int
}

type Builder struct {
	catalog *config.Catalog
	engine  *rules.Engine
	log     *slog.Logger
}

func NewBuilder(catalog *config.Catalog, engine *rules.Engine, log *slog.Logger) *Builder {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	log = logger.OrDiscard(log)
	if engine == nil {
		engine = rules.NewEngine(nil, log)
	}
	return &Builder{catalog: catalog, engine: engine, log: log}
}

// Build assembles the corrected record table of one minigame from all
// exports. Unknown minigames fail with config.ErrUnknownMinigame.
func (b *Builder) Build(ctx context.Context, exports []*parser.Export, minigame string) (*Result, error) {
	game, err := b.catalog.Lookup(minigame)
	if err != nil {
		return nil, err
	}
	result := &Result{Minigame: game.Name, Mode: game.Mode}
	if game.Inactive {
		result.Inactive = true
		return result, nil
	}

	table := record.New()
	for _, export := range sortedByPlayer(exports) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		segment, ok := parser.Section(export.Text, game.Name)
		if !ok {
			result.PlayersSkipped++
			continue
		}
		entries, err := parser.Parse(game.Mode, segment)
		if err != nil {
			return nil, fmt.Errorf("parsing %s for %s: %w", game.Name, export.Player, err)
		}
		if len(entries) == 0 {
			result.PlayersSkipped++
			continue
		}
		table.AddRow(export.Player, entries)
	}

	if game.Mode == config.ModePoint {
		table.Map(func(v record.Value) record.Value {
			if !v.Valid {
				return record.Of(0)
			}
			return v
		})
	}

	plan := b.engine.Plan(game.Name)
	result.Table, result.Outcomes = b.engine.Apply(game.Name, record.Reconcile(table))
	result.PinSum = plan.PinSum
	result.OmitSum = plan.OmitSum

	b.log.Debug("built minigame",
		"minigame", game.Name,
		"players", result.Table.Len(),
		"columns", len(result.Table.Columns()),
		"skipped_players", result.PlayersSkipped,
	)
	return result, nil
}

// BuildAll builds several minigames concurrently. Builds share only the
// read-only exports; results keep the order of names.
func (b *Builder) BuildAll(ctx context.Context, exports []*parser.Export, names []string, workers int) ([]*Result, error) {
	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, name := range names {
		g.Go(func() error {
			result, err := b.Build(ctx, exports, name)
			if err != nil {
				return fmt.Errorf("building %s: %w", name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadExports reads every export file below the configured input directory.
func LoadExports(cfg *config.ProjectConfig) ([]*parser.Export, error) {
	files, err := walkExportFiles(cfg.Input.Dir, cfg.Input.Extension, cfg.Input.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", cfg.Input.Dir, err)
	}

	exports := make([]*parser.Export, 0, len(files))
	for _, path := range files {
		export, err := parser.ReadExport(path)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}
	return sortedByPlayer(exports), nil
}

func walkExportFiles(root, extension string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}
	extension = strings.ToLower(extension)

	var files []string
	err := filepath.WalkDir(filepath.Clean(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && isExcluded(path, excluded) {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), extension) {
			return nil
		}
		if isExcluded(path, excluded) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func sortedByPlayer(exports []*parser.Export) []*parser.Export {
	sorted := append([]*parser.Export(nil), exports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Player < sorted[j].Player
	})
	return sorted
}
