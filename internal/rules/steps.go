package rules

import (
	"errors"
	"fmt"
	"strings"

	"partyrecords/internal/record"
)

var ErrMissingColumn = errors.New("missing column")

// Step is one named table correction. Apply may leave the table half-modified
// when it fails; the engine only ever hands it a copy.
type Step struct {
	Name  string
	Apply func(t *record.Table) error
}

// Pair names a map column under its current and its legacy name.
type Pair struct {
	Canonical string
	Legacy    string
}

func zeroAsMissing(v record.Value) record.Value {
	if v.IsZero() {
		return record.Missing
	}
	return v
}

// ReconcileStep runs the Kill/Kills column merge again.
func ReconcileStep() Step {
	return Step{
		Name: "reconcile",
		Apply: func(t *record.Table) error {
			*t = *record.Reconcile(t)
			return nil
		},
	}
}

// Collapse folds legacy columns into their canonical names. Zero counts as
// not recorded in both columns; the canonical value wins, the legacy value
// fills gaps and the legacy column is dropped. Pairs without a legacy column
// are left alone; the step fails when none of them has one.
func Collapse(name string, pairs ...Pair) Step {
	return Step{
		Name: name,
		Apply: func(t *record.Table) error {
			var legacy []string
			for _, p := range pairs {
				legacy = append(legacy, p.Legacy)
			}
			collapsed := 0
			for _, p := range pairs {
				if !t.HasColumn(p.Legacy) {
					continue
				}
				collapsed++
				if !t.HasColumn(p.Canonical) {
					if err := t.RenameColumn(p.Legacy, p.Canonical); err != nil {
						return err
					}
					t.Map(zeroAsMissing, p.Canonical)
					continue
				}
				for _, player := range t.Players() {
					canonical := zeroAsMissing(t.Get(player, p.Canonical))
					if !canonical.Valid {
						canonical = zeroAsMissing(t.Get(player, p.Legacy))
					}
					t.Set(player, p.Canonical, canonical)
				}
				t.DropColumns(p.Legacy)
			}
			if collapsed == 0 {
				return fmt.Errorf("%w: none of %q", ErrMissingColumn, legacy)
			}
			return nil
		},
	}
}

// FillMissing sets every missing cell to v.
func FillMissing(v float64) Step {
	return Step{
		Name: fmt.Sprintf("fill missing with %g", v),
		Apply: func(t *record.Table) error {
			t.Map(func(cell record.Value) record.Value {
				if !cell.Valid {
					return record.Of(v)
				}
				return cell
			})
			return nil
		},
	}
}

// Prefer replaces the canonical column with the legacy one. Zeros are kept;
// the canonical value survives only where the legacy cell is missing.
func Prefer(name string, p Pair) Step {
	return Step{
		Name: name,
		Apply: func(t *record.Table) error {
			if !t.HasColumn(p.Legacy) {
				return fmt.Errorf("%w: %q", ErrMissingColumn, p.Legacy)
			}
			if !t.HasColumn(p.Canonical) {
				return t.RenameColumn(p.Legacy, p.Canonical)
			}
			for _, player := range t.Players() {
				if v := t.Get(player, p.Legacy); v.Valid {
					t.Set(player, p.Canonical, v)
				}
			}
			t.DropColumns(p.Legacy)
			return nil
		},
	}
}

// AggregateWithSentinel adds the Sum column for minigames where most players
// have not played every map. Missing cells count as the sentinel while
// summing; afterwards every cell equal to the sentinel is cleared again, so a
// genuine record equal to the sentinel is lost as well.
func AggregateWithSentinel(sentinel float64) Step {
	return Step{
		Name: fmt.Sprintf("aggregate (sentinel %g)", sentinel),
		Apply: func(t *record.Table) error {
			maps := mapColumns(t)
			if len(maps) == 0 {
				return fmt.Errorf("%w: no map columns to aggregate", ErrMissingColumn)
			}
			t.Map(func(v record.Value) record.Value {
				if !v.Valid {
					return record.Of(sentinel)
				}
				return v
			}, maps...)
			addSum(t, maps)
			t.SortColumns(record.SumColumn)
			t.Map(func(v record.Value) record.Value {
				if v.Valid && v.V == sentinel {
					return record.Missing
				}
				return v
			})
			return nil
		},
	}
}

// Total adds the Sum column over the recorded cells and strips a label such as
// "Punkte" from the column names.
func Total(label string) Step {
	return Step{
		Name: fmt.Sprintf("total (strip %q)", label),
		Apply: func(t *record.Table) error {
			maps := mapColumns(t)
			if len(maps) == 0 {
				return fmt.Errorf("%w: no map columns to total", ErrMissingColumn)
			}
			addSum(t, maps)
			t.SortColumns(record.SumColumn)
			if label == "" {
				return nil
			}
			for _, col := range t.Columns() {
				if !strings.Contains(col, label) {
					continue
				}
				stripped := strings.TrimSpace(strings.ReplaceAll(col, label, ""))
				if stripped == "" || stripped == col {
					continue
				}
				if !t.HasColumn(stripped) {
					if err := t.RenameColumn(col, stripped); err != nil {
						return err
					}
					continue
				}
				for _, player := range t.Players() {
					if !t.Get(player, stripped).Valid {
						t.Set(player, stripped, t.Get(player, col))
					}
				}
				t.DropColumns(col)
			}
			return nil
		},
	}
}

// CapAt clears every value at or above limit. Used for timings that can only
// come from a broken run.
func CapAt(limit float64) Step {
	return Step{
		Name: fmt.Sprintf("cap at %g", limit),
		Apply: func(t *record.Table) error {
			t.Map(func(v record.Value) record.Value {
				if v.Valid && v.V >= limit {
					return record.Missing
				}
				return v
			})
			return nil
		},
	}
}

// FloorAt zeroes every value at or below limit. Missing cells count as below
// the limit and become 0 too.
func FloorAt(limit float64) Step {
	return Step{
		Name: fmt.Sprintf("floor at %g", limit),
		Apply: func(t *record.Table) error {
			t.Map(func(v record.Value) record.Value {
				if !v.Valid || v.V <= limit {
					return record.Of(0)
				}
				return v
			})
			return nil
		},
	}
}

func mapColumns(t *record.Table) []string {
	cols := t.Columns()
	maps := cols[:0]
	for _, col := range cols {
		if col == record.SumColumn {
			continue
		}
		maps = append(maps, col)
	}
	return maps
}

func addSum(t *record.Table, maps []string) {
	t.AddColumn(record.SumColumn)
	for _, player := range t.Players() {
		sum := 0.0
		for _, col := range maps {
			if v := t.Get(player, col); v.Valid {
				sum += v.V
			}
		}
		t.Set(player, record.SumColumn, record.Of(sum))
	}
}
