package record

import (
	"fmt"
	"sort"
)

// SumColumn is the derived per-row total some minigames carry.
const SumColumn = "Sum"

// Value is one table cell. The zero Value is missing, which is distinct from a
// present zero.
type Value struct {
	V     float64
	Valid bool
}

func Of(v float64) Value {
	return Value{V: v, Valid: true}
}

var Missing = Value{}

func (v Value) IsZero() bool {
	return v.Valid && v.V == 0
}

// Entry is one parsed map value, kept in source order.
type Entry struct {
	Column string
	Value  float64
}

type row struct {
	player string
	cells  map[string]float64
}

// Table holds one minigame's records: one row per player, one column per map.
// Rows need not share a column set; absent cells are missing.
type Table struct {
	columns  []string
	colIndex map[string]int
	rows     []*row
	rowIndex map[string]int
}

func New() *Table {
	return &Table{
		colIndex: make(map[string]int),
		rowIndex: make(map[string]int),
	}
}

// AddRow appends a player's entries. Columns not seen before are appended in
// entry order. Adding the same player twice merges into the existing row.
func (t *Table) AddRow(player string, entries []Entry) {
	r := t.ensureRow(player)
	for _, e := range entries {
		t.ensureColumn(e.Column)
		r.cells[e.Column] = e.Value
	}
}

func (t *Table) ensureRow(player string) *row {
	if i, ok := t.rowIndex[player]; ok {
		return t.rows[i]
	}
	r := &row{player: player, cells: make(map[string]float64)}
	t.rowIndex[player] = len(t.rows)
	t.rows = append(t.rows, r)
	return r
}

func (t *Table) ensureColumn(name string) {
	if _, ok := t.colIndex[name]; ok {
		return
	}
	t.colIndex[name] = len(t.columns)
	t.columns = append(t.columns, name)
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) Players() []string {
	players := make([]string, 0, len(t.rows))
	for _, r := range t.rows {
		players = append(players, r.player)
	}
	return players
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

func (t *Table) Get(player, column string) Value {
	i, ok := t.rowIndex[player]
	if !ok {
		return Missing
	}
	v, ok := t.rows[i].cells[column]
	if !ok {
		return Missing
	}
	return Of(v)
}

// Set writes a cell, creating the column if needed. Setting Missing clears the
// cell. Unknown players are ignored.
func (t *Table) Set(player, column string, v Value) {
	i, ok := t.rowIndex[player]
	if !ok {
		return
	}
	t.ensureColumn(column)
	if !v.Valid {
		delete(t.rows[i].cells, column)
		return
	}
	t.rows[i].cells[column] = v.V
}

// AddColumn appends an empty column if it does not exist yet.
func (t *Table) AddColumn(name string) {
	t.ensureColumn(name)
}

// DropColumns removes columns and their cells. Unknown names are ignored.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := t.colIndex[name]; ok {
			drop[name] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := t.columns[:0]
	for _, col := range t.columns {
		if _, ok := drop[col]; ok {
			continue
		}
		kept = append(kept, col)
	}
	t.columns = kept
	t.reindexColumns()

	for _, r := range t.rows {
		for name := range drop {
			delete(r.cells, name)
		}
	}
}

// RenameColumn moves a column to a new name in place. The target must not exist.
func (t *Table) RenameColumn(from, to string) error {
	i, ok := t.colIndex[from]
	if !ok {
		return fmt.Errorf("column %q not found", from)
	}
	if from == to {
		return nil
	}
	if _, exists := t.colIndex[to]; exists {
		return fmt.Errorf("column %q already exists", to)
	}
	t.columns[i] = to
	t.reindexColumns()
	for _, r := range t.rows {
		if v, ok := r.cells[from]; ok {
			r.cells[to] = v
			delete(r.cells, from)
		}
	}
	return nil
}

// SortColumns orders columns alphabetically, placing the pinned columns that
// exist first, in the given order.
func (t *Table) SortColumns(pinned ...string) {
	pinnedSet := make(map[string]struct{}, len(pinned))
	head := make([]string, 0, len(pinned))
	for _, name := range pinned {
		if _, ok := t.colIndex[name]; !ok {
			continue
		}
		if _, dup := pinnedSet[name]; dup {
			continue
		}
		pinnedSet[name] = struct{}{}
		head = append(head, name)
	}

	rest := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		if _, ok := pinnedSet[col]; ok {
			continue
		}
		rest = append(rest, col)
	}
	sort.Strings(rest)

	t.columns = append(head, rest...)
	t.reindexColumns()
}

// Map replaces every cell of the given columns with f's result. With no
// columns given, f is applied to the whole table. f sees missing cells too.
func (t *Table) Map(f func(v Value) Value, columns ...string) {
	if len(columns) == 0 {
		columns = t.columns
	}
	for _, col := range columns {
		if _, ok := t.colIndex[col]; !ok {
			continue
		}
		for _, r := range t.rows {
			v, ok := r.cells[col]
			var in Value
			if ok {
				in = Of(v)
			}
			out := f(in)
			if out.Valid {
				r.cells[col] = out.V
			} else {
				delete(r.cells, col)
			}
		}
	}
}

func (t *Table) Clone() *Table {
	c := &Table{
		columns:  append([]string(nil), t.columns...),
		colIndex: make(map[string]int, len(t.colIndex)),
		rows:     make([]*row, 0, len(t.rows)),
		rowIndex: make(map[string]int, len(t.rowIndex)),
	}
	for k, v := range t.colIndex {
		c.colIndex[k] = v
	}
	for i, r := range t.rows {
		cells := make(map[string]float64, len(r.cells))
		for k, v := range r.cells {
			cells[k] = v
		}
		c.rows = append(c.rows, &row{player: r.player, cells: cells})
		c.rowIndex[r.player] = i
	}
	return c
}

func (t *Table) reindexColumns() {
	t.colIndex = make(map[string]int, len(t.columns))
	for i, col := range t.columns {
		t.colIndex[col] = i
	}
}
