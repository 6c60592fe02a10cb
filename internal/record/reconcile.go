package record

import "strings"

const (
	killPrefix  = "Kill "
	killsPrefix = "Kills "
)

type variantGroup struct {
	base  string
	kills string
	kill  string
}

// mergeOrder lists the group's existing columns from highest to lowest
// priority: base, then "Kills", then "Kill".
func (g variantGroup) mergeOrder() []string {
	order := make([]string, 0, 3)
	for _, col := range []string{g.base, g.kills, g.kill} {
		if col != "" {
			order = append(order, col)
		}
	}
	return order
}

// Reconcile merges columns that name the same map under the "Kill " and
// "Kills " prefixes into a single column. The base column wins over "Kills",
// which wins over "Kill". Inside a merged group a zero counts as not recorded;
// the target keeps its own zero only when no column of the group has a value.
// Reconcile is idempotent.
func Reconcile(t *Table) *Table {
	out := t.Clone()

	groups := make(map[string]*variantGroup)
	var keys []string
	for _, col := range out.columns {
		key := col
		kind := "base"
		switch {
		case strings.HasPrefix(col, killPrefix):
			key, kind = col[len(killPrefix):], "kill"
		case strings.HasPrefix(col, killsPrefix):
			key, kind = col[len(killsPrefix):], "kills"
		}
		g, ok := groups[key]
		if !ok {
			g = &variantGroup{}
			groups[key] = g
			keys = append(keys, key)
		}
		switch kind {
		case "base":
			g.base = col
		case "kills":
			g.kills = col
		case "kill":
			g.kill = col
		}
	}

	var drop []string
	for _, key := range keys {
		order := groups[key].mergeOrder()
		if len(order) < 2 {
			continue
		}
		target := order[0]
		for _, r := range out.rows {
			targetValue, hadTarget := r.cells[target]
			merged, found := 0.0, false
			for _, col := range order {
				if v, ok := r.cells[col]; ok && v != 0 {
					merged, found = v, true
					break
				}
			}
			switch {
			case found:
				r.cells[target] = merged
			case hadTarget && targetValue == 0:
				r.cells[target] = 0
			default:
				delete(r.cells, target)
			}
		}
		drop = append(drop, order[1:]...)
	}

	out.DropColumns(drop...)
	return out
}
