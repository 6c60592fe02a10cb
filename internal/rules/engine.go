package rules

import (
	"errors"
	"log/slog"
	"strings"

	"partyrecords/internal/logger"
	"partyrecords/internal/record"
)

// Rule attaches steps to every minigame whose name contains Match.
type Rule struct {
	Match string
	Steps []Step
	// PinSum keeps the Sum column first when the columns are ordered.
	PinSum bool
	// OmitSum drops Sum from the tabular export.
	OmitSum bool
}

// Outcome reports what happened to one step. A skipped step leaves the table
// as it was before the step.
type Outcome struct {
	Step    string
	Applied bool
	Reason  string
}

// Plan is the ordered list of steps for one minigame.
type Plan struct {
	Minigame string
	Steps    []Step
	PinSum   bool
	OmitSum  bool
}

var replikaRenames = []Pair{
	{Canonical: "Arrow", Legacy: "ms Arrow"},
	{Canonical: "Cow", Legacy: "ms Cow"},
	{Canonical: "Deadpool", Legacy: "ms Deadpool"},
	{Canonical: "Doge", Legacy: "ms Doge"},
	{Canonical: "Sonic", Legacy: "ms Sonic"},
}

// DefaultRules is the per-minigame correction table, in application order.
// A minigame matching several rules runs all of their steps.
func DefaultRules() []Rule {
	return []Rule{
		{
			Match: "Replika",
			Steps: []Step{
				Collapse("collapse ms columns", replikaRenames...),
				AggregateWithSentinel(25),
			},
			PinSum:  true,
			OmitSum: true,
		},
		{Match: "Sammelwahn", Steps: []Step{Total("Punkte")}, PinSum: true},
		{Match: "Lasertag", Steps: []Step{ReconcileStep()}},
		{Match: "Einer im Köcher", Steps: []Step{ReconcileStep()}},
		{Match: "Paintball", Steps: []Step{ReconcileStep()}},
		{Match: "Skywars", Steps: []Step{ReconcileStep()}},
		{Match: "Survivalgames", Steps: []Step{ReconcileStep()}},
		{Match: "Minengefecht", Steps: []Step{ReconcileStep()}},
		{Match: "Mauerfall", Steps: []Step{ReconcileStep()}},
		{
			Match: "Schießstand",
			Steps: []Step{
				Collapse("collapse Punkte City", Pair{Canonical: "City", Legacy: "Punkte City"}),
				Collapse("collapse Punkte Jungle", Pair{Canonical: "Jungle", Legacy: "Punkte Jungle"}),
			},
		},
		{Match: "Frostiger Pfad", Steps: []Step{CapAt(100)}},
		{Match: "Duell", Steps: []Step{FloorAt(10)}},
		{Match: "Einer im Köcher", Steps: []Step{ReconcileStep()}},
		{
			Match: "Buntes Chaos",
			Steps: []Step{
				FillMissing(0),
				Prefer("prefer Runden Cyberpunk", Pair{Canonical: "Cyberpunk", Legacy: "Runden Cyberpunk"}),
			},
		},
		{
			Match: "Pferderennen",
			Steps: []Step{
				Collapse("collapse s Arena", Pair{Canonical: "Wario's Arena", Legacy: "s Arena"}),
			},
		},
	}
}

type Engine struct {
	rules []Rule
	log   *slog.Logger
}

func NewEngine(rules []Rule, log *slog.Logger) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules, log: logger.OrDiscard(log)}
}

func (e *Engine) Plan(minigame string) Plan {
	plan := Plan{Minigame: minigame}
	for _, r := range e.rules {
		if !strings.Contains(minigame, r.Match) {
			continue
		}
		plan.Steps = append(plan.Steps, r.Steps...)
		plan.PinSum = plan.PinSum || r.PinSum
		plan.OmitSum = plan.OmitSum || r.OmitSum
	}
	return plan
}

// Apply runs the minigame's steps against a copy of t and orders the columns.
// The input table is never modified. Each step works on its own copy, so a
// step that fails leaves no partial changes behind.
func (e *Engine) Apply(minigame string, t *record.Table) (*record.Table, []Outcome) {
	plan := e.Plan(minigame)
	current := t.Clone()
	outcomes := make([]Outcome, 0, len(plan.Steps))

	for _, step := range plan.Steps {
		work := current.Clone()
		if err := step.Apply(work); err != nil {
			reason := err.Error()
			if !errors.Is(err, ErrMissingColumn) {
				reason = "failed: " + reason
			}
			e.log.Warn("rule step skipped",
				"minigame", minigame,
				"step", step.Name,
				"reason", reason,
			)
			outcomes = append(outcomes, Outcome{Step: step.Name, Reason: reason})
			continue
		}
		current = work
		outcomes = append(outcomes, Outcome{Step: step.Name, Applied: true})
	}

	if plan.PinSum {
		current.SortColumns(record.SumColumn)
	} else {
		current.SortColumns()
	}
	return current, outcomes
}

// Skipped returns the outcomes of steps that did not apply.
func Skipped(outcomes []Outcome) []Outcome {
	var skipped []Outcome
	for _, o := range outcomes {
		if !o.Applied {
			skipped = append(skipped, o)
		}
	}
	return skipped
}
