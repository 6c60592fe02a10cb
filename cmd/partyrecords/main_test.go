package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"partyrecords/internal/config"
	"partyrecords/internal/ingest"
	"partyrecords/internal/record"
	"partyrecords/internal/rules"
	"partyrecords/internal/validate"
)

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=Steve", " 2 = a=b ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"1": "Steve", "2": "a=b"}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Fatalf("unexpected params (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseParamPairs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	db, err := openStore(ctx, &config.ProjectConfig{Database: config.DatabaseConfig{DSN: "sqlite://:memory:"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close(ctx)
	if _, err := db.ListMinigames(ctx); err != nil {
		t.Fatalf("expected the schema to exist: %v", err)
	}

	for _, dsn := range []string{"", "mysql://localhost/db"} {
		if _, err := openStore(ctx, &config.ProjectConfig{Database: config.DatabaseConfig{DSN: dsn}}); err == nil {
			t.Fatalf("expected error for %q", dsn)
		}
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partyrecords.yaml")
	input := filepath.Join(dir, "exports") + "/"

	if err := runInit(path, "season", input); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project != "season" || cfg.Input.Dir != input {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := runInit(path, "season", input); err == nil {
		t.Fatalf("expected error when the config exists")
	}
}

func TestPrintOutcomes(t *testing.T) {
	table := record.New()
	table.AddRow("alice", []record.Entry{{Column: "Arena", Value: 5}})
	result := &ingest.Result{
		Minigame: "Spleef",
		Table:    table,
		Outcomes: []rules.Outcome{
			{Step: "reconcile", Applied: true},
			{Step: "collapse", Reason: "missing column"},
		},
		PlayersSkipped: 2,
	}

	var out bytes.Buffer
	printOutcomes(&out, result, "out/Spleef.json")

	got := out.String()
	for _, want := range []string{"Spleef -> out/Spleef.json", "Players: 1", "without records: 2", "reconcile: applied", "collapse: skipped (missing column)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, got)
		}
	}
}

func TestPrintIssues(t *testing.T) {
	var out bytes.Buffer
	printIssues(&out, []validate.Issue{
		{Player: "bob", FilePath: "in/bob.txt", Message: "export has no content", Code: "empty_export"},
	})

	want := "  - bob (in/bob.txt): export has no content (empty_export)\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}
