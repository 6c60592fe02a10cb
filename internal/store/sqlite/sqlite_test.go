package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"partyrecords/internal/store"
)

func openTestStore(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return c
}

func TestDriverDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "memory", input: "sqlite://:memory:", expected: ":memory:"},
		{name: "absolute", input: "sqlite:///var/lib/records.db", expected: "/var/lib/records.db"},
		{name: "relative", input: "sqlite://records.db", expected: "./records.db"},
		{name: "dot relative", input: "sqlite://./out/records.db", expected: "./out/records.db"},
		{name: "escaped", input: "sqlite://my%20records.db", expected: "./my records.db"},
		{name: "options", input: "sqlite://records.db?_pragma=foreign_keys(1)", expected: "./records.db?_pragma=foreign_keys(1)"},
		{name: "wrong scheme", input: "postgres://localhost/db", wantErr: true},
		{name: "no path", input: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := driverDSN(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("driverDSN(%q): %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("driverDSN(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReplaceAndListRecords(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	first := []store.Record{
		{Player: "alice", Minigame: "Spleef", Scores: map[string]float64{"Arena": 5}, BestScore: 5},
		{Player: "bob", Minigame: "Spleef", Scores: map[string]float64{"Arena": 9, "Eis": 2}, BestScore: 9},
	}
	if err := c.ReplaceRecords(ctx, "Spleef", first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	second := []store.Record{
		{Player: "bob", Minigame: "Spleef", Scores: map[string]float64{"Arena": 11}, BestScore: 11},
	}
	if err := c.ReplaceRecords(ctx, "Spleef", second); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := c.ReplaceRecords(ctx, "Parkour", []store.Record{
		{Player: "alice", Minigame: "Parkour", Scores: map[string]float64{"Wald": 65.25}, BestScore: 65.25},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	records, err := c.ListRecords(ctx, "Spleef", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff(second, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	alice, err := c.ListRecords(ctx, "", "ALICE")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alice) != 1 || alice[0].Minigame != "Parkour" {
		t.Fatalf("expected alice's Parkour record, got %+v", alice)
	}

	summaries, err := c.ListMinigames(ctx)
	if err != nil {
		t.Fatalf("list minigames: %v", err)
	}
	want := []store.MinigameSummary{{Name: "Parkour", Players: 1}, {Name: "Spleef", Players: 1}}
	if diff := cmp.Diff(want, summaries); diff != "" {
		t.Fatalf("unexpected minigames (-want +got):\n%s", diff)
	}
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	records := []store.Record{
		{Player: "alice", Minigame: "Parkour", Scores: map[string]float64{"Wald": 40, "Eis": 12}, BestScore: 40},
		{Player: "bob", Minigame: "Parkour", Scores: map[string]float64{"Wald": 35}, BestScore: 35},
		{Player: "carol", Minigame: "Parkour", Scores: map[string]float64{"Wald": 35}, BestScore: 35},
	}
	if err := c.ReplaceRecords(ctx, "Parkour", records); err != nil {
		t.Fatalf("replace: %v", err)
	}

	entries, err := c.Leaderboard(ctx, "Parkour", "Wald", true, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []store.LeaderboardEntry{
		{Rank: 1, Player: "bob", Value: 35},
		{Rank: 1, Player: "carol", Value: 35},
		{Rank: 3, Player: "alice", Value: 40},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("unexpected leaderboard (-want +got):\n%s", diff)
	}

	eis, err := c.Leaderboard(ctx, "Parkour", "Eis", true, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(eis) != 1 || eis[0].Player != "alice" {
		t.Fatalf("expected only alice on Eis, got %+v", eis)
	}

	best, err := c.Leaderboard(ctx, "Parkour", "", false, 1)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(best) != 1 || best[0].Player != "alice" {
		t.Fatalf("expected alice to lead on best score, got %+v", best)
	}

	fastest, err := c.Leaderboard(ctx, "Parkour", "", true, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	wantFastest := []store.LeaderboardEntry{
		{Rank: 1, Player: "alice", Value: 12},
		{Rank: 2, Player: "bob", Value: 35},
		{Rank: 2, Player: "carol", Value: 35},
	}
	if diff := cmp.Diff(wantFastest, fastest); diff != "" {
		t.Fatalf("unexpected fastest-map leaderboard (-want +got):\n%s", diff)
	}
}

func TestIdentitiesAndSQL(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	if err := c.UpsertIdentities(ctx, map[string]string{"Steve": "a", "Alex": "b"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := c.UpsertIdentities(ctx, map[string]string{"Steve": "c"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := c.RunSQL(ctx, "SELECT name, uuid FROM identities WHERE name = ?", map[string]any{"1": "Steve"})
	if err != nil {
		t.Fatalf("run sql: %v", err)
	}
	if len(rows) != 1 || rows[0]["uuid"] != "c" {
		t.Fatalf("expected the updated uuid, got %+v", rows)
	}
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")
	c, err := New(ctx, "sqlite://"+path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close(ctx)
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}
}
