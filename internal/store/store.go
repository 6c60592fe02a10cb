package store

import "context"

// Store persists published records and player identities.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// ReplaceRecords swaps all records of a minigame in one transaction.
	ReplaceRecords(ctx context.Context, minigame string, records []Record) error
	UpsertIdentities(ctx context.Context, identities map[string]string) error

	ListMinigames(ctx context.Context) ([]MinigameSummary, error)
	ListRecords(ctx context.Context, minigame, player string) ([]Record, error)
	Leaderboard(ctx context.Context, minigame, mapName string, lowerIsBetter bool, limit int) ([]LeaderboardEntry, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
