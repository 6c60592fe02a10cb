package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"

	"partyrecords/internal/store"
)

func (c *Client) ReplaceRecords(ctx context.Context, minigame string, records []store.Record) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		scores, err := jsoniter.Marshal(r.Scores)
		if err != nil {
			return fmt.Errorf("marshaling scores for %s: %w", r.Player, err)
		}
		batch.Queue(`
INSERT INTO records (minigame, player, scores, best_score, updated_at)
VALUES ($1, $2, $3, $4, now())
`, minigame, r.Player, scores, r.BestScore)
	}

	err := pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM records WHERE minigame = $1`, minigame); err != nil {
			return fmt.Errorf("clearing records: %w", err)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("replacing records for %s: %w", minigame, err)
	}
	return nil
}

func (c *Client) UpsertIdentities(ctx context.Context, identities map[string]string) error {
	batch := &pgx.Batch{}
	for name, id := range identities {
		batch.Queue(`
INSERT INTO identities (name, uuid, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET
    uuid = EXCLUDED.uuid,
    updated_at = now()
`, name, id)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := c.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting identities: %w", err)
	}
	return nil
}

func (c *Client) ListMinigames(ctx context.Context) ([]store.MinigameSummary, error) {
	rows, err := c.pool.Query(ctx, `
SELECT minigame, COUNT(*)
FROM records
GROUP BY minigame
ORDER BY minigame
`)
	if err != nil {
		return nil, fmt.Errorf("listing minigames: %w", err)
	}
	defer rows.Close()

	var summaries []store.MinigameSummary
	for rows.Next() {
		var s store.MinigameSummary
		if err := rows.Scan(&s.Name, &s.Players); err != nil {
			return nil, fmt.Errorf("scanning minigame: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (c *Client) ListRecords(ctx context.Context, minigame, player string) ([]store.Record, error) {
	rows, err := c.pool.Query(ctx, `
SELECT minigame, player, scores, best_score
FROM records
WHERE ($1 = '' OR minigame = $1)
  AND ($2 = '' OR LOWER(player) = LOWER($2))
ORDER BY minigame, player
`, minigame, player)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var r store.Record
		var scores []byte
		if err := rows.Scan(&r.Minigame, &r.Player, &scores, &r.BestScore); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := jsoniter.Unmarshal(scores, &r.Scores); err != nil {
			return nil, fmt.Errorf("decoding scores: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Leaderboard ranks players on one map. Without a map it ranks on the best
// score, or on the fastest map when lower values are better.
func (c *Client) Leaderboard(ctx context.Context, minigame, mapName string, lowerIsBetter bool, limit int) ([]store.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = store.DefaultLeaderboardLimit
	}
	direction := "DESC"
	if lowerIsBetter {
		direction = "ASC"
	}

	query := `
SELECT player, best_score AS value
FROM records
WHERE minigame = $1 AND $2 = ''
ORDER BY value ` + direction + `, player
LIMIT $3
`
	if mapName == "" && lowerIsBetter {
		query = `
SELECT r.player, MIN(s.value::DOUBLE PRECISION) AS value
FROM records r, jsonb_each_text(r.scores) s
WHERE r.minigame = $1 AND $2 = ''
GROUP BY r.player
ORDER BY value ` + direction + `, r.player
LIMIT $3
`
	}
	if mapName != "" {
		query = `
SELECT player, (scores ->> $2)::DOUBLE PRECISION AS value
FROM records
WHERE minigame = $1 AND scores ->> $2 IS NOT NULL
ORDER BY value ` + direction + `, player
LIMIT $3
`
	}

	rows, err := c.pool.Query(ctx, query, minigame, mapName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []store.LeaderboardEntry
	for rows.Next() {
		var e store.LeaderboardEntry
		if err := rows.Scan(&e.Player, &e.Value); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.AssignRanks(entries)
	return entries, nil
}
