package sqlite

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"partyrecords/internal/store"
)

func (c *Client) ReplaceRecords(ctx context.Context, minigame string, records []store.Record) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE minigame = ?`, minigame); err != nil {
		return fmt.Errorf("clearing records for %s: %w", minigame, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO records (minigame, player, scores, best_score, updated_at)
	VALUES (?, ?, ?, ?, datetime('now'))
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		scores, err := jsoniter.MarshalToString(r.Scores)
		if err != nil {
			return fmt.Errorf("marshaling scores for %s: %w", r.Player, err)
		}
		if _, err := stmt.ExecContext(ctx, minigame, r.Player, scores, r.BestScore); err != nil {
			return fmt.Errorf("inserting record for %s: %w", r.Player, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records for %s: %w", minigame, err)
	}
	return nil
}

func (c *Client) UpsertIdentities(ctx context.Context, identities map[string]string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for name, id := range identities {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO identities (name, uuid, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (name) DO UPDATE SET
			uuid = excluded.uuid,
			updated_at = datetime('now')
		`, name, id)
		if err != nil {
			return fmt.Errorf("upserting identity %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (c *Client) ListMinigames(ctx context.Context) ([]store.MinigameSummary, error) {
	rows, err := c.db.QueryContext(ctx, `
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
	rows, err := c.db.QueryContext(ctx, `
	SELECT minigame, player, scores, best_score
	FROM records
	WHERE (? = '' OR minigame = ?)
	  AND (? = '' OR LOWER(player) = LOWER(?))
	ORDER BY minigame, player
	`, minigame, minigame, player, player)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var r store.Record
		var scores string
		if err := rows.Scan(&r.Minigame, &r.Player, &scores, &r.BestScore); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := jsoniter.UnmarshalFromString(scores, &r.Scores); err != nil {
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
	WHERE minigame = ?
	ORDER BY value ` + direction + `, player
	LIMIT ?
	`
	args := []any{minigame, limit}
	if mapName == "" && lowerIsBetter {
		query = `
		SELECT r.player, MIN(CAST(j.value AS REAL)) AS value
		FROM records r, json_each(r.scores) j
		WHERE r.minigame = ?
		GROUP BY r.player
		ORDER BY value ` + direction + `, r.player
		LIMIT ?
		`
	}
	if mapName != "" {
		query = `
		SELECT r.player, CAST(j.value AS REAL) AS value
		FROM records r, json_each(r.scores) j
		WHERE r.minigame = ? AND j.key = ?
		ORDER BY value ` + direction + `, r.player
		LIMIT ?
		`
		args = []any{minigame, mapName, limit}
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
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
