package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS records (
	minigame    TEXT NOT NULL,
	player      TEXT NOT NULL,
	scores      TEXT NOT NULL DEFAULT '{}',
	best_score  REAL NOT NULL,
	updated_at  TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (minigame, player)
);

CREATE TABLE IF NOT EXISTS identities (
	name        TEXT PRIMARY KEY,
	uuid        TEXT NOT NULL,
	updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_records_player ON records (player);
CREATE INDEX IF NOT EXISTS idx_identities_uuid ON identities (uuid);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}
