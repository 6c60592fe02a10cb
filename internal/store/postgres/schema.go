package postgres

import (
	"context"
	"fmt"
)

const ddl = `
CREATE TABLE IF NOT EXISTS records (
    minigame    TEXT NOT NULL,
    player      TEXT NOT NULL,
    scores      JSONB NOT NULL DEFAULT '{}',
    best_score  DOUBLE PRECISION NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (minigame, player)
);

CREATE TABLE IF NOT EXISTS identities (
    name        TEXT PRIMARY KEY,
    uuid        TEXT NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_records_player ON records (player);
CREATE INDEX IF NOT EXISTS idx_records_scores ON records USING GIN (scores);
CREATE INDEX IF NOT EXISTS idx_identities_uuid ON identities (uuid);
`

// EnsureSchema runs all DDL in one call, which PostgreSQL executes as a
// single implicit transaction.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
