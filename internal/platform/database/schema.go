package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entries keep both the RFC3339 UTC string and the epoch-seconds projection of
// each instant, exactly as normalized at sync time, so window queries filter on
// integers while responses echo the strings the dashboard renders.
const schema = `
CREATE TABLE IF NOT EXISTS time_entries (
    entry_id     BIGINT PRIMARY KEY,
    description  TEXT NOT NULL,
    project_id   BIGINT NOT NULL,
    project_name TEXT NOT NULL,
    seconds      BIGINT NOT NULL,

    start_iso    TEXT NOT NULL,
    stop_iso     TEXT,
    at_iso       TEXT NOT NULL,

    start_ts     BIGINT NOT NULL,
    stop_ts      BIGINT,
    at_ts        BIGINT NOT NULL,

    tag_ids      JSONB NOT NULL DEFAULT '[]',
    tag_names    JSONB NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_time_entries_start_ts ON time_entries (start_ts);

CREATE TABLE IF NOT EXISTS entry_notes (
    id         BIGSERIAL PRIMARY KEY,
    entry_id   BIGINT NOT NULL REFERENCES time_entries (entry_id) ON DELETE CASCADE,
    note_text  TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_entry_notes_entry_id ON entry_notes (entry_id);

CREATE TABLE IF NOT EXISTS daily_notes (
    id           BIGSERIAL PRIMARY KEY,
    note_date    DATE NOT NULL UNIQUE,
    note_content TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema. Statements are idempotent so it runs on every
// startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
