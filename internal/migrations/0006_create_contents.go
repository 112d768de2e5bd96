package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0006, Down0006)
}

func Up0006(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE contents (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    kind TEXT NOT NULL,
    lesson_id UUID NOT NULL REFERENCES lessons (id) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0,
    body JSONB NOT NULL DEFAULT '{}',
    attachment_key TEXT NOT NULL DEFAULT '',
    max_score INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`)

	return err
}

func Down0006(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE contents;`)
	return err
}
