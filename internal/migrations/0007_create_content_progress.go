package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0007, Down0007)
}

func Up0007(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE content_progress (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    auth_id UUID NOT NULL REFERENCES auth (id),
    content_id UUID NOT NULL REFERENCES contents (id) ON DELETE CASCADE,
    score INTEGER NOT NULL DEFAULT 0,
    completed BOOLEAN NOT NULL DEFAULT false,
    attempts INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    CONSTRAINT idx_progress_auth_content UNIQUE (auth_id, content_id)
);
`)

	return err
}

func Down0007(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE content_progress;`)
	return err
}
