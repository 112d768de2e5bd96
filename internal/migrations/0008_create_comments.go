package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0008, Down0008)
}

func Up0008(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE comments (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    body TEXT NOT NULL,
    lesson_id UUID NOT NULL REFERENCES lessons (id) ON DELETE CASCADE,
    author_id UUID NOT NULL REFERENCES auth (id),
    parent_id UUID REFERENCES comments (id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`)

	return err
}

func Down0008(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE comments;`)
	return err
}
