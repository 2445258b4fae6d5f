package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upIndexes, downIndexes)
}

func upIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE INDEX posts_owner_created_idx ON posts (owner_id, created_at DESC);
		CREATE INDEX posts_created_idx ON posts (created_at DESC);
		CREATE INDEX comments_post_idx ON comments (post_id);
		CREATE INDEX users_saved_posts_idx ON users USING GIN (saved_posts);
		CREATE INDEX users_username_lower_idx ON users (lower(username));
	`)
	return err
}

func downIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP INDEX IF EXISTS users_username_lower_idx;
		DROP INDEX IF EXISTS users_saved_posts_idx;
		DROP INDEX IF EXISTS comments_post_idx;
		DROP INDEX IF EXISTS posts_created_idx;
		DROP INDEX IF EXISTS posts_owner_created_idx;
	`)
	return err
}
