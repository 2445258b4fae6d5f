package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE EXTENSION IF NOT EXISTS pgcrypto;

	CREATE TABLE users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username      VARCHAR(64) NOT NULL,
		email         VARCHAR(320) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		bio           TEXT NOT NULL DEFAULT '',
		avatar        TEXT NOT NULL DEFAULT '',
		saved_posts   UUID[] NOT NULL DEFAULT '{}',
		followers     UUID[] NOT NULL DEFAULT '{}',
		following     UUID[] NOT NULL DEFAULT '{}',
		created_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE TABLE posts (
		id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id           UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		type               VARCHAR(8) NOT NULL CHECK (type IN ('text', 'image', 'video')),
		title              VARCHAR(150) NOT NULL DEFAULT '',
		caption            VARCHAR(2000) NOT NULL DEFAULT '',
		media_url          TEXT NOT NULL DEFAULT '',
		media_asset_id     TEXT NOT NULL DEFAULT '',
		thumbnail_url      TEXT NOT NULL DEFAULT '',
		thumbnail_asset_id TEXT NOT NULL DEFAULT '',
		tags               TEXT[] NOT NULL DEFAULT '{}',
		likes              UUID[] NOT NULL DEFAULT '{}',
		dislikes           UUID[] NOT NULL DEFAULT '{}',
		comment_ids        UUID[] NOT NULL DEFAULT '{}',
		views              BIGINT NOT NULL DEFAULT 0,
		is_published       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at         TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at         TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		CHECK (type = 'text' OR media_url <> ''),
		CHECK (type <> 'video' OR thumbnail_url <> '')
	);

	CREATE TABLE comments (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		content    VARCHAR(2000) NOT NULL,
		post_id    UUID NOT NULL,
		author_id  UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	`)
	return err
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE comments;
	DROP TABLE posts;
	DROP TABLE users;
	`)
	return err
}
