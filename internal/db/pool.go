package db

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	// ConnString is a postgres URL or DSN, e.g. postgres://postgres@localhost:5432/blogposts
	ConnString     string
	TracingEnabled bool
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(params.ConnString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}

// postgresSchema holds the tables the postgres backend expects
const postgresSchema = `
CREATE TABLE IF NOT EXISTS author
(
    id         UUID PRIMARY KEY,
    first_name VARCHAR NOT NULL DEFAULT '',
    last_name  VARCHAR NOT NULL DEFAULT '',
    user_name  VARCHAR NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS blog_post
(
    id                UUID PRIMARY KEY,
    author_first_name VARCHAR NOT NULL DEFAULT '',
    author_last_name  VARCHAR NOT NULL DEFAULT '',
    author_id         VARCHAR,
    title             VARCHAR NOT NULL CHECK (title <> ''),
    content           TEXT,
    created           TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_blog_post_created ON blog_post USING btree (created);
`

// EnsurePostgresSchema creates the service tables when they are missing
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure postgres schema: %w", err)
	}
	return nil
}
