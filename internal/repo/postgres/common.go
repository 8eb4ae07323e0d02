package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func nullIfEmpty(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Schema holds the DDL for the tables this package owns. The aggregate
// persists as a JSONB document with extracted columns for the hot filters and
// the optimistic-concurrency version.
const Schema = `
CREATE TABLE IF NOT EXISTS contracts (
	contract_id   TEXT PRIMARY KEY,
	brand_id      TEXT NOT NULL,
	influencer_id TEXT NOT NULL,
	campaign_id   TEXT,
	status        TEXT NOT NULL,
	version       BIGINT NOT NULL DEFAULT 1,
	document      JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS contracts_brand_idx ON contracts (brand_id);
CREATE INDEX IF NOT EXISTS contracts_influencer_idx ON contracts (influencer_id);
CREATE INDEX IF NOT EXISTS contracts_campaign_idx ON contracts (campaign_id);

CREATE TABLE IF NOT EXISTS audit_events (
	event_id         BIGSERIAL PRIMARY KEY,
	occurred_at      TIMESTAMPTZ NOT NULL,
	actor            TEXT NOT NULL,
	action           TEXT NOT NULL,
	resource_type    TEXT NOT NULL,
	resource_id      TEXT NOT NULL,
	request_id       TEXT,
	payload          JSONB NOT NULL,
	integrity_sha256 TEXT NOT NULL
);
`

// EnsureSchema creates the contract tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
