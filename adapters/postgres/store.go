// Package postgres persists jobs, analysis documents, and dataset records
// in PostgreSQL. Documents are stored as JSONB under the same key scheme
// the in-memory backend uses, with an expiry column standing in for TTL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"edakit/internal/errors"
)

// WithSSLMode returns the connection string with an sslmode parameter
// applied, unless the string already sets one. Both URL and key/value
// DSN forms are handled.
func WithSSLMode(databaseURL, mode string) string {
	if mode == "" || strings.Contains(databaseURL, "sslmode=") {
		return databaseURL
	}
	if strings.Contains(databaseURL, "://") {
		sep := "?"
		if strings.Contains(databaseURL, "?") {
			sep = "&"
		}
		return databaseURL + sep + "sslmode=" + mode
	}
	return databaseURL + " sslmode=" + mode
}

// Connect opens a PostgreSQL connection pool and verifies it
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// EnsureSchema creates the tables the adapters need if they do not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS eda_documents (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_eda_documents_expires ON eda_documents (expires_at);

	CREATE TABLE IF NOT EXISTS datasets (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		file_path       TEXT NOT NULL,
		file_size_bytes BIGINT NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// upsertDocument writes one keyed document inside the given execer
func upsertDocument(ctx context.Context, ex sqlx.ExtContext, key string, payload []byte, expiresAt time.Time) error {
	query := `INSERT INTO eda_documents (key, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = $2, expires_at = $3`

	if _, err := ex.ExecContext(ctx, query, key, payload, expiresAt); err != nil {
		return errors.StoreError(fmt.Sprintf("failed to write %s", key), err)
	}
	return nil
}

// getDocument reads one keyed document, honoring its expiry. Returns
// (nil, nil) when the key is absent or expired.
func getDocument(ctx context.Context, db *sqlx.DB, key string) ([]byte, error) {
	query := `SELECT payload FROM eda_documents WHERE key = $1 AND expires_at > NOW()`

	var payload []byte
	err := db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StoreError(fmt.Sprintf("failed to read %s", key), err)
	}
	return payload, nil
}

// PurgeExpired removes expired documents. Intended to run periodically
// from the application's housekeeping loop.
func PurgeExpired(ctx context.Context, db *sqlx.DB) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM eda_documents WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, errors.StoreError("failed to purge expired documents", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.StoreError("failed to count purged documents", err)
	}
	return n, nil
}
