package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"edakit/domain/core"
	"edakit/internal/errors"
	"edakit/ports"
)

// Registry implements the dataset registry over the datasets table
type Registry struct {
	db *sqlx.DB
}

// NewRegistry creates a dataset registry backed by PostgreSQL
func NewRegistry(db *sqlx.DB) *Registry {
	return &Registry{db: db}
}

// Register inserts or replaces the dataset record
func (r *Registry) Register(ctx context.Context, rec *ports.DatasetRecord) error {
	query := `INSERT INTO datasets (id, name, file_path, file_size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, file_path = $3, file_size_bytes = $4`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.FilePath, rec.FileSizeBytes, rec.CreatedAt)
	if err != nil {
		return errors.StoreError(fmt.Sprintf("failed to register dataset %s", rec.ID), err)
	}
	return nil
}

// Resolve returns the record or a DATASET_NOT_FOUND error
func (r *Registry) Resolve(ctx context.Context, id core.DatasetID) (*ports.DatasetRecord, error) {
	query := `SELECT id, name, COALESCE(file_path, '') as file_path,
		COALESCE(file_size_bytes, 0) as file_size_bytes, created_at
		FROM datasets WHERE id = $1`

	var rec ports.DatasetRecord
	err := r.db.GetContext(ctx, &rec, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.DatasetNotFound(id.String())
	}
	if err != nil {
		return nil, errors.StoreError(fmt.Sprintf("failed to resolve dataset %s", id), err)
	}
	return &rec, nil
}
