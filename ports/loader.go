package ports

import (
	"context"
	"time"

	"edakit/domain/core"
	"edakit/domain/table"
)

// DatasetRecord is the stored metadata for an uploaded dataset.
// Raw byte storage and upload handling live outside the engine; the
// record only carries what the loader needs to find the source file.
type DatasetRecord struct {
	ID            core.DatasetID `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	FilePath      string         `json:"file_path" db:"file_path"`
	FileSizeBytes int64          `json:"file_size_bytes" db:"file_size_bytes"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// DatasetRegistry resolves dataset identifiers to stored records
type DatasetRegistry interface {
	Resolve(ctx context.Context, id core.DatasetID) (*DatasetRecord, error)
	Register(ctx context.Context, rec *DatasetRecord) error
}

// DatasetLoader materializes a dataset into an in-memory table.
// Load is a single blocking call at the start of job execution.
type DatasetLoader interface {
	Load(ctx context.Context, id core.DatasetID) (*table.Table, error)
}
