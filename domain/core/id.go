package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	JobID     ID
	DatasetID ID
	ColumnKey ID
)

// String conversions for domain IDs
func (id JobID) String() string     { return ID(id).String() }
func (id DatasetID) String() string { return ID(id).String() }
func (k ColumnKey) String() string  { return ID(k).String() }

// Emptiness checks for domain IDs
func (id JobID) IsEmpty() bool     { return ID(id).IsEmpty() }
func (id DatasetID) IsEmpty() bool { return ID(id).IsEmpty() }
func (k ColumnKey) IsEmpty() bool  { return ID(k).IsEmpty() }

// ParseJobID parses a string into JobID
func ParseJobID(s string) (JobID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("job ID cannot be empty")
	}
	return JobID(s), nil
}

// ParseDatasetID parses a string into DatasetID
func ParseDatasetID(s string) (DatasetID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("dataset ID cannot be empty")
	}
	return DatasetID(s), nil
}
