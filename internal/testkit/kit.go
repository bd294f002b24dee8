// Package testkit provides deterministic fixtures for the analysis
// pipeline: synthetic tables with known statistical structure and stub
// ports for exercising the job lifecycle without real storage.
package testkit

import (
	"context"
	"fmt"
	"math/rand"

	"edakit/domain/core"
	"edakit/domain/table"
	"edakit/ports"
)

// NumericColumn builds a float column from literal values
func NumericColumn(name string, values ...float64) table.Column {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.NewFloatValue(v)
	}
	return table.Column{Name: name, Type: table.TypeFloat, Values: cells}
}

// IntegerColumn builds an integer column from literal values
func IntegerColumn(name string, values ...int64) table.Column {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.NewIntegerValue(v)
	}
	return table.Column{Name: name, Type: table.TypeInteger, Values: cells}
}

// TextColumn builds a text column from literal values; empty strings
// become missing cells
func TextColumn(name string, values ...string) table.Column {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.NewTextValue(v)
	}
	return table.Column{Name: name, Type: table.TypeText, Values: cells}
}

// MissingAt replaces the given row indices of a column with missing cells
func MissingAt(col table.Column, rows ...int) table.Column {
	for _, r := range rows {
		col.Values[r] = table.NewMissingValue()
	}
	return col
}

// MustTable builds a table from columns and panics on invariant
// violations. Test fixtures are static, so a panic is a bug in the test.
func MustTable(columns ...table.Column) *table.Table {
	t, err := table.New(columns)
	if err != nil {
		panic(fmt.Sprintf("testkit: bad fixture: %v", err))
	}
	return t
}

// SyntheticTable generates a table with known structure for pipeline
// tests: a base numeric series, a perfectly anti-correlated partner, a
// noisy correlate, an independent uniform column, and a small categorical.
// The same seed always produces the same table.
func SyntheticTable(rows int, seed int64) *table.Table {
	rng := rand.New(rand.NewSource(seed))

	base := make([]float64, rows)
	inverse := make([]float64, rows)
	noisy := make([]float64, rows)
	uniform := make([]float64, rows)
	labels := make([]string, rows)

	categories := []string{"north", "south", "east", "west"}
	for i := 0; i < rows; i++ {
		base[i] = float64(i)
		inverse[i] = float64(rows-1) - float64(i)
		noisy[i] = float64(i) + rng.NormFloat64()*float64(rows)/20
		uniform[i] = rng.Float64() * 100
		labels[i] = categories[rng.Intn(len(categories))]
	}

	return MustTable(
		NumericColumn("base", base...),
		NumericColumn("inverse", inverse...),
		NumericColumn("noisy", noisy...),
		NumericColumn("uniform", uniform...),
		TextColumn("region", labels...),
	)
}

// StubLoader is a DatasetLoader that returns a canned table or error
type StubLoader struct {
	Table *table.Table
	Err   error
}

// Load returns the canned outcome regardless of dataset ID
func (l *StubLoader) Load(_ context.Context, _ core.DatasetID) (*table.Table, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Table, nil
}

// StubRegistry resolves every dataset ID to a minimal record. Useful
// when the test only cares about pipeline behavior, not file resolution.
type StubRegistry struct{}

// Resolve returns a record for any ID
func (StubRegistry) Resolve(_ context.Context, id core.DatasetID) (*ports.DatasetRecord, error) {
	return &ports.DatasetRecord{ID: id, Name: "fixture", FilePath: "fixture.csv"}, nil
}

// Register accepts and discards the record
func (StubRegistry) Register(_ context.Context, _ *ports.DatasetRecord) error {
	return nil
}
