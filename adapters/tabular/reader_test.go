package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edakit/domain/core"
	"edakit/domain/table"
	"edakit/internal"
	"edakit/internal/errors"
	"edakit/ports"
)

type stubRegistry struct {
	records map[core.DatasetID]*ports.DatasetRecord
}

func (r *stubRegistry) Resolve(_ context.Context, id core.DatasetID) (*ports.DatasetRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, errors.DatasetNotFound(id.String())
	}
	return rec, nil
}

func (r *stubRegistry) Register(_ context.Context, rec *ports.DatasetRecord) error {
	r.records[rec.ID] = rec
	return nil
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	csv := "age,score,city,active\n" +
		"34,81.5,Austin,true\n" +
		"28,64.2,Boston,false\n" +
		"45,,Austin,true\n"
	path := writeTempCSV(t, csv)

	id := core.DatasetID(core.NewID())
	registry := &stubRegistry{records: map[core.DatasetID]*ports.DatasetRecord{
		id: {ID: id, Name: "people", FilePath: path},
	}}
	loader := NewFileLoader(registry, "", internal.NewLogger(internal.LogLevelError))

	tbl, err := loader.Load(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 4, tbl.Cols())

	age, ok := tbl.Column("age")
	require.True(t, ok)
	assert.Equal(t, table.TypeInteger, age.Type)

	score, ok := tbl.Column("score")
	require.True(t, ok)
	assert.Equal(t, table.TypeFloat, score.Type)
	assert.Equal(t, 1, score.MissingCount())

	city, ok := tbl.Column("city")
	require.True(t, ok)
	assert.Equal(t, table.TypeText, city.Type)

	active, ok := tbl.Column("active")
	require.True(t, ok)
	assert.Equal(t, table.TypeBoolean, active.Type)
}

func TestLoadResolvesRelativePathAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	csv := "x\n1\n2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(csv), 0o644))

	id := core.DatasetID(core.NewID())
	registry := &stubRegistry{records: map[core.DatasetID]*ports.DatasetRecord{
		id: {ID: id, Name: "relative", FilePath: "data.csv"},
	}}
	loader := NewFileLoader(registry, dir, internal.NewLogger(internal.LogLevelError))

	tbl, err := loader.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())

	// An absolute registry path ignores the base directory
	abs := writeTempCSV(t, csv)
	absID := core.DatasetID(core.NewID())
	require.NoError(t, registry.Register(context.Background(), &ports.DatasetRecord{ID: absID, Name: "absolute", FilePath: abs}))
	tbl, err = loader.Load(context.Background(), absID)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())
}

func TestLoadUnknownDataset(t *testing.T) {
	registry := &stubRegistry{records: map[core.DatasetID]*ports.DatasetRecord{}}
	loader := NewFileLoader(registry, "", internal.NewLogger(internal.LogLevelError))

	_, err := loader.Load(context.Background(), core.DatasetID(core.NewID()))
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatasetNotFound, errors.GetCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	id := core.DatasetID(core.NewID())
	registry := &stubRegistry{records: map[core.DatasetID]*ports.DatasetRecord{
		id: {ID: id, Name: "gone", FilePath: "/nonexistent/data.csv"},
	}}
	loader := NewFileLoader(registry, "", internal.NewLogger(internal.LogLevelError))

	_, err := loader.Load(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatasetUnreadable, errors.GetCode(err))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o644))

	id := core.DatasetID(core.NewID())
	registry := &stubRegistry{records: map[core.DatasetID]*ports.DatasetRecord{
		id: {ID: id, Name: "pq", FilePath: path},
	}}
	loader := NewFileLoader(registry, "", internal.NewLogger(internal.LogLevelError))

	_, err := loader.Load(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatasetUnreadable, errors.GetCode(err))
}

func TestBuildTableHeaderOnly(t *testing.T) {
	loader := NewFileLoader(nil, "", internal.NewLogger(internal.LogLevelError))

	tbl, err := loader.BuildTable([][]string{{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())
}

func TestBuildTableRaggedRows(t *testing.T) {
	loader := NewFileLoader(nil, "", internal.NewLogger(internal.LogLevelError))

	tbl, err := loader.BuildTable([][]string{
		{"a", "b", "c"},
		{"1", "2"},
		{"3", "4", "5"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())

	col, ok := tbl.Column("c")
	require.True(t, ok)
	assert.Equal(t, 1, col.MissingCount())
}

func TestBuildTableBlankHeaderGetsName(t *testing.T) {
	loader := NewFileLoader(nil, "", internal.NewLogger(internal.LogLevelError))

	tbl, err := loader.BuildTable([][]string{
		{"a", ""},
		{"1", "x"},
	})
	require.NoError(t, err)
	_, ok := tbl.Column("column_2")
	assert.True(t, ok)
}

func TestInferTypeMixedFallsBackToText(t *testing.T) {
	c := NewValueCoercer(DefaultCoercionConfig())
	col := c.CoerceColumn("mixed", []string{"1", "2", "apple", "banana", "cherry"})
	assert.Equal(t, table.TypeText, col.Type)
}

func TestInferTypeTemporal(t *testing.T) {
	c := NewValueCoercer(DefaultCoercionConfig())
	col := c.CoerceColumn("dates", []string{"2024-01-01", "2024-02-15", "2024-03-30", ""})
	assert.Equal(t, table.TypeTemporal, col.Type)
	assert.Equal(t, 1, col.MissingCount())
}

func TestParseNumericFormats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,234.5", 1234.5},
		{"$99.95", 99.95},
		{"(42)", -42},
		{"15%", 15},
	}
	for _, tc := range cases {
		got, ok := parseNumeric(tc.in)
		require.True(t, ok, "parseNumeric(%q)", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "parseNumeric(%q)", tc.in)
	}

	for _, bad := range []string{"", "abc", "NaN", "--5"} {
		_, ok := parseNumeric(bad)
		assert.False(t, ok, "parseNumeric(%q) should fail", bad)
	}
}
