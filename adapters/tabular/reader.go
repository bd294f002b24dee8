// Package tabular loads stored dataset files into the in-memory columnar
// table the analysis engine operates on. CSV is read with the standard
// library; XLSX goes through excelize. Column types are inferred from a
// sample of each column's raw string values.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"edakit/domain/core"
	"edakit/domain/table"
	"edakit/internal"
	"edakit/internal/errors"
	"edakit/ports"
)

// FileLoader implements ports.DatasetLoader over a dataset registry and
// the local filesystem
type FileLoader struct {
	registry ports.DatasetRegistry
	baseDir  string
	coercer  *ValueCoercer
	logger   *internal.Logger
}

// NewFileLoader creates a loader that resolves dataset files through the
// given registry. Relative registry paths are joined onto baseDir;
// absolute paths are used as-is.
func NewFileLoader(registry ports.DatasetRegistry, baseDir string, logger *internal.Logger) *FileLoader {
	return &FileLoader{
		registry: registry,
		baseDir:  baseDir,
		coercer:  NewValueCoercer(DefaultCoercionConfig()),
		logger:   logger.WithComponent("tabular"),
	}
}

// Load resolves a dataset identifier to its stored file and materializes
// the table
func (l *FileLoader) Load(ctx context.Context, id core.DatasetID) (*table.Table, error) {
	rec, err := l.registry.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := l.readRows(l.resolvePath(rec.FilePath))
	if err != nil {
		return nil, errors.DatasetUnreadable(id.String(), err)
	}

	t, err := l.BuildTable(rows)
	if err != nil {
		return nil, errors.DatasetUnreadable(id.String(), err)
	}

	l.logger.Debug("loaded dataset %s (%d rows, %d columns)", id, t.Rows(), t.Cols())
	return t, nil
}

func (l *FileLoader) resolvePath(path string) string {
	if l.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.baseDir, path)
}

// readRows reads the raw string grid from a CSV or XLSX file
func (l *FileLoader) readRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.readCSV(path)
	case ".xlsx":
		return l.readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func (l *FileLoader) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (l *FileLoader) readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// First sheet, whatever its name
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// BuildTable converts a raw string grid (header row first) into a typed
// columnar table. A header-only or empty grid yields a valid zero-row
// table. Ragged rows are padded with missing cells.
func (l *FileLoader) BuildTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return table.New(nil)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	// Column-major raw values
	raw := make([][]string, len(headers))
	for i := range raw {
		raw[i] = make([]string, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for c := range headers {
			cell := ""
			if c < len(row) {
				cell = strings.TrimSpace(row[c])
			}
			raw[c] = append(raw[c], cell)
		}
	}

	columns := make([]table.Column, len(headers))
	for c, name := range headers {
		columns[c] = l.coercer.CoerceColumn(name, raw[c])
	}

	return table.New(columns)
}
