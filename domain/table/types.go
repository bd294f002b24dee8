package table

import (
	"fmt"
	"strings"
	"time"
)

// ColumnType is the inferred storage type of a column
type ColumnType string

const (
	TypeInteger  ColumnType = "integer"
	TypeFloat    ColumnType = "float"
	TypeText     ColumnType = "text"
	TypeBoolean  ColumnType = "boolean"
	TypeTemporal ColumnType = "temporal"
)

// IsNumeric reports whether the column type carries numeric values
func (t ColumnType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Value represents a single typed cell with deterministic coercion
type Value struct {
	Type         ColumnType `json:"type"`
	StringVal    *string    `json:"string_val,omitempty"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	BooleanVal   *bool      `json:"boolean_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
	IsMissing    bool       `json:"is_missing"`
}

// NewTextValue creates a text value; empty strings coerce to missing
func NewTextValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: TypeText, StringVal: &s}
}

// NewFloatValue creates a floating-point value
func NewFloatValue(n float64) Value {
	return Value{Type: TypeFloat, NumericVal: &n}
}

// NewIntegerValue creates an integer value (stored as float64 for analysis)
func NewIntegerValue(n int64) Value {
	f := float64(n)
	return Value{Type: TypeInteger, NumericVal: &f}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: TypeBoolean, BooleanVal: &b}
}

// NewTemporalValue creates a temporal value
func NewTemporalValue(t time.Time) Value {
	return Value{Type: TypeTemporal, TimestampVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{IsMissing: true}
}

// String returns a canonical string form of the value, used for duplicate
// detection and categorical frequency counting
func (v Value) String() string {
	if v.IsMissing {
		return "<missing>"
	}
	switch v.Type {
	case TypeText:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case TypeFloat, TypeInteger:
		if v.NumericVal != nil {
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", *v.NumericVal), "0"), ".")
		}
	case TypeBoolean:
		if v.BooleanVal != nil {
			return fmt.Sprintf("%t", *v.BooleanVal)
		}
	case TypeTemporal:
		if v.TimestampVal != nil {
			return v.TimestampVal.Format(time.RFC3339)
		}
	}
	return "<invalid>"
}

// Float returns the numeric value and whether one is present
func (v Value) Float() (float64, bool) {
	if v.IsMissing || v.NumericVal == nil {
		return 0, false
	}
	return *v.NumericVal, true
}

// Column is a named homogeneous sequence of values
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Values []Value    `json:"values"`
}

// Floats returns the column's non-missing numeric values in row order,
// together with the row indices they came from
func (c *Column) Floats() (vals []float64, rows []int) {
	for i, v := range c.Values {
		if f, ok := v.Float(); ok {
			vals = append(vals, f)
			rows = append(rows, i)
		}
	}
	return vals, rows
}

// MissingCount returns how many cells in the column are missing
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing {
			n++
		}
	}
	return n
}

// MemoryBytes estimates the in-memory footprint of the column buffer,
// including variable-length string overhead
func (c *Column) MemoryBytes() int64 {
	var total int64
	for _, v := range c.Values {
		total += 16 // value header
		if v.StringVal != nil {
			total += int64(len(*v.StringVal))
		}
		if v.NumericVal != nil {
			total += 8
		}
		if v.BooleanVal != nil {
			total += 1
		}
		if v.TimestampVal != nil {
			total += 24
		}
	}
	return total
}

// Table is an immutable in-memory columnar dataset. All columns have the
// same length and unique names; both invariants are enforced at build time.
type Table struct {
	columns []Column
	byName  map[string]int
	rows    int
}

// New builds a Table from columns, validating the tabular invariants
func New(columns []Column) (*Table, error) {
	byName := make(map[string]int, len(columns))
	rows := 0
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, exists := byName[col.Name]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", col.Name)
		}
		byName[col.Name] = i
		if i == 0 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %s has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
	}
	return &Table{columns: columns, byName: byName, rows: rows}, nil
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return t.rows
}

// Cols returns the number of columns
func (t *Table) Cols() int {
	return len(t.columns)
}

// Columns returns the columns in their original order
func (t *Table) Columns() []Column {
	return t.columns
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.columns[i], true
}

// NumericColumns returns the names of integer and float columns in order
func (t *Table) NumericColumns() []string {
	var names []string
	for _, col := range t.columns {
		if col.Type.IsNumeric() {
			names = append(names, col.Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of text and boolean columns in order
func (t *Table) CategoricalColumns() []string {
	var names []string
	for _, col := range t.columns {
		if col.Type == TypeText || col.Type == TypeBoolean {
			names = append(names, col.Name)
		}
	}
	return names
}

// TemporalColumns returns the names of temporal columns in order
func (t *Table) TemporalColumns() []string {
	var names []string
	for _, col := range t.columns {
		if col.Type == TypeTemporal {
			names = append(names, col.Name)
		}
	}
	return names
}

// RowKey builds a canonical key for one row, used for duplicate detection.
// Two rows are duplicates when every column value compares equal.
func (t *Table) RowKey(row int) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = col.Values[row].String()
	}
	return strings.Join(parts, "\x1f")
}

// MemoryBytes estimates the total in-memory footprint of the table
func (t *Table) MemoryBytes() int64 {
	var total int64
	for i := range t.columns {
		total += t.columns[i].MemoryBytes()
	}
	return total
}
