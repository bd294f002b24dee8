package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"

	"edakit/domain/table"
)

// CoercionConfig defines the type inference thresholds
type CoercionConfig struct {
	NumericThreshold   float64 `json:"numeric_threshold"`   // % of non-missing values that must parse as numbers
	BooleanThreshold   float64 `json:"boolean_threshold"`   // % of non-missing values that must parse as booleans
	TimestampThreshold float64 `json:"timestamp_threshold"` // % of non-missing values that must parse as timestamps
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   0.8,
		BooleanThreshold:   0.9,
		TimestampThreshold: 0.8,
	}
}

// ValueCoercer infers a single type per column and coerces cells to it
type ValueCoercer struct {
	config CoercionConfig
}

// NewValueCoercer creates a coercer with the given config
func NewValueCoercer(config CoercionConfig) *ValueCoercer {
	return &ValueCoercer{config: config}
}

// CoerceColumn infers the column type from its raw string values and
// produces typed cells. Cells that fail to parse under the inferred type
// become missing.
func (c *ValueCoercer) CoerceColumn(name string, raw []string) table.Column {
	colType := c.inferType(raw)

	values := make([]table.Value, len(raw))
	for i, s := range raw {
		values[i] = c.coerceCell(s, colType)
	}

	return table.Column{Name: name, Type: colType, Values: values}
}

// inferType counts how many non-missing cells parse under each candidate
// type and picks the first whose ratio clears its threshold. Boolean
// parsing rejects bare 0/1 so flag columns read as integers stay numeric.
func (c *ValueCoercer) inferType(raw []string) table.ColumnType {
	var valid, numeric, integer, boolean, temporal int
	for _, s := range raw {
		if isMissingCell(s) {
			continue
		}
		valid++
		if f, ok := parseNumeric(s); ok {
			numeric++
			if f == math.Trunc(f) && !strings.ContainsAny(s, ".eE") {
				integer++
			}
		}
		if _, ok := parseBoolean(s); ok {
			boolean++
		}
		if _, ok := parseTimestamp(s); ok {
			temporal++
		}
	}
	if valid == 0 {
		return table.TypeText
	}

	n := float64(valid)
	if float64(boolean)/n >= c.config.BooleanThreshold {
		return table.TypeBoolean
	}
	if float64(numeric)/n >= c.config.NumericThreshold {
		if integer == numeric {
			return table.TypeInteger
		}
		return table.TypeFloat
	}
	if float64(temporal)/n >= c.config.TimestampThreshold {
		return table.TypeTemporal
	}
	return table.TypeText
}

// coerceCell converts one raw cell under the column's inferred type
func (c *ValueCoercer) coerceCell(s string, colType table.ColumnType) table.Value {
	if isMissingCell(s) {
		return table.NewMissingValue()
	}

	switch colType {
	case table.TypeInteger:
		if f, ok := parseNumeric(s); ok {
			return table.NewIntegerValue(int64(f))
		}
	case table.TypeFloat:
		if f, ok := parseNumeric(s); ok {
			return table.NewFloatValue(f)
		}
	case table.TypeBoolean:
		if b, ok := parseBoolean(s); ok {
			return table.NewBooleanValue(b)
		}
	case table.TypeTemporal:
		if t, ok := parseTimestamp(s); ok {
			return table.NewTemporalValue(t)
		}
	case table.TypeText:
		return table.NewTextValue(s)
	}
	return table.NewMissingValue()
}

// isMissingCell reports whether a raw cell carries no value
func isMissingCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "nan", "null", "none", "-":
		return true
	}
	return false
}

// parseNumeric attempts to parse as numeric, tolerating thousands
// separators, currency symbols, and percentage signs
func parseNumeric(s string) (float64, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, false
	}

	// Parentheses mark negatives in accounting exports: (123) -> -123
	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	if negative {
		clean = "-" + clean
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// parseBoolean attempts to parse as boolean with strict rules
func parseBoolean(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y":
		return true, true
	case "false", "no", "n":
		return false, true
	}
	return false, false
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// parseTimestamp attempts to parse as timestamp with multiple formats
func parseTimestamp(s string) (time.Time, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return time.Time{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, clean); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
