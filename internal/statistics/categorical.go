package statistics

import (
	"sort"

	"edakit/domain/analysis"
	"edakit/domain/table"
)

// categoricalSummary tallies value frequencies for a categorical column
// and keeps the top-N most frequent values. Ties break on value order
// for deterministic output.
func categoricalSummary(col *table.Column, totalRows, topN int) analysis.CategoricalSummary {
	counts := make(map[string]int)
	present := 0
	for _, v := range col.Values {
		if v.IsMissing {
			continue
		}
		counts[v.String()]++
		present++
	}

	type entry struct {
		value string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for value, count := range counts {
		entries = append(entries, entry{value, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].value < entries[j].value
	})

	summary := analysis.CategoricalSummary{
		Count:   present,
		Unique:  len(counts),
		Missing: col.MissingCount(),
	}
	if len(entries) > 0 {
		summary.Mode = entries[0].value
	}

	for i, e := range entries {
		if i >= topN {
			break
		}
		percent := 0.0
		if totalRows > 0 {
			percent = roundTo(float64(e.count)/float64(totalRows)*100, 2)
		}
		summary.TopValues = append(summary.TopValues, analysis.ValueFrequency{
			Value:   e.value,
			Count:   e.count,
			Percent: percent,
		})
	}
	return summary
}
