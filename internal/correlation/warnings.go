package correlation

import (
	"fmt"
	"math"

	"edakit/domain/analysis"
)

// buildWarnings synthesizes VIF and pairwise findings into actionable
// multicollinearity warnings, plus an overall assessment string. With
// no high-VIF columns and no very-high pairs the list is empty.
func buildWarnings(vif []analysis.VIFScore, pairs []analysis.CorrelationPair) ([]analysis.Warning, string) {
	warnings := []analysis.Warning{}

	for _, score := range vif {
		switch {
		case score.Infinite:
			warnings = append(warnings, analysis.Warning{
				Severity: "high",
				Columns:  []string{score.Column},
				Detail:   fmt.Sprintf("VIF for '%s' is undefined, the column is perfectly collinear with the others", score.Column),
				Recommendation: fmt.Sprintf(
					"Drop '%s' or one of its exact linear combinations before modeling", score.Column),
			})
		case score.Severity == "high":
			warnings = append(warnings, analysis.Warning{
				Severity: "high",
				Columns:  []string{score.Column},
				Detail:   fmt.Sprintf("'%s' has VIF %.2f, above the action threshold of %.0f", score.Column, *score.Score, vifHigh),
				Recommendation: fmt.Sprintf(
					"Drop '%s' or combine it with its correlated peers", score.Column),
			})
		case score.Severity == "moderate":
			warnings = append(warnings, analysis.Warning{
				Severity: "moderate",
				Columns:  []string{score.Column},
				Detail:   fmt.Sprintf("'%s' has VIF %.2f, in the caution band %.0f-%.0f", score.Column, *score.Score, vifModerate, vifHigh),
				Recommendation: fmt.Sprintf(
					"Monitor '%s'; consider dimensionality reduction if model coefficients look unstable", score.Column),
			})
		}
	}

	for _, p := range pairs {
		if math.Abs(p.Correlation) >= 0.9 {
			warnings = append(warnings, analysis.Warning{
				Severity: "high",
				Columns:  []string{p.Column1, p.Column2},
				Detail:   fmt.Sprintf("'%s' and '%s' are almost interchangeable, correlation %.2f", p.Column1, p.Column2, p.Correlation),
				Recommendation: fmt.Sprintf(
					"Drop or combine columns '%s' and '%s' - correlation %.2f", p.Column1, p.Column2, p.Correlation),
			})
		}
	}

	return warnings, assessment(warnings)
}

// assessment summarizes the warning list into one severity statement
func assessment(warnings []analysis.Warning) string {
	high, moderate := 0, 0
	for _, w := range warnings {
		switch w.Severity {
		case "high":
			high++
		case "moderate":
			moderate++
		}
	}
	switch {
	case high > 0:
		return fmt.Sprintf("High multicollinearity detected (%d high-severity findings); address before regression modeling", high)
	case moderate > 0:
		return fmt.Sprintf("Moderate multicollinearity detected (%d findings); proceed with caution", moderate)
	default:
		return "No concerning multicollinearity detected"
	}
}
