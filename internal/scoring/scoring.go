// Package scoring holds the grade arithmetic. Every derived grade and average in
// the gradebook is computed here.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/SAP-F-2025/gradebook/internal/models"
)

// Standing buckets used to color averages.
const (
	StandingSuccess = "success"
	StandingWarning = "warning"
	StandingDanger  = "danger"
)

// AssignmentGrade returns the percentage grade of a single assignment, using the
// hypothetical points when set. Zero possible points yields NaN or an infinity.
func AssignmentGrade(a *models.Assignment) float64 {
	return 100 * a.PointsUsed() / a.PossiblePoints
}

// ActualGrade is AssignmentGrade ignoring any hypothetical points.
func ActualGrade(a *models.Assignment) float64 {
	return 100 * a.ActualPoints / a.PossiblePoints
}

// CategoryAverage returns the mean grade of the assignments after excluding the
// numDrops lowest grades. At least one grade always remains. ok is false when
// there are no assignments.
func CategoryAverage(grades []*models.Assignment, numDrops int) (avg float64, ok bool) {
	if len(grades) == 0 {
		return 0, false
	}

	values := make([]float64, len(grades))
	for i, a := range grades {
		values[i] = AssignmentGrade(a)
	}

	if numDrops > 0 {
		if numDrops > len(values)-1 {
			numDrops = len(values) - 1
		}
		// NaN sorts first, so undefined grades are dropped before real ones
		sort.Float64s(values)
		values = values[numDrops:]
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// WeightedEntry is one term of a weighted average.
type WeightedEntry struct {
	Weight  *float64
	Average *float64
}

// WeightedAverage sums weight*average over entries where both are defined and
// non-zero, and divides by the sum of those weights. A category averaging 0
// does not count. The result is NaN when nothing qualifies.
func WeightedAverage(entries []WeightedEntry) float64 {
	var weightedSum, sumWeights float64
	for _, e := range entries {
		if !definedWeight(e.Weight) || !definedAverage(e.Average) {
			continue
		}
		weightedSum += *e.Weight * *e.Average
		sumWeights += *e.Weight
	}
	return weightedSum / sumWeights
}

// CourseAverage is the weighted average over the course's categories.
func CourseAverage(c *models.Course) float64 {
	if c.Categories == nil {
		return math.NaN()
	}
	entries := make([]WeightedEntry, 0, c.Categories.Len())
	c.Categories.Each(func(_ string, cat *models.Category) {
		entries = append(entries, WeightedEntry{Weight: cat.Weight, Average: cat.Average})
	})
	return WeightedAverage(entries)
}

// DisplayPercent formats a percentage with two decimals. Undefined values render as 0%.
func DisplayPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// DisplayAverage formats an optional average.
func DisplayAverage(avg *float64) string {
	if avg == nil {
		return "0%"
	}
	return DisplayPercent(*avg)
}

// Standing returns the color bucket of a percentage.
func Standing(v float64) string {
	switch {
	case v >= 75:
		return StandingSuccess
	case v >= 50:
		return StandingWarning
	default:
		return StandingDanger
	}
}

// ImportDisplayGrade renders the informational "actual / possible" string shown
// for freshly imported assignments.
func ImportDisplayGrade(actual, possible float64) string {
	return fmt.Sprintf("%s / %.2f", formatPoints(actual), possible)
}

func formatPoints(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}

func definedWeight(w *float64) bool {
	return w != nil && *w != 0 && !math.IsNaN(*w)
}

func definedAverage(a *float64) bool {
	return a != nil && *a != 0 && !math.IsNaN(*a) && !math.IsInf(*a, 0)
}
