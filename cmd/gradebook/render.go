package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/SAP-F-2025/gradebook/internal/scoring"
)

var standingMarks = map[string]string{
	scoring.StandingSuccess: "🟢",
	scoring.StandingWarning: "🟡",
	scoring.StandingDanger:  "🔴",
}

func renderCourses(out io.Writer, courses []*models.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(out, "No courses yet. Import one with `gradebook import <file>`.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCourse\tCredits\tAverage\t")
	fmt.Fprintln(w, "-\t------\t-------\t-------\t")
	for i, course := range courses {
		avg := scoring.CourseAverage(course)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1, course.Name, formatNumber(course.Credits), scoring.DisplayPercent(avg), standingMarks[scoring.Standing(avg)])
	}
	w.Flush()
}

func renderCourse(out io.Writer, index int, course *models.Course) {
	avg := scoring.CourseAverage(course)
	fmt.Fprintf(out, "%d. %s (%s credits)  %s %s\n",
		index+1, course.Name, formatNumber(course.Credits), scoring.DisplayPercent(avg), standingMarks[scoring.Standing(avg)])

	if course.Categories.Len() == 0 {
		fmt.Fprintln(out, "\n   No categories.")
		return
	}

	course.Categories.Each(func(name string, cat *models.Category) {
		fmt.Fprintf(out, "\n   %s  weight: %s  drops: %d  average: %s\n",
			name, formatWeight(cat.Weight), cat.NumDrops, scoring.DisplayAverage(cat.Average))

		if len(cat.Grades) == 0 {
			fmt.Fprintln(out, "      (no assignments)")
			return
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for i, a := range cat.Grades {
			points := fmt.Sprintf("%s / %s", formatNumber(a.ActualPoints), formatNumber(a.PossiblePoints))
			if a.HasWhatIf() {
				points += fmt.Sprintf(" (what-if %s)", formatNumber(*a.HypotheticalPoints))
			}
			fmt.Fprintf(w, "      %d\t%s\t%s\t%s\n", i+1, a.Name, points, scoring.DisplayPercent(a.Grade))
		}
		w.Flush()
	})
}

func formatWeight(weight *float64) string {
	if weight == nil {
		return "-"
	}
	return formatNumber(*weight) + "%"
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 2, 64), ".00")
}
