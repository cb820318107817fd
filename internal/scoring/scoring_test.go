package scoring

import (
	"math"
	"testing"

	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func assignment(actual, possible float64) *models.Assignment {
	return &models.Assignment{Name: "a", ActualPoints: actual, PossiblePoints: possible}
}

func TestAssignmentGrade(t *testing.T) {
	t.Run("actual points", func(t *testing.T) {
		assert.InDelta(t, 80.0, AssignmentGrade(assignment(8, 10)), 1e-9)
	})

	t.Run("hypothetical overrides actual", func(t *testing.T) {
		a := assignment(2, 10)
		a.HypotheticalPoints = ptr(9)
		assert.InDelta(t, 90.0, AssignmentGrade(a), 1e-9)
	})

	t.Run("zero hypothetical still overrides", func(t *testing.T) {
		a := assignment(10, 10)
		a.HypotheticalPoints = ptr(0)
		assert.InDelta(t, 0.0, AssignmentGrade(a), 1e-9)
	})

	t.Run("zero possible points is not a number", func(t *testing.T) {
		assert.True(t, math.IsNaN(AssignmentGrade(assignment(0, 0))))
		assert.True(t, math.IsInf(AssignmentGrade(assignment(5, 0)), 1))
	})
}

func TestCategoryAverage(t *testing.T) {
	tests := []struct {
		name     string
		grades   []*models.Assignment
		drops    int
		expected float64
		ok       bool
	}{
		{name: "empty", grades: nil, ok: false},
		{name: "mean of two", grades: []*models.Assignment{assignment(8, 10), assignment(5, 10)}, expected: 65, ok: true},
		{name: "drop lowest", grades: []*models.Assignment{assignment(8, 10), assignment(5, 10), assignment(10, 10)}, drops: 1, expected: 90, ok: true},
		{name: "drops clamp to keep one", grades: []*models.Assignment{assignment(8, 10), assignment(5, 10)}, drops: 5, expected: 80, ok: true},
		{name: "negative drops ignored", grades: []*models.Assignment{assignment(8, 10), assignment(5, 10)}, drops: -1, expected: 65, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, ok := CategoryAverage(tt.grades, tt.drops)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, avg, 1e-9)
			}
		})
	}
}

func TestWeightedAverage(t *testing.T) {
	t.Run("absent weight excluded", func(t *testing.T) {
		avg := WeightedAverage([]WeightedEntry{
			{Weight: ptr(50), Average: ptr(80)},
			{Weight: ptr(50), Average: ptr(60)},
			{Weight: nil, Average: ptr(90)},
		})
		assert.InDelta(t, 70.0, avg, 1e-9)
	})

	t.Run("absent average excluded", func(t *testing.T) {
		avg := WeightedAverage([]WeightedEntry{
			{Weight: ptr(30), Average: ptr(100)},
			{Weight: ptr(70), Average: nil},
		})
		assert.InDelta(t, 100.0, avg, 1e-9)
	})

	t.Run("NaN average excluded", func(t *testing.T) {
		avg := WeightedAverage([]WeightedEntry{
			{Weight: ptr(30), Average: ptr(50)},
			{Weight: ptr(70), Average: ptr(math.NaN())},
		})
		assert.InDelta(t, 50.0, avg, 1e-9)
	})

	t.Run("zero average excluded", func(t *testing.T) {
		avg := WeightedAverage([]WeightedEntry{
			{Weight: ptr(50), Average: ptr(0)},
			{Weight: ptr(50), Average: ptr(100)},
		})
		assert.InDelta(t, 100.0, avg, 1e-9)
		assert.True(t, math.IsNaN(WeightedAverage([]WeightedEntry{{Weight: ptr(50), Average: ptr(0)}})))
	})

	t.Run("nothing weighted is NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(WeightedAverage(nil)))
		assert.True(t, math.IsNaN(WeightedAverage([]WeightedEntry{{Weight: ptr(0), Average: ptr(90)}})))
	})
}

func TestActualGrade(t *testing.T) {
	a := assignment(5, 10)
	a.HypotheticalPoints = ptr(10)

	assert.InDelta(t, 100.0, AssignmentGrade(a), 1e-9)
	assert.InDelta(t, 50.0, ActualGrade(a), 1e-9)
}

func TestCourseAverage(t *testing.T) {
	course := models.NewCourse("Math", 3)
	a := models.NewCategory(ptr(50), 0)
	a.Average = ptr(80)
	b := models.NewCategory(ptr(50), 0)
	b.Average = ptr(60)
	c := models.NewCategory(nil, 0)
	c.Average = ptr(90)
	course.Categories.Set("A", a)
	course.Categories.Set("B", b)
	course.Categories.Set("C", c)

	assert.InDelta(t, 70.0, CourseAverage(course), 1e-9)
	assert.True(t, math.IsNaN(CourseAverage(models.NewCourse("Empty", 0))))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "0%", DisplayPercent(math.NaN()))
	assert.Equal(t, "0%", DisplayPercent(math.Inf(1)))
	assert.Equal(t, "72.50%", DisplayPercent(72.5))
	assert.Equal(t, "0%", DisplayAverage(nil))
	assert.Equal(t, "65.00%", DisplayAverage(ptr(65)))
	assert.Equal(t, "8 / 10.00", ImportDisplayGrade(8, 10))
	assert.Equal(t, "7.5 / 9.50", ImportDisplayGrade(7.5, 9.5))
}

func TestStanding(t *testing.T) {
	assert.Equal(t, StandingSuccess, Standing(75))
	assert.Equal(t, StandingWarning, Standing(50))
	assert.Equal(t, StandingWarning, Standing(74.99))
	assert.Equal(t, StandingDanger, Standing(49.9))
	assert.Equal(t, StandingDanger, Standing(math.NaN()))
}
