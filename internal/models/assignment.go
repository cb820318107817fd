package models

// Assignment is a single gradable item within a category.
type Assignment struct {
	Name           string  `json:"name"`
	ActualPoints   float64 `json:"actualPoints"`
	PossiblePoints float64 `json:"possiblePoints"`

	// HypotheticalPoints overrides ActualPoints for what-if simulation.
	HypotheticalPoints *float64 `json:"hypotheticalPoints,omitempty"`

	// Computed fields (derived from points, never authoritative)
	Grade        float64 `json:"grade"`
	DisplayGrade string  `json:"-"`
}

// PointsUsed returns the points that count toward the grade.
func (a *Assignment) PointsUsed() float64 {
	if a.HypotheticalPoints != nil {
		return *a.HypotheticalPoints
	}
	return a.ActualPoints
}

// HasWhatIf reports whether a hypothetical override is set.
func (a *Assignment) HasWhatIf() bool {
	return a.HypotheticalPoints != nil
}

// AssignmentPatch carries the editable fields of an assignment. Nil fields are left untouched.
type AssignmentPatch struct {
	Name           *string  `json:"name"`
	ActualPoints   *float64 `json:"actualPoints"`
	PossiblePoints *float64 `json:"possiblePoints"`
}

// Apply mutates the assignment in place.
func (p AssignmentPatch) Apply(a *Assignment) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.ActualPoints != nil {
		a.ActualPoints = *p.ActualPoints
	}
	if p.PossiblePoints != nil {
		a.PossiblePoints = *p.PossiblePoints
	}
}

// SortKey orders the assignments of a category.
type SortKey string

const (
	SortNameAsc   SortKey = "nameAsc"
	SortNameDesc  SortKey = "nameDesc"
	SortGradeAsc  SortKey = "gradeAsc"
	SortGradeDesc SortKey = "gradeDesc"
)
