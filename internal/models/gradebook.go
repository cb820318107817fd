package models

// Gradebook owns the ordered list of courses.
type Gradebook struct {
	Courses []*Course `json:"courses"`
}

// NewGradebook creates an empty gradebook.
func NewGradebook() *Gradebook {
	return &Gradebook{Courses: make([]*Course, 0)}
}

// ValidIndex reports whether i addresses an existing course.
func (g *Gradebook) ValidIndex(i int) bool {
	return i >= 0 && i < len(g.Courses)
}
