package models

// Course is a gradable entity made of weighted categories.
type Course struct {
	Name string `json:"name"`

	// Credits is carried for display only and is not used in any computation.
	Credits float64 `json:"credits"`

	Categories *CategoryMap `json:"-"`
}

// NewCourse creates a course with no categories.
func NewCourse(name string, credits float64) *Course {
	return &Course{
		Name:       name,
		Credits:    credits,
		Categories: NewCategoryMap(),
	}
}

// Category looks up a category by name.
func (c *Course) Category(name string) (*Category, bool) {
	if c.Categories == nil {
		return nil, false
	}
	return c.Categories.Get(name)
}
