package models

// Category is a named grouping of assignments. The name is the key under which
// the category is stored in its course's CategoryMap.
type Category struct {
	Weight   *float64      `json:"weight,omitempty"`
	NumDrops int           `json:"numDrops"`
	Grades   []*Assignment `json:"grades"`

	// Average is nil while Grades is empty.
	Average *float64 `json:"-"`
}

// NewCategory creates an empty category.
func NewCategory(weight *float64, numDrops int) *Category {
	return &Category{
		Weight:   weight,
		NumDrops: numDrops,
		Grades:   make([]*Assignment, 0),
	}
}

// HasWeight reports whether the category has been configured with a non-zero weight.
func (c *Category) HasWeight() bool {
	return c.Weight != nil && *c.Weight != 0
}

// IndexOf returns the position of the assignment in Grades, or -1.
func (c *Category) IndexOf(a *Assignment) int {
	for i, g := range c.Grades {
		if g == a {
			return i
		}
	}
	return -1
}
