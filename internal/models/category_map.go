package models

// CategoryMap is an insertion-ordered mapping of category name to Category.
// The zero value is ready to use.
type CategoryMap struct {
	keys  []string
	items map[string]*Category
}

// NewCategoryMap creates an empty map.
func NewCategoryMap() *CategoryMap {
	return &CategoryMap{items: make(map[string]*Category)}
}

func (m *CategoryMap) init() {
	if m.items == nil {
		m.items = make(map[string]*Category)
	}
}

// Len returns the number of categories.
func (m *CategoryMap) Len() int {
	return len(m.keys)
}

// Get looks up a category by name.
func (m *CategoryMap) Get(name string) (*Category, bool) {
	c, ok := m.items[name]
	return c, ok
}

// Has reports whether name is a key of the map.
func (m *CategoryMap) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

// Set inserts or replaces a category. Replacing keeps the existing position.
func (m *CategoryMap) Set(name string, c *Category) {
	m.init()
	if _, exists := m.items[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.items[name] = c
}

// Delete removes name and reports whether it was present.
func (m *CategoryMap) Delete(name string) bool {
	if _, ok := m.items[name]; !ok {
		return false
	}
	delete(m.items, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// RenameKey moves the value stored under oldName to newName, keeping its position.
// It returns false when oldName is missing or newName is already taken by another entry.
func (m *CategoryMap) RenameKey(oldName, newName string) bool {
	c, ok := m.items[oldName]
	if !ok {
		return false
	}
	if oldName == newName {
		return true
	}
	if _, taken := m.items[newName]; taken {
		return false
	}
	delete(m.items, oldName)
	m.items[newName] = c
	for i, k := range m.keys {
		if k == oldName {
			m.keys[i] = newName
			break
		}
	}
	return true
}

// Keys returns the category names in insertion order.
func (m *CategoryMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every category in insertion order.
func (m *CategoryMap) Each(fn func(name string, c *Category)) {
	for _, k := range m.keys {
		fn(k, m.items[k])
	}
}
