package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/SAP-F-2025/gradebook/internal/scoring"
)

var errNotObject = errors.New("expected a JSON object")

// Codec converts the gradebook to and from the stored JSON document:
//
//	[{"name", "credits", "categories": {<name>: {"weight", "numDrops", "grades": [...]}}}]
//
// Category order is kept on both sides.
type Codec struct {
	// IncludeWhatIf writes hypotheticalPoints and keeps them on decode.
	IncludeWhatIf bool
}

type storedCourse struct {
	Name       string        `json:"name"`
	Credits    models.Number `json:"credits"`
	Categories orderedObject `json:"categories"`
}

type storedCategory struct {
	Weight   *models.Number     `json:"weight,omitempty"`
	NumDrops models.Number      `json:"numDrops"`
	Grades   []storedAssignment `json:"grades"`
}

type storedAssignment struct {
	Name               string         `json:"name"`
	ActualPoints       models.Number  `json:"actualPoints"`
	PossiblePoints     models.Number  `json:"possiblePoints"`
	Grade              models.Number  `json:"grade"`
	HypotheticalPoints *models.Number `json:"hypotheticalPoints,omitempty"`
}

// ===== ENCODING =====

// Encode serializes every course of the gradebook.
func (c Codec) Encode(gb *models.Gradebook) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, course := range gb.Courses {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := c.encodeCourse(&buf, course); err != nil {
			return nil, fmt.Errorf("failed to encode course %q: %w", course.Name, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (c Codec) encodeCourse(buf *bytes.Buffer, course *models.Course) error {
	name, err := json.Marshal(course.Name)
	if err != nil {
		return err
	}
	credits, err := json.Marshal(models.Number(course.Credits))
	if err != nil {
		return err
	}

	buf.WriteString(`{"name":`)
	buf.Write(name)
	buf.WriteString(`,"credits":`)
	buf.Write(credits)
	buf.WriteString(`,"categories":`)

	categories, err := c.EncodeCategories(course.Categories)
	if err != nil {
		return err
	}
	buf.Write(categories)
	buf.WriteByte('}')
	return nil
}

// EncodeCategories writes a category map as a JSON object in key order. The
// output is also a valid course-data import document.
func (c Codec) EncodeCategories(categories *models.CategoryMap) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if categories != nil {
		for i, name := range categories.Keys() {
			cat, _ := categories.Get(name)

			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(c.toStoredCategory(cat))
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", name, err)
			}

			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c Codec) toStoredCategory(cat *models.Category) storedCategory {
	stored := storedCategory{
		Weight:   models.FromFloatPtr(cat.Weight),
		NumDrops: models.Number(cat.NumDrops),
		Grades:   make([]storedAssignment, 0, len(cat.Grades)),
	}
	for _, a := range cat.Grades {
		sa := storedAssignment{
			Name:           a.Name,
			ActualPoints:   models.Number(a.ActualPoints),
			PossiblePoints: models.Number(a.PossiblePoints),
			Grade:          models.Number(a.Grade),
		}
		if c.IncludeWhatIf {
			sa.HypotheticalPoints = models.FromFloatPtr(a.HypotheticalPoints)
		} else if a.HasWhatIf() {
			sa.Grade = models.Number(scoring.ActualGrade(a))
		}
		stored.Grades = append(stored.Grades, sa)
	}
	return stored
}

// ===== DECODING =====

// Decode parses a stored gradebook document. Derived grades and averages are
// left for the caller to recompute.
func (c Codec) Decode(data []byte) ([]*models.Course, error) {
	var stored []storedCourse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	courses := make([]*models.Course, 0, len(stored))
	for i, sc := range stored {
		categories, err := c.categoriesFromObject(sc.Categories)
		if err != nil {
			return nil, fmt.Errorf("course %d: %w", i, err)
		}
		course := models.NewCourse(sc.Name, sc.Credits.Float64())
		course.Categories = categories
		courses = append(courses, course)
	}
	return courses, nil
}

// DecodeCategories parses a course-data import document: an object keyed by
// category name. Anything that is not a well-formed object is rejected.
func (c Codec) DecodeCategories(raw []byte) (*models.CategoryMap, error) {
	var obj orderedObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj.Values == nil {
		return nil, errNotObject
	}
	return c.categoriesFromObject(obj)
}

func (c Codec) categoriesFromObject(obj orderedObject) (*models.CategoryMap, error) {
	categories := models.NewCategoryMap()
	for _, name := range obj.Keys {
		var sc storedCategory
		if err := json.Unmarshal(obj.Values[name], &sc); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}

		numDrops := int(sc.NumDrops)
		if numDrops < 0 {
			numDrops = 0
		}
		cat := models.NewCategory(models.NumberPtr(sc.Weight), numDrops)
		for _, sa := range sc.Grades {
			a := &models.Assignment{
				Name:           sa.Name,
				ActualPoints:   sa.ActualPoints.Float64(),
				PossiblePoints: sa.PossiblePoints.Float64(),
			}
			if c.IncludeWhatIf {
				a.HypotheticalPoints = models.NumberPtr(sa.HypotheticalPoints)
			}
			cat.Grades = append(cat.Grades, a)
		}
		categories.Set(name, cat)
	}
	return categories, nil
}

// orderedObject is a JSON object decoded with its key order preserved. A
// repeated key keeps its first position and its last value.
type orderedObject struct {
	Keys   []string
	Values map[string]json.RawMessage
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	o.Keys = make([]string, 0)
	o.Values = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errNotObject
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if _, seen := o.Values[key]; !seen {
			o.Keys = append(o.Keys, key)
		}
		o.Values[key] = value
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
