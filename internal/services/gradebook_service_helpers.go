package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/SAP-F-2025/gradebook/internal/events"
	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/SAP-F-2025/gradebook/internal/scoring"
	"github.com/SAP-F-2025/gradebook/internal/storage"
)

type categorySettings struct {
	Name     string `json:"name" validate:"category_name"`
	NumDrops int    `json:"numDrops" validate:"gte=0"`
}

type sortRequest struct {
	Key string `json:"key" validate:"sort_key"`
}

// ===== LOOKUPS =====

func (s *gradebookService) course(index int) (*models.Course, error) {
	if !s.gradebook.ValidIndex(index) {
		return nil, NewGradebookError("course", ErrIndexOutOfRange, fmt.Sprintf("no course at index %d", index), map[string]interface{}{
			"course_index": index,
			"course_count": len(s.gradebook.Courses),
		})
	}
	return s.gradebook.Courses[index], nil
}

func (s *gradebookService) category(courseIndex int, name string) (*models.Course, *models.Category, error) {
	course, err := s.course(courseIndex)
	if err != nil {
		return nil, nil, err
	}
	cat, ok := course.Category(name)
	if !ok {
		return nil, nil, unknownCategory("category", name)
	}
	return course, cat, nil
}

func assignmentAt(cat *models.Category, ref int) (*models.Assignment, error) {
	if ref < 0 || ref >= len(cat.Grades) {
		return nil, refOutOfRange(ref, len(cat.Grades))
	}
	return cat.Grades[ref], nil
}

// resolveRefs checks every reference before anything is changed. Repeated
// references select the same assignment once.
func resolveRefs(cat *models.Category, refs []int) (map[*models.Assignment]bool, error) {
	if len(refs) == 0 {
		return nil, NewGradebookError("select", ErrEmptySelection, "select at least one assignment", nil)
	}

	selected := make(map[*models.Assignment]bool, len(refs))
	for _, ref := range refs {
		a, err := assignmentAt(cat, ref)
		if err != nil {
			return nil, err
		}
		selected[a] = true
	}
	return selected, nil
}

func removeSelected(grades []*models.Assignment, selected map[*models.Assignment]bool) []*models.Assignment {
	kept := make([]*models.Assignment, 0, len(grades))
	for _, a := range grades {
		if !selected[a] {
			kept = append(kept, a)
		}
	}
	return kept
}

// ===== DERIVED VALUES =====

func (s *gradebookService) recomputeCourse(course *models.Course) {
	course.Categories.Each(func(_ string, cat *models.Category) {
		s.recomputeCategory(cat)
	})
}

func (s *gradebookService) recomputeCategory(cat *models.Category) {
	for _, a := range cat.Grades {
		a.Grade = scoring.AssignmentGrade(a)
	}

	numDrops := 0
	if s.options.DropLowest {
		numDrops = cat.NumDrops
	}

	if avg, ok := scoring.CategoryAverage(cat.Grades, numDrops); ok {
		cat.Average = &avg
	} else {
		cat.Average = nil
	}
}

// ===== PERSISTENCE =====

// persist writes the whole gradebook. Failures are downgraded to a warning and
// the in-memory gradebook stays authoritative.
func (s *gradebookService) persist(ctx context.Context, operation string) {
	data, err := s.codec.Encode(s.gradebook)
	if err == nil {
		err = s.store.Set(ctx, s.options.StorageKey, string(data))
	}

	if err != nil {
		err = storageError(operation, err)
		s.lastPersistErr = err
		s.opLogger.LogStorageWarning(ctx, operation, len(data), err)
		s.publish(ctx, events.EventPersistFailed, events.PersistFailedEvent{
			Operation: operation,
			Reason:    err.Error(),
		})
		return
	}

	s.lastPersistErr = nil
	s.publish(ctx, events.EventGradebookSaved, events.GradebookSavedEvent{
		Operation:   operation,
		CourseCount: len(s.gradebook.Courses),
		Bytes:       len(data),
	})
}

func (s *gradebookService) publish(ctx context.Context, eventType events.EventType, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", "event_type", eventType, "error", err)
	}
}

// ===== ERROR CONSTRUCTORS =====

func storageError(op string, err error) error {
	sentinel := ErrStorageUnavailable
	if errors.Is(err, storage.ErrQuotaExceeded) {
		sentinel = ErrQuotaExceeded
	}
	return &GradebookError{
		Op:  op,
		Err: fmt.Errorf("%w: %w", sentinel, err),
	}
}

func duplicateCategory(op, name string) error {
	return NewGradebookError(op, ErrDuplicateCategory, fmt.Sprintf("%q already exists", name), map[string]interface{}{
		"category": name,
	})
}

func unknownCategory(op, name string) error {
	return NewGradebookError(op, ErrUnknownCategory, fmt.Sprintf("%q does not exist", name), map[string]interface{}{
		"category": name,
	})
}

func refOutOfRange(ref, count int) error {
	return NewGradebookError("assignment", ErrIndexOutOfRange, fmt.Sprintf("no assignment at index %d", ref), map[string]interface{}{
		"ref":   ref,
		"count": count,
	})
}

// ===== SORTING =====

func sortAssignments(grades []*models.Assignment, key models.SortKey) {
	var compare func(a, b *models.Assignment) int
	switch key {
	case models.SortNameAsc:
		compare = func(a, b *models.Assignment) int { return naturalCompare(a.Name, b.Name) }
	case models.SortNameDesc:
		compare = func(a, b *models.Assignment) int { return naturalCompare(b.Name, a.Name) }
	case models.SortGradeAsc:
		compare = func(a, b *models.Assignment) int { return cmp.Compare(a.Grade, b.Grade) }
	case models.SortGradeDesc:
		compare = func(a, b *models.Assignment) int { return cmp.Compare(b.Grade, a.Grade) }
	default:
		return
	}
	slices.SortStableFunc(grades, compare)
}

// naturalCompare orders names case-insensitively with digit runs compared by
// value, so "Quiz 2" sorts before "Quiz 10".
func naturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		ca, cb := chunk(a), chunk(b)
		a, b = a[len(ca):], b[len(cb):]

		if isDigits(ca) && isDigits(cb) {
			if c := compareDigits(ca, cb); c != 0 {
				return c
			}
			continue
		}
		if c := strings.Compare(ca, cb); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func chunk(s string) string {
	digit := isDigit(s[0])
	for i := 1; i < len(s); i++ {
		if isDigit(s[i]) != digit {
			return s[:i]
		}
	}
	return s
}

func isDigits(s string) bool {
	return s != "" && isDigit(s[0])
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
