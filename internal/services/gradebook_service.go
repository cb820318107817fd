package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/gradebook/internal/events"
	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/SAP-F-2025/gradebook/internal/scoring"
	"github.com/SAP-F-2025/gradebook/internal/storage"
	"github.com/SAP-F-2025/gradebook/internal/validator"
)

// GradebookService owns the in-memory gradebook. Every mutation validates
// completely before touching state, recomputes the affected averages and then
// persists the whole gradebook. Persistence failures never fail a mutation;
// they are logged and reported through LastPersistError.
type GradebookService interface {
	// Lifecycle
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	LastPersistError() error

	// Queries
	Courses() []*models.Course
	Course(index int) (*models.Course, error)
	CourseAverage(index int) (float64, error)

	// Course operations
	ImportCourse(ctx context.Context, name string, credits float64, raw []byte) (*models.Course, error)
	DeleteCourse(ctx context.Context, index int) error

	// Category operations
	AddCategory(ctx context.Context, course int, name string, weight *float64, numDrops int) error
	EditCategory(ctx context.Context, course int, oldName, newName string, weight *float64, numDrops int) error
	DeleteCategory(ctx context.Context, course int, name string) error

	// Assignment operations
	AddAssignment(ctx context.Context, course int, category string, assignment *models.Assignment) error
	EditAssignment(ctx context.Context, course int, category string, ref int, patch models.AssignmentPatch) error
	DeleteAssignments(ctx context.Context, course int, category string, refs []int) error
	MoveAssignments(ctx context.Context, course int, from, to string, refs []int) error
	SortAssignments(ctx context.Context, course int, category string, key models.SortKey) error

	// What-if simulation, never persisted by itself
	SetWhatIf(ctx context.Context, course int, category string, ref int, points float64) error
	ClearWhatIf(ctx context.Context, course int, category string, ref int) error
	ClearAllWhatIf(ctx context.Context)

	// Dispatch runs a user command
	Dispatch(ctx context.Context, cmd Command) error
}

// GradebookOptions configures storage and scoring behaviour.
type GradebookOptions struct {
	StorageKey    string
	DropLowest    bool
	PersistWhatIf bool
}

type gradebookService struct {
	gradebook *models.Gradebook
	store     storage.BlobStore
	publisher events.EventPublisher
	codec     Codec
	options   GradebookOptions

	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator

	lastPersistErr error
}

func NewGradebookService(store storage.BlobStore, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, options GradebookOptions) GradebookService {
	if options.StorageKey == "" {
		options.StorageKey = "courses"
	}
	return &gradebookService{
		gradebook: models.NewGradebook(),
		store:     store,
		publisher: publisher,
		codec:     Codec{IncludeWhatIf: options.PersistWhatIf},
		options:   options,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "gradebook", Component: "gradebook_service"}),
		validator: validator,
	}
}

// ===== LIFECYCLE =====

func (s *gradebookService) Load(ctx context.Context) (err error) {
	op := s.opLogger.WithOperation(ctx, "load")
	defer func() { op.LogResult(err) }()

	s.gradebook = models.NewGradebook()

	data, found, err := s.store.Get(ctx, s.options.StorageKey)
	if err != nil {
		err = storageError("load", err)
		s.lastPersistErr = err
		return err
	}
	if !found {
		s.logger.Info("No saved gradebook, starting empty", "key", s.options.StorageKey)
		return nil
	}

	courses, decodeErr := s.codec.Decode([]byte(data))
	if decodeErr != nil {
		return NewGradebookError("load", ErrMalformedStorage, decodeErr.Error(), map[string]interface{}{
			"key":   s.options.StorageKey,
			"bytes": len(data),
		})
	}

	for _, c := range courses {
		s.recomputeCourse(c)
	}
	s.gradebook.Courses = courses

	s.logger.Info("Gradebook loaded", "courses", len(courses), "bytes", len(data))
	return nil
}

func (s *gradebookService) Save(ctx context.Context) error {
	s.persist(ctx, "save")
	return s.lastPersistErr
}

func (s *gradebookService) LastPersistError() error {
	return s.lastPersistErr
}

// ===== QUERIES =====

func (s *gradebookService) Courses() []*models.Course {
	return s.gradebook.Courses
}

func (s *gradebookService) Course(index int) (*models.Course, error) {
	return s.course(index)
}

func (s *gradebookService) CourseAverage(index int) (float64, error) {
	course, err := s.course(index)
	if err != nil {
		return 0, err
	}
	return scoring.CourseAverage(course), nil
}

// ===== COURSE OPERATIONS =====

func (s *gradebookService) ImportCourse(ctx context.Context, name string, credits float64, raw []byte) (course *models.Course, err error) {
	op := s.opLogger.WithOperation(ctx, "import_course")
	defer func() { op.LogResult(err, "course", name) }()

	categories, decodeErr := s.codec.DecodeCategories(raw)
	if decodeErr != nil {
		return nil, NewGradebookError("import_course", ErrMalformedImport, decodeErr.Error(), map[string]interface{}{
			"course": name,
		})
	}

	course = models.NewCourse(name, credits)
	course.Categories = categories
	s.recomputeCourse(course)

	assignments := 0
	categories.Each(func(_ string, cat *models.Category) {
		for _, a := range cat.Grades {
			a.DisplayGrade = scoring.ImportDisplayGrade(a.ActualPoints, a.PossiblePoints)
			assignments++
		}
	})

	s.gradebook.Courses = append(s.gradebook.Courses, course)
	s.persist(ctx, "import_course")

	s.publish(ctx, events.EventCourseImported, events.CourseImportedEvent{
		CourseName:      name,
		Credits:         credits,
		CategoryCount:   categories.Len(),
		AssignmentCount: assignments,
	})

	return course, nil
}

func (s *gradebookService) DeleteCourse(ctx context.Context, index int) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_course")
	defer func() { op.LogResult(err, "course_index", index) }()

	course, err := s.course(index)
	if err != nil {
		return err
	}

	courses := s.gradebook.Courses
	s.gradebook.Courses = append(courses[:index:index], courses[index+1:]...)
	s.persist(ctx, "delete_course")

	s.publish(ctx, events.EventCourseDeleted, events.CourseDeletedEvent{
		CourseName: course.Name,
		Index:      index,
	})
	return nil
}

// ===== CATEGORY OPERATIONS =====

func (s *gradebookService) AddCategory(ctx context.Context, courseIndex int, name string, weight *float64, numDrops int) (err error) {
	op := s.opLogger.WithOperation(ctx, "add_category")
	defer func() { op.LogResult(err, "category", name) }()

	if err := s.validator.ValidateStruct(&categorySettings{Name: name, NumDrops: numDrops}); err != nil {
		return err
	}

	course, err := s.course(courseIndex)
	if err != nil {
		return err
	}
	if course.Categories.Has(name) {
		return duplicateCategory("add_category", name)
	}

	course.Categories.Set(name, models.NewCategory(weight, numDrops))
	s.persist(ctx, "add_category")
	return nil
}

// EditCategory renames a category in place and replaces its weight and drops.
// The grades slice is carried over unchanged.
func (s *gradebookService) EditCategory(ctx context.Context, courseIndex int, oldName, newName string, weight *float64, numDrops int) (err error) {
	op := s.opLogger.WithOperation(ctx, "edit_category")
	defer func() { op.LogResult(err, "category", oldName, "new_name", newName) }()

	if err := s.validator.ValidateStruct(&categorySettings{Name: newName, NumDrops: numDrops}); err != nil {
		return err
	}

	course, cat, err := s.category(courseIndex, oldName)
	if err != nil {
		return err
	}
	if newName != oldName {
		if !course.Categories.RenameKey(oldName, newName) {
			return duplicateCategory("edit_category", newName)
		}
	}

	cat.Weight = weight
	cat.NumDrops = numDrops
	s.recomputeCategory(cat)
	s.persist(ctx, "edit_category")
	return nil
}

// DeleteCategory removes the category and discards its assignments.
func (s *gradebookService) DeleteCategory(ctx context.Context, courseIndex int, name string) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_category")
	defer func() { op.LogResult(err, "category", name) }()

	course, cat, err := s.category(courseIndex, name)
	if err != nil {
		return err
	}

	course.Categories.Delete(name)
	s.persist(ctx, "delete_category")

	s.logger.Info("Category deleted", "course", course.Name, "category", name, "discarded_assignments", len(cat.Grades))
	return nil
}

// ===== ASSIGNMENT OPERATIONS =====

func (s *gradebookService) AddAssignment(ctx context.Context, courseIndex int, category string, assignment *models.Assignment) (err error) {
	op := s.opLogger.WithOperation(ctx, "add_assignment")
	defer func() { op.LogResult(err, "category", category) }()

	if assignment == nil {
		return ValidationErrors{*NewValidationError("assignment", "is required", nil)}
	}

	_, cat, err := s.category(courseIndex, category)
	if err != nil {
		return err
	}

	cat.Grades = append(cat.Grades, assignment)
	s.recomputeCategory(cat)
	s.persist(ctx, "add_assignment")
	return nil
}

func (s *gradebookService) EditAssignment(ctx context.Context, courseIndex int, category string, ref int, patch models.AssignmentPatch) (err error) {
	op := s.opLogger.WithOperation(ctx, "edit_assignment")
	defer func() { op.LogResult(err, "category", category, "ref", ref) }()

	_, cat, err := s.category(courseIndex, category)
	if err != nil {
		return err
	}
	assignment, err := assignmentAt(cat, ref)
	if err != nil {
		return err
	}

	patch.Apply(assignment)
	s.recomputeCategory(cat)
	s.persist(ctx, "edit_assignment")
	return nil
}

func (s *gradebookService) DeleteAssignments(ctx context.Context, courseIndex int, category string, refs []int) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_assignments")
	defer func() { op.LogResult(err, "category", category, "count", len(refs)) }()

	_, cat, err := s.category(courseIndex, category)
	if err != nil {
		return err
	}
	selected, err := resolveRefs(cat, refs)
	if err != nil {
		return err
	}

	cat.Grades = removeSelected(cat.Grades, selected)
	s.recomputeCategory(cat)
	s.persist(ctx, "delete_assignments")
	return nil
}

// MoveAssignments detaches the referenced assignments from one category and
// appends them to another, keeping their relative order. The batch persists once.
func (s *gradebookService) MoveAssignments(ctx context.Context, courseIndex int, from, to string, refs []int) (err error) {
	op := s.opLogger.WithOperation(ctx, "move_assignments")
	defer func() { op.LogResult(err, "from", from, "to", to, "count", len(refs)) }()

	course, source, err := s.category(courseIndex, from)
	if err != nil {
		return err
	}
	dest, ok := course.Category(to)
	if !ok {
		return unknownCategory("move_assignments", to)
	}
	selected, err := resolveRefs(source, refs)
	if err != nil {
		return err
	}

	moved := make([]*models.Assignment, 0, len(selected))
	for _, a := range source.Grades {
		if selected[a] {
			moved = append(moved, a)
		}
	}

	source.Grades = removeSelected(source.Grades, selected)
	dest.Grades = append(dest.Grades, moved...)

	s.recomputeCategory(source)
	s.recomputeCategory(dest)
	s.persist(ctx, "move_assignments")
	return nil
}

func (s *gradebookService) SortAssignments(ctx context.Context, courseIndex int, category string, key models.SortKey) (err error) {
	op := s.opLogger.WithOperation(ctx, "sort_assignments")
	defer func() { op.LogResult(err, "category", category, "key", key) }()

	if err := s.validator.ValidateStruct(&sortRequest{Key: string(key)}); err != nil {
		return err
	}

	_, cat, err := s.category(courseIndex, category)
	if err != nil {
		return err
	}

	sortAssignments(cat.Grades, key)
	s.persist(ctx, "sort_assignments")
	return nil
}

// ===== WHAT-IF =====

func (s *gradebookService) SetWhatIf(ctx context.Context, courseIndex int, category string, ref int, points float64) error {
	_, cat, err := s.category(courseIndex, category)
	if err != nil {
		return err
	}
	assignment, err := assignmentAt(cat, ref)
	if err != nil {
		return err
	}

	assignment.HypotheticalPoints = &points
	s.recomputeCategory(cat)

	s.logger.DebugContext(ctx, "What-if points set", "category", category, "ref", ref, "points", points)
	return nil
}

func (s *gradebookService) ClearWhatIf(ctx context.Context, courseIndex int, category string, ref int) error {
	_, cat, err := s.category(courseIndex, category)
	if err != nil {
		return err
	}
	assignment, err := assignmentAt(cat, ref)
	if err != nil {
		return err
	}

	assignment.HypotheticalPoints = nil
	s.recomputeCategory(cat)
	return nil
}

func (s *gradebookService) ClearAllWhatIf(ctx context.Context) {
	cleared := 0
	for _, course := range s.gradebook.Courses {
		course.Categories.Each(func(_ string, cat *models.Category) {
			changed := false
			for _, a := range cat.Grades {
				if a.HasWhatIf() {
					a.HypotheticalPoints = nil
					changed = true
					cleared++
				}
			}
			if changed {
				s.recomputeCategory(cat)
			}
		})
	}
	s.logger.DebugContext(ctx, "What-if points cleared", "count", cleared)
}

// ===== COMMANDS =====

func (s *gradebookService) Dispatch(ctx context.Context, cmd Command) error {
	var run func() error

	switch c := cmd.(type) {
	case *AddAssignmentCommand:
		run = func() error {
			return s.AddAssignment(ctx, c.CourseIndex, c.Category, &models.Assignment{
				Name:           c.Name,
				ActualPoints:   c.ActualPoints,
				PossiblePoints: c.PossiblePoints,
			})
		}
	case *ChangeCategoryCommand:
		run = func() error { return s.MoveAssignments(ctx, c.CourseIndex, c.From, c.To, c.Refs) }
	case *DeleteAssignmentsCommand:
		run = func() error { return s.DeleteAssignments(ctx, c.CourseIndex, c.Category, c.Refs) }
	case *EditCategoryCommand:
		run = func() error { return s.EditCategory(ctx, c.CourseIndex, c.OldName, c.NewName, c.Weight, c.NumDrops) }
	case *DeleteCategoryCommand:
		run = func() error { return s.DeleteCategory(ctx, c.CourseIndex, c.Name) }
	default:
		return NewGradebookError("dispatch", ErrUnknownCommand, fmt.Sprintf("%T", cmd), nil)
	}

	if err := s.validator.ValidateStruct(cmd); err != nil {
		return err
	}
	return run()
}
