package services

// CommandKind names the user actions available on a selection of assignments
// or on a category.
type CommandKind string

const (
	CommandAddAssignment     CommandKind = "add_assignment"
	CommandChangeCategory    CommandKind = "change_category"
	CommandDeleteAssignments CommandKind = "delete_assignments"
	CommandEditCategory      CommandKind = "edit_category"
	CommandDeleteCategory    CommandKind = "delete_category"
)

// Command is one user action. Commands are passed by pointer and executed by
// GradebookService.Dispatch.
type Command interface {
	Kind() CommandKind
}

// AddAssignmentCommand appends a new assignment to a category.
type AddAssignmentCommand struct {
	CourseIndex    int     `json:"courseIndex"`
	Category       string  `json:"category" validate:"category_name"`
	Name           string  `json:"name"`
	ActualPoints   float64 `json:"actualPoints"`
	PossiblePoints float64 `json:"possiblePoints"`
}

// ChangeCategoryCommand moves the selected assignments to another category.
type ChangeCategoryCommand struct {
	CourseIndex int    `json:"courseIndex"`
	From        string `json:"from" validate:"category_name"`
	To          string `json:"to" validate:"category_name"`
	Refs        []int  `json:"refs"`
}

// DeleteAssignmentsCommand removes the selected assignments.
type DeleteAssignmentsCommand struct {
	CourseIndex int    `json:"courseIndex"`
	Category    string `json:"category" validate:"category_name"`
	Refs        []int  `json:"refs"`
}

// EditCategoryCommand renames a category and updates its weight and drops.
type EditCategoryCommand struct {
	CourseIndex int      `json:"courseIndex"`
	OldName     string   `json:"oldName" validate:"category_name"`
	NewName     string   `json:"newName" validate:"category_name"`
	Weight      *float64 `json:"weight"`
	NumDrops    int      `json:"numDrops" validate:"gte=0"`
}

// DeleteCategoryCommand removes a category together with its assignments.
type DeleteCategoryCommand struct {
	CourseIndex int    `json:"courseIndex"`
	Name        string `json:"name" validate:"category_name"`
}

func (*AddAssignmentCommand) Kind() CommandKind     { return CommandAddAssignment }
func (*ChangeCategoryCommand) Kind() CommandKind    { return CommandChangeCategory }
func (*DeleteAssignmentsCommand) Kind() CommandKind { return CommandDeleteAssignments }
func (*EditCategoryCommand) Kind() CommandKind      { return CommandEditCategory }
func (*DeleteCategoryCommand) Kind() CommandKind    { return CommandDeleteCategory }
