package main

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/SAP-F-2025/gradebook/internal/scoring"
	"github.com/SAP-F-2025/gradebook/internal/services"
	"github.com/spf13/cobra"
)

var (
	editName     string
	editActual   float64
	editPossible float64
	whatIfSave   bool
)

var assignmentCmd = &cobra.Command{
	Use:     "assignment",
	Aliases: []string{"a"},
	Short:   "Add, edit, delete, move or sort assignments",
}

var addAssignmentCmd = &cobra.Command{
	Use:   "add [course] [category] [name] [actual] [possible]",
	Short: "Add an assignment to a category",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		actual, err := parsePoints(args[3], "actual points")
		if err != nil {
			return err
		}
		possible, err := parsePoints(args[4], "possible points")
		if err != nil {
			return err
		}

		err = app.gradebook.Dispatch(cmd.Context(), &services.AddAssignmentCommand{
			CourseIndex:    index,
			Category:       args[1],
			Name:           args[2],
			ActualPoints:   actual,
			PossiblePoints: possible,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added '%s' to %s\n", args[2], args[1])
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var editAssignmentCmd = &cobra.Command{
	Use:   "edit [course] [category] [assignment]",
	Short: "Change the name or points of an assignment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		ref, err := parsePosition(args[2], "assignment")
		if err != nil {
			return err
		}

		var patch models.AssignmentPatch
		if cmd.Flags().Changed("name") {
			patch.Name = &editName
		}
		if cmd.Flags().Changed("actual") {
			patch.ActualPoints = &editActual
		}
		if cmd.Flags().Changed("possible") {
			patch.PossiblePoints = &editPossible
		}

		if err := app.gradebook.EditAssignment(cmd.Context(), index, args[1], ref, patch); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✏️  Assignment updated")
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var deleteAssignmentsCmd = &cobra.Command{
	Use:   "delete [course] [category] [assignment...]",
	Short: "Delete one or more assignments",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		refs, err := parsePositions(args[2:], "assignment")
		if err != nil {
			return err
		}

		err = app.gradebook.Dispatch(cmd.Context(), &services.DeleteAssignmentsCommand{
			CourseIndex: index,
			Category:    args[1],
			Refs:        refs,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted %d assignment(s) from %s\n", len(refs), args[1])
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var moveAssignmentsCmd = &cobra.Command{
	Use:   "move [course] [from] [to] [assignment...]",
	Short: "Move assignments to another category",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		refs, err := parsePositions(args[3:], "assignment")
		if err != nil {
			return err
		}

		err = app.gradebook.Dispatch(cmd.Context(), &services.ChangeCategoryCommand{
			CourseIndex: index,
			From:        args[1],
			To:          args[2],
			Refs:        refs,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "➡️  Moved %d assignment(s) from %s to %s\n", len(refs), args[1], args[2])
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var sortAssignmentsCmd = &cobra.Command{
	Use:       "sort [course] [category] [nameAsc|nameDesc|gradeAsc|gradeDesc]",
	Short:     "Reorder the assignments of a category",
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{string(models.SortNameAsc), string(models.SortNameDesc), string(models.SortGradeAsc), string(models.SortGradeDesc)},
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		if err := app.gradebook.SortAssignments(cmd.Context(), index, args[1], models.SortKey(args[2])); err != nil {
			return err
		}

		app.warnIfUnsaved(cmd)
		course, _ := app.gradebook.Course(index)
		renderCourse(cmd.OutOrStdout(), index, course)
		return nil
	},
}

var whatIfCmd = &cobra.Command{
	Use:   "whatif [course] [category] [assignment=points|clear...]",
	Short: "Preview averages with hypothetical points",
	Example: `  gradebook whatif 1 Exams 2=95
  gradebook whatif 1 Quizzes 1=10 3=8
  gradebook whatif 1 Quizzes 1=clear --save`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		course, err := app.gradebook.Course(index)
		if err != nil {
			return err
		}
		before := scoring.CourseAverage(course)

		for _, pair := range args[2:] {
			refArg, pointsArg, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("expected assignment=points, got %q", pair)
			}
			ref, err := parsePosition(refArg, "assignment")
			if err != nil {
				return err
			}
			if pointsArg == "clear" {
				if err := app.gradebook.ClearWhatIf(cmd.Context(), index, args[1], ref); err != nil {
					return err
				}
				continue
			}
			points, err := parsePoints(pointsArg, "points")
			if err != nil {
				return err
			}
			if err := app.gradebook.SetWhatIf(cmd.Context(), index, args[1], ref, points); err != nil {
				return err
			}
		}

		renderCourse(cmd.OutOrStdout(), index, course)
		fmt.Fprintf(cmd.OutOrStdout(), "\n🔮 %s → %s\n",
			scoring.DisplayPercent(before), scoring.DisplayPercent(scoring.CourseAverage(course)))

		if whatIfSave {
			if !app.cfg.Scoring.PersistWhatIf {
				cmd.PrintErrln("⚠️  PERSIST_WHAT_IF is off, hypothetical points are not stored")
			}
			if err := app.gradebook.Save(cmd.Context()); err != nil {
				cmd.PrintErrln("⚠️  Changes were not saved:", err)
			}
		}
		return nil
	},
}

var clearWhatIfCmd = &cobra.Command{
	Use:   "clear-whatif",
	Short: "Remove every hypothetical score and save",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.gradebook.ClearAllWhatIf(cmd.Context())
		if err := app.gradebook.Save(cmd.Context()); err != nil {
			cmd.PrintErrln("⚠️  Changes were not saved:", err)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🧹 Cleared all what-if scores")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignmentCmd, whatIfCmd, clearWhatIfCmd)
	assignmentCmd.AddCommand(addAssignmentCmd, editAssignmentCmd, deleteAssignmentsCmd, moveAssignmentsCmd, sortAssignmentsCmd)

	editAssignmentCmd.Flags().StringVar(&editName, "name", "", "New assignment name")
	editAssignmentCmd.Flags().Float64Var(&editActual, "actual", 0, "New actual points")
	editAssignmentCmd.Flags().Float64Var(&editPossible, "possible", 0, "New possible points")

	whatIfCmd.Flags().BoolVar(&whatIfSave, "save", false, "Save the gradebook afterwards (needs PERSIST_WHAT_IF=true to keep the scores)")
}
