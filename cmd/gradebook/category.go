package main

import (
	"fmt"

	"github.com/SAP-F-2025/gradebook/internal/services"
	"github.com/spf13/cobra"
)

var (
	categoryWeight float64
	categoryDrops  int
	categoryRename string
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Add, edit or delete the categories of a course",
}

var addCategoryCmd = &cobra.Command{
	Use:   "add [course] [name]",
	Short: "Add an empty category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}

		var weight *float64
		if cmd.Flags().Changed("weight") {
			weight = &categoryWeight
		}
		if err := app.gradebook.AddCategory(cmd.Context(), index, args[1], weight, categoryDrops); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added category '%s'\n", args[1])
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var editCategoryCmd = &cobra.Command{
	Use:   "edit [course] [name]",
	Short: "Rename a category or change its weight and drops",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}

		command := &services.EditCategoryCommand{
			CourseIndex: index,
			OldName:     args[1],
			NewName:     args[1],
		}

		// Unset flags keep the current values
		if course, err := app.gradebook.Course(index); err == nil {
			if cat, ok := course.Category(args[1]); ok {
				command.Weight = cat.Weight
				command.NumDrops = cat.NumDrops
			}
		}
		if cmd.Flags().Changed("rename") {
			command.NewName = categoryRename
		}
		if cmd.Flags().Changed("weight") {
			command.Weight = &categoryWeight
		}
		if cmd.Flags().Changed("drops") {
			command.NumDrops = categoryDrops
		}

		if err := app.gradebook.Dispatch(cmd.Context(), command); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated category '%s'\n", command.NewName)
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var deleteCategoryCmd = &cobra.Command{
	Use:   "delete [course] [name]",
	Short: "Delete a category together with its assignments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}

		err = app.gradebook.Dispatch(cmd.Context(), &services.DeleteCategoryCommand{
			CourseIndex: index,
			Name:        args[1],
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted category '%s'\n", args[1])
		app.warnIfUnsaved(cmd)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(addCategoryCmd, editCategoryCmd, deleteCategoryCmd)

	for _, c := range []*cobra.Command{addCategoryCmd, editCategoryCmd} {
		c.Flags().Float64VarP(&categoryWeight, "weight", "w", 0, "Weight in percent of the course grade")
		c.Flags().IntVarP(&categoryDrops, "drops", "d", 0, "Number of lowest grades to drop")
	}
	editCategoryCmd.Flags().StringVarP(&categoryRename, "rename", "r", "", "New category name")
}
