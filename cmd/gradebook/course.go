package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	importName    string
	importCredits float64
	exportCourses []int
)

var importCmd = &cobra.Command{
	Use:   "import [file.json|file.xlsx]",
	Short: "Import a course from a course-data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, err := app.importExport.ImportCourseFile(cmd.Context(), args[0], importName, importCredits)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported '%s' with %d categories\n", course.Name, course.Categories.Len())
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses with their weighted averages",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		renderCourses(cmd.OutOrStdout(), app.gradebook.Courses())
	},
}

var showCmd = &cobra.Command{
	Use:   "show [course]",
	Short: "Show the categories and assignments of a course",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for i, course := range app.gradebook.Courses() {
				renderCourse(cmd.OutOrStdout(), i, course)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		}

		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		course, err := app.gradebook.Course(index)
		if err != nil {
			return err
		}
		renderCourse(cmd.OutOrStdout(), index, course)
		return nil
	},
}

var deleteCourseCmd = &cobra.Command{
	Use:   "delete-course [course]",
	Short: "Delete a course and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0], "course")
		if err != nil {
			return err
		}
		course, err := app.gradebook.Course(index)
		if err != nil {
			return err
		}
		if err := app.gradebook.DeleteCourse(cmd.Context(), index); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted '%s'\n", course.Name)
		app.warnIfUnsaved(cmd)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [report.xlsx]",
	Short: "Export a grade report workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		indexes := make([]int, 0, len(exportCourses))
		for _, n := range exportCourses {
			indexes = append(indexes, n-1)
		}

		data, err := app.importExport.ExportCoursesToExcel(cmd.Context(), indexes)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "📄 Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, listCmd, showCmd, deleteCourseCmd, exportCmd)

	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Course name (defaults to the file name)")
	importCmd.Flags().Float64VarP(&importCredits, "credits", "c", 0, "Course credits")

	exportCmd.Flags().IntSliceVar(&exportCourses, "course", nil, "Course numbers to export (default all)")
}
