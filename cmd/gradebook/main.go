package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// app is built once per invocation by the root command
var app *application

var rootCmd = &cobra.Command{
	Use:   "gradebook",
	Short: "Track weighted course grades",
	Long: `Gradebook keeps per-course categories and assignments, computes weighted
averages and lets you try what-if scores without touching your real ones.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = newApplication(cmd.Context())
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	os.Exit(run(context.Background()))
}

// run executes the root command and returns the exit code. The application is
// closed whether or not the command failed.
func run(ctx context.Context) int {
	defer func() {
		if app != nil {
			app.Close()
		}
	}()

	start := time.Now()
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if app != nil {
		app.logCommand(cmd, time.Since(start), err)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
