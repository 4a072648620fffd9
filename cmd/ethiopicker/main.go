package main

import (
	"os"

	"github.com/spf13/cobra"

	appLog "ethiopicker/internal/log"

	_ "time/tzdata"
)

const version = "0.1.0"

func main() {
	os.Exit(run(newRootCommand()))
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ethiopicker",
		Short:         "Ethiopian/Gregorian date and time selector",
		Long:          "ethiopicker serves date/time selector widgets that edit one instant in either the Gregorian or the Ethiopian calendar.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newSnapshotCommand())
	return rootCmd
}

// run executes cmd and returns the process exit code. The logger is
// flushed last so a failure is logged before the flush.
func run(cmd *cobra.Command) int {
	code := 0
	if err := cmd.Execute(); err != nil {
		appLog.Error("command failed", err)
		code = 1
	}
	_ = appLog.Sync()
	return code
}
