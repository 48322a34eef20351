package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the jobportal root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobportal",
		Short:         "Job Portal backend",
		Long:          "HTTP API, chat socket and hiring notifications for the Job Portal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
