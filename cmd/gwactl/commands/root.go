// Package commands implements the gwactl command line client.
package commands

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Each call returns a fresh tree so
// tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gwactl",
		Short:        "Classify grade averages and render GWA charts",
		SilenceUsage: true,
	}

	root.AddCommand(classifyCmd(), renderCmd(), dashboardCmd())
	return root
}
