package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dexbenchctl",
		Short:         "Benchmark harness for bimanual manipulation policies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (YAML)")
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newTasksCmd())
	root.AddCommand(newValidateCmd())
	return root
}
