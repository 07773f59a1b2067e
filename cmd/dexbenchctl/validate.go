package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dexbench/internal/config"
	"dexbench/internal/metrics"
	"dexbench/internal/task"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a config file without running anything",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	tk, ok := task.ByName(cfg.Task)
	if !ok {
		return fmt.Errorf("unknown task %q", cfg.Task)
	}

	// Allocating a rollout surfaces tracking-config errors the YAML
	// validation cannot see, like coordination on a single arm.
	if _, err := metrics.NewRollout(cfg.MetricsConfig(tk), 0); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (task %s, %d episodes, %d workers)\n",
		cfgFile, cfg.Task, cfg.Episodes, cfg.Workers)
	return nil
}
