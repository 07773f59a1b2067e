package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dexbench/internal/config"
	"dexbench/internal/task"
	"dexbench/pkg/dexbench"
)

var (
	flagTask         string
	flagEpisodes     int
	flagWorkers      int
	flagSeed         int64
	flagFrequency    float64
	flagStoreKind    string
	flagDBPath       string
	flagArtifactsDir string
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run a benchmark campaign and summarize its episodes",
		RunE:  runEvaluate,
	}
	cmd.Flags().StringVar(&flagTask, "task", "", "benchmark task name")
	cmd.Flags().IntVar(&flagEpisodes, "episodes", 0, "episode count")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel episode workers")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "base random seed; episode i uses seed+i")
	cmd.Flags().Float64Var(&flagFrequency, "frequency", 0, "control frequency in Hz")
	cmd.Flags().StringVar(&flagStoreKind, "store", "", "persistence backend (memory|sqlite)")
	cmd.Flags().StringVar(&flagDBPath, "db", "", "sqlite database path")
	cmd.Flags().StringVar(&flagArtifactsDir, "artifacts", "", "artifacts output directory")
	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagTask != "" {
		cfg.Task = flagTask
	}
	if flagEpisodes > 0 {
		cfg.Episodes = flagEpisodes
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	if flagFrequency > 0 {
		cfg.ControlFrequency = flagFrequency
	}
	if flagStoreKind != "" {
		cfg.Store.Kind = flagStoreKind
	}
	if flagDBPath != "" {
		cfg.Store.Path = flagDBPath
	}
	if flagArtifactsDir != "" {
		cfg.ArtifactsDir = flagArtifactsDir
	}

	tk, ok := task.ByName(cfg.Task)
	if !ok {
		return fmt.Errorf("unknown task %q", cfg.Task)
	}
	tracking := cfg.MetricsConfig(tk)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Evaluate(cmd.Context(), dexbench.EvaluateRequest{
		Task:             cfg.Task,
		Episodes:         cfg.Episodes,
		Workers:          cfg.Workers,
		Seed:             cfg.Seed,
		ControlFrequency: cfg.ControlFrequency,
		Tracking:         &tracking,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", summary.RunID)
	fmt.Fprintf(out, "artifacts: %s\n", summary.ArtifactsDir)
	printSummary(out, summary.Summary)
	return nil
}

func loadConfig() (config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

func newClient(cfg config.Config) (*dexbench.Client, error) {
	return dexbench.New(dexbench.Options{
		StoreKind:    cfg.Store.Kind,
		DBPath:       cfg.Store.Path,
		ArtifactsDir: cfg.ArtifactsDir,
	})
}
