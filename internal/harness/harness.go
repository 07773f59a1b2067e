// Package harness fans a benchmark run out over a bounded worker pool.
// Each worker drives complete episodes with its own rollout; workers
// share nothing but the jobs channel and write results into
// pre-indexed slots.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dexbench/internal/metrics"
	"dexbench/internal/model"
	"dexbench/internal/storage"
	"dexbench/internal/task"
)

const (
	DefaultEpisodes = 10
	DefaultWorkers  = 4
)

// Config parameterizes one benchmark run.
type Config struct {
	RunID            string
	Task             task.Task
	Episodes         int
	Workers          int
	Seed             int64
	ControlFrequency float64
	Tracking         metrics.TrackingConfig

	// Store receives episode records as they complete. Nil disables
	// persistence.
	Store storage.Store
}

// Result is the outcome of a full run, episodes ordered by index.
type Result struct {
	RunID    string
	Episodes []model.EpisodeRecord
}

func (c *Config) withDefaults() error {
	if c.Task == nil {
		return errors.New("task is required")
	}
	if c.RunID == "" {
		return errors.New("run id is required")
	}
	if c.Episodes < 0 {
		return fmt.Errorf("episodes must be non-negative, got %d", c.Episodes)
	}
	if c.Episodes == 0 {
		c.Episodes = DefaultEpisodes
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Workers > c.Episodes {
		c.Workers = c.Episodes
	}
	if c.ControlFrequency <= 0 {
		c.ControlFrequency = task.DefaultControlFrequency
	}
	return nil
}

// Run executes cfg.Episodes episodes of cfg.Task across cfg.Workers
// goroutines. Episode i is seeded with cfg.Seed+i so a run is
// reproducible regardless of worker scheduling.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.withDefaults(); err != nil {
		return Result{}, err
	}

	episodes := make([]model.EpisodeRecord, cfg.Episodes)
	errs := make([]error, cfg.Episodes)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				episodes[index], errs[index] = runEpisode(ctx, cfg, index)
			}
		}()
	}

dispatch:
	for index := 0; index < cfg.Episodes; index++ {
		select {
		case jobs <- index:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("run %s interrupted: %w", cfg.RunID, err)
	}
	for index, err := range errs {
		if err != nil {
			return Result{}, fmt.Errorf("episode %d of run %s: %w", index, cfg.RunID, err)
		}
	}

	if cfg.Store != nil {
		for _, episode := range episodes {
			if err := cfg.Store.SaveEpisode(ctx, episode); err != nil {
				return Result{}, fmt.Errorf("persist episode %s: %w", episode.ID, err)
			}
		}
	}
	return Result{RunID: cfg.RunID, Episodes: episodes}, nil
}

func runEpisode(ctx context.Context, cfg Config, index int) (model.EpisodeRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.EpisodeRecord{}, err
	}

	rollout, err := metrics.NewRollout(cfg.Tracking, 0)
	if err != nil {
		return model.EpisodeRecord{}, err
	}

	seed := cfg.Seed + int64(index)
	outcome, err := cfg.Task.Run(ctx, rollout, task.EpisodeConfig{
		Seed:             seed,
		ControlFrequency: cfg.ControlFrequency,
	})
	if err != nil {
		return model.EpisodeRecord{}, err
	}

	return model.EpisodeRecord{
		VersionedRecord: storage.Stamp(),
		ID:              uuid.NewString(),
		RunID:           cfg.RunID,
		Index:           index,
		Task:            cfg.Task.Name(),
		Seed:            seed,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
		Report:          outcome.Report,
	}, nil
}
