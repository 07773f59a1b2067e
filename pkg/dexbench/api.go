// Package dexbench is the embedding API for the benchmark: it runs
// evaluation campaigns, persists their records and lists past results.
package dexbench

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dexbench/internal/harness"
	"dexbench/internal/metrics"
	"dexbench/internal/model"
	"dexbench/internal/stats"
	"dexbench/internal/storage"
	"dexbench/internal/task"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultDBPath       = "dexbench.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
}

type Client struct {
	store        storage.Store
	artifactsDir string

	initialized bool
}

type EvaluateRequest struct {
	Task             string
	Episodes         int
	Workers          int
	Seed             int64
	ControlFrequency float64

	// Tracking overrides the default all-metrics tracking configuration
	// when non-nil.
	Tracking *metrics.TrackingConfig
}

type EvaluateSummary struct {
	RunID        string
	ArtifactsDir string
	Summary      stats.RunSummary
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID             string
	CreatedAtUTC      string
	Task              string
	Episodes          int
	Seed              int64
	SuccessRate       float64
	AvgCompletionTime float64
}

type EpisodesRequest struct {
	RunID string
}

type TaskItem struct {
	Name        string
	Description string
	Sides       []string
	Objects     []string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Evaluate runs one benchmark campaign: episodes across workers, a
// cross-episode summary, on-disk artifacts and persisted records.
func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateSummary, error) {
	if req.Task == "" {
		req.Task = "block-handover"
	}
	if req.Episodes <= 0 {
		req.Episodes = harness.DefaultEpisodes
	}
	if req.Workers <= 0 {
		req.Workers = harness.DefaultWorkers
	}
	if req.ControlFrequency <= 0 {
		req.ControlFrequency = task.DefaultControlFrequency
	}

	tk, ok := task.ByName(req.Task)
	if !ok {
		return EvaluateSummary{}, fmt.Errorf("unknown task %q, available: %s", req.Task, strings.Join(taskNames(), ", "))
	}

	tracking := defaultTracking(tk)
	if req.Tracking != nil {
		tracking = *req.Tracking
	}

	if err := c.ensureStore(ctx); err != nil {
		return EvaluateSummary{}, err
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("%s-%d-%d", req.Task, req.Seed, now.Unix())

	result, err := harness.Run(ctx, harness.Config{
		RunID:            runID,
		Task:             tk,
		Episodes:         req.Episodes,
		Workers:          req.Workers,
		Seed:             req.Seed,
		ControlFrequency: req.ControlFrequency,
		Tracking:         tracking,
		Store:            c.store,
	})
	if err != nil {
		return EvaluateSummary{}, err
	}

	summary := stats.Summarize(runID, req.Task, result.Episodes)
	createdAt := now.Format(time.RFC3339)

	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:            runID,
			Task:             req.Task,
			Episodes:         req.Episodes,
			Workers:          req.Workers,
			Seed:             req.Seed,
			ControlFrequency: req.ControlFrequency,
			CreatedAtUTC:     createdAt,

			TrackVelSync:               tracking.TrackVelSync,
			TrackVerticalSync:          tracking.TrackVerticalSync,
			TrackSlippage:              tracking.TrackSlippage,
			SlipObjects:                tracking.SlipObjects,
			SlipSampleWindow:           tracking.SlipSampleWindow,
			TrackCollisions:            tracking.TrackCollisions,
			TrackCartesianJerk:         tracking.TrackCartesianJerk,
			TrackJointJerk:             tracking.TrackJointJerk,
			TrackCartesianPathLength:   tracking.TrackCartesianPathLength,
			TrackJointPathLength:       tracking.TrackJointPathLength,
			TrackOrientationPathLength: tracking.TrackOrientationPathLength,
		},
		Episodes: result.Episodes,
		Summary:  summary,
	})
	if err != nil {
		return EvaluateSummary{}, err
	}

	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:        runID,
		Task:         req.Task,
		Episodes:     req.Episodes,
		Seed:         req.Seed,
		SuccessRate:  summary.SuccessRate,
		CreatedAtUTC: createdAt,
	}); err != nil {
		return EvaluateSummary{}, err
	}

	if err := c.store.SaveRun(ctx, model.RunRecord{
		VersionedRecord:   storage.Stamp(),
		RunID:             runID,
		Task:              req.Task,
		Episodes:          req.Episodes,
		Workers:           req.Workers,
		Seed:              req.Seed,
		CreatedAtUTC:      createdAt,
		SuccessRate:       summary.SuccessRate,
		AvgCompletionTime: summary.AvgCompletionTime,
	}); err != nil {
		return EvaluateSummary{}, err
	}

	return EvaluateSummary{RunID: runID, ArtifactsDir: runDir, Summary: summary}, nil
}

// Runs lists persisted runs, newest-first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, RunItem{
			RunID:             run.RunID,
			CreatedAtUTC:      run.CreatedAtUTC,
			Task:              run.Task,
			Episodes:          run.Episodes,
			Seed:              run.Seed,
			SuccessRate:       run.SuccessRate,
			AvgCompletionTime: run.AvgCompletionTime,
		})
	}
	return items, nil
}

// Episodes returns the persisted episode records of one run, ordered by
// episode index.
func (c *Client) Episodes(ctx context.Context, req EpisodesRequest) ([]model.EpisodeRecord, error) {
	if req.RunID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	return c.store.ListEpisodes(ctx, req.RunID)
}

// Summary reads the on-disk summary of a past run.
func (c *Client) Summary(runID string) (stats.RunSummary, bool, error) {
	return stats.ReadRunSummary(c.artifactsDir, runID)
}

// Tasks describes the builtin benchmark tasks.
func (c *Client) Tasks() []TaskItem {
	items := make([]TaskItem, 0)
	for _, tk := range task.Builtin() {
		sides := make([]string, 0, len(tk.Sides()))
		for _, side := range tk.Sides() {
			sides = append(sides, string(side))
		}
		items = append(items, TaskItem{
			Name:        tk.Name(),
			Description: tk.Description(),
			Sides:       sides,
			Objects:     tk.Objects(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func defaultTracking(tk task.Task) metrics.TrackingConfig {
	return metrics.TrackingConfig{
		Sides:                      tk.Sides(),
		TrackVelSync:               true,
		TrackVerticalSync:          true,
		TrackSlippage:              true,
		SlipObjects:                tk.Objects(),
		TrackCollisions:            true,
		TrackCartesianJerk:         true,
		TrackJointJerk:             true,
		TrackCartesianPathLength:   true,
		TrackJointPathLength:       true,
		TrackOrientationPathLength: true,
	}
}

func taskNames() []string {
	names := make([]string, 0)
	for _, tk := range task.Builtin() {
		names = append(names, tk.Name())
	}
	sort.Strings(names)
	return names
}
