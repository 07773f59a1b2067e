package storage

import (
	"context"

	"dexbench/internal/model"
)

// Store defines persistence operations for benchmark runs and episodes.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, episode model.EpisodeRecord) error
	GetEpisode(ctx context.Context, id string) (model.EpisodeRecord, bool, error)
	ListEpisodes(ctx context.Context, runID string) ([]model.EpisodeRecord, error)
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, runID string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
}
