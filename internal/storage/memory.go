package storage

import (
	"context"
	"sort"
	"sync"

	"dexbench/internal/model"
)

type MemoryStore struct {
	mu       sync.RWMutex
	episodes map[string]model.EpisodeRecord
	runs     map[string]model.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.episodes = make(map[string]model.EpisodeRecord)
	s.runs = make(map[string]model.RunRecord)
	return nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, episode model.EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.episodes[episode.ID] = episode
	return nil
}

func (s *MemoryStore) GetEpisode(_ context.Context, id string) (model.EpisodeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episode, ok := s.episodes[id]
	return episode, ok, nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, runID string) ([]model.EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EpisodeRecord, 0)
	for _, episode := range s.episodes {
		if episode.RunID == runID {
			out = append(out, episode)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].RunID > out[j].RunID
		}
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
