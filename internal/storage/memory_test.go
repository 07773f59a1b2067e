package storage

import (
	"context"
	"testing"

	"dexbench/internal/model"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return store
}

func episodeFixture(id, runID string, index int) model.EpisodeRecord {
	return model.EpisodeRecord{
		VersionedRecord: Stamp(),
		ID:              id,
		RunID:           runID,
		Index:           index,
		Task:            "block-handover",
		Report:          model.Report{Success: 1, CompletionTime: 4.8, SubtaskProgress: 1},
	}
}

func TestMemoryStoreEpisodeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	episode := episodeFixture("ep-1", "run-1", 0)
	if err := store.SaveEpisode(ctx, episode); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.GetEpisode(ctx, "ep-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("episode not found")
	}
	if got.Report.CompletionTime != 4.8 {
		t.Fatalf("unexpected report round trip: %+v", got.Report)
	}

	_, ok, err = store.GetEpisode(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ok {
		t.Fatal("missing episode must not be found")
	}
}

func TestMemoryStoreListEpisodesOrdered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, episode := range []model.EpisodeRecord{
		episodeFixture("ep-2", "run-1", 2),
		episodeFixture("ep-0", "run-1", 0),
		episodeFixture("ep-other", "run-2", 0),
		episodeFixture("ep-1", "run-1", 1),
	} {
		if err := store.SaveEpisode(ctx, episode); err != nil {
			t.Fatalf("save %s: %v", episode.ID, err)
		}
	}

	episodes, err := store.ListEpisodes(ctx, "run-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(episodes) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(episodes))
	}
	for i, episode := range episodes {
		if episode.Index != i {
			t.Fatalf("episodes out of order: %+v", episodes)
		}
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runs := []model.RunRecord{
		{VersionedRecord: Stamp(), RunID: "old", CreatedAtUTC: "2026-01-01T00:00:00Z"},
		{VersionedRecord: Stamp(), RunID: "new", CreatedAtUTC: "2026-02-01T00:00:00Z"},
		{VersionedRecord: Stamp(), RunID: "mid", CreatedAtUTC: "2026-01-15T00:00:00Z"},
	}
	for _, run := range runs {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.RunID, err)
		}
	}

	listed, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected limit 2, got %d", len(listed))
	}
	if listed[0].RunID != "new" || listed[1].RunID != "mid" {
		t.Fatalf("unexpected run order: %+v", listed)
	}
}
