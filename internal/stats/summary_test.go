package stats

import (
	"math"
	"testing"

	"dexbench/internal/model"
)

const tol = 1e-9

func episodeWith(report model.Report) model.EpisodeRecord {
	return model.EpisodeRecord{Task: "block-handover", Report: report}
}

func TestAvgAndStd(t *testing.T) {
	avg, err := Avg([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("avg: %v", err)
	}
	if math.Abs(avg-2.5) > tol {
		t.Fatalf("avg = %v, want 2.5", avg)
	}

	std, err := Std([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatalf("std: %v", err)
	}
	if math.Abs(std-2) > tol {
		t.Fatalf("std = %v, want 2", std)
	}

	if _, err := Avg(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := Std(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestSummarizeCoreFields(t *testing.T) {
	episodes := []model.EpisodeRecord{
		episodeWith(model.Report{Success: 1, CompletionTime: 4, SubtaskProgress: 1}),
		episodeWith(model.Report{Success: 0, CompletionTime: 6, SubtaskProgress: 0.5}),
	}

	summary := Summarize("run-1", "block-handover", episodes)
	if summary.RunID != "run-1" || summary.Task != "block-handover" {
		t.Fatalf("unexpected identity: %+v", summary)
	}
	if summary.Episodes != 2 || summary.SuccessRuns != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if math.Abs(summary.SuccessRate-0.5) > tol {
		t.Fatalf("success rate = %v, want 0.5", summary.SuccessRate)
	}
	if math.Abs(summary.AvgCompletionTime-5) > tol {
		t.Fatalf("avg completion = %v, want 5", summary.AvgCompletionTime)
	}
	if math.Abs(summary.StdCompletionTime-1) > tol {
		t.Fatalf("std completion = %v, want 1", summary.StdCompletionTime)
	}
	if math.Abs(summary.AvgSubtaskProgress-0.75) > tol {
		t.Fatalf("avg progress = %v, want 0.75", summary.AvgSubtaskProgress)
	}
}

func TestSummarizeOptionalFieldsAbsentWhenUntracked(t *testing.T) {
	episodes := []model.EpisodeRecord{
		episodeWith(model.Report{Success: 1, CompletionTime: 4, SubtaskProgress: 1}),
	}

	summary := Summarize("run-1", "block-handover", episodes)
	if summary.AvgVelSyncDiff != nil || summary.AvgSlipCount != nil {
		t.Fatalf("untracked metrics must stay absent: %+v", summary)
	}
	if summary.AvgCartesianPathLength != nil || summary.AvgCartesianJerkRMS != nil {
		t.Fatalf("untracked kinematics must stay absent: %+v", summary)
	}
}

func TestSummarizeAveragesOnlyEpisodesCarryingTheMetric(t *testing.T) {
	two, four := 2, 4
	velA, velB := 0.1, 0.3
	episodes := []model.EpisodeRecord{
		episodeWith(model.Report{Success: 1, SlipCount: &two, VelSyncDiff: &velA}),
		episodeWith(model.Report{Success: 1, SlipCount: &four, VelSyncDiff: &velB}),
		episodeWith(model.Report{Success: 0}),
	}

	summary := Summarize("run-1", "block-handover", episodes)
	if summary.AvgSlipCount == nil || math.Abs(*summary.AvgSlipCount-3) > tol {
		t.Fatalf("avg slip count = %v, want 3", summary.AvgSlipCount)
	}
	if summary.AvgVelSyncDiff == nil || math.Abs(*summary.AvgVelSyncDiff-0.2) > tol {
		t.Fatalf("avg vel sync = %v, want 0.2", summary.AvgVelSyncDiff)
	}
}

func TestSummarizeSumsSidesForPathLength(t *testing.T) {
	sides := []model.Side{model.SideLeft, model.SideRight}
	path := model.NewSideValue(sides, map[model.Side]float64{
		model.SideLeft:  0.4,
		model.SideRight: 0.6,
	})
	episodes := []model.EpisodeRecord{
		episodeWith(model.Report{Success: 1, CartesianPathLength: &path}),
	}

	summary := Summarize("run-1", "dual-lift", episodes)
	if summary.AvgCartesianPathLength == nil || math.Abs(*summary.AvgCartesianPathLength-1.0) > tol {
		t.Fatalf("avg cartesian path = %v, want 1.0", summary.AvgCartesianPathLength)
	}
}

func TestSummarizeEmptyRun(t *testing.T) {
	summary := Summarize("run-1", "block-handover", nil)
	if summary.Episodes != 0 || summary.SuccessRate != 0 {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
	if summary.AvgCompletionTime != 0 || summary.AvgSlipCount != nil {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
}
