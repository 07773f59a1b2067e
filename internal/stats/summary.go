package stats

import (
	"errors"
	"math"

	"dexbench/internal/model"
)

func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("avg requires at least one value")
	}
	acc := 0.0
	for _, v := range values {
		acc += v
	}
	return acc / float64(len(values)), nil
}

func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	acc := 0.0
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(values))), nil
}

// RunSummary aggregates episode reports across one benchmark run. Metric
// averages are absent-aware: a field untracked in every episode stays
// absent from the summary as well.
type RunSummary struct {
	RunID              string  `json:"run_id"`
	Task               string  `json:"task"`
	Episodes           int     `json:"episodes"`
	SuccessRuns        int     `json:"success_runs"`
	SuccessRate        float64 `json:"success_rate"`
	AvgCompletionTime  float64 `json:"avg_completion_time"`
	StdCompletionTime  float64 `json:"std_completion_time"`
	AvgSubtaskProgress float64 `json:"avg_subtask_progress"`

	AvgVelSyncDiff      *float64 `json:"avg_vel_sync_diff,omitempty"`
	AvgVerticalSyncDiff *float64 `json:"avg_vertical_sync_diff,omitempty"`
	AvgSlipCount        *float64 `json:"avg_slip_count,omitempty"`
	AvgEnvCollisions    *float64 `json:"avg_env_collision_count,omitempty"`
	AvgSelfCollisions   *float64 `json:"avg_self_collision_count,omitempty"`

	AvgCartesianPathLength   *float64 `json:"avg_cartesian_path_length,omitempty"`
	AvgJointPathLength       *float64 `json:"avg_joint_path_length,omitempty"`
	AvgOrientationPathLength *float64 `json:"avg_orientation_path_length,omitempty"`
	AvgCartesianJerkRMS      *float64 `json:"avg_cartesian_jerk_rms,omitempty"`
	AvgJointJerkRMS          *float64 `json:"avg_joint_jerk_rms,omitempty"`
}

// Summarize folds a run's episode records into one summary.
func Summarize(runID, taskName string, episodes []model.EpisodeRecord) RunSummary {
	summary := RunSummary{
		RunID:    runID,
		Task:     taskName,
		Episodes: len(episodes),
	}
	if len(episodes) == 0 {
		return summary
	}

	completion := make([]float64, 0, len(episodes))
	progress := make([]float64, 0, len(episodes))
	for _, episode := range episodes {
		if episode.Report.Success >= 1 {
			summary.SuccessRuns++
		}
		completion = append(completion, episode.Report.CompletionTime)
		progress = append(progress, episode.Report.SubtaskProgress)
	}
	summary.SuccessRate = float64(summary.SuccessRuns) / float64(len(episodes))
	summary.AvgCompletionTime, _ = Avg(completion)
	summary.StdCompletionTime, _ = Std(completion)
	summary.AvgSubtaskProgress, _ = Avg(progress)

	summary.AvgVelSyncDiff = avgOf(episodes, func(r model.Report) *float64 { return r.VelSyncDiff })
	summary.AvgVerticalSyncDiff = avgOf(episodes, func(r model.Report) *float64 { return r.VerticalSyncDiff })
	summary.AvgSlipCount = avgOf(episodes, func(r model.Report) *float64 { return intAsFloat(r.SlipCount) })
	summary.AvgEnvCollisions = avgOf(episodes, func(r model.Report) *float64 { return intAsFloat(r.EnvCollisionCount) })
	summary.AvgSelfCollisions = avgOf(episodes, func(r model.Report) *float64 { return intAsFloat(r.SelfCollisionCount) })

	summary.AvgCartesianPathLength = avgOf(episodes, func(r model.Report) *float64 { return sideSum(r.CartesianPathLength) })
	summary.AvgJointPathLength = avgOf(episodes, func(r model.Report) *float64 { return sideSum(r.JointPathLength) })
	summary.AvgOrientationPathLength = avgOf(episodes, func(r model.Report) *float64 { return sideSum(r.OrientationPathLength) })
	summary.AvgCartesianJerkRMS = avgOf(episodes, func(r model.Report) *float64 { return sideMean(r.CartesianJerkRMS) })
	summary.AvgJointJerkRMS = avgOf(episodes, func(r model.Report) *float64 { return sideMean(r.JointJerkRMS) })
	return summary
}

func avgOf(episodes []model.EpisodeRecord, get func(model.Report) *float64) *float64 {
	values := make([]float64, 0, len(episodes))
	for _, episode := range episodes {
		if v := get(episode.Report); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	mean, _ := Avg(values)
	return &mean
}

func intAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func sideSum(v *model.SideValue) *float64 {
	if v == nil {
		return nil
	}
	sum := v.Sum()
	return &sum
}

func sideMean(v *model.SideValue) *float64 {
	if v == nil {
		return nil
	}
	mean := v.Mean()
	return &mean
}
