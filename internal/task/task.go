package task

import (
	"context"
	"math"

	"dexbench/internal/metrics"
	"dexbench/internal/model"
)

// DefaultControlFrequency is the control rate in Hz when unset.
const DefaultControlFrequency = 50.0

// EpisodeConfig parameterizes one episode of a task.
type EpisodeConfig struct {
	Seed             int64
	ControlFrequency float64
}

func (c EpisodeConfig) dt() float64 {
	freq := c.ControlFrequency
	if freq <= 0 {
		freq = DefaultControlFrequency
	}
	return 1 / freq
}

// Outcome is the result of one driven episode.
type Outcome struct {
	Success bool
	Steps   int
	Report  model.Report
}

// Task is a scripted bimanual manipulation benchmark environment. Run
// drives the full metrics lifecycle: it steps the rollout once per
// control step, marks stages as milestone predicates become true, and
// finalizes with the task's success determination.
type Task interface {
	Name() string
	Description() string
	Sides() []model.Side
	// Objects lists the graspable bodies the task manipulates, used as
	// the default slip-tracking object set.
	Objects() []string
	Run(ctx context.Context, rollout *metrics.Rollout, cfg EpisodeConfig) (Outcome, error)
}

// Builtin returns the registered benchmark tasks.
func Builtin() []Task {
	return []Task{
		BlockHandoverTask{},
		DualLiftTask{},
	}
}

// ByName resolves a builtin task.
func ByName(name string) (Task, bool) {
	for _, t := range Builtin() {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// smoothstep eases u in [0,1] with zero endpoint velocity.
func smoothstep(u float64) float64 {
	if u <= 0 {
		return 0
	}
	if u >= 1 {
		return 1
	}
	return u * u * (3 - 2*u)
}

// phaseFraction maps step u in [from,to] onto [0,1], clamped outside.
func phaseFraction(u, from, to float64) float64 {
	if to <= from {
		return 1
	}
	return smoothstep((u - from) / (to - from))
}

// armJoints synthesizes a deterministic joint vector tracking the
// end-effector script, enough to exercise joint-space metrics.
func armJoints(u float64, mirror float64) []float64 {
	joints := make([]float64, 6)
	for j := range joints {
		phase := float64(j) * math.Pi / 6
		joints[j] = mirror * (0.8*math.Sin(u*math.Pi+phase) + 0.1*u)
	}
	return joints
}

func stepCancelled(ctx context.Context) error {
	return ctx.Err()
}
