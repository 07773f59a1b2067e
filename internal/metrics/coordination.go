package metrics

import (
	"math"

	"dexbench/internal/model"
)

// CoordinationTracker keeps running means of cross-arm differences for
// bimanual robots: end-effector speed difference and vertical (wrist z)
// alignment difference between the first two arm sides.
type CoordinationTracker struct {
	first, second model.Side

	n       int
	velSum  float64
	vertSum float64
}

func NewCoordinationTracker(first, second model.Side) *CoordinationTracker {
	return &CoordinationTracker{first: first, second: second}
}

// Sample consumes one step's arm snapshots. Speed is the magnitude of the
// end-effector velocity, not the full vector.
func (t *CoordinationTracker) Sample(arms map[model.Side]model.ArmSample) error {
	a, ok := arms[t.first]
	if !ok {
		return shapef("arm side %q missing from step sample", t.first)
	}
	b, ok := arms[t.second]
	if !ok {
		return shapef("arm side %q missing from step sample", t.second)
	}
	t.n++
	t.velSum += math.Abs(a.Velocity.Norm() - b.Velocity.Norm())
	t.vertSum += math.Abs(a.Position.Z - b.Position.Z)
	return nil
}

func (t *CoordinationTracker) SampleCount() int {
	return t.n
}

// VelSyncDiff is the running mean of |speed_a - speed_b|.
func (t *CoordinationTracker) VelSyncDiff() float64 {
	if t.n == 0 {
		return 0
	}
	return t.velSum / float64(t.n)
}

// VerticalSyncDiff is the running mean of |z_a - z_b|.
func (t *CoordinationTracker) VerticalSyncDiff() float64 {
	if t.n == 0 {
		return 0
	}
	return t.vertSum / float64(t.n)
}
