package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SideValue is a per-arm metric value. For a single-arm robot it
// serializes as a bare scalar, for a bimanual robot as a side-keyed map;
// the shape follows robot arity, not a separate schema.
type SideValue struct {
	scalar bool
	values map[Side]float64
}

// NewSideValue builds a SideValue for the given arm sides. The scalar
// shape is chosen when the robot has exactly one side.
func NewSideValue(sides []Side, values map[Side]float64) SideValue {
	copied := make(map[Side]float64, len(values))
	for side, v := range values {
		copied[side] = v
	}
	return SideValue{scalar: len(sides) == 1, values: copied}
}

// Scalar returns the bare value for single-arm shapes.
func (v SideValue) Scalar() (float64, bool) {
	if !v.scalar {
		return 0, false
	}
	for _, value := range v.values {
		return value, true
	}
	return 0, false
}

// Value returns the metric for one side.
func (v SideValue) Value(side Side) (float64, bool) {
	value, ok := v.values[side]
	return value, ok
}

// PerSide returns a copy of the side-keyed values.
func (v SideValue) PerSide() map[Side]float64 {
	out := make(map[Side]float64, len(v.values))
	for side, value := range v.values {
		out[side] = value
	}
	return out
}

func (v SideValue) Len() int {
	return len(v.values)
}

func (v SideValue) Sum() float64 {
	acc := 0.0
	for _, value := range v.values {
		acc += value
	}
	return acc
}

func (v SideValue) Mean() float64 {
	if len(v.values) == 0 {
		return 0
	}
	return v.Sum() / float64(len(v.values))
}

func (v SideValue) MarshalJSON() ([]byte, error) {
	if v.scalar {
		value, _ := v.Scalar()
		return json.Marshal(value)
	}
	keys := make([]string, 0, len(v.values))
	for side := range v.values {
		keys = append(keys, string(side))
	}
	sort.Strings(keys)
	out := make(map[string]float64, len(keys))
	for _, key := range keys {
		out[key] = v.values[Side(key)]
	}
	return json.Marshal(out)
}

func (v *SideValue) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		v.scalar = true
		v.values = map[Side]float64{"": scalar}
		return nil
	}
	var mapped map[Side]float64
	if err := json.Unmarshal(data, &mapped); err != nil {
		return fmt.Errorf("side value must be a number or a side map: %w", err)
	}
	v.scalar = false
	v.values = mapped
	return nil
}

// NamedScalar is a caller-supplied report value: either a bare scalar or
// a mapping from name to scalar.
type NamedScalar struct {
	named  bool
	value  float64
	values map[string]float64
}

func Scalar(v float64) NamedScalar {
	return NamedScalar{value: v}
}

func Named(values map[string]float64) NamedScalar {
	copied := make(map[string]float64, len(values))
	for name, v := range values {
		copied[name] = v
	}
	return NamedScalar{named: true, values: copied}
}

func (n NamedScalar) Scalar() (float64, bool) {
	if n.named {
		return 0, false
	}
	return n.value, true
}

func (n NamedScalar) Values() (map[string]float64, bool) {
	if !n.named {
		return nil, false
	}
	out := make(map[string]float64, len(n.values))
	for name, v := range n.values {
		out[name] = v
	}
	return out, true
}

func (n NamedScalar) MarshalJSON() ([]byte, error) {
	if n.named {
		return json.Marshal(n.values)
	}
	return json.Marshal(n.value)
}

func (n *NamedScalar) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*n = Scalar(scalar)
		return nil
	}
	var mapped map[string]float64
	if err := json.Unmarshal(data, &mapped); err != nil {
		return fmt.Errorf("named scalar must be a number or a name map: %w", err)
	}
	*n = Named(mapped)
	return nil
}

// Report is the immutable per-episode evaluation output. Fields gated by
// tracking flags are nil when untracked; consumers must treat absence as
// "not tracked", never as zero.
type Report struct {
	Success         float64 `json:"success"`
	CompletionTime  float64 `json:"completion_time"`
	SubtaskProgress float64 `json:"subtask_progress"`

	VelSyncDiff      *float64 `json:"vel_sync_diff,omitempty"`
	VerticalSyncDiff *float64 `json:"vertical_sync_diff,omitempty"`

	SlipCount      *int           `json:"slip_count,omitempty"`
	SlipsPerObject map[string]int `json:"slips_per_object,omitempty"`

	EnvCollisionCount  *int `json:"env_collision_count,omitempty"`
	SelfCollisionCount *int `json:"self_collision_count,omitempty"`

	CartesianPathLength      *SideValue `json:"cartesian_path_length,omitempty"`
	TotalCartesianPathLength *float64   `json:"total_cartesian_path_length,omitempty"`
	AvgCartesianPathLength   *float64   `json:"avg_cartesian_path_length,omitempty"`

	JointPathLength      *SideValue `json:"joint_path_length,omitempty"`
	TotalJointPathLength *float64   `json:"total_joint_path_length,omitempty"`
	AvgJointPathLength   *float64   `json:"avg_joint_path_length,omitempty"`

	OrientationPathLength      *SideValue `json:"orientation_path_length,omitempty"`
	TotalOrientationPathLength *float64   `json:"total_orientation_path_length,omitempty"`
	AvgOrientationPathLength   *float64   `json:"avg_orientation_path_length,omitempty"`

	CartesianJerkMean       *SideValue `json:"cartesian_jerk_mean,omitempty"`
	CartesianJerkRMS        *SideValue `json:"cartesian_jerk_rms,omitempty"`
	OverallAvgCartesianJerk *float64   `json:"overall_avg_cartesian_jerk,omitempty"`
	OverallRMSCartesianJerk *float64   `json:"overall_rms_cartesian_jerk,omitempty"`

	JointJerkMean       *SideValue `json:"joint_jerk_mean,omitempty"`
	JointJerkRMS        *SideValue `json:"joint_jerk_rms,omitempty"`
	OverallAvgJointJerk *float64   `json:"overall_avg_joint_jerk,omitempty"`
	OverallRMSJointJerk *float64   `json:"overall_rms_joint_jerk,omitempty"`

	TargetDistance *NamedScalar `json:"target_distance,omitempty"`
	PoseError      *NamedScalar `json:"pose_error,omitempty"`
}

// EpisodeRecord is one evaluated episode as persisted by the store.
type EpisodeRecord struct {
	VersionedRecord
	ID           string `json:"id"`
	RunID        string `json:"run_id"`
	Index        int    `json:"index"`
	Task         string `json:"task"`
	Seed         int64  `json:"seed"`
	CreatedAtUTC string `json:"created_at_utc"`
	Report       Report `json:"report"`
}

// RunRecord is the stored header of one benchmark run.
type RunRecord struct {
	VersionedRecord
	RunID             string  `json:"run_id"`
	Task              string  `json:"task"`
	Episodes          int     `json:"episodes"`
	Workers           int     `json:"workers"`
	Seed              int64   `json:"seed"`
	CreatedAtUTC      string  `json:"created_at_utc"`
	SuccessRate       float64 `json:"success_rate"`
	AvgCompletionTime float64 `json:"avg_completion_time"`
}
