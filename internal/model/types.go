package model

import (
	"strings"

	"dexbench/internal/geom"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Side identifies one manipulator arm of the robot.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// GripperCommand is the discrete gripper action issued for a step.
type GripperCommand string

const (
	GripperNone  GripperCommand = ""
	GripperClose GripperCommand = "close"
	GripperOpen  GripperCommand = "open"
)

// ArmSample is the per-step kinematic snapshot of one arm.
type ArmSample struct {
	Position    geom.Vec3 `json:"position"`
	Velocity    geom.Vec3 `json:"velocity"`
	Joints      []float64 `json:"joints"`
	Orientation geom.Quat `json:"orientation"`
}

// ContactPair is an unordered pair of colliding bodies for one step,
// tagged by the physics layer as a self-collision or not.
type ContactPair struct {
	BodyA string `json:"body_a"`
	BodyB string `json:"body_b"`
	Self  bool   `json:"self"`
}

// Key returns an order-independent identity for the pair.
func (p ContactPair) Key() string {
	a, b := p.BodyA, p.BodyB
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "\x00" + b
}

// StepSample is the full per-step snapshot consumed by the metrics engine.
type StepSample struct {
	// Time is elapsed simulated seconds since environment construction.
	Time float64 `json:"time"`
	// DT is the fixed control period (1 / control frequency).
	DT              float64                   `json:"dt"`
	Arms            map[Side]ArmSample        `json:"arms"`
	Held            map[string]bool           `json:"held,omitempty"`
	GripperCommands map[string]GripperCommand `json:"gripper_commands,omitempty"`
	Contacts        []ContactPair             `json:"contacts,omitempty"`
}
