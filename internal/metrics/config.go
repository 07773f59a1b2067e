package metrics

import "dexbench/internal/model"

// DefaultSlipSampleWindow is the slip detector sampling period in frames.
const DefaultSlipSampleWindow = 20

// TrackingConfig selects which trackers a rollout allocates. Each flag
// also gates whether the corresponding fields appear in the final report.
// The zero value of every flag means "not tracked".
type TrackingConfig struct {
	// Sides enumerates the robot's arm sides, in report order.
	Sides []model.Side

	TrackVelSync      bool
	TrackVerticalSync bool

	TrackSlippage    bool
	SlipObjects      []string
	SlipSampleWindow int
	// ReleaseCommand decides whether a gripper command counts as an
	// explicit release, exempting a grasp loss from slip counting.
	// Nil means "an explicit open command".
	ReleaseCommand func(model.GripperCommand) bool

	TrackCollisions bool

	TrackCartesianJerk bool
	TrackJointJerk     bool

	TrackCartesianPathLength   bool
	TrackJointPathLength       bool
	TrackOrientationPathLength bool
}

func defaultReleaseCommand(cmd model.GripperCommand) bool {
	return cmd == model.GripperOpen
}

// withDefaults validates the configuration and fills defaults. All
// configuration errors surface here, at init time.
func (c TrackingConfig) withDefaults() (TrackingConfig, error) {
	if len(c.Sides) == 0 {
		return TrackingConfig{}, configf("at least one arm side is required")
	}
	seen := make(map[model.Side]struct{}, len(c.Sides))
	for _, side := range c.Sides {
		if side == "" {
			return TrackingConfig{}, configf("arm side name must not be empty")
		}
		if _, dup := seen[side]; dup {
			return TrackingConfig{}, configf("duplicate arm side: %s", side)
		}
		seen[side] = struct{}{}
	}
	if (c.TrackVelSync || c.TrackVerticalSync) && len(c.Sides) < 2 {
		return TrackingConfig{}, configf("coordination tracking requires two arm sides, got %d", len(c.Sides))
	}
	if c.TrackSlippage && len(c.SlipObjects) == 0 {
		return TrackingConfig{}, configf("slippage tracking requires at least one tracked object")
	}
	if c.SlipSampleWindow < 0 {
		return TrackingConfig{}, configf("slip sample window must be >= 0, got %d", c.SlipSampleWindow)
	}
	if c.SlipSampleWindow == 0 {
		c.SlipSampleWindow = DefaultSlipSampleWindow
	}
	if c.ReleaseCommand == nil {
		c.ReleaseCommand = defaultReleaseCommand
	}
	return c, nil
}

func (c TrackingConfig) bimanual() bool {
	return len(c.Sides) >= 2
}
