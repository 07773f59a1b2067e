package metrics

import "dexbench/internal/model"

type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateActive
	stateFinalized
)

func (s lifecycleState) String() string {
	switch s {
	case stateActive:
		return "active"
	case stateFinalized:
		return "finalized"
	default:
		return "uninitialized"
	}
}

// Rollout owns all metric accumulators for one episode. Lifecycle:
// Init (or NewRollout) -> Step* / MarkStage* -> Finalize. Init discards
// all prior state, so episodes never share accumulator state; Finalize is
// a pure read of the current accumulators and may be repeated, yielding
// the identical report until the rollout is re-initialized.
type Rollout struct {
	state lifecycleState
	cfg   TrackingConfig

	startTime float64
	lastTime  float64
	steps     int

	stages       *StageTracker
	slip         *SlipDetector
	collisions   *CollisionTracker
	kinematics   *KinematicAccumulator
	coordination *CoordinationTracker

	finalized *model.Report
}

// NewRollout validates cfg and returns an active rollout. startTime is
// the episode's elapsed simulated time at environment reset.
func NewRollout(cfg TrackingConfig, startTime float64) (*Rollout, error) {
	r := &Rollout{}
	if err := r.Init(cfg, startTime); err != nil {
		return nil, err
	}
	return r, nil
}

// Init resets the rollout for a new episode, discarding all accumulator
// state, and transitions it to active.
func (r *Rollout) Init(cfg TrackingConfig, startTime float64) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}

	r.cfg = cfg
	r.startTime = startTime
	r.lastTime = startTime
	r.steps = 0
	r.finalized = nil

	r.stages = NewStageTracker()
	r.slip = nil
	if cfg.TrackSlippage {
		r.slip = NewSlipDetector(cfg.SlipObjects, cfg.SlipSampleWindow, cfg.ReleaseCommand)
	}
	r.collisions = nil
	if cfg.TrackCollisions {
		r.collisions = NewCollisionTracker()
	}
	r.kinematics = nil
	if cfg.TrackCartesianPathLength || cfg.TrackJointPathLength || cfg.TrackOrientationPathLength ||
		cfg.TrackCartesianJerk || cfg.TrackJointJerk {
		r.kinematics = NewKinematicAccumulator(KinematicConfig{
			Sides:           cfg.Sides,
			CartesianPath:   cfg.TrackCartesianPathLength,
			JointPath:       cfg.TrackJointPathLength,
			OrientationPath: cfg.TrackOrientationPathLength,
			CartesianJerk:   cfg.TrackCartesianJerk,
			JointJerk:       cfg.TrackJointJerk,
		})
	}
	r.coordination = nil
	if cfg.TrackVelSync || cfg.TrackVerticalSync {
		r.coordination = NewCoordinationTracker(cfg.Sides[0], cfg.Sides[1])
	}

	r.state = stateActive
	return nil
}

// Step forwards one simulation-step snapshot to every enabled tracker.
func (r *Rollout) Step(sample model.StepSample) error {
	if r.state != stateActive {
		return usagef("step called in state %s", r.state)
	}
	for _, side := range r.cfg.Sides {
		if _, ok := sample.Arms[side]; !ok {
			return shapef("arm side %q missing from step sample", side)
		}
	}

	if r.slip != nil {
		if err := r.slip.Sample(sample.Held, sample.GripperCommands); err != nil {
			return err
		}
	}
	if r.collisions != nil {
		r.collisions.Update(sample.Contacts)
	}
	if r.kinematics != nil {
		if err := r.kinematics.Sample(sample.Arms, sample.DT); err != nil {
			return err
		}
	}
	if r.coordination != nil {
		if err := r.coordination.Sample(sample.Arms); err != nil {
			return err
		}
	}

	r.lastTime = sample.Time
	r.steps++
	return nil
}

// MarkStage records a task milestone determination.
func (r *Rollout) MarkStage(index int, reached bool) error {
	if r.state != stateActive {
		return usagef("mark stage called in state %s", r.state)
	}
	return r.stages.Mark(index, reached)
}

// Progress is the current subtask progress ratio.
func (r *Rollout) Progress() float64 {
	return r.stages.Progress()
}

// Finalize assembles the episode report from the current accumulator
// values plus the caller-supplied outcome fields. The first call
// transitions the rollout to finalized; repeated calls return the cached
// report unchanged.
func (r *Rollout) Finalize(success bool, targetDistance, poseError *model.NamedScalar) (model.Report, error) {
	switch r.state {
	case stateActive:
	case stateFinalized:
		return *r.finalized, nil
	default:
		return model.Report{}, usagef("finalize called in state %s", r.state)
	}

	report := model.Report{
		CompletionTime:  r.lastTime - r.startTime,
		SubtaskProgress: r.stages.Progress(),
		TargetDistance:  targetDistance,
		PoseError:       poseError,
	}
	if success {
		report.Success = 1
	}

	if r.coordination != nil && r.coordination.SampleCount() > 0 {
		if r.cfg.TrackVelSync {
			report.VelSyncDiff = floatPtr(r.coordination.VelSyncDiff())
		}
		if r.cfg.TrackVerticalSync {
			report.VerticalSyncDiff = floatPtr(r.coordination.VerticalSyncDiff())
		}
	}
	if r.slip != nil {
		report.SlipCount = intPtr(r.slip.Total())
		report.SlipsPerObject = r.slip.PerObject()
	}
	if r.collisions != nil {
		report.EnvCollisionCount = intPtr(r.collisions.EnvCount())
		report.SelfCollisionCount = intPtr(r.collisions.SelfCount())
	}
	if r.kinematics != nil && r.kinematics.SampleCount() > 0 {
		r.fillKinematics(&report)
	}

	r.finalized = &report
	r.state = stateFinalized
	return report, nil
}

func (r *Rollout) fillKinematics(report *model.Report) {
	aggregate := r.cfg.bimanual()

	if r.cfg.TrackCartesianPathLength {
		value := model.NewSideValue(r.cfg.Sides, r.kinematics.CartesianPath())
		report.CartesianPathLength = &value
		if aggregate {
			report.TotalCartesianPathLength = floatPtr(value.Sum())
			report.AvgCartesianPathLength = floatPtr(value.Mean())
		}
	}
	if r.cfg.TrackJointPathLength {
		value := model.NewSideValue(r.cfg.Sides, r.kinematics.JointPath())
		report.JointPathLength = &value
		if aggregate {
			report.TotalJointPathLength = floatPtr(value.Sum())
			report.AvgJointPathLength = floatPtr(value.Mean())
		}
	}
	if r.cfg.TrackOrientationPathLength {
		value := model.NewSideValue(r.cfg.Sides, r.kinematics.OrientationPath())
		report.OrientationPathLength = &value
		if aggregate {
			report.TotalOrientationPathLength = floatPtr(value.Sum())
			report.AvgOrientationPathLength = floatPtr(value.Mean())
		}
	}
	if r.cfg.TrackCartesianJerk {
		if mean, rms, ok := r.kinematics.OverallCartesianJerk(); ok {
			meanValue := model.NewSideValue(r.cfg.Sides, r.kinematics.CartesianJerkMean())
			rmsValue := model.NewSideValue(r.cfg.Sides, r.kinematics.CartesianJerkRMS())
			report.CartesianJerkMean = &meanValue
			report.CartesianJerkRMS = &rmsValue
			if aggregate {
				report.OverallAvgCartesianJerk = floatPtr(mean)
				report.OverallRMSCartesianJerk = floatPtr(rms)
			}
		}
	}
	if r.cfg.TrackJointJerk {
		if mean, rms, ok := r.kinematics.OverallJointJerk(); ok {
			meanValue := model.NewSideValue(r.cfg.Sides, r.kinematics.JointJerkMean())
			rmsValue := model.NewSideValue(r.cfg.Sides, r.kinematics.JointJerkRMS())
			report.JointJerkMean = &meanValue
			report.JointJerkRMS = &rmsValue
			if aggregate {
				report.OverallAvgJointJerk = floatPtr(mean)
				report.OverallRMSJointJerk = floatPtr(rms)
			}
		}
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}
