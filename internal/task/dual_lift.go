package task

import (
	"context"
	"math"
	"math/rand"

	"dexbench/internal/geom"
	"dexbench/internal/metrics"
	"dexbench/internal/model"
)

// DualLiftTask scripts both arms grasping a tray and lifting it in sync.
// Stages: contact, lift, hold. The symmetric motion keeps cross-arm
// velocity and height differences near zero, so it is the reference task
// for coordination metrics.
type DualLiftTask struct{}

const (
	dualLiftSteps     = 200
	dualLiftTray      = "tray"
	dualLiftHeight    = 0.35
	dualLiftTolerance = 0.03
)

func (DualLiftTask) Name() string {
	return "dual-lift"
}

func (DualLiftTask) Description() string {
	return "both arms lift a tray together and hold it level"
}

func (DualLiftTask) Sides() []model.Side {
	return []model.Side{model.SideLeft, model.SideRight}
}

func (DualLiftTask) Objects() []string {
	return []string{dualLiftTray}
}

func (DualLiftTask) Run(ctx context.Context, rollout *metrics.Rollout, cfg EpisodeConfig) (Outcome, error) {
	dt := cfg.dt()
	rng := rand.New(rand.NewSource(cfg.Seed))

	prevLeft := dualLiftPosition(0, 1)
	prevRight := dualLiftPosition(0, -1)
	var lastHeight float64

	for i := 0; i < dualLiftSteps; i++ {
		if err := stepCancelled(ctx); err != nil {
			return Outcome{}, err
		}
		u := float64(i+1) / dualLiftSteps
		wobble := (rng.Float64() - 0.5) * 0.0002

		left := dualLiftPosition(u, 1)
		right := dualLiftPosition(u, -1)
		left.Z += wobble
		right.Z -= wobble
		lastHeight = (left.Z + right.Z) / 2

		contact := u >= 0.2
		sample := model.StepSample{
			Time: float64(i+1) * dt,
			DT:   dt,
			Arms: map[model.Side]model.ArmSample{
				model.SideLeft: {
					Position:    left,
					Velocity:    left.Sub(prevLeft).Scale(1 / dt),
					Joints:      armJoints(u, 1),
					Orientation: geom.AxisAngle(geom.Vec3{Y: 1}, u*math.Pi/8),
				},
				model.SideRight: {
					Position:    right,
					Velocity:    right.Sub(prevRight).Scale(1 / dt),
					Joints:      armJoints(u, -1),
					Orientation: geom.AxisAngle(geom.Vec3{Y: 1}, -u*math.Pi/8),
				},
			},
			Held: map[string]bool{dualLiftTray: contact},
		}

		if err := rollout.Step(sample); err != nil {
			return Outcome{}, err
		}
		prevLeft, prevRight = left, right

		if err := markWhen(rollout, 1, contact); err != nil {
			return Outcome{}, err
		}
		if err := markWhen(rollout, 2, u >= 0.5); err != nil {
			return Outcome{}, err
		}
		if err := markWhen(rollout, 3, u >= 0.85); err != nil {
			return Outcome{}, err
		}
	}

	heightError := math.Abs(lastHeight - dualLiftHeight)
	success := heightError <= dualLiftTolerance
	target := model.Scalar(heightError)
	poseError := model.Scalar(math.Abs(prevLeft.Z - prevRight.Z))
	report, err := rollout.Finalize(success, &target, &poseError)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: success, Steps: dualLiftSteps, Report: report}, nil
}

// dualLiftPosition mirrors one trajectory across the y axis: approach the
// tray edge, then lift straight up to the hold height.
func dualLiftPosition(u float64, mirror float64) geom.Vec3 {
	grasp := geom.Vec3{X: 0.0, Y: mirror * 0.22, Z: 0.1}
	start := geom.Vec3{X: 0.1, Y: mirror * 0.35, Z: 0.2}
	if u <= 0.2 {
		return lerp(start, grasp, phaseFraction(u, 0, 0.2))
	}
	lifted := grasp
	lifted.Z = dualLiftHeight
	return lerp(grasp, lifted, phaseFraction(u, 0.25, 0.85))
}
