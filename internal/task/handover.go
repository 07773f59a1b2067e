package task

import (
	"context"
	"math"
	"math/rand"

	"dexbench/internal/geom"
	"dexbench/internal/metrics"
	"dexbench/internal/model"
)

// BlockHandoverTask scripts a right-to-left block handover: the right arm
// carries the block to a meeting point, transfers it, and the left arm
// places it on the table. Stages: reach, transfer, place.
type BlockHandoverTask struct{}

const (
	handoverSteps     = 240
	handoverBlock     = "block"
	handoverTolerance = 0.05
)

func (BlockHandoverTask) Name() string {
	return "block-handover"
}

func (BlockHandoverTask) Description() string {
	return "right arm hands a block to the left arm, which places it"
}

func (BlockHandoverTask) Sides() []model.Side {
	return []model.Side{model.SideLeft, model.SideRight}
}

func (BlockHandoverTask) Objects() []string {
	return []string{handoverBlock}
}

func (BlockHandoverTask) Run(ctx context.Context, rollout *metrics.Rollout, cfg EpisodeConfig) (Outcome, error) {
	dt := cfg.dt()
	rng := rand.New(rand.NewSource(cfg.Seed))
	placeTarget := geom.Vec3{X: -0.3, Y: 0.1, Z: 0.1}

	prev := map[model.Side]geom.Vec3{
		model.SideLeft:  handoverLeftPosition(0),
		model.SideRight: handoverRightPosition(0),
	}
	transferred := false
	var finalLeft, finalRight geom.Vec3

	for i := 0; i < handoverSteps; i++ {
		if err := stepCancelled(ctx); err != nil {
			return Outcome{}, err
		}
		u := float64(i+1) / handoverSteps
		jitter := geom.Vec3{
			X: (rng.Float64() - 0.5) * 0.004,
			Y: (rng.Float64() - 0.5) * 0.004,
			Z: (rng.Float64() - 0.5) * 0.004,
		}

		left := handoverLeftPosition(u).Add(jitter)
		right := handoverRightPosition(u).Add(jitter.Scale(-1))
		finalLeft, finalRight = left, right

		sample := model.StepSample{
			Time: float64(i+1) * dt,
			DT:   dt,
			Arms: map[model.Side]model.ArmSample{
				model.SideLeft: {
					Position:    left,
					Velocity:    left.Sub(prev[model.SideLeft]).Scale(1 / dt),
					Joints:      armJoints(u, 1),
					Orientation: geom.AxisAngle(geom.Vec3{Z: 1}, -u*math.Pi/4),
				},
				model.SideRight: {
					Position:    right,
					Velocity:    right.Sub(prev[model.SideRight]).Scale(1 / dt),
					Joints:      armJoints(u, -1),
					Orientation: geom.AxisAngle(geom.Vec3{Z: 1}, u*math.Pi/4),
				},
			},
			Held: map[string]bool{handoverBlock: true},
		}
		if u >= 0.5 && !transferred {
			transferred = true
			sample.GripperCommands = map[string]model.GripperCommand{
				handoverBlock: model.GripperOpen,
			}
		}
		if u >= 0.3 && u < 0.34 {
			sample.Contacts = append(sample.Contacts, model.ContactPair{
				BodyA: "wrist_left", BodyB: "wrist_right", Self: true,
			})
		}
		if u >= 0.92 {
			sample.Contacts = append(sample.Contacts, model.ContactPair{
				BodyA: handoverBlock, BodyB: "table",
			})
		}

		if err := rollout.Step(sample); err != nil {
			return Outcome{}, err
		}
		prev[model.SideLeft] = left
		prev[model.SideRight] = right

		if err := markWhen(rollout, 1, u >= 0.25); err != nil {
			return Outcome{}, err
		}
		if err := markWhen(rollout, 2, u >= 0.5); err != nil {
			return Outcome{}, err
		}
		if err := markWhen(rollout, 3, u >= 0.92); err != nil {
			return Outcome{}, err
		}
	}

	placeError := geom.Dist(finalLeft, placeTarget)
	success := placeError <= handoverTolerance
	target := model.Scalar(placeError)
	// Per-arm deviation from the scripted endpoint, i.e. residual jitter.
	poseError := model.Named(map[string]float64{
		"left":  geom.Dist(finalLeft, handoverLeftPosition(1)),
		"right": geom.Dist(finalRight, handoverRightPosition(1)),
	})
	report, err := rollout.Finalize(success, &target, &poseError)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: success, Steps: handoverSteps, Report: report}, nil
}

func handoverRightPosition(u float64) geom.Vec3 {
	start := geom.Vec3{X: 0.35, Y: -0.25, Z: 0.15}
	meet := geom.Vec3{X: 0.02, Y: 0, Z: 0.35}
	retreat := geom.Vec3{X: 0.3, Y: -0.2, Z: 0.2}
	if u <= 0.5 {
		return lerp(start, meet, phaseFraction(u, 0, 0.5))
	}
	return lerp(meet, retreat, phaseFraction(u, 0.55, 1))
}

func handoverLeftPosition(u float64) geom.Vec3 {
	start := geom.Vec3{X: -0.35, Y: 0.25, Z: 0.15}
	meet := geom.Vec3{X: -0.02, Y: 0, Z: 0.35}
	place := geom.Vec3{X: -0.3, Y: 0.1, Z: 0.1}
	if u <= 0.5 {
		return lerp(start, meet, phaseFraction(u, 0, 0.5))
	}
	return lerp(meet, place, phaseFraction(u, 0.55, 1))
}

func lerp(from, to geom.Vec3, f float64) geom.Vec3 {
	return from.Add(to.Sub(from).Scale(f))
}

func markWhen(rollout *metrics.Rollout, stage int, reached bool) error {
	if !reached {
		return nil
	}
	return rollout.MarkStage(stage, true)
}
