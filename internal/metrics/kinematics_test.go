package metrics

import (
	"errors"
	"math"
	"testing"

	"dexbench/internal/geom"
	"dexbench/internal/model"
)

const tol = 1e-9

func singleArm(pos geom.Vec3, joints []float64, orientation geom.Quat) map[model.Side]model.ArmSample {
	return map[model.Side]model.ArmSample{
		model.SideRight: {Position: pos, Joints: joints, Orientation: orientation},
	}
}

func TestCartesianPathStraightLine(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideRight},
		CartesianPath: true,
	})
	const n, d = 10, 0.05
	for i := 0; i <= n; i++ {
		arms := singleArm(geom.Vec3{X: d * float64(i)}, nil, geom.Identity())
		if err := acc.Sample(arms, 0.02); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	got := acc.CartesianPath()[model.SideRight]
	if math.Abs(got-n*d) > tol {
		t.Fatalf("expected path %f, got %f", float64(n)*d, got)
	}
}

func TestFirstSampleContributesNothing(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideRight},
		CartesianPath: true,
	})
	if err := acc.Sample(singleArm(geom.Vec3{X: 5}, nil, geom.Identity()), 0.02); err != nil {
		t.Fatalf("sample: %v", err)
	}
	if got := acc.CartesianPath()[model.SideRight]; got != 0 {
		t.Fatalf("first sample must contribute zero path, got %f", got)
	}
}

func TestJointPathEuclidean(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:     []model.Side{model.SideRight},
		JointPath: true,
	})
	steps := [][]float64{
		{0, 0},
		{3, 4},
		{3, 4},
		{6, 8},
	}
	for i, joints := range steps {
		if err := acc.Sample(singleArm(geom.Vec3{}, joints, geom.Identity()), 0.02); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	got := acc.JointPath()[model.SideRight]
	if math.Abs(got-10) > tol {
		t.Fatalf("expected joint path 10, got %f", got)
	}
}

func TestOrientationPathGeodesic(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:           []model.Side{model.SideRight},
		OrientationPath: true,
	})
	for i := 0; i < 4; i++ {
		q := geom.AxisAngle(geom.Vec3{Z: 1}, float64(i)*math.Pi/6)
		if err := acc.Sample(singleArm(geom.Vec3{}, nil, q), 0.02); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	got := acc.OrientationPath()[model.SideRight]
	if math.Abs(got-math.Pi/2) > tol {
		t.Fatalf("expected orientation path pi/2, got %f", got)
	}
}

func TestJerkZeroForConstantVelocity(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideRight},
		CartesianJerk: true,
	})
	for i := 0; i < 8; i++ {
		arms := singleArm(geom.Vec3{X: float64(i)}, nil, geom.Identity())
		if err := acc.Sample(arms, 1); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if got := acc.CartesianJerkMean()[model.SideRight]; math.Abs(got) > tol {
		t.Fatalf("constant velocity must have zero jerk, got %f", got)
	}
}

func TestJerkCubicTrajectory(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideRight},
		CartesianJerk: true,
		JointJerk:     true,
	})
	// x(t) = t^3 sampled at dt=1 has a constant third difference of 6.
	for i := 0; i < 4; i++ {
		x := math.Pow(float64(i), 3)
		arms := map[model.Side]model.ArmSample{
			model.SideRight: {
				Position:    geom.Vec3{X: x},
				Joints:      []float64{x},
				Orientation: geom.Identity(),
			},
		}
		if err := acc.Sample(arms, 1); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if got := acc.CartesianJerkMean()[model.SideRight]; math.Abs(got-6) > tol {
		t.Fatalf("expected cartesian jerk 6, got %f", got)
	}
	if got := acc.CartesianJerkRMS()[model.SideRight]; math.Abs(got-6) > tol {
		t.Fatalf("expected cartesian jerk rms 6, got %f", got)
	}
	if got := acc.JointJerkMean()[model.SideRight]; math.Abs(got-6) > tol {
		t.Fatalf("expected joint jerk 6, got %f", got)
	}
}

func TestJerkNeedsFourSamples(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideRight},
		CartesianJerk: true,
	})
	for i := 0; i < 3; i++ {
		arms := singleArm(geom.Vec3{X: math.Pow(float64(i), 3)}, nil, geom.Identity())
		if err := acc.Sample(arms, 1); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if _, _, ok := acc.OverallCartesianJerk(); ok {
		t.Fatal("fewer than four samples must contribute no jerk")
	}
}

func TestKinematicsMissingSide(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideLeft, model.SideRight},
		CartesianPath: true,
	})
	err := acc.Sample(singleArm(geom.Vec3{}, nil, geom.Identity()), 0.02)
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected data shape error, got %v", err)
	}
}

func TestKinematicsJointShapeChange(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:     []model.Side{model.SideRight},
		JointPath: true,
	})
	if err := acc.Sample(singleArm(geom.Vec3{}, []float64{1, 2}, geom.Identity()), 0.02); err != nil {
		t.Fatalf("sample: %v", err)
	}
	err := acc.Sample(singleArm(geom.Vec3{}, []float64{1}, geom.Identity()), 0.02)
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected data shape error, got %v", err)
	}
}

func TestKinematicsRejectsNonPositiveDT(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideRight},
		CartesianPath: true,
	})
	err := acc.Sample(singleArm(geom.Vec3{}, nil, geom.Identity()), 0)
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected data shape error for dt=0, got %v", err)
	}
}

func TestOverallJerkPoolsSides(t *testing.T) {
	acc := NewKinematicAccumulator(KinematicConfig{
		Sides:         []model.Side{model.SideLeft, model.SideRight},
		CartesianJerk: true,
	})
	for i := 0; i < 4; i++ {
		x := math.Pow(float64(i), 3)
		arms := map[model.Side]model.ArmSample{
			model.SideLeft:  {Position: geom.Vec3{X: x}, Orientation: geom.Identity()},
			model.SideRight: {Position: geom.Vec3{X: 2 * x}, Orientation: geom.Identity()},
		}
		if err := acc.Sample(arms, 1); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	mean, rms, ok := acc.OverallCartesianJerk()
	if !ok {
		t.Fatal("expected pooled jerk statistics")
	}
	if math.Abs(mean-9) > tol {
		t.Fatalf("expected pooled mean (6+12)/2 = 9, got %f", mean)
	}
	want := math.Sqrt((36.0 + 144.0) / 2.0)
	if math.Abs(rms-want) > tol {
		t.Fatalf("expected pooled rms %f, got %f", want, rms)
	}
}
