package metrics

import (
	"math"

	"dexbench/internal/geom"
	"dexbench/internal/model"
)

// jerkWindow is the number of position samples needed before a single
// jerk value can be derived by repeated backward differences.
const jerkWindow = 4

// runningStat accumulates the mean of |v| and the root-mean-square of v
// over a stream of values without retaining them.
type runningStat struct {
	n      int
	sumAbs float64
	sumSq  float64
}

func (s *runningStat) add(v float64) {
	s.n++
	s.sumAbs += math.Abs(v)
	s.sumSq += v * v
}

func (s runningStat) mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sumAbs / float64(s.n)
}

func (s runningStat) rms() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.sumSq / float64(s.n))
}

func (s *runningStat) merge(o runningStat) {
	s.n += o.n
	s.sumAbs += o.sumAbs
	s.sumSq += o.sumSq
}

// KinematicConfig selects which running quantities an accumulator keeps.
type KinematicConfig struct {
	Sides           []model.Side
	CartesianPath   bool
	JointPath       bool
	OrientationPath bool
	CartesianJerk   bool
	JointJerk       bool
}

type armKinematics struct {
	samples int

	prevPos    geom.Vec3
	prevJoints []float64
	prevQuat   geom.Quat

	cartesianPath   float64
	jointPath       float64
	orientationPath float64

	posHistory   []geom.Vec3
	jointHistory [][]float64

	cartesianJerk runningStat
	jointJerk     runningStat
}

// KinematicAccumulator keeps running path-length and jerk statistics for
// every tracked arm side.
type KinematicAccumulator struct {
	cfg  KinematicConfig
	arms map[model.Side]*armKinematics
}

func NewKinematicAccumulator(cfg KinematicConfig) *KinematicAccumulator {
	arms := make(map[model.Side]*armKinematics, len(cfg.Sides))
	for _, side := range cfg.Sides {
		arms[side] = &armKinematics{}
	}
	return &KinematicAccumulator{cfg: cfg, arms: arms}
}

// Sample consumes one step's arm snapshots. dt is the fixed control-step
// duration; variable timesteps are not supported. The first sample per
// arm establishes a baseline and contributes no distance; jerk starts
// contributing once four samples are buffered.
func (k *KinematicAccumulator) Sample(arms map[model.Side]model.ArmSample, dt float64) error {
	if dt <= 0 {
		return shapef("control period dt must be > 0, got %g", dt)
	}
	for _, side := range k.cfg.Sides {
		sample, ok := arms[side]
		if !ok {
			return shapef("arm side %q missing from step sample", side)
		}
		if err := k.arms[side].accumulate(k.cfg, sample, dt); err != nil {
			return err
		}
	}
	return nil
}

func (a *armKinematics) accumulate(cfg KinematicConfig, sample model.ArmSample, dt float64) error {
	if a.samples > 0 {
		if cfg.CartesianPath {
			a.cartesianPath += geom.Dist(sample.Position, a.prevPos)
		}
		if cfg.JointPath {
			dist, err := geom.EuclideanDist(sample.Joints, a.prevJoints)
			if err != nil {
				return shapef("joint vector changed shape: %v", err)
			}
			a.jointPath += dist
		}
		if cfg.OrientationPath {
			a.orientationPath += geom.GeodesicAngle(sample.Orientation, a.prevQuat)
		}
	}
	a.prevPos = sample.Position
	a.prevJoints = append(a.prevJoints[:0], sample.Joints...)
	a.prevQuat = sample.Orientation
	a.samples++

	if cfg.CartesianJerk {
		a.posHistory = append(a.posHistory, sample.Position)
		if len(a.posHistory) > jerkWindow {
			a.posHistory = a.posHistory[1:]
		}
		if len(a.posHistory) == jerkWindow {
			a.cartesianJerk.add(cartesianJerkMagnitude(a.posHistory, dt))
		}
	}
	if cfg.JointJerk {
		joints := append([]float64(nil), sample.Joints...)
		if len(a.jointHistory) > 0 && len(a.jointHistory[len(a.jointHistory)-1]) != len(joints) {
			return shapef("joint vector changed shape: %d vs %d", len(a.jointHistory[len(a.jointHistory)-1]), len(joints))
		}
		a.jointHistory = append(a.jointHistory, joints)
		if len(a.jointHistory) > jerkWindow {
			a.jointHistory = a.jointHistory[1:]
		}
		if len(a.jointHistory) == jerkWindow {
			a.jointJerk.add(jointJerkMagnitude(a.jointHistory, dt))
		}
	}
	return nil
}

// cartesianJerkMagnitude derives |jerk| from four consecutive positions:
// backward-difference velocities, then accelerations, then one jerk.
func cartesianJerkMagnitude(positions []geom.Vec3, dt float64) float64 {
	var velocities [3]geom.Vec3
	for i := 0; i < 3; i++ {
		velocities[i] = positions[i+1].Sub(positions[i]).Scale(1 / dt)
	}
	var accelerations [2]geom.Vec3
	for i := 0; i < 2; i++ {
		accelerations[i] = velocities[i+1].Sub(velocities[i]).Scale(1 / dt)
	}
	return accelerations[1].Sub(accelerations[0]).Scale(1 / dt).Norm()
}

func jointJerkMagnitude(joints [][]float64, dt float64) float64 {
	velocities := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		velocities[i] = geom.VecScale(geom.VecSub(joints[i+1], joints[i]), 1/dt)
	}
	accelerations := make([][]float64, 2)
	for i := 0; i < 2; i++ {
		accelerations[i] = geom.VecScale(geom.VecSub(velocities[i+1], velocities[i]), 1/dt)
	}
	return geom.VecNorm(geom.VecScale(geom.VecSub(accelerations[1], accelerations[0]), 1/dt))
}

// SampleCount is the number of steps observed so far.
func (k *KinematicAccumulator) SampleCount() int {
	for _, side := range k.cfg.Sides {
		return k.arms[side].samples
	}
	return 0
}

// JerkSampleCount is the number of jerk values accumulated across sides.
func (k *KinematicAccumulator) JerkSampleCount() int {
	total := 0
	for _, arm := range k.arms {
		total += arm.cartesianJerk.n + arm.jointJerk.n
	}
	return total
}

func (k *KinematicAccumulator) CartesianPath() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.cartesianPath })
}

func (k *KinematicAccumulator) JointPath() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.jointPath })
}

func (k *KinematicAccumulator) OrientationPath() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.orientationPath })
}

func (k *KinematicAccumulator) CartesianJerkMean() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.cartesianJerk.mean() })
}

func (k *KinematicAccumulator) CartesianJerkRMS() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.cartesianJerk.rms() })
}

func (k *KinematicAccumulator) JointJerkMean() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.jointJerk.mean() })
}

func (k *KinematicAccumulator) JointJerkRMS() map[model.Side]float64 {
	return k.perSide(func(a *armKinematics) float64 { return a.jointJerk.rms() })
}

// OverallCartesianJerk pools every side's jerk stream into one mean and
// RMS pair.
func (k *KinematicAccumulator) OverallCartesianJerk() (mean, rms float64, ok bool) {
	return k.overall(func(a *armKinematics) runningStat { return a.cartesianJerk })
}

func (k *KinematicAccumulator) OverallJointJerk() (mean, rms float64, ok bool) {
	return k.overall(func(a *armKinematics) runningStat { return a.jointJerk })
}

func (k *KinematicAccumulator) perSide(get func(*armKinematics) float64) map[model.Side]float64 {
	out := make(map[model.Side]float64, len(k.cfg.Sides))
	for _, side := range k.cfg.Sides {
		out[side] = get(k.arms[side])
	}
	return out
}

func (k *KinematicAccumulator) overall(get func(*armKinematics) runningStat) (float64, float64, bool) {
	var pooled runningStat
	for _, side := range k.cfg.Sides {
		pooled.merge(get(k.arms[side]))
	}
	if pooled.n == 0 {
		return 0, 0, false
	}
	return pooled.mean(), pooled.rms(), true
}
