package geom

import (
	"fmt"
	"math"
)

// Vec3 is a cartesian point or displacement in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func Dist(a, b Vec3) float64 {
	return a.Sub(b).Norm()
}

// EuclideanDist is the L2 distance between two vectors of equal length.
func EuclideanDist(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	acc := 0.0
	for i := range a {
		d := a[i] - b[i]
		acc += d * d
	}
	return math.Sqrt(acc), nil
}

// VecNorm is the L2 norm of a vector of arbitrary length.
func VecNorm(v []float64) float64 {
	acc := 0.0
	for _, x := range v {
		acc += x * x
	}
	return math.Sqrt(acc)
}

// VecSub subtracts b from a elementwise. Lengths must already match.
func VecSub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// VecScale multiplies every element by s.
func VecScale(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}
