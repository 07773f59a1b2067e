package geom

import (
	"errors"
	"math"
)

// Quat is a rotation quaternion in w, x, y, z order.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity is the no-rotation quaternion.
func Identity() Quat {
	return Quat{W: 1}
}

func (q Quat) Dot(o Quat) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.Dot(q))
}

func (q Quat) Normalize() (Quat, error) {
	n := q.Norm()
	if n == 0 {
		return Quat{}, errors.New("cannot normalize zero quaternion")
	}
	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}, nil
}

// AxisAngle builds a unit quaternion rotating by angle radians about axis.
func AxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Norm()
	if n == 0 {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return Quat{
		W: math.Cos(angle / 2),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// GeodesicAngle is the shortest-arc angular distance between two unit
// quaternions, in [0, pi]. q and -q denote the same rotation, so the
// absolute dot product is used.
func GeodesicAngle(a, b Quat) float64 {
	d := math.Abs(a.Dot(b))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}
