// Package graspmath provides the pose composition and segment-box intersection
// primitives used by the grasp generator.
package graspmath

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/num/quat"
)

// Axis identifies one of the three principal axes of a right-handed frame.
type Axis int

// The three principal axes.
const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "X"
	case YAxis:
		return "Y"
	case ZAxis:
		return "Z"
	}
	return "?"
}

// Unit returns the unit vector along the axis.
func (a Axis) Unit() r3.Vector {
	switch a {
	case XAxis:
		return r3.Vector{X: 1}
	case YAxis:
		return r3.Vector{Y: 1}
	default:
		return r3.Vector{Z: 1}
	}
}

// RotateLocal rotates a pose about one of its own axes, leaving the
// translation fixed.
func RotateLocal(p spatialmath.Pose, axis Axis, angle float64) spatialmath.Pose {
	u := axis.Unit()
	return spatialmath.Compose(p, spatialmath.NewPoseFromOrientation(
		&spatialmath.R4AA{Theta: angle, RX: u.X, RY: u.Y, RZ: u.Z},
	))
}

// RotateXYZ applies, in order, rotations about the pose's local X, Y and Z
// axes. Every enumeration stage composes its base orientation through this
// helper so the axis semantics stay consistent.
func RotateXYZ(p spatialmath.Pose, rx, ry, rz float64) spatialmath.Pose {
	return RotateLocal(RotateLocal(RotateLocal(p, XAxis, rx), YAxis, ry), ZAxis, rz)
}

// TranslateWorld offsets a pose's translation in the fixed frame.
func TranslateWorld(p spatialmath.Pose, offset r3.Vector) spatialmath.Pose {
	return spatialmath.NewPose(p.Point().Add(offset), p.Orientation())
}

// TranslateLocal offsets a pose along its own axes.
func TranslateLocal(p spatialmath.Pose, offset r3.Vector) spatialmath.Pose {
	return spatialmath.Compose(p, spatialmath.NewPoseFromPoint(offset))
}

// TransformDirection rotates a direction vector by the pose's orientation.
func TransformDirection(p spatialmath.Pose, v r3.Vector) r3.Vector {
	q := p.Orientation().Quaternion()
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rotated := quat.Mul(quat.Mul(q, qv), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}
