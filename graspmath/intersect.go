package graspmath

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
)

// FaceIntersection reports whether a segment crosses one face of an
// axis-aligned box. t parameterizes the segment's crossing of the face plane;
// (u1,v1) and (u2,v2) are the segment endpoints projected onto that plane, and
// a and b are the face extents. The face boundary counts as a hit.
func FaceIntersection(t, u1, v1, u2, v2, a, b float64) bool {
	// NaN or infinite t (segment parallel to the face plane) fails here.
	if !(t >= 0 && t <= 1) {
		return false
	}
	u := u1 + t*(u2-u1)
	v := v1 + t*(v2-v1)
	return u >= -a/2 && u <= a/2 && v >= -b/2 && v <= b/2
}

// SegmentIntersectsCuboid reports whether the segment from the grasp pose
// origin to approachDepth along its local Z axis crosses any face of the
// cuboid. The test runs in the cuboid's local frame, where the box is axis
// aligned with extents depth, width, height along X, Y, Z. This bounds how far
// a variable-angle sweep may rotate before the fingertip path leaves the
// object; it is not a collision test.
func SegmentIntersectsCuboid(
	cuboidPose spatialmath.Pose,
	depth, width, height float64,
	graspPose spatialmath.Pose,
	approachDepth float64,
) bool {
	toLocal := spatialmath.PoseInverse(cuboidPose)
	tip := TranslateLocal(graspPose, r3.Vector{Z: approachDepth})
	pa := spatialmath.Compose(toLocal, spatialmath.NewPoseFromPoint(graspPose.Point())).Point()
	pb := spatialmath.Compose(toLocal, spatialmath.NewPoseFromPoint(tip.Point())).Point()

	// z = +/- height/2 faces
	for _, s := range []float64{1, -1} {
		t := (s*height/2 - pa.Z) / (pb.Z - pa.Z)
		if FaceIntersection(t, pa.X, pa.Y, pb.X, pb.Y, depth, width) {
			return true
		}
	}
	// y = +/- width/2 faces
	for _, s := range []float64{1, -1} {
		t := (s*width/2 - pa.Y) / (pb.Y - pa.Y)
		if FaceIntersection(t, pa.X, pa.Z, pb.X, pb.Z, depth, height) {
			return true
		}
	}
	// x = +/- depth/2 faces
	for _, s := range []float64{1, -1} {
		t := (s*depth/2 - pa.X) / (pb.X - pa.X)
		if FaceIntersection(t, pa.Y, pa.Z, pb.Y, pb.Z, width, height) {
			return true
		}
	}
	return false
}
