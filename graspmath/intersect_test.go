package graspmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/test"
)

func TestFaceIntersection(t *testing.T) {
	cases := []struct {
		name               string
		tt, u1, v1, u2, v2 float64
		a, b               float64
		hit                bool
	}{
		{"center crossing", 0.5, -1, 0, 1, 0, 1, 1, true},
		{"crossing before segment start", -0.5, -1, 0, 1, 0, 1, 1, false},
		{"crossing after segment end", 1.5, -1, 0, 1, 0, 1, 1, false},
		{"on face boundary", 0.5, 0.5, 0, 0.5, 0, 1, 1, true},
		{"on face corner", 1, 0.5, 0.5, 0.5, 0.5, 1, 1, true},
		{"outside face", 0.5, 0.6, 0, 0.6, 0, 1, 1, false},
		{"parallel segment", math.NaN(), 0, 0, 0, 0, 1, 1, false},
		{"t at segment start", 0, 0, 0, 5, 5, 1, 1, true},
		{"t at segment end", 1, 5, 5, 0, 0, 1, 1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FaceIntersection(c.tt, c.u1, c.v1, c.u2, c.v2, c.a, c.b)
			test.That(t, got, test.ShouldEqual, c.hit)
		})
	}
}

func TestSegmentIntersectsCuboid(t *testing.T) {
	cuboid := spatialmath.NewZeroPose()
	down := RotateLocal(spatialmath.NewZeroPose(), XAxis, math.Pi)

	cases := []struct {
		name  string
		pose  spatialmath.Pose
		depth float64
		hit   bool
	}{
		{
			"through top face pointing down",
			TranslateWorld(down, r3.Vector{Z: 1}),
			1,
			true,
		},
		{
			"stops short of the cuboid",
			TranslateWorld(down, r3.Vector{Z: 1}),
			0.25,
			false,
		},
		{
			"starts inside",
			spatialmath.NewPoseFromPoint(r3.Vector{Z: 0.25}),
			0.5,
			true,
		},
		{
			"starts past the far face",
			spatialmath.NewPoseFromPoint(r3.Vector{Z: 0.75}),
			0.5,
			false,
		},
		{
			"side approach through x face",
			TranslateWorld(RotateLocal(spatialmath.NewZeroPose(), YAxis, -math.Pi/2), r3.Vector{X: 1}),
			1,
			true,
		},
		{
			"misses the cuboid entirely",
			TranslateWorld(down, r3.Vector{X: 2, Z: 1}),
			1,
			false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SegmentIntersectsCuboid(cuboid, 1, 1, 1, c.pose, c.depth)
			test.That(t, got, test.ShouldEqual, c.hit)
		})
	}
}

func TestSegmentIntersectsRotatedCuboid(t *testing.T) {
	// The same world segment tested against a cuboid whose own frame is
	// rotated; the transform into the cuboid frame must absorb the rotation.
	cuboid := RotateLocal(spatialmath.NewZeroPose(), ZAxis, math.Pi/4)
	down := RotateLocal(spatialmath.NewZeroPose(), XAxis, math.Pi)
	pose := TranslateWorld(down, r3.Vector{Z: 1})

	test.That(t, SegmentIntersectsCuboid(cuboid, 1, 1, 1, pose, 1), test.ShouldBeTrue)
	test.That(t, SegmentIntersectsCuboid(cuboid, 1, 1, 1, pose, 0.25), test.ShouldBeFalse)
}
