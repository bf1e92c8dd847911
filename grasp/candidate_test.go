package grasp

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/test"
)

func TestCandidateList(t *testing.T) {
	list := &CandidateList{}
	test.That(t, list.Len(), test.ShouldEqual, 0)
	_, ok := list.Best()
	test.That(t, ok, test.ShouldBeFalse)

	list.Emit(ScoredCandidate{Name: "grasp_0", Score: 0.4})
	list.Emit(ScoredCandidate{Name: "grasp_1", Score: 0.9})
	list.Emit(ScoredCandidate{Name: "grasp_2", Score: 0.6})
	test.That(t, list.Len(), test.ShouldEqual, 3)

	best, ok := list.Best()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, best.Name, test.ShouldEqual, "grasp_1")

	list.SortByScore()
	test.That(t, list.Candidates[0].Name, test.ShouldEqual, "grasp_1")
	test.That(t, list.Candidates[1].Name, test.ShouldEqual, "grasp_2")
	test.That(t, list.Candidates[2].Name, test.ShouldEqual, "grasp_0")
}

func TestApproachDirection(t *testing.T) {
	// With no end-effector offset the approach runs along the local Z axis.
	noOffset := &GripperProfile{}
	test.That(t, spatialmath.R3VectorAlmostEqual(approachDirection(noOffset), r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)

	// An end effector mounted behind the grasp point approaches forward.
	behind := &GripperProfile{GraspToEndEffector: spatialmath.NewPoseFromPoint(r3.Vector{Z: -0.12})}
	test.That(t, spatialmath.R3VectorAlmostEqual(approachDirection(behind), r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)

	angled := &GripperProfile{GraspToEndEffector: spatialmath.NewPoseFromPoint(r3.Vector{X: -3, Z: -4})}
	dir := approachDirection(angled)
	test.That(t, dir.X, test.ShouldAlmostEqual, 0.6)
	test.That(t, dir.Z, test.ShouldAlmostEqual, 0.8)
	test.That(t, dir.Norm(), test.ShouldAlmostEqual, 1)
}

func TestCandidateWaypoints(t *testing.T) {
	profile := validFingerProfile()
	profile.ApproachDistance = 0.1
	profile.RetreatDistance = 0.2
	profile.LiftDistance = 0.3

	candidate := ScoredCandidate{
		GraspPose:       spatialmath.NewZeroPose(),
		EndEffectorPose: spatialmath.NewZeroPose(),
		profile:         profile,
	}

	pre := candidate.PreGraspPose()
	test.That(t, pre.Point().Z, test.ShouldAlmostEqual, -0.1)

	waypoints := candidate.Waypoints()
	test.That(t, waypoints, test.ShouldHaveLength, 4)
	test.That(t, spatialmath.PoseAlmostEqual(waypoints[0], pre), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(waypoints[1], candidate.EndEffectorPose), test.ShouldBeTrue)
	test.That(t, waypoints[2].Point().Z, test.ShouldAlmostEqual, 0.3)
	test.That(t, waypoints[3].Point().Z, test.ShouldAlmostEqual, 0.1)
}

func TestAddGraspSkipsNarrowOpenings(t *testing.T) {
	sink := &CandidateList{}
	g := NewGenerator(logging.NewTestLogger(t), sink)
	c := testCuboid()
	profile := validFingerProfile()
	profile.PaddingOnApproach = 0.005
	profile.Widths = LinearOpening{MinWidth: 0, MaxWidth: 0.1}

	// minimum opening 0.06: only the fully open fraction clears it.
	seq := 0
	added := g.addGrasp(spatialmath.NewZeroPose(), profile, c, batchExtrema{}, 0.05, &seq)
	test.That(t, added, test.ShouldEqual, 1)
	test.That(t, sink.Len(), test.ShouldEqual, 1)
	test.That(t, sink.Candidates[0].PercentOpen, test.ShouldAlmostEqual, 1)
	test.That(t, sink.Candidates[0].Name, test.ShouldEqual, "grasp_0")
	test.That(t, seq, test.ShouldEqual, 1)

	// With a wide enough gripper every fraction that clears the object is
	// kept, each as its own candidate.
	profile.Widths = LinearOpening{MinWidth: 0.07, MaxWidth: 0.2}
	added = g.addGrasp(spatialmath.NewZeroPose(), profile, c, batchExtrema{}, 0.05, &seq)
	test.That(t, added, test.ShouldEqual, 3)
	test.That(t, sink.Len(), test.ShouldEqual, 4)
}

func TestEndEffectorPoseOffset(t *testing.T) {
	sink := &CandidateList{}
	g := NewGenerator(logging.NewTestLogger(t), sink)
	c := Cuboid{Pose: spatialmath.NewZeroPose(), Depth: 0.1, Width: 0.1, Height: 0.1}
	profile := validSuctionProfile()
	profile.GraspToEndEffector = spatialmath.NewPoseFromPoint(r3.Vector{Z: -0.05})

	test.That(t, g.Generate(c, profile, DefaultCandidateConfig()), test.ShouldBeNil)
	test.That(t, sink.Len(), test.ShouldBeGreaterThan, 0)
	for _, candidate := range sink.Candidates {
		want := spatialmath.Compose(candidate.GraspPose, profile.GraspToEndEffector)
		test.That(t, spatialmath.PoseAlmostEqual(candidate.EndEffectorPose, want), test.ShouldBeTrue)
	}
}
