package grasp

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/wangfub/moveit-grasps/graspmath"
)

// ScoredCandidate is one emitted grasp: a pose, its end-effector variant, and
// the score assigned to it. Finger grippers emit several candidates per pose,
// one per opening fraction.
type ScoredCandidate struct {
	// Name is unique within one Generate call.
	Name string
	// GraspPose is the enumerated pose, palm frame at the object.
	GraspPose spatialmath.Pose
	// EndEffectorPose is GraspPose composed with the profile's end-effector
	// offset.
	EndEffectorPose spatialmath.Pose
	// Score is the weighted criteria mean in [0, 1].
	Score float64
	// PercentOpen is the commanded pre-grasp opening fraction. Zero for
	// suction candidates.
	PercentOpen float64

	profile *GripperProfile
}

// Profile returns the gripper profile the candidate was generated for.
func (s ScoredCandidate) Profile() *GripperProfile {
	return s.profile
}

// approachDirection is the end-effector frame direction of the approach
// motion. It opposes the palm-to-end-effector offset; a profile with no
// offset approaches along its own +Z.
func approachDirection(profile *GripperProfile) r3.Vector {
	t := profile.eefOffset().Point()
	n := t.Norm()
	if n == 0 {
		return r3.Vector{Z: 1}
	}
	return t.Mul(-1 / n)
}

// PreGraspPose returns the end-effector pose backed off from the grasp along
// the approach direction.
func (s ScoredCandidate) PreGraspPose() spatialmath.Pose {
	approach := approachDirection(s.profile)
	return graspmath.TranslateLocal(s.EndEffectorPose, approach.Mul(-s.profile.ApproachDistance))
}

// Waypoints returns the full pick motion: pre-grasp, grasp, lift, retreat.
// The lift is straight up in world coordinates; the retreat reverses the
// approach from the lifted pose.
func (s ScoredCandidate) Waypoints() []spatialmath.Pose {
	approach := approachDirection(s.profile)
	lifted := graspmath.TranslateWorld(s.EndEffectorPose, r3.Vector{Z: s.profile.LiftDistance})
	retreat := graspmath.TranslateLocal(lifted, approach.Mul(-s.profile.RetreatDistance))
	return []spatialmath.Pose{s.PreGraspPose(), s.EndEffectorPose, lifted, retreat}
}

// CandidateSink receives candidates as the generator emits them.
type CandidateSink interface {
	Emit(candidate ScoredCandidate)
}

// Visualizer receives intermediate poses and emitted candidates for
// diagnostics. Implementations must tolerate high call volume.
type Visualizer interface {
	Pose(pose spatialmath.Pose, label string)
	Candidate(candidate ScoredCandidate)
}

// CandidateList is a CandidateSink that accumulates everything in memory.
type CandidateList struct {
	Candidates []ScoredCandidate
}

// Emit implements CandidateSink.
func (l *CandidateList) Emit(candidate ScoredCandidate) {
	l.Candidates = append(l.Candidates, candidate)
}

// Len returns the number of accumulated candidates.
func (l *CandidateList) Len() int {
	return len(l.Candidates)
}

// SortByScore orders the accumulated candidates best first, preserving the
// emission order between equal scores.
func (l *CandidateList) SortByScore() {
	sort.SliceStable(l.Candidates, func(i, j int) bool {
		return l.Candidates[i].Score > l.Candidates[j].Score
	})
}

// Best returns the highest scoring candidate, or false when empty.
func (l *CandidateList) Best() (ScoredCandidate, bool) {
	if len(l.Candidates) == 0 {
		return ScoredCandidate{}, false
	}
	best := l.Candidates[0]
	for _, c := range l.Candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}

// addGrasp scores one enumerated pose and emits its candidates, returning how
// many were emitted. Finger poses produce one candidate per opening fraction;
// a fraction whose opening cannot clear the object is skipped without
// discarding the remaining fractions.
func (g *Generator) addGrasp(
	pose spatialmath.Pose,
	profile *GripperProfile,
	c Cuboid,
	ext batchExtrema,
	objectWidth float64,
	seq *int,
) int {
	eefPose := spatialmath.Compose(pose, profile.eefOffset())

	if profile.Kind == Suction {
		score := g.scoreSuctionGrasp(pose, profile, c)
		g.emit(pose, eefPose, profile, score, 0, seq)
		return 1
	}

	minOpenWidth := objectWidth + 2*profile.PaddingOnApproach
	added := 0
	for _, percentOpen := range []float64{1.0, 0.5, 0.0} {
		if err := profile.Widths.SetOpeningWidth(percentOpen, minOpenWidth); err != nil {
			g.logger.Debugf("skipping opening fraction %.2f: %v", percentOpen, err)
			continue
		}
		score := g.scoreFingerGrasp(pose, c, ext, percentOpen)
		g.emit(pose, eefPose, profile, score, percentOpen, seq)
		added++
	}
	return added
}

func (g *Generator) emit(
	pose, eefPose spatialmath.Pose,
	profile *GripperProfile,
	score, percentOpen float64,
	seq *int,
) {
	candidate := ScoredCandidate{
		Name:            fmt.Sprintf("grasp_%d", *seq),
		GraspPose:       pose,
		EndEffectorPose: eefPose,
		Score:           score,
		PercentOpen:     percentOpen,
		profile:         profile,
	}
	*seq++
	if g.viz != nil {
		g.viz.Candidate(candidate)
	}
	g.sink.Emit(candidate)
}
