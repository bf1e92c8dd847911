package grasp

import (
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/wangfub/moveit-grasps/graspmath"
)

// Every per-criterion score below is normalized to [0, 1], higher is better,
// and no scoring function mutates its inputs.

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scoreRotationsFromIdeal scores how closely each basis axis of the candidate
// orientation tracks the same axis of the ideal orientation: 1 when aligned,
// 0 when opposed, strictly decreasing in the angle between them.
func scoreRotationsFromIdeal(pose, ideal spatialmath.Pose) r3.Vector {
	var scores [3]float64
	for i, u := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		a := graspmath.TransformDirection(pose, u)
		b := graspmath.TransformDirection(ideal, u)
		d := a.Dot(b)
		if d > 1 {
			d = 1
		} else if d < -1 {
			d = -1
		}
		scores[i] = (math.Pi - math.Acos(d)) / math.Pi
	}
	return r3.Vector{X: scores[0], Y: scores[1], Z: scores[2]}
}

// scoreTranslationFromIdeal scores the per-axis deviation of a candidate
// translation from the ideal translation, decaying exponentially with
// distance.
func scoreTranslationFromIdeal(pose, ideal spatialmath.Pose) r3.Vector {
	delta := pose.Point().Sub(ideal.Point())
	return r3.Vector{
		X: math.Exp(-math.Abs(delta.X)),
		Y: math.Exp(-math.Abs(delta.Y)),
		Z: math.Exp(-math.Abs(delta.Z)),
	}
}

// scoreTranslationFromExtrema scores a finger candidate translation against
// the batch extrema: the closer a component is to the batch minimum, the
// higher its score. A degenerate axis where all candidates coincide scores 1.
func scoreTranslationFromExtrema(pt, minTranslation, maxTranslation r3.Vector) r3.Vector {
	score := func(v, lo, hi float64) float64 {
		span := hi - lo
		if span <= 0 {
			return 1
		}
		return clamp01(1 - (v-lo)/span)
	}
	return r3.Vector{
		X: score(pt.X, minTranslation.X, maxTranslation.X),
		Y: score(pt.Y, minTranslation.Y, maxTranslation.Y),
		Z: score(pt.Z, minTranslation.Z, maxTranslation.Z),
	}
}

// scoreGraspWidth rewards wider pre-grasp openings; a wide approach gives the
// fingers more clearance. Depends on the opening fraction alone.
func scoreGraspWidth(percentOpen float64) float64 {
	return clamp01(percentOpen)
}

// scoreDistanceToPalm scores the candidate's distance to the object centroid
// within the batch's observed [min, max] distance range; the deepest grasps
// of the batch score 1.
func scoreDistanceToPalm(pose spatialmath.Pose, centroid r3.Vector, minDist, maxDist float64) float64 {
	d := pose.Point().Sub(centroid).Norm()
	if maxDist <= minDist {
		return 1
	}
	return clamp01(1 - (d-minDist)/(maxDist-minDist))
}

// scoreSuctionOverhang penalizes placements whose active suction footprint
// extends past the object's top face, one component per footprint axis.
func scoreSuctionOverhang(graspPose spatialmath.Pose, profile *GripperProfile, c Cuboid) (float64, float64) {
	local := spatialmath.Compose(spatialmath.PoseInverse(c.TopPose()), spatialmath.NewPoseFromPoint(graspPose.Point())).Point()
	return overhangScore(local.X, profile.ActiveSuctionX, c.Depth),
		overhangScore(local.Y, profile.ActiveSuctionY, c.Width)
}

func overhangScore(offset, active, extent float64) float64 {
	over := math.Abs(offset) + active/2 - extent/2
	if over <= 0 {
		return 1
	}
	return clamp01(1 - over/active)
}

// scoreFingerGrasp combines the finger criteria into one weighted mean.
func (g *Generator) scoreFingerGrasp(
	pose spatialmath.Pose,
	c Cuboid,
	ext batchExtrema,
	percentOpen float64,
) float64 {
	w := g.weights
	widthScore := scoreGraspWidth(percentOpen)
	orientation := scoreRotationsFromIdeal(pose, g.ideal)
	distanceScore := scoreDistanceToPalm(pose, c.Centroid(), ext.minDist, ext.maxDist)
	translation := scoreTranslationFromExtrema(pose.Point(), ext.minTranslation, ext.maxTranslation)

	total := w.Width*widthScore +
		w.OrientationX*orientation.X + w.OrientationY*orientation.Y + w.OrientationZ*orientation.Z +
		w.Depth*distanceScore +
		w.TranslationX*translation.X + w.TranslationY*translation.Y + w.TranslationZ*translation.Z
	total /= w.fingerTotal()

	g.logger.Debugf(
		"finger grasp score %.3f (width %.3f, orientation %.3f/%.3f/%.3f, distance %.3f, translation %.3f/%.3f/%.3f)",
		total, widthScore, orientation.X, orientation.Y, orientation.Z,
		distanceScore, translation.X, translation.Y, translation.Z,
	)
	return total
}

// scoreSuctionGrasp combines the suction criteria into one weighted mean. The
// ideal reference keeps the configured orientation but sits at the center of
// the object's top face.
func (g *Generator) scoreSuctionGrasp(pose spatialmath.Pose, profile *GripperProfile, c Cuboid) float64 {
	w := g.weights
	ideal := spatialmath.NewPose(c.TopPose().Point(), g.ideal.Orientation())
	orientation := scoreRotationsFromIdeal(pose, ideal)
	translation := scoreTranslationFromIdeal(pose, ideal)
	overhangX, overhangY := scoreSuctionOverhang(pose, profile, c)

	total := w.OrientationX*orientation.X + w.OrientationY*orientation.Y + w.OrientationZ*orientation.Z +
		w.TranslationX*translation.X + w.TranslationY*translation.Y + w.TranslationZ*translation.Z +
		w.Overhang*overhangX + w.Overhang*overhangY
	total /= w.suctionTotal()

	g.logger.Debugf(
		"suction grasp score %.3f (orientation %.3f/%.3f/%.3f, translation %.3f/%.3f/%.3f, overhang %.3f/%.3f)",
		total, orientation.X, orientation.Y, orientation.Z,
		translation.X, translation.Y, translation.Z, overhangX, overhangY,
	)
	return total
}
