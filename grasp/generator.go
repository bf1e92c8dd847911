package grasp

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"

	"github.com/wangfub/moveit-grasps/graspmath"
)

// palmOffset backs the palm off the object surface slightly.
const palmOffset = 0.001

// Generator enumerates scored grasp candidates for cuboid objects and emits
// them to a CandidateSink. A Generator is not safe for concurrent Generate
// calls with shared sinks; each call is otherwise self-contained.
type Generator struct {
	logger  logging.Logger
	ideal   spatialmath.Pose
	weights ScoreWeights
	sink    CandidateSink
	viz     Visualizer
}

// NewGenerator returns a Generator emitting to the given sink, with an
// identity ideal grasp pose and equal score weights.
func NewGenerator(logger logging.Logger, sink CandidateSink) *Generator {
	return &Generator{
		logger:  logger,
		ideal:   spatialmath.NewZeroPose(),
		weights: DefaultScoreWeights(),
		sink:    sink,
	}
}

// SetIdealGraspPose sets the reference pose whose orientation anchors the
// orientation scoring terms.
func (g *Generator) SetIdealGraspPose(p spatialmath.Pose) {
	g.ideal = p
}

// SetIdealGraspPoseRPY sets the ideal grasp orientation from fixed-order
// roll/pitch/yaw rotations, keeping the current ideal translation.
func (g *Generator) SetIdealGraspPoseRPY(roll, pitch, yaw float64) {
	oriented := graspmath.RotateXYZ(spatialmath.NewZeroPose(), roll, pitch, yaw)
	g.ideal = spatialmath.NewPose(g.ideal.Point(), oriented.Orientation())
}

// IdealGraspPose returns the current ideal grasp pose.
func (g *Generator) IdealGraspPose() spatialmath.Pose {
	return g.ideal
}

// SetScoreWeights replaces the scoring weights.
func (g *Generator) SetScoreWeights(w ScoreWeights) {
	g.weights = w
}

// SetVisualizer installs an optional diagnostics sink. Passing nil disables
// diagnostics.
func (g *Generator) SetVisualizer(v Visualizer) {
	g.viz = v
}

// Generate enumerates, scores and emits grasp candidates for the cuboid. It
// is the single dispatch point over the end-effector kind. Generating zero
// candidates is not an error.
func (g *Generator) Generate(c Cuboid, profile *GripperProfile, cfg CandidateConfig) error {
	if profile == nil {
		return errors.New("gripper profile must not be nil")
	}
	if err := profile.Validate(); err != nil {
		return errors.Wrap(err, "invalid gripper profile")
	}
	if err := g.weights.Validate(profile.Kind); err != nil {
		return errors.Wrap(err, "invalid score weights")
	}
	if g.sink == nil {
		return errors.New("generator has no candidate sink")
	}
	switch profile.Kind {
	case Finger:
		return g.generateFingerGrasps(c, profile, cfg)
	case Suction:
		return g.generateSuctionGrasps(c, profile)
	default:
		return errors.Errorf("unsupported end effector kind %d", int(profile.Kind))
	}
}

// axisFrame captures how a principal axis permutes the cuboid extents: a and
// b span the face being swept, c is the grasp approach direction, and the
// alpha angles seed the base grasp orientation for that axis.
type axisFrame struct {
	lengthAlongA float64
	lengthAlongB float64
	lengthAlongC float64
	aDir         r3.Vector
	bDir         r3.Vector
	cDir         r3.Vector
	alphaX       float64
	alphaY       float64
	alphaZ       float64
	objectWidth  float64
}

func newAxisFrame(c Cuboid, axis graspmath.Axis) axisFrame {
	xDir := graspmath.TransformDirection(c.Pose, r3.Vector{X: 1})
	yDir := graspmath.TransformDirection(c.Pose, r3.Vector{Y: 1})
	zDir := graspmath.TransformDirection(c.Pose, r3.Vector{Z: 1})
	switch axis {
	case graspmath.XAxis:
		return axisFrame{
			lengthAlongA: c.Width, lengthAlongB: c.Height, lengthAlongC: c.Depth,
			aDir: yDir, bDir: zDir, cDir: xDir,
			alphaX: -math.Pi / 2, alphaY: 0, alphaZ: -math.Pi / 2,
			objectWidth: c.Depth,
		}
	case graspmath.YAxis:
		return axisFrame{
			lengthAlongA: c.Depth, lengthAlongB: c.Height, lengthAlongC: c.Width,
			aDir: xDir, bDir: zDir, cDir: yDir,
			alphaX: 0, alphaY: math.Pi / 2, alphaZ: math.Pi,
			objectWidth: c.Width,
		}
	default:
		return axisFrame{
			lengthAlongA: c.Depth, lengthAlongB: c.Width, lengthAlongC: c.Height,
			aDir: xDir, bDir: yDir, cDir: zDir,
			alphaX: math.Pi / 2, alphaY: math.Pi / 2, alphaZ: 0,
			objectWidth: c.Height,
		}
	}
}

func (g *Generator) generateFingerGrasps(c Cuboid, profile *GripperProfile, cfg CandidateConfig) error {
	sweeps := []struct {
		axis    graspmath.Axis
		enabled bool
		extent  float64
	}{
		{graspmath.XAxis, cfg.SweepX, c.Depth},
		{graspmath.YAxis, cfg.SweepY, c.Width},
		{graspmath.ZAxis, cfg.SweepZ, c.Height},
	}

	seq := 0
	total := 0
	for _, sweep := range sweeps {
		if !sweep.enabled {
			continue
		}
		g.logger.Debugf("generating grasps around %s axis of cuboid", sweep.axis)
		axisCfg := cfg
		if sweep.extent > profile.MaxGraspWidth {
			// Object too wide to close around along this axis; only corner
			// and edge grasps can still reach.
			axisCfg.DisableAllGraspTypes()
			axisCfg.EnableCorner = cfg.EnableCorner
			axisCfg.EnableEdge = cfg.EnableEdge
		}

		poses := g.enumerateAxis(c, sweep.axis, profile, axisCfg)
		ext := computeExtrema(poses, c.Centroid())
		g.logger.Debugf("min/max grasp distance around %s axis: %f, %f", sweep.axis, ext.minDist, ext.maxDist)

		fr := newAxisFrame(c, sweep.axis)
		added := 0
		for _, p := range poses {
			if g.viz != nil {
				g.viz.Pose(p, "grasp pose")
			}
			added += g.addGrasp(p, profile, c, ext, fr.objectWidth, &seq)
		}
		g.logger.Debugf("added %d candidates from %d poses around %s axis", added, len(poses), sweep.axis)
		total += added
	}

	if total == 0 {
		g.logger.Warn("generated 0 grasps")
	} else {
		g.logger.Infof("generated %d grasps", total)
	}
	return nil
}

// enumerateAxis builds the ordered pose set for one principal axis. Stages
// append in a fixed order: corner, face, variable-angle, edge, depth,
// bidirectional. Later stages replicate the full list built by earlier ones,
// so the order must not change.
func (g *Generator) enumerateAxis(
	c Cuboid,
	axis graspmath.Axis,
	profile *GripperProfile,
	cfg CandidateConfig,
) []spatialmath.Pose {
	fr := newAxisFrame(c, axis)
	angleRes := profile.angleResolutionRad()

	var poses []spatialmath.Pose

	// Corner grasps, centroid aligned at zero depth.
	if cfg.EnableCorner {
		g.logger.Debug("adding corner grasps")
		numRadial := int(math.Ceil((math.Pi / 2) / angleRes))
		if numRadial < 1 {
			numRadial = 1
		}
		cornerA := fr.aDir.Mul(0.5 * (fr.lengthAlongA + palmOffset))
		cornerB := fr.bDir.Mul(0.5 * (fr.lengthAlongB + palmOffset))

		poses = appendCornerGrasps(poses, c.Pose, fr, cornerA.Mul(-1).Sub(cornerB), 0, numRadial)
		poses = appendCornerGrasps(poses, c.Pose, fr, cornerA.Mul(-1).Add(cornerB), -math.Pi/2, numRadial)
		poses = appendCornerGrasps(poses, c.Pose, fr, cornerA.Add(cornerB), math.Pi, numRadial)
		poses = appendCornerGrasps(poses, c.Pose, fr, cornerA.Sub(cornerB), math.Pi/2, numRadial)
	}
	numCorner := len(poses)

	// Spacing along the two face directions. When the object is narrower than
	// the finger pad, fall back to three poses centered on the face mid-line.
	numAlongA := int(math.Floor((fr.lengthAlongA-profile.FingerWidth)/profile.GraspResolution)) + 1
	numAlongB := int(math.Floor((fr.lengthAlongB-profile.FingerWidth)/profile.GraspResolution)) + 1
	if numAlongA <= 0 {
		numAlongA = 3
	}
	if numAlongB <= 0 {
		numAlongB = 3
	}
	deltaA, deltaB := 0.0, 0.0
	if numAlongA > 1 {
		deltaA = (fr.lengthAlongA - profile.FingerWidth) / float64(numAlongA-1)
	}
	if numAlongB > 1 {
		deltaB = (fr.lengthAlongB - profile.FingerWidth) / float64(numAlongB-1)
	}

	// Face grasps, axis aligned along each of the four face edges.
	if cfg.EnableFace {
		g.logger.Debug("adding face grasps")
		aTranslation := fr.aDir.Mul(-0.5 * (fr.lengthAlongA + palmOffset)).
			Add(fr.bDir.Mul(-0.5*(fr.lengthAlongB-profile.FingerWidth) - deltaB))
		bTranslation := fr.aDir.Mul(-0.5*(fr.lengthAlongA-profile.FingerWidth) - deltaA).
			Add(fr.bDir.Mul(-0.5 * (fr.lengthAlongB + palmOffset)))

		poses = appendFaceGrasps(poses, c.Pose, fr, aTranslation, fr.bDir.Mul(deltaB), 0, numAlongB)
		poses = appendFaceGrasps(poses, c.Pose, fr, bTranslation.Mul(-1), fr.aDir.Mul(-deltaA), -math.Pi/2, numAlongB)
		poses = appendFaceGrasps(poses, c.Pose, fr, aTranslation.Mul(-1), fr.bDir.Mul(-deltaB), math.Pi, numAlongB)
		poses = appendFaceGrasps(poses, c.Pose, fr, bTranslation, fr.aDir.Mul(deltaA), math.Pi/2, numAlongB)
	}

	// Variable-angle grasps: tilt each non-corner pose until the fingertip
	// segment no longer crosses the object. Corner grasps sit at zero depth
	// and are skipped.
	if cfg.EnableVariableAngle {
		g.logger.Debug("adding variable angle grasps")
		maxIterations := int(math.Ceil(math.Pi/angleRes)) + 1
		numSeed := len(poses)
		for i := numCorner; i < numSeed; i++ {
			for _, dir := range []float64{1, -1} {
				p := graspmath.RotateLocal(poses[i], graspmath.YAxis, dir*angleRes)
				iterations := 0
				for graspmath.SegmentIntersectsCuboid(c.Pose, c.Depth, c.Width, c.Height, p, profile.MaxDepth) {
					poses = append(poses, p)
					p = graspmath.RotateLocal(p, graspmath.YAxis, dir*angleRes)
					iterations++
					if iterations > maxIterations {
						g.logger.Warnf("exceeded %d iterations while creating variable angle grasps", maxIterations)
						break
					}
				}
			}
		}
	}

	// Edge grasps: face layout rotated a quarter-turn toward an object edge.
	if cfg.EnableEdge {
		g.logger.Debug("adding edge grasps")
		aSign, bSign, aRotSign, bRotSign := 1.0, 1.0, 1.0, 1.0
		switch axis {
		case graspmath.YAxis:
			aSign, bRotSign = -1, -1
		case graspmath.ZAxis:
			aSign, bSign, aRotSign, bRotSign = -1, -1, -1, -1
		case graspmath.XAxis:
		}

		aTranslation := fr.aDir.Mul(-0.5 * (fr.lengthAlongA + palmOffset)).
			Add(fr.bDir.Mul(-0.5*(fr.lengthAlongB-profile.FingerWidth) - deltaB)).
			Add(fr.cDir.Mul(-0.5 * (fr.lengthAlongC + palmOffset) * aSign))
		bTranslation := fr.aDir.Mul(-0.5*(fr.lengthAlongA-profile.FingerWidth) - deltaA).
			Add(fr.bDir.Mul(-0.5 * (fr.lengthAlongB + palmOffset))).
			Add(fr.cDir.Mul(-0.5 * (fr.lengthAlongC + palmOffset) * bSign))

		poses = appendEdgeGrasps(poses, c.Pose, fr, aTranslation, fr.bDir.Mul(deltaB), 0, numAlongB, -math.Pi/4*aRotSign)
		poses = appendEdgeGrasps(poses, c.Pose, fr, bTranslation.Mul(-1), fr.aDir.Mul(-deltaA), -math.Pi/2, numAlongB, math.Pi/4*bRotSign)
		poses = appendEdgeGrasps(poses, c.Pose, fr, aTranslation.Mul(-1), fr.bDir.Mul(-deltaB), math.Pi, numAlongB, math.Pi/4*aRotSign)
		poses = appendEdgeGrasps(poses, c.Pose, fr, bTranslation, fr.aDir.Mul(deltaA), math.Pi/2, numAlongB, -math.Pi/4*bRotSign)
	}

	// Replicate every pose at increasing depths along its own approach axis.
	g.logger.Debug("adding depth grasps")
	numDepth := int(math.Ceil(profile.DepthRange() / profile.DepthResolution))
	if numDepth < 1 {
		numDepth = 1
	}
	deltaDepth := profile.DepthRange() / float64(numDepth)
	numSeed := len(poses)
	for i := 0; i < numSeed; i++ {
		graspDir := graspmath.TransformDirection(poses[i], r3.Vector{Z: 1})
		p := poses[i]
		for j := 0; j < numDepth; j++ {
			p = graspmath.TranslateWorld(p, graspDir.Mul(deltaDepth))
			poses = append(poses, p)
		}
	}

	// Replicate every pose approaching from the other direction.
	g.logger.Debug("adding bidirectional grasps")
	numSeed = len(poses)
	for i := 0; i < numSeed; i++ {
		poses = append(poses, graspmath.RotateLocal(poses[i], graspmath.ZAxis, math.Pi))
	}

	return poses
}

// appendCornerGrasps seeds one face corner and sweeps the quarter-turn sector
// radially.
func appendCornerGrasps(
	poses []spatialmath.Pose,
	base spatialmath.Pose,
	fr axisFrame,
	translation r3.Vector,
	cornerRotation float64,
	numRadial int,
) []spatialmath.Pose {
	deltaAngle := (math.Pi / 2) / float64(numRadial+1)
	p := graspmath.RotateXYZ(base, fr.alphaX, fr.alphaY, fr.alphaZ)
	p = graspmath.RotateLocal(p, graspmath.YAxis, cornerRotation)
	p = graspmath.TranslateWorld(p, translation)
	for i := 0; i < numRadial; i++ {
		p = graspmath.RotateLocal(p, graspmath.YAxis, deltaAngle)
		poses = append(poses, p)
	}
	return poses
}

// appendFaceGrasps lays out numGrasps evenly spaced poses along one face edge.
func appendFaceGrasps(
	poses []spatialmath.Pose,
	base spatialmath.Pose,
	fr axisFrame,
	translation, delta r3.Vector,
	alignmentRotation float64,
	numGrasps int,
) []spatialmath.Pose {
	p := graspmath.RotateXYZ(base, fr.alphaX, fr.alphaY, fr.alphaZ)
	p = graspmath.RotateLocal(p, graspmath.YAxis, alignmentRotation)
	p = graspmath.TranslateWorld(p, translation)
	for i := 0; i < numGrasps; i++ {
		p = graspmath.TranslateWorld(p, delta)
		poses = append(poses, p)
	}
	return poses
}

// appendEdgeGrasps is the face layout with an extra rotation toward the
// cuboid edge.
func appendEdgeGrasps(
	poses []spatialmath.Pose,
	base spatialmath.Pose,
	fr axisFrame,
	translation, delta r3.Vector,
	alignmentRotation float64,
	numGrasps int,
	cornerRotation float64,
) []spatialmath.Pose {
	p := graspmath.RotateXYZ(base, fr.alphaX, fr.alphaY, fr.alphaZ)
	p = graspmath.RotateLocal(p, graspmath.YAxis, alignmentRotation)
	p = graspmath.RotateLocal(p, graspmath.XAxis, cornerRotation)
	p = graspmath.TranslateWorld(p, translation)
	for i := 0; i < numGrasps; i++ {
		p = graspmath.TranslateWorld(p, delta)
		poses = append(poses, p)
	}
	return poses
}

// generateSuctionGrasps builds an outer-product grid: one seed pose at the
// top face center, multiplied by yaw, depth and X/Y sweeps.
func (g *Generator) generateSuctionGrasps(c Cuboid, profile *GripperProfile) error {
	top := c.TopPose()
	ideal := spatialmath.NewPose(top.Point(), g.ideal.Orientation())

	// Re-orient the top grasp as close as possible to the ideal orientation.
	zDot := graspmath.TransformDirection(top, r3.Vector{Z: 1}).
		Dot(graspmath.TransformDirection(ideal, r3.Vector{Z: 1}))
	if zDot < 0 {
		g.logger.Debug("flipping top grasp about X to align with ideal Z axis")
		top = graspmath.RotateLocal(top, graspmath.XAxis, math.Pi)
	}
	xDot := graspmath.TransformDirection(top, r3.Vector{X: 1}).
		Dot(graspmath.TransformDirection(ideal, r3.Vector{X: 1}))
	if xDot < 0 {
		g.logger.Debug("flipping top grasp about Z to align with ideal X axis")
		top = graspmath.RotateLocal(top, graspmath.ZAxis, math.Pi)
	}

	poses := []spatialmath.Pose{graspmath.TranslateLocal(top, r3.Vector{Z: profile.MinDepth})}

	// Yaw sweep.
	yawIncrement := profile.angleResolutionRad()
	numSeed := len(poses)
	for i := 0; i < numSeed; i++ {
		for yaw := yawIncrement; yaw < 2*math.Pi; yaw += yawIncrement {
			poses = append(poses, graspmath.RotateLocal(poses[i], graspmath.ZAxis, yaw))
		}
	}

	// Depth sweep.
	zMax := profile.DepthRange()
	numSeed = len(poses)
	for i := 0; i < numSeed; i++ {
		for z := profile.DepthResolution; z <= zMax; z += profile.DepthResolution {
			poses = append(poses, graspmath.TranslateLocal(poses[i], r3.Vector{Z: z}))
		}
	}

	// X/Y sweeps, bounded so the suction footprint never exits the top face.
	xMax := c.Depth/2 - profile.ActiveSuctionX/2
	yMax := c.Width/2 - profile.ActiveSuctionY/2
	numSeed = len(poses)
	for i := 0; i < numSeed; i++ {
		for y := profile.GraspResolution; y <= yMax; y += profile.GraspResolution {
			poses = append(poses, graspmath.TranslateLocal(poses[i], r3.Vector{Y: y}))
			poses = append(poses, graspmath.TranslateLocal(poses[i], r3.Vector{Y: -y}))
		}
	}
	numSeed = len(poses)
	for i := 0; i < numSeed; i++ {
		for x := profile.GraspResolution; x <= xMax; x += profile.GraspResolution {
			poses = append(poses, graspmath.TranslateLocal(poses[i], r3.Vector{X: x}))
			poses = append(poses, graspmath.TranslateLocal(poses[i], r3.Vector{X: -x}))
		}
	}

	seq := 0
	total := 0
	for _, p := range poses {
		if g.viz != nil {
			g.viz.Pose(p, "suction grasp pose")
		}
		total += g.addGrasp(p, profile, c, batchExtrema{}, 0, &seq)
	}

	if total == 0 {
		g.logger.Warn("generated 0 grasps")
	} else {
		g.logger.Infof("generated %d grasps", total)
	}
	return nil
}

// batchExtrema are the distance and translation bounds of one enumerated pose
// set. They must be recomputed whenever the pose set changes.
type batchExtrema struct {
	minDist        float64
	maxDist        float64
	minTranslation r3.Vector
	maxTranslation r3.Vector
}

func computeExtrema(poses []spatialmath.Pose, centroid r3.Vector) batchExtrema {
	inf := math.Inf(1)
	ext := batchExtrema{
		minDist:        inf,
		maxDist:        -inf,
		minTranslation: r3.Vector{X: inf, Y: inf, Z: inf},
		maxTranslation: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
	for _, p := range poses {
		pt := p.Point()
		d := pt.Sub(centroid).Norm()
		ext.minDist = math.Min(ext.minDist, d)
		ext.maxDist = math.Max(ext.maxDist, d)
		ext.minTranslation = r3.Vector{
			X: math.Min(ext.minTranslation.X, pt.X),
			Y: math.Min(ext.minTranslation.Y, pt.Y),
			Z: math.Min(ext.minTranslation.Z, pt.Z),
		}
		ext.maxTranslation = r3.Vector{
			X: math.Max(ext.maxTranslation.X, pt.X),
			Y: math.Max(ext.maxTranslation.Y, pt.Y),
			Z: math.Max(ext.maxTranslation.Z, pt.Z),
		}
	}
	return ext
}
