package grasp

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/wangfub/moveit-grasps/graspmath"
)

// Cuboid is the rectangular object abstraction grasps are generated for. Pose
// is anchored at the centroid; the extents run along the pose's local X, Y and
// Z axes respectively.
type Cuboid struct {
	Pose   spatialmath.Pose
	Depth  float64
	Width  float64
	Height float64
}

// Dims returns the three extents as a vector.
func (c Cuboid) Dims() r3.Vector {
	return r3.Vector{X: c.Depth, Y: c.Width, Z: c.Height}
}

// Centroid returns the cuboid's center point.
func (c Cuboid) Centroid() r3.Vector {
	return c.Pose.Point()
}

// TopPose returns the pose at the center of the cuboid's top face, oriented
// like the cuboid itself.
func (c Cuboid) TopPose() spatialmath.Pose {
	return graspmath.TranslateLocal(c.Pose, r3.Vector{Z: c.Height / 2})
}

// Geometry converts the cuboid into a box geometry for use with collision or
// visualization tooling.
func (c Cuboid) Geometry(label string) (spatialmath.Geometry, error) {
	return spatialmath.NewBox(c.Pose, c.Dims(), label)
}
