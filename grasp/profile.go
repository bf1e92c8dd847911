// Package grasp enumerates and scores candidate gripper poses over cuboid
// objects for finger and suction end effectors.
package grasp

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/rdk/utils"
)

// EndEffectorKind distinguishes the two supported end-effector families.
type EndEffectorKind int

// The supported end-effector families.
const (
	Finger EndEffectorKind = iota + 1
	Suction
)

func (k EndEffectorKind) String() string {
	switch k {
	case Finger:
		return "finger"
	case Suction:
		return "suction"
	}
	return "unknown"
}

// OpeningWidthSetter maps an opening fraction onto whatever joint-level
// representation the gripper uses. Implementations return an error when the
// commanded fraction cannot clear minOpenWidth.
type OpeningWidthSetter interface {
	SetOpeningWidth(percentOpen, minOpenWidth float64) error
}

// LinearOpening is an OpeningWidthSetter for grippers whose finger separation
// scales linearly with the opening fraction.
type LinearOpening struct {
	MinWidth float64
	MaxWidth float64
}

// SetOpeningWidth implements OpeningWidthSetter.
func (o LinearOpening) SetOpeningWidth(percentOpen, minOpenWidth float64) error {
	width := o.MinWidth + percentOpen*(o.MaxWidth-o.MinWidth)
	if width < minOpenWidth {
		return errors.Errorf(
			"opening of %.0f%% gives width %.4f, narrower than the required %.4f",
			percentOpen*100, width, minOpenWidth,
		)
	}
	return nil
}

// GripperProfile describes the end effector used for candidate generation.
// All fields are read-only during a Generate call.
type GripperProfile struct {
	Kind EndEffectorKind

	// AngleResolution is the angular step between candidates, in degrees.
	AngleResolution float64
	// GraspResolution is the linear spacing between candidates along a face.
	GraspResolution float64
	// DepthResolution is the spacing between depth-replicated candidates.
	DepthResolution float64

	// MinDepth is the minimum overlap the end effector must have with the
	// object; MaxDepth is the distance from palm to fingertip.
	MinDepth float64
	MaxDepth float64

	// FingerWidth is the width of a single finger pad, used to keep generated
	// grasps overlapping the object. MaxGraspWidth is the widest object the
	// fully open gripper can span.
	FingerWidth   float64
	MaxGraspWidth float64

	// PaddingOnApproach widens the commanded pre-grasp opening beyond the
	// object width.
	PaddingOnApproach float64

	// ApproachDistance and RetreatDistance extend the pre and post grasp
	// motions beyond MaxDepth. LiftDistance raises the object before retreat.
	ApproachDistance float64
	RetreatDistance  float64
	LiftDistance     float64

	// GraspToEndEffector converts a generic grasp pose into this end
	// effector's own frame. A nil offset is treated as identity.
	GraspToEndEffector spatialmath.Pose

	// ActiveSuctionX and ActiveSuctionY are the suction footprint dimensions.
	// SuctionRowsX and SuctionRowsY give the voxel grid counts across it.
	ActiveSuctionX float64
	ActiveSuctionY float64
	SuctionRowsX   int
	SuctionRowsY   int

	// Widths receives opening-width commands for finger grippers. Unused for
	// suction profiles.
	Widths OpeningWidthSetter
}

// DepthRange returns the usable depth span along the approach axis.
func (p *GripperProfile) DepthRange() float64 {
	return p.MaxDepth - p.MinDepth
}

func (p *GripperProfile) angleResolutionRad() float64 {
	return utils.DegToRad(p.AngleResolution)
}

func (p *GripperProfile) eefOffset() spatialmath.Pose {
	if p.GraspToEndEffector == nil {
		return spatialmath.NewZeroPose()
	}
	return p.GraspToEndEffector
}

// Validate checks the caller contract on the profile. All violations are
// reported together.
func (p *GripperProfile) Validate() error {
	var err error
	if p.Kind != Finger && p.Kind != Suction {
		err = multierr.Append(err, errors.Errorf("unknown end effector kind %d", int(p.Kind)))
	}
	if p.AngleResolution <= 0 {
		err = multierr.Append(err, errors.New("angle resolution must be positive"))
	}
	if p.GraspResolution <= 0 {
		err = multierr.Append(err, errors.New("grasp resolution must be positive"))
	}
	if p.DepthResolution <= 0 {
		err = multierr.Append(err, errors.New("grasp depth resolution must be positive"))
	}
	if p.MinDepth < 0 || p.MaxDepth < p.MinDepth {
		err = multierr.Append(err, errors.New("grasp depth range must satisfy 0 <= min <= max"))
	}
	if p.Kind == Finger {
		if p.FingerWidth <= 0 {
			err = multierr.Append(err, errors.New("finger width must be positive"))
		}
		if p.MaxGraspWidth <= 0 {
			err = multierr.Append(err, errors.New("max grasp width must be positive"))
		}
		if p.Widths == nil {
			err = multierr.Append(err, errors.New("finger profiles need an opening width setter"))
		}
	}
	if p.Kind == Suction {
		if p.ActiveSuctionX <= 0 || p.ActiveSuctionY <= 0 {
			err = multierr.Append(err, errors.New("active suction footprint dimensions must be positive"))
		}
		if p.SuctionRowsX <= 0 || p.SuctionRowsY <= 0 {
			err = multierr.Append(err, errors.New("suction voxel grid counts must be positive"))
		}
	}
	return err
}
