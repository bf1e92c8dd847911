// Package main provides a command line front end for cuboid grasp candidate
// generation. It reads a gripper profile from JSON, enumerates candidates for
// one cuboid, and writes the scored results as JSON.
package main

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/rdk/utils"

	"github.com/wangfub/moveit-grasps/grasp"
)

func main() {
	logger := logging.NewLogger("graspgen")
	app := &cli.App{
		Name:  "graspgen",
		Usage: "generate scored grasp candidates for a cuboid object",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "profile",
				Usage:    "path to a gripper profile JSON file",
				Required: true,
			},
			&cli.Float64Flag{Name: "depth", Usage: "cuboid extent along X, meters", Required: true},
			&cli.Float64Flag{Name: "width", Usage: "cuboid extent along Y, meters", Required: true},
			&cli.Float64Flag{Name: "height", Usage: "cuboid extent along Z, meters", Required: true},
			&cli.Float64Flag{Name: "x", Usage: "cuboid centroid X, meters"},
			&cli.Float64Flag{Name: "y", Usage: "cuboid centroid Y, meters"},
			&cli.Float64Flag{Name: "z", Usage: "cuboid centroid Z, meters"},
			&cli.Float64Flag{Name: "ideal-roll", Usage: "ideal grasp roll, degrees"},
			&cli.Float64Flag{Name: "ideal-pitch", Usage: "ideal grasp pitch, degrees"},
			&cli.Float64Flag{Name: "ideal-yaw", Usage: "ideal grasp yaw, degrees"},
			&cli.StringFlag{
				Name:  "output",
				Usage: "file to write candidates to, stdout if unset",
			},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Bool("debug") {
				logger.SetLevel(logging.DEBUG)
			}
			return run(ctx, logger)
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

// profileConfig is the JSON form of a grasp.GripperProfile.
type profileConfig struct {
	Kind               string  `json:"kind"`
	AngleResolutionDeg float64 `json:"angle_resolution_deg"`
	GraspResolution    float64 `json:"grasp_resolution"`
	DepthResolution    float64 `json:"grasp_depth_resolution"`
	MinDepth           float64 `json:"grasp_min_depth"`
	MaxDepth           float64 `json:"grasp_max_depth"`
	FingerWidth        float64 `json:"gripper_finger_width"`
	MaxGraspWidth      float64 `json:"max_grasp_width"`
	MinOpeningWidth    float64 `json:"min_opening_width"`
	MaxOpeningWidth    float64 `json:"max_opening_width"`
	PaddingOnApproach  float64 `json:"grasp_padding_on_approach"`
	ApproachDistance   float64 `json:"approach_distance"`
	RetreatDistance    float64 `json:"retreat_distance"`
	LiftDistance       float64 `json:"lift_distance"`
	EndEffectorOffsetZ float64 `json:"end_effector_offset_z"`
	ActiveSuctionX     float64 `json:"active_suction_range_x"`
	ActiveSuctionY     float64 `json:"active_suction_range_y"`
	SuctionRowsX       int     `json:"suction_rows_x"`
	SuctionRowsY       int     `json:"suction_rows_y"`
}

func loadProfile(path string) (*grasp.GripperProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading gripper profile")
	}
	var cfg profileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing gripper profile")
	}

	profile := &grasp.GripperProfile{
		AngleResolution:   cfg.AngleResolutionDeg,
		GraspResolution:   cfg.GraspResolution,
		DepthResolution:   cfg.DepthResolution,
		MinDepth:          cfg.MinDepth,
		MaxDepth:          cfg.MaxDepth,
		FingerWidth:       cfg.FingerWidth,
		MaxGraspWidth:     cfg.MaxGraspWidth,
		PaddingOnApproach: cfg.PaddingOnApproach,
		ApproachDistance:  cfg.ApproachDistance,
		RetreatDistance:   cfg.RetreatDistance,
		LiftDistance:      cfg.LiftDistance,
		ActiveSuctionX:    cfg.ActiveSuctionX,
		ActiveSuctionY:    cfg.ActiveSuctionY,
		SuctionRowsX:      cfg.SuctionRowsX,
		SuctionRowsY:      cfg.SuctionRowsY,
	}
	if cfg.EndEffectorOffsetZ != 0 {
		profile.GraspToEndEffector = spatialmath.NewPoseFromPoint(r3.Vector{Z: cfg.EndEffectorOffsetZ})
	}
	switch cfg.Kind {
	case "finger":
		profile.Kind = grasp.Finger
		profile.Widths = grasp.LinearOpening{
			MinWidth: cfg.MinOpeningWidth,
			MaxWidth: cfg.MaxOpeningWidth,
		}
	case "suction":
		profile.Kind = grasp.Suction
	default:
		return nil, errors.Errorf("unknown end effector kind %q", cfg.Kind)
	}
	return profile, nil
}

// candidateRecord is the JSON form of one emitted candidate. Orientations are
// written as orientation vectors with degree theta.
type candidateRecord struct {
	Name        string                                `json:"name"`
	Score       float64                               `json:"score"`
	PercentOpen float64                               `json:"percent_open"`
	Translation r3.Vector                             `json:"translation"`
	Orientation *spatialmath.OrientationVectorDegrees `json:"orientation"`
	EndEffector r3.Vector                             `json:"end_effector_translation"`
	EEFOrient   *spatialmath.OrientationVectorDegrees `json:"end_effector_orientation"`
}

func run(ctx *cli.Context, logger logging.Logger) error {
	profile, err := loadProfile(ctx.String("profile"))
	if err != nil {
		return err
	}

	cuboid := grasp.Cuboid{
		Pose: spatialmath.NewPoseFromPoint(r3.Vector{
			X: ctx.Float64("x"),
			Y: ctx.Float64("y"),
			Z: ctx.Float64("z"),
		}),
		Depth:  ctx.Float64("depth"),
		Width:  ctx.Float64("width"),
		Height: ctx.Float64("height"),
	}

	sink := &grasp.CandidateList{}
	generator := grasp.NewGenerator(logger, sink)
	generator.SetIdealGraspPoseRPY(
		utils.DegToRad(ctx.Float64("ideal-roll")),
		utils.DegToRad(ctx.Float64("ideal-pitch")),
		utils.DegToRad(ctx.Float64("ideal-yaw")),
	)

	if err := generator.Generate(cuboid, profile, grasp.DefaultCandidateConfig()); err != nil {
		return err
	}
	sink.SortByScore()

	records := make([]candidateRecord, 0, sink.Len())
	for _, c := range sink.Candidates {
		records = append(records, candidateRecord{
			Name:        c.Name,
			Score:       c.Score,
			PercentOpen: c.PercentOpen,
			Translation: c.GraspPose.Point(),
			Orientation: c.GraspPose.Orientation().OrientationVectorDegrees(),
			EndEffector: c.EndEffectorPose.Point(),
			EEFOrient:   c.EndEffectorPose.Orientation().OrientationVectorDegrees(),
		})
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if path := ctx.String("output"); path != "" {
		return os.WriteFile(path, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
