package grasp

// CandidateConfig selects which grasp families and axes an enumeration pass
// generates. It is a plain value; each axis pass works on its own copy.
type CandidateConfig struct {
	EnableCorner        bool
	EnableFace          bool
	EnableEdge          bool
	EnableVariableAngle bool

	SweepX bool
	SweepY bool
	SweepZ bool
}

// DefaultCandidateConfig enables every grasp family on every axis.
func DefaultCandidateConfig() CandidateConfig {
	return CandidateConfig{
		EnableCorner:        true,
		EnableFace:          true,
		EnableEdge:          true,
		EnableVariableAngle: true,
		SweepX:              true,
		SweepY:              true,
		SweepZ:              true,
	}
}

// EnableAll turns on every grasp family and every axis sweep.
func (c *CandidateConfig) EnableAll() {
	*c = DefaultCandidateConfig()
}

// DisableAllGraspTypes turns off every grasp family, leaving the axis sweep
// selection untouched.
func (c *CandidateConfig) DisableAllGraspTypes() {
	c.EnableCorner = false
	c.EnableFace = false
	c.EnableEdge = false
	c.EnableVariableAngle = false
}
