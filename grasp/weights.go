package grasp

import "github.com/pkg/errors"

// ScoreWeights weights each scoring criterion by name. Weights must be
// non-negative; a zero weight still counts toward the normalizing total, so it
// suppresses its criterion without inflating the others.
type ScoreWeights struct {
	OrientationX float64
	OrientationY float64
	OrientationZ float64
	TranslationX float64
	TranslationY float64
	TranslationZ float64
	Width        float64
	Depth        float64
	Overhang     float64
}

// DefaultScoreWeights weights every criterion equally.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		OrientationX: 1,
		OrientationY: 1,
		OrientationZ: 1,
		TranslationX: 1,
		TranslationY: 1,
		TranslationZ: 1,
		Width:        1,
		Depth:        1,
		Overhang:     1,
	}
}

// fingerTotal is the normalizing denominator for finger grasp scores.
func (w ScoreWeights) fingerTotal() float64 {
	return w.Width + w.OrientationX + w.OrientationY + w.OrientationZ +
		w.Depth + w.TranslationX + w.TranslationY + w.TranslationZ
}

// suctionTotal is the normalizing denominator for suction grasp scores. The
// overhang weight counts twice, once per footprint axis.
func (w ScoreWeights) suctionTotal() float64 {
	return w.OrientationX + w.OrientationY + w.OrientationZ +
		w.TranslationX + w.TranslationY + w.TranslationZ + 2*w.Overhang
}

// Validate rejects negative weights and an all-zero configuration for the
// given end-effector kind.
func (w ScoreWeights) Validate(kind EndEffectorKind) error {
	for _, v := range []float64{
		w.OrientationX, w.OrientationY, w.OrientationZ,
		w.TranslationX, w.TranslationY, w.TranslationZ,
		w.Width, w.Depth, w.Overhang,
	} {
		if v < 0 {
			return errors.New("score weights must be non-negative")
		}
	}
	total := w.fingerTotal()
	if kind == Suction {
		total = w.suctionTotal()
	}
	if total == 0 {
		return errors.Errorf("at least one %s score weight must be nonzero", kind)
	}
	return nil
}
