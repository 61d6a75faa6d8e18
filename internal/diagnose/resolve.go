package diagnose

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownClass = errors.New("unknown class label")
	ErrBadVector    = errors.New("probability vector does not match class count")
)

// Prediction is the transient result of one inference call.
type Prediction struct {
	Label      ClassLabel
	Confidence float64 // percentage in [0,100]
}

// Resolve selects the winning class from a probability vector. Ties go to
// the first occurrence, standard argmax semantics. The vector length must
// equal NumClasses; anything else means the model and the label enumeration
// have drifted apart.
func Resolve(probs []float32) (Prediction, error) {
	if len(probs) != NumClasses {
		return Prediction{}, fmt.Errorf("%w: got %d values, want %d", ErrBadVector, len(probs), NumClasses)
	}

	maxIdx := 0
	maxVal := probs[0]
	for i, v := range probs {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}

	return Prediction{
		Label:      ClassLabel(maxIdx),
		Confidence: float64(maxVal) * 100,
	}, nil
}
