package trajectory

import (
	"math"

	"github.com/arloliu/emotrace/emotion"
)

// Prediction confidence parameters.
const (
	baseConfidence   = 0.8
	confidenceDecay  = 0.05
	minConfidence    = 0.1
	confidenceWarmup = 3
)

// Prediction is an extrapolated next state.
type Prediction struct {
	// State holds the predicted dimensions, each clamped to its valid range,
	// with TimestampMs anchored at the trajectory's base timestamp and
	// Category reclassified from the predicted VAD.
	State emotion.State
	// TimestampOffsetMs is the predicted offset from session start.
	TimestampOffsetMs uint32
	// Confidence is max(0.1, 0.8 - 0.05*max(0, n-3)) for a trajectory of n states.
	Confidence float64
}

// PredictNext extrapolates the next state linearly from the last two states:
//
//	predicted = clamp(last + (last - previous))
//
// for every dimension independently. It returns false when the trajectory
// holds fewer than two states.
func (t *Trajectory) PredictNext() (Prediction, bool) {
	return predict(t.states, t.baseMs)
}

func predict(states []emotion.QuantizedState, baseMs int64) (Prediction, bool) {
	n := len(states)
	if n < 2 {
		return Prediction{}, false
	}

	last, prev := states[n-1], states[n-2]

	var s emotion.State
	for _, d := range dimensions {
		l := last.Get(d)
		s.Set(d, d.Clamp(l+(l-prev.Get(d))))
	}
	s.Category = emotion.Classify(s.Valence, s.Arousal, s.Dominance)

	offset := 2*int64(last.TimestampOffsetMs) - int64(prev.TimestampOffsetMs)
	offset = min(max(offset, 0), math.MaxUint32)
	s.TimestampMs = baseMs + offset

	return Prediction{
		State:             s,
		TimestampOffsetMs: uint32(offset), //nolint:gosec
		Confidence:        predictionConfidence(n),
	}, true
}

func predictionConfidence(n int) float64 {
	return math.Max(minConfidence, baseConfidence-confidenceDecay*float64(max(0, n-confidenceWarmup)))
}

var dimensions = []emotion.Dimension{
	emotion.DimValence,
	emotion.DimArousal,
	emotion.DimDominance,
	emotion.DimConfidence,
	emotion.DimIntensity,
	emotion.DimEngagement,
}
