package trajectory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/emotrace/emotion"
	"github.com/arloliu/emotrace/internal/pool"
)

// Summary is a snapshot of a trajectory's aggregates.
type Summary struct {
	Length             int
	Volatility         float64
	Complexity         float64
	Reversals          int
	DominantCategories []CategoryCount
	// Prediction is nil when fewer than two states are available.
	Prediction *Prediction
}

// Analyze recomputes every aggregate from scratch in O(n).
//
// It validates the states the same way AddState does, so for any sequence
// accepted by a Trajectory, Analyze returns the same Summary as
// Trajectory.Summary.
func Analyze(states []emotion.QuantizedState, baseMs int64) (Summary, error) {
	var (
		distanceSum float64
		reversals   int
		counts      [256]int
		order       []emotion.Category
	)

	for i, q := range states {
		if err := q.Validate(); err != nil {
			return Summary{}, fmt.Errorf("state %d: %w", i, err)
		}

		c := q.Category()
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++

		if i == 0 {
			continue
		}

		prev := states[i-1]
		if q.TimestampOffsetMs < prev.TimestampOffsetMs {
			return Summary{}, fmt.Errorf("state %d: %w", i, errOutOfOrder(prev, q))
		}
		distanceSum += distance(prev, q)

		if i >= 2 {
			before := int(prev.Valence) - int(states[i-2].Valence)
			if isReversal(before, int(q.Valence)-int(prev.Valence)) {
				reversals++
			}
		}
	}

	s := Summary{
		Length:             len(states),
		Volatility:         meanDistance(distanceSum, max(0, len(states)-1)),
		Complexity:         distanceReversalComplexity(distanceSum, reversals, len(states)),
		Reversals:          reversals,
		DominantCategories: rankCategories(&counts, order),
	}
	if p, ok := predict(states, baseMs); ok {
		s.Prediction = &p
	}

	return s, nil
}

// varianceDirectionComplexity is the alternative complexity score computed on
// the decompressed float series:
//
//	min(1, var(valence) + var(arousal) + var(dominance) + reversals/transitions)
//
// Variances are unbiased sample variances. Fewer than three states score 0.
func varianceDirectionComplexity(states []emotion.QuantizedState) float64 {
	n := len(states)
	if n < 3 {
		return 0
	}

	valence, cleanupV := pool.GetFloat64Slice(n)
	defer cleanupV()
	arousal, cleanupA := pool.GetFloat64Slice(n)
	defer cleanupA()
	dominance, cleanupD := pool.GetFloat64Slice(n)
	defer cleanupD()

	for i, q := range states {
		valence[i], arousal[i], dominance[i] = q.VAD()
	}

	variance := stat.Variance(valence, nil) + stat.Variance(arousal, nil) + stat.Variance(dominance, nil)

	changes := 0
	for i := 2; i < n; i++ {
		if isReversal(
			int(states[i-1].Valence)-int(states[i-2].Valence),
			int(states[i].Valence)-int(states[i-1].Valence),
		) {
			changes++
		}
	}

	return math.Min(1, variance+float64(changes)/float64(n-1))
}
