package trajectory

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/emotrace/emotion"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/internal/options"
)

// MaxVADDistance is the largest Euclidean distance between two points of VAD
// space (valence spans 2 units, arousal and dominance 1 each).
var MaxVADDistance = math.Sqrt(6)

// TopCategories is the number of entries reported by DominantCategories.
const TopCategories = 3

// CategoryCount is one histogram entry.
type CategoryCount struct {
	Category emotion.Category
	Count    int
}

// Trajectory is the append-only state sequence of one session together with
// its cached aggregates.
type Trajectory struct {
	baseMs int64
	states []emotion.QuantizedState

	distanceSum float64

	// valence deltas are tracked in integer steps so reversal detection is exact.
	lastValenceDelta int
	reversals        int

	counts [256]int
	order  []emotion.Category
}

// Option configures a Trajectory.
type Option = options.Option[*Trajectory]

// WithBaseTimestamp sets the session start, in Unix milliseconds, used to
// anchor decompressed and predicted states.
func WithBaseTimestamp(baseMs int64) Option {
	return options.NoError(func(t *Trajectory) {
		t.baseMs = baseMs
	})
}

// WithCapacity preallocates room for n states.
func WithCapacity(n int) Option {
	return options.New(func(t *Trajectory) error {
		if n < 0 {
			return fmt.Errorf("%w: capacity %d", errs.ErrInvalidOption, n)
		}
		t.states = make([]emotion.QuantizedState, 0, n)

		return nil
	})
}

// New creates an empty trajectory. It panics only on invalid options; use
// NewWithOptions to handle option errors.
func New(opts ...Option) *Trajectory {
	t, err := NewWithOptions(opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// NewWithOptions creates an empty trajectory.
func NewWithOptions(opts ...Option) (*Trajectory, error) {
	t := &Trajectory{}
	if err := options.Apply(t, opts...); err != nil {
		return nil, err
	}

	return t, nil
}

// AddState appends q and updates every aggregate in O(1).
//
// Returns the QuantizedState.Validate error for out-of-range fields and
// errs.ErrOutOfOrderState when q is older than the last state.
func (t *Trajectory) AddState(q emotion.QuantizedState) error {
	if err := q.Validate(); err != nil {
		return err
	}

	n := len(t.states)
	if n > 0 {
		prev := t.states[n-1]
		if q.TimestampOffsetMs < prev.TimestampOffsetMs {
			return errOutOfOrder(prev, q)
		}

		t.distanceSum += distance(prev, q)

		dv := int(q.Valence) - int(prev.Valence)
		if n > 1 && isReversal(t.lastValenceDelta, dv) {
			t.reversals++
		}
		t.lastValenceDelta = dv
	}

	c := q.Category()
	if t.counts[c] == 0 {
		t.order = append(t.order, c)
	}
	t.counts[c]++

	t.states = append(t.states, q)

	return nil
}

// Len returns the number of states.
func (t *Trajectory) Len() int {
	return len(t.states)
}

// BaseTimestamp returns the session start in Unix milliseconds.
func (t *Trajectory) BaseTimestamp() int64 {
	return t.baseMs
}

// States returns a copy of the stored states.
func (t *Trajectory) States() []emotion.QuantizedState {
	return slices.Clone(t.states)
}

// At returns the state at index i.
func (t *Trajectory) At(i int) (emotion.QuantizedState, bool) {
	if i < 0 || i >= len(t.states) {
		return emotion.QuantizedState{}, false
	}

	return t.states[i], true
}

// Transitions returns the number of consecutive state pairs.
func (t *Trajectory) Transitions() int {
	return max(0, len(t.states)-1)
}

// Reversals returns the number of sign changes between consecutive valence deltas.
func (t *Trajectory) Reversals() int {
	return t.reversals
}

// Volatility returns the mean Euclidean distance in decompressed VAD space
// between consecutive states, or 0 for fewer than two states.
func (t *Trajectory) Volatility() float64 {
	return meanDistance(t.distanceSum, t.Transitions())
}

// Complexity returns the canonical complexity score:
//
//	min(1, volatility/MaxVADDistance + reversals/transitions)
//
// Trajectories shorter than three states score 0.
func (t *Trajectory) Complexity() float64 {
	return distanceReversalComplexity(t.distanceSum, t.reversals, len(t.states))
}

// ComplexityWith computes complexity under the given policy.
//
// format.ComplexityDistanceReversal is the canonical, O(1) score returned by
// Complexity. format.ComplexityVarianceDirection recomputes from the stored
// states in O(n).
func (t *Trajectory) ComplexityWith(policy format.ComplexityPolicy) (float64, error) {
	switch policy {
	case format.ComplexityDistanceReversal:
		return t.Complexity(), nil
	case format.ComplexityVarianceDirection:
		return varianceDirectionComplexity(t.states), nil
	default:
		return 0, fmt.Errorf("%w: complexity policy %s", errs.ErrInvalidOption, policy)
	}
}

// DominantCategories returns up to three categories ranked by frequency.
// Ties keep the order in which categories first appeared.
func (t *Trajectory) DominantCategories() []CategoryCount {
	return rankCategories(&t.counts, t.order)
}

// Histogram returns the count of every category seen, in first-seen order.
func (t *Trajectory) Histogram() []CategoryCount {
	out := make([]CategoryCount, len(t.order))
	for i, c := range t.order {
		out[i] = CategoryCount{Category: c, Count: t.counts[c]}
	}

	return out
}

// Summary returns a snapshot of every aggregate.
func (t *Trajectory) Summary() Summary {
	s := Summary{
		Length:             len(t.states),
		Volatility:         t.Volatility(),
		Complexity:         t.Complexity(),
		Reversals:          t.reversals,
		DominantCategories: t.DominantCategories(),
	}
	if p, ok := t.PredictNext(); ok {
		s.Prediction = &p
	}

	return s
}

func distance(a, b emotion.QuantizedState) float64 {
	dv := float64(int(b.Valence)-int(a.Valence)) / emotion.QuantizationSteps
	da := float64(int(b.Arousal)-int(a.Arousal)) / emotion.QuantizationSteps
	dd := float64(int(b.Dominance)-int(a.Dominance)) / emotion.QuantizationSteps

	return math.Sqrt(dv*dv + da*da + dd*dd)
}

// isReversal reports a strict sign change. A flat step is neither direction.
func isReversal(prevDelta, delta int) bool {
	return (prevDelta > 0 && delta < 0) || (prevDelta < 0 && delta > 0)
}

func meanDistance(sum float64, transitions int) float64 {
	if transitions == 0 {
		return 0
	}

	return sum / float64(transitions)
}

func distanceReversalComplexity(distanceSum float64, reversals, length int) float64 {
	if length < 3 {
		return 0
	}

	transitions := length - 1
	normalized := meanDistance(distanceSum, transitions) / MaxVADDistance
	reversalRatio := float64(reversals) / float64(transitions)

	return math.Min(1, normalized+reversalRatio)
}

func rankCategories(counts *[256]int, order []emotion.Category) []CategoryCount {
	ranked := make([]CategoryCount, len(order))
	for i, c := range order {
		ranked[i] = CategoryCount{Category: c, Count: counts[c]}
	}

	// Stable sort keeps first-seen order among equal counts.
	slices.SortStableFunc(ranked, func(a, b CategoryCount) int {
		return b.Count - a.Count
	})

	if len(ranked) > TopCategories {
		ranked = ranked[:TopCategories]
	}

	return ranked
}

func errOutOfOrder(prev, q emotion.QuantizedState) error {
	return fmt.Errorf("%w: offset %d after %d", errs.ErrOutOfOrderState,
		q.TimestampOffsetMs, prev.TimestampOffsetMs)
}
