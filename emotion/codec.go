package emotion

import (
	"fmt"
	"math"

	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/internal/options"
)

// Codec converts between State and QuantizedState.
//
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	mode         format.QuantizeMode
	autoClassify bool
}

// CodecOption configures a Codec.
type CodecOption = options.Option[*Codec]

// WithQuantization selects rounding (default) or truncation.
//
// Rounding bounds the round-trip error at half a step (0.005). Truncation
// reproduces legacy records exactly but biases every value toward zero by up
// to a full step (0.01).
func WithQuantization(mode format.QuantizeMode) CodecOption {
	return options.New(func(c *Codec) error {
		if !mode.IsValid() {
			return fmt.Errorf("%w: quantization %s", errs.ErrInvalidOption, mode)
		}
		c.mode = mode

		return nil
	})
}

// WithAutoClassify controls whether Compress derives the category from the
// VAD coordinates (default) or stores State.Category as given.
func WithAutoClassify(enabled bool) CodecOption {
	return options.NoError(func(c *Codec) {
		c.autoClassify = enabled
	})
}

// NewCodec creates a Codec.
func NewCodec(opts ...CodecOption) (*Codec, error) {
	c := &Codec{
		mode:         format.QuantizeRound,
		autoClassify: true,
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Mode returns the quantization mode.
func (c *Codec) Mode() format.QuantizeMode {
	return c.mode
}

// Compress quantizes s relative to the session base timestamp.
//
// Dimensions are clamped to their valid range before quantization. Returns
// errs.ErrTimestampOutOfRange if the offset is negative or exceeds uint32,
// errs.ErrNonFiniteValue for NaN or infinite dimensions, and
// errs.ErrUnknownEmotionCode for an invalid explicit category.
func (c *Codec) Compress(s State, baseMs int64) (QuantizedState, error) {
	offset := s.TimestampMs - baseMs
	if offset < 0 || offset > math.MaxUint32 {
		return QuantizedState{}, fmt.Errorf("%w: %d ms", errs.ErrTimestampOutOfRange, offset)
	}

	for d := range numDimensions {
		v := s.Get(d)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return QuantizedState{}, fmt.Errorf("%w: %s", errs.ErrNonFiniteValue, d)
		}
	}

	category := s.Category
	if c.autoClassify {
		category = Classify(s.Valence, s.Arousal, s.Dominance)
	} else if !category.IsValid() {
		return QuantizedState{}, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownEmotionCode, uint8(category))
	}

	return QuantizedState{
		TimestampOffsetMs: uint32(offset),
		Valence:           int8(c.quantize(DimValence, s.Valence)), //nolint:gosec
		Arousal:           uint8(c.quantize(DimArousal, s.Arousal)),
		Dominance:         uint8(c.quantize(DimDominance, s.Dominance)),
		Confidence:        uint8(c.quantize(DimConfidence, s.Confidence)),
		Code:              category.Code(),
		Intensity:         uint8(c.quantize(DimIntensity, s.Intensity)),
		Engagement:        uint8(c.quantize(DimEngagement, s.Engagement)),
	}, nil
}

// Decompress expands q back to a State anchored at baseMs.
//
// Returns the Validate error if any field is out of range.
func (c *Codec) Decompress(q QuantizedState, baseMs int64) (State, error) {
	if err := q.Validate(); err != nil {
		return State{}, err
	}

	s := State{
		TimestampMs: baseMs + int64(q.TimestampOffsetMs),
		Category:    q.Category(),
	}
	for d := range numDimensions {
		s.Set(d, q.Get(d))
	}

	return s, nil
}

// MaxError returns the worst-case round-trip error per dimension for the codec's mode.
func (c *Codec) MaxError() float64 {
	if c.mode == format.QuantizeTruncate {
		return 1.0 / QuantizationSteps
	}

	return 0.5 / QuantizationSteps
}

// quantize clamps v to the range of d and scales it to integer steps.
func (c *Codec) quantize(d Dimension, v float64) int {
	scaled := d.Clamp(v) * QuantizationSteps
	if c.mode == format.QuantizeTruncate {
		return int(math.Trunc(scaled))
	}

	return int(math.Round(scaled))
}
