package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/internal/options"
	"github.com/arloliu/emotrace/internal/pool"
)

const (
	// DeltaScale is the fixed-point scale of delta records: one unit is 1/1000.
	DeltaScale = 1000.0
	// DeltaRecordSize is the encoded size of one delta record in bytes.
	DeltaRecordSize = 2
)

// ScalarDeltaEncoder converts float32 samples of one channel into fixed-point
// int16 deltas.
//
// Each sample is scaled by DeltaScale and rounded; the record stores the
// difference from the previous scaled sample. The running base starts at zero
// and a ScalarDeltaDecoder must be driven in lockstep from the same zero state.
// Any independent reset desynchronizes the stream.
//
// Non-finite samples are rejected with errs.ErrNonFiniteValue. Deltas outside
// the int16 range are handled by the configured format.OverflowPolicy.
//
// Note: ScalarDeltaEncoder is NOT thread-safe.
type ScalarDeltaEncoder struct {
	lastScaled int32
	policy     format.OverflowPolicy
	engine     endian.EndianEngine
	buf        *pool.ByteBuffer
	count      int
	saturated  int
}

var _ StreamEncoder[float32] = (*ScalarDeltaEncoder)(nil)

// ScalarDeltaOption configures a ScalarDeltaEncoder.
type ScalarDeltaOption = options.Option[*ScalarDeltaEncoder]

// WithOverflowPolicy sets how deltas beyond the int16 range are handled.
func WithOverflowPolicy(policy format.OverflowPolicy) ScalarDeltaOption {
	return options.New(func(e *ScalarDeltaEncoder) error {
		if !policy.IsValid() {
			return fmt.Errorf("%w: overflow policy %s", errs.ErrInvalidOption, policy)
		}
		e.policy = policy

		return nil
	})
}

// NewScalarDeltaEncoder creates an encoder writing records with the given byte order.
//
// The default overflow policy is format.OverflowReject.
func NewScalarDeltaEncoder(engine endian.EndianEngine, opts ...ScalarDeltaOption) (*ScalarDeltaEncoder, error) {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	e := &ScalarDeltaEncoder{
		policy: format.OverflowReject,
		engine: engine,
		buf:    pool.GetRecordBuffer(),
	}
	if err := options.Apply(e, opts...); err != nil {
		pool.PutRecordBuffer(e.buf)
		return nil, err
	}

	return e, nil
}

// Encode encodes value and returns the emitted delta.
//
// On error the running state and output are left untouched.
//
// Panics if Finish has been called.
func (e *ScalarDeltaEncoder) Encode(value float32) (int16, error) {
	e.mustNotBeFinished()

	scaled, err := scaleSample(value)
	if err != nil {
		return 0, err
	}

	delta := scaled - int64(e.lastScaled)
	switch {
	case delta > math.MaxInt16:
		if e.policy != format.OverflowSaturate {
			return 0, fmt.Errorf("%w: %d", errs.ErrDeltaOverflow, delta)
		}
		delta = math.MaxInt16
		e.saturated++
	case delta < math.MinInt16:
		if e.policy != format.OverflowSaturate {
			return 0, fmt.Errorf("%w: %d", errs.ErrDeltaOverflow, delta)
		}
		delta = math.MinInt16
		e.saturated++
	}

	d := int16(delta)
	e.lastScaled += int32(d)
	e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(d)) //nolint:gosec
	e.count++

	return d, nil
}

// Write encodes value, discarding the delta.
func (e *ScalarDeltaEncoder) Write(value float32) error {
	_, err := e.Encode(value)
	return err
}

// WriteSlice encodes values in order and stops at the first error.
//
// Panics if Finish has been called.
func (e *ScalarDeltaEncoder) WriteSlice(values []float32) error {
	e.mustNotBeFinished()
	e.buf.Grow(len(values) * DeltaRecordSize)
	for i, v := range values {
		if _, err := e.Encode(v); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}

	return nil
}

func (e *ScalarDeltaEncoder) mustNotBeFinished() {
	if e.buf == nil {
		panic("encoder already finished - cannot encode after Finish()")
	}
}

// Bytes returns the encoded records.
//
// The returned slice is valid until the next write, Reset or Finish and must
// not be modified.
func (e *ScalarDeltaEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of records written.
func (e *ScalarDeltaEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *ScalarDeltaEncoder) Size() int {
	return e.buf.Len()
}

// State returns the running scaled base, for desync checks against a decoder.
func (e *ScalarDeltaEncoder) State() int32 {
	return e.lastScaled
}

// Saturated returns how many records were clamped by format.OverflowSaturate.
func (e *ScalarDeltaEncoder) Saturated() int {
	return e.saturated
}

// Reset returns the encoder to its initial zero state and drops the output.
func (e *ScalarDeltaEncoder) Reset() {
	e.lastScaled = 0
	e.count = 0
	e.saturated = 0
	e.buf.Reset()
}

// Finish returns the output buffer to the pool. The encoder is unusable afterwards.
func (e *ScalarDeltaEncoder) Finish() {
	pool.PutRecordBuffer(e.buf)
	e.buf = nil
}

// ScalarDeltaDecoder reconstructs samples from a delta record stream.
//
// Note: ScalarDeltaDecoder is NOT thread-safe.
type ScalarDeltaDecoder struct {
	lastScaled int32
	engine     endian.EndianEngine
}

// NewScalarDeltaDecoder creates a decoder with a zero running base.
func NewScalarDeltaDecoder(engine endian.EndianEngine) *ScalarDeltaDecoder {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &ScalarDeltaDecoder{engine: engine}
}

// Decode applies delta to the running base and returns the reconstructed sample.
func (d *ScalarDeltaDecoder) Decode(delta int16) float32 {
	d.lastScaled += int32(delta)
	return float32(float64(d.lastScaled) / DeltaScale)
}

// DecodeBytes decodes a packed record stream, continuing from the current state.
//
// Returns errs.ErrTruncatedRecord if data holds a partial record; in that
// case no record is applied.
func (d *ScalarDeltaDecoder) DecodeBytes(data []byte) ([]float32, error) {
	if len(data)%DeltaRecordSize != 0 {
		return nil, fmt.Errorf("%w: delta stream of %d bytes", errs.ErrTruncatedRecord, len(data))
	}

	out := make([]float32, 0, len(data)/DeltaRecordSize)
	for v := range d.All(data) {
		out = append(out, v)
	}

	return out, nil
}

// All returns an iterator decoding each complete record of data in order,
// continuing from the current state. A trailing partial record is ignored.
func (d *ScalarDeltaDecoder) All(data []byte) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		for off := 0; off+DeltaRecordSize <= len(data); off += DeltaRecordSize {
			delta := int16(d.engine.Uint16(data[off:])) //nolint:gosec
			if !yield(d.Decode(delta)) {
				return
			}
		}
	}
}

// State returns the running scaled base.
func (d *ScalarDeltaDecoder) State() int32 {
	return d.lastScaled
}

// CheckSync compares encoder and decoder running bases.
//
// It returns an error wrapping errs.ErrStateDesync when they differ. The
// condition is advisory: the codec never checks it on its own.
func CheckSync(encoderState, decoderState int32) error {
	if encoderState != decoderState {
		return fmt.Errorf("%w: encoder base %d, decoder base %d", errs.ErrStateDesync, encoderState, decoderState)
	}

	return nil
}

func scaleSample(value float32) (int64, error) {
	v := float64(value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", errs.ErrNonFiniteValue, value)
	}

	scaled := math.Round(v * DeltaScale)
	if scaled > math.MaxInt32 || scaled < math.MinInt32 {
		return 0, fmt.Errorf("%w: %v", errs.ErrValueOutOfRange, value)
	}

	return int64(scaled), nil
}
