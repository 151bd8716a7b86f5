package emotion

import (
	"fmt"
	"math"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
)

// QuantizedStateSize is the encoded size of a QuantizedState in bytes.
const QuantizedStateSize = 11

// QuantizationSteps is the number of integer steps per normalized unit.
const QuantizationSteps = 100

// Dimension identifies one numeric axis of an emotional state.
type Dimension uint8

const (
	DimValence Dimension = iota
	DimArousal
	DimDominance
	DimConfidence
	DimIntensity
	DimEngagement

	numDimensions
)

var dimensionNames = [numDimensions]string{
	DimValence:    "valence",
	DimArousal:    "arousal",
	DimDominance:  "dominance",
	DimConfidence: "confidence",
	DimIntensity:  "intensity",
	DimEngagement: "engagement",
}

func (d Dimension) String() string {
	if d < numDimensions {
		return dimensionNames[d]
	}

	return fmt.Sprintf("Dimension(%d)", uint8(d))
}

// Range returns the valid normalized range of d: [-1, 1] for valence, [0, 1]
// otherwise.
func (d Dimension) Range() (lo, hi float64) {
	if d == DimValence {
		return -1, 1
	}

	return 0, 1
}

// Clamp limits v to the valid range of d.
func (d Dimension) Clamp(v float64) float64 {
	lo, hi := d.Range()
	return math.Min(hi, math.Max(lo, v))
}

// State is a decompressed emotional reading.
type State struct {
	// TimestampMs is the absolute time of the reading in Unix milliseconds.
	TimestampMs int64

	Valence    float64 // [-1, 1]
	Arousal    float64 // [0, 1]
	Dominance  float64 // [0, 1]
	Confidence float64 // [0, 1]
	Intensity  float64 // [0, 1]
	Engagement float64 // [0, 1]

	Category Category
}

// NewState builds a State and classifies it from its VAD coordinates.
func NewState(timestampMs int64, valence, arousal, dominance float64) State {
	return State{
		TimestampMs: timestampMs,
		Valence:     valence,
		Arousal:     arousal,
		Dominance:   dominance,
		Category:    Classify(valence, arousal, dominance),
	}
}

// Get returns the value of dimension d.
func (s State) Get(d Dimension) float64 {
	switch d {
	case DimValence:
		return s.Valence
	case DimArousal:
		return s.Arousal
	case DimDominance:
		return s.Dominance
	case DimConfidence:
		return s.Confidence
	case DimIntensity:
		return s.Intensity
	case DimEngagement:
		return s.Engagement
	default:
		return 0
	}
}

// Set assigns v to dimension d.
func (s *State) Set(d Dimension, v float64) {
	switch d {
	case DimValence:
		s.Valence = v
	case DimArousal:
		s.Arousal = v
	case DimDominance:
		s.Dominance = v
	case DimConfidence:
		s.Confidence = v
	case DimIntensity:
		s.Intensity = v
	case DimEngagement:
		s.Engagement = v
	}
}

// QuantizedState is the 11-byte persisted form of an emotional reading.
//
// Layout (little-endian by default):
//
//	offset  size  field
//	0       4     TimestampOffsetMs (uint32, ms since session start)
//	4       1     Valence (int8, -100..100)
//	5       1     Arousal (uint8, 0..100)
//	6       1     Dominance (uint8, 0..100)
//	7       1     Confidence (uint8, 0..100)
//	8       1     Code (uint8, category code)
//	9       1     Intensity (uint8, 0..100)
//	10      1     Engagement (uint8, 0..100)
type QuantizedState struct {
	TimestampOffsetMs uint32
	Valence           int8
	Arousal           uint8
	Dominance         uint8
	Confidence        uint8
	Code              uint8
	Intensity         uint8
	Engagement        uint8
}

// Validate checks every field against its declared range.
func (q QuantizedState) Validate() error {
	if q.Valence < -QuantizationSteps || q.Valence > QuantizationSteps {
		return fmt.Errorf("%w: valence %d", errs.ErrValueOutOfRange, q.Valence)
	}

	unsigned := [...]struct {
		dim Dimension
		v   uint8
	}{
		{DimArousal, q.Arousal},
		{DimDominance, q.Dominance},
		{DimConfidence, q.Confidence},
		{DimIntensity, q.Intensity},
		{DimEngagement, q.Engagement},
	}
	for _, f := range unsigned {
		if f.v > QuantizationSteps {
			return fmt.Errorf("%w: %s %d", errs.ErrValueOutOfRange, f.dim, f.v)
		}
	}

	if _, err := CategoryFromCode(q.Code); err != nil {
		return err
	}

	return nil
}

// Category returns the category of q, or Unknown for an out-of-table code.
func (q QuantizedState) Category() Category {
	c, err := CategoryFromCode(q.Code)
	if err != nil {
		return Unknown
	}

	return c
}

// Get returns the dequantized value of dimension d.
func (q QuantizedState) Get(d Dimension) float64 {
	switch d {
	case DimValence:
		return float64(q.Valence) / QuantizationSteps
	case DimArousal:
		return float64(q.Arousal) / QuantizationSteps
	case DimDominance:
		return float64(q.Dominance) / QuantizationSteps
	case DimConfidence:
		return float64(q.Confidence) / QuantizationSteps
	case DimIntensity:
		return float64(q.Intensity) / QuantizationSteps
	case DimEngagement:
		return float64(q.Engagement) / QuantizationSteps
	default:
		return 0
	}
}

// VAD returns the dequantized valence, arousal and dominance.
func (q QuantizedState) VAD() (valence, arousal, dominance float64) {
	return q.Get(DimValence), q.Get(DimArousal), q.Get(DimDominance)
}

// AppendBinary appends the 11-byte encoding of q to dst.
func (q QuantizedState) AppendBinary(dst []byte, engine endian.EndianEngine) []byte {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	dst = engine.AppendUint32(dst, q.TimestampOffsetMs)

	return append(dst,
		byte(q.Valence),
		q.Arousal,
		q.Dominance,
		q.Confidence,
		q.Code,
		q.Intensity,
		q.Engagement,
	)
}

// MarshalBinary implements encoding.BinaryMarshaler using little-endian order.
func (q QuantizedState) MarshalBinary() ([]byte, error) {
	return q.AppendBinary(make([]byte, 0, QuantizedStateSize), nil), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using little-endian order.
func (q *QuantizedState) UnmarshalBinary(data []byte) error {
	parsed, err := ParseQuantizedState(data, nil)
	if err != nil {
		return err
	}
	*q = parsed

	return nil
}

// ParseQuantizedState parses one record from the first QuantizedStateSize bytes of data.
//
// Returns errs.ErrTruncatedRecord for short input and the Validate error for
// out-of-range fields.
func ParseQuantizedState(data []byte, engine endian.EndianEngine) (QuantizedState, error) {
	if len(data) < QuantizedStateSize {
		return QuantizedState{}, fmt.Errorf("%w: quantized state needs %d bytes, got %d",
			errs.ErrTruncatedRecord, QuantizedStateSize, len(data))
	}
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	q := QuantizedState{
		TimestampOffsetMs: engine.Uint32(data[0:4]),
		Valence:           int8(data[4]), //nolint:gosec
		Arousal:           data[5],
		Dominance:         data[6],
		Confidence:        data[7],
		Code:              data[8],
		Intensity:         data[9],
		Engagement:        data[10],
	}
	if err := q.Validate(); err != nil {
		return QuantizedState{}, err
	}

	return q, nil
}

// AppendQuantizedStates appends the encoding of every state to dst.
func AppendQuantizedStates(dst []byte, states []QuantizedState, engine endian.EndianEngine) []byte {
	for _, q := range states {
		dst = q.AppendBinary(dst, engine)
	}

	return dst
}

// ParseQuantizedStates parses a packed stream of records.
//
// Returns errs.ErrTruncatedRecord if the length is not a multiple of
// QuantizedStateSize.
func ParseQuantizedStates(data []byte, engine endian.EndianEngine) ([]QuantizedState, error) {
	if len(data)%QuantizedStateSize != 0 {
		return nil, fmt.Errorf("%w: state stream of %d bytes", errs.ErrTruncatedRecord, len(data))
	}

	states := make([]QuantizedState, 0, len(data)/QuantizedStateSize)
	for off := 0; off < len(data); off += QuantizedStateSize {
		q, err := ParseQuantizedState(data[off:off+QuantizedStateSize], engine)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", off/QuantizedStateSize, err)
		}
		states = append(states, q)
	}

	return states, nil
}
