package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
)

// RLESegmentSize is the encoded size of one segment: value (1 byte) and run count (2 bytes).
const RLESegmentSize = 3

// MaxRunCount is the largest run a single segment can hold.
const MaxRunCount = math.MaxUint16

// RLESegment is a run of Count repetitions of Value. Count is always at least 1.
type RLESegment struct {
	Value uint8
	Count uint16
}

// RLEEncoder run-length encodes a stream of event marker bytes.
//
// A segment that reaches MaxRunCount is closed and the next equal byte opens a
// new segment with the same value. This is the only case in which adjacent
// segments share a value.
//
// Note: RLEEncoder is NOT thread-safe.
type RLEEncoder struct {
	segments []RLESegment
	cur      RLESegment
	open     bool
	total    int
}

var _ StreamEncoder[byte] = (*RLEEncoder)(nil)

// NewRLEEncoder creates an empty run-length encoder.
func NewRLEEncoder() *RLEEncoder {
	return &RLEEncoder{}
}

// Add appends one byte to the stream.
func (e *RLEEncoder) Add(b byte) {
	e.total++

	if e.open && e.cur.Value == b && e.cur.Count < MaxRunCount {
		e.cur.Count++
		return
	}

	if e.open {
		e.segments = append(e.segments, e.cur)
	}
	e.cur = RLESegment{Value: b, Count: 1}
	e.open = true
}

// AddSlice appends every byte of data in order.
func (e *RLEEncoder) AddSlice(data []byte) {
	for _, b := range data {
		e.Add(b)
	}
}

// Write implements StreamEncoder. It never fails.
func (e *RLEEncoder) Write(b byte) error {
	e.Add(b)
	return nil
}

// WriteSlice implements StreamEncoder. It never fails.
func (e *RLEEncoder) WriteSlice(data []byte) error {
	e.AddSlice(data)
	return nil
}

// Finalize closes the open segment and returns all segments.
//
// The encoder is reset afterwards and can encode a new stream.
func (e *RLEEncoder) Finalize() []RLESegment {
	if e.open {
		e.segments = append(e.segments, e.cur)
	}

	out := e.segments
	if out == nil {
		out = []RLESegment{}
	}
	e.Reset()

	return out
}

// Len returns the number of bytes added since the last Finalize or Reset.
func (e *RLEEncoder) Len() int {
	return e.total
}

// Size returns the encoded size of the segments produced so far, including the open one.
func (e *RLEEncoder) Size() int {
	n := len(e.segments)
	if e.open {
		n++
	}

	return n * RLESegmentSize
}

// Reset drops all state.
func (e *RLEEncoder) Reset() {
	e.segments = nil
	e.cur = RLESegment{}
	e.open = false
	e.total = 0
}

// EncodeRLE run-length encodes data in one call.
func EncodeRLE(data []byte) []RLESegment {
	e := NewRLEEncoder()
	e.AddSlice(data)

	return e.Finalize()
}

// DecodeRLE expands segments back into the original byte stream.
//
// Returns errs.ErrInvalidRunCount if any segment has a zero count.
func DecodeRLE(segments []RLESegment) ([]byte, error) {
	total := 0
	for i, seg := range segments {
		if seg.Count == 0 {
			return nil, fmt.Errorf("%w: segment %d", errs.ErrInvalidRunCount, i)
		}
		total += int(seg.Count)
	}

	out := make([]byte, 0, total)
	for _, seg := range segments {
		for range seg.Count {
			out = append(out, seg.Value)
		}
	}

	return out, nil
}

// IsCanonical reports whether segments are in canonical form: every count is
// positive and adjacent segments share a value only after a capped segment.
func IsCanonical(segments []RLESegment) bool {
	for i, seg := range segments {
		if seg.Count == 0 {
			return false
		}
		if i > 0 {
			prev := segments[i-1]
			if prev.Value == seg.Value && prev.Count != MaxRunCount {
				return false
			}
		}
	}

	return true
}

// AppendRLESegments appends the 3-byte encoding of each segment to dst.
func AppendRLESegments(dst []byte, segments []RLESegment, engine endian.EndianEngine) []byte {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	for _, seg := range segments {
		dst = append(dst, seg.Value)
		dst = engine.AppendUint16(dst, seg.Count)
	}

	return dst
}

// ParseRLESegments parses a packed segment list.
//
// Returns errs.ErrTruncatedSegment if the length is not a multiple of
// RLESegmentSize, or errs.ErrInvalidRunCount for a zero count.
func ParseRLESegments(data []byte, engine endian.EndianEngine) ([]RLESegment, error) {
	if len(data)%RLESegmentSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrTruncatedSegment, len(data))
	}
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	segments := make([]RLESegment, 0, len(data)/RLESegmentSize)
	for off := 0; off < len(data); off += RLESegmentSize {
		seg := RLESegment{
			Value: data[off],
			Count: engine.Uint16(data[off+1 : off+3]),
		}
		if seg.Count == 0 {
			return nil, fmt.Errorf("%w: segment %d", errs.ErrInvalidRunCount, off/RLESegmentSize)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}
