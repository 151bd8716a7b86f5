package encoding

// StreamEncoder is the write side of a per-channel record stream.
//
// Implementations carry running state scoped to one channel of one session and
// are not safe for concurrent use.
type StreamEncoder[T any] interface {
	// Write encodes a single value.
	Write(value T) error

	// WriteSlice encodes values in order and stops at the first error.
	// Values before the failing one remain encoded.
	WriteSlice(values []T) error

	// Len returns the number of values written.
	Len() int

	// Size returns the encoded size in bytes of the values written.
	Size() int

	// Reset clears running state and accumulated output, returning the encoder
	// to the state of a newly created one.
	Reset()
}
