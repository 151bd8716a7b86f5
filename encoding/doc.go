// Package encoding provides the stream codecs that turn raw telemetry into
// compact, persistable records.
//
// # Scalar Delta Codec
//
// ScalarDeltaEncoder stores each float32 sample as a 2-byte signed fixed-point
// delta from the previous sample of the same channel (scale 1000):
//
//	enc, _ := encoding.NewScalarDeltaEncoder(endian.GetLittleEndianEngine())
//	enc.Encode(1.234) // 1234
//	enc.Encode(1.235) // 1
//
//	dec := encoding.NewScalarDeltaDecoder(endian.GetLittleEndianEngine())
//	dec.Decode(1234) // 1.234
//	dec.Decode(1)    // 1.235
//
// The codec is a stream codec, not random access: encoder and decoder start
// from a zero base and must see the same records in the same order.
//
// Policies:
//   - NaN and ±Inf are rejected with errs.ErrNonFiniteValue.
//   - A delta that does not fit in int16 is rejected with errs.ErrDeltaOverflow
//     (format.OverflowReject, the default) or clamped with the running base
//     advanced by the clamped amount (format.OverflowSaturate).
//
// # Run-Length Codec
//
// RLEEncoder compresses event marker streams into (value, count) segments:
//
//	segs := encoding.EncodeRLE([]byte{1, 1, 1, 2, 2, 3, 3, 3, 3})
//	// [{1 3} {2 2} {3 4}]
//	raw, _ := encoding.DecodeRLE(segs)
//
// Counts are capped at MaxRunCount; a longer run continues in a new segment
// with the same value.
//
// # Wire Layout
//
// All records are little-endian unless the caller passes another engine:
//   - Delta record: int16 (2 bytes)
//   - RLE segment: value uint8, count uint16 (3 bytes)
//
// # Thread Safety
//
// Encoders and decoders carry running state for exactly one channel of one
// session and must not be shared between goroutines.
package encoding
