// Package errs defines the sentinel errors returned by emotrace.
//
// Errors fall into three categories. Every specific error wraps exactly one of
// them, so callers can branch on the category with errors.Is:
//
//	if errors.Is(err, errs.ErrInvalidInput) { ... }
//
//   - ErrInvalidInput: a value handed to a codec is outside its domain.
//   - ErrFormat: an encoded byte stream is truncated or malformed.
//   - ErrStateDesync: advisory, encoder and decoder running totals disagree.
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrFormat       = errors.New("format error")
	ErrStateDesync  = errors.New("state desync")
)

// Invalid input.
var (
	ErrNonFiniteValue      = fmt.Errorf("%w: non-finite value", ErrInvalidInput)
	ErrValueOutOfRange     = fmt.Errorf("%w: value out of range", ErrInvalidInput)
	ErrDeltaOverflow       = fmt.Errorf("%w: delta exceeds int16 range", ErrInvalidInput)
	ErrUnknownEmotionCode  = fmt.Errorf("%w: unknown emotion code", ErrInvalidInput)
	ErrTimestampOutOfRange = fmt.Errorf("%w: timestamp offset out of range", ErrInvalidInput)
	ErrOutOfOrderState     = fmt.Errorf("%w: state timestamp precedes previous state", ErrInvalidInput)
	ErrInvalidChannelName  = fmt.Errorf("%w: invalid channel name", ErrInvalidInput)
	ErrTooManyChannels     = fmt.Errorf("%w: channel count exceeds limit", ErrInvalidInput)
	ErrInvalidOption       = fmt.Errorf("%w: invalid option", ErrInvalidInput)
	ErrSessionSealed       = fmt.Errorf("%w: session already sealed", ErrInvalidInput)
	ErrChannelNotFound     = fmt.Errorf("%w: channel not found", ErrInvalidInput)
	ErrUnsupportedCodec    = fmt.Errorf("%w: unsupported compression type", ErrInvalidInput)
)

// Format errors.
var (
	ErrTruncatedRecord     = fmt.Errorf("%w: insufficient bytes for fixed-size record", ErrFormat)
	ErrTruncatedSegment    = fmt.Errorf("%w: truncated run-length segment list", ErrFormat)
	ErrInvalidRunCount     = fmt.Errorf("%w: run-length segment with zero count", ErrFormat)
	ErrInvalidHeaderSize   = fmt.Errorf("%w: invalid header size", ErrFormat)
	ErrInvalidMagicNumber  = fmt.Errorf("%w: invalid magic number", ErrFormat)
	ErrInvalidHeaderFlags  = fmt.Errorf("%w: invalid header flags", ErrFormat)
	ErrPayloadSizeMismatch = fmt.Errorf("%w: payload size does not match header", ErrFormat)
	ErrChecksumMismatch    = fmt.Errorf("%w: payload checksum mismatch", ErrFormat)
	ErrCorruptPayload      = fmt.Errorf("%w: payload decompression failed", ErrFormat)
)
