package compress

import (
	"fmt"

	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/section"
)

// Compressor compresses a sealed session payload.
//
// The returned slice is owned by the caller. The NoOp codec returns its input
// unchanged, so callers must not mutate data afterwards.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// Corrupted input or input produced by a different algorithm yields an error
// wrapping errs.ErrCorruptPayload. Implementations are safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)

	// DecompressSized decodes data that must expand to exactly size bytes.
	// It reads the decoded length recorded in data first and fails with
	// errs.ErrPayloadSizeMismatch before allocating when the two differ, so
	// a small crafted input cannot force a large allocation. The result never
	// shares memory with data.
	DecompressSized(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in codec for compressionType.
//
// Returns errs.ErrUnsupportedCodec for an unknown type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02x)", errs.ErrUnsupportedCodec, compressionType, uint8(compressionType))
}

// Method returns the accounting label of a payload encoded with the session
// codecs and compressed with compressionType, e.g. "delta+rle+zstd".
func Method(compressionType format.CompressionType) string {
	const base = "delta+quantized+rle"
	if compressionType == format.CompressionNone {
		return base
	}

	return fmt.Sprintf("%s+%s", base, lowerName(compressionType))
}

func lowerName(c format.CompressionType) string {
	switch c {
	case format.CompressionZstd:
		return "zstd"
	case format.CompressionS2:
		return "s2"
	case format.CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// MaxDecodedSize bounds the decoded size of any compressed payload.
const MaxDecodedSize = section.MaxPayloadSize

func corrupt(algorithm string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrCorruptPayload, algorithm, err)
}

func sizeMismatch(algorithm string, declared uint64, size int) error {
	return fmt.Errorf("%w: %s input declares %d bytes, expected %d",
		errs.ErrPayloadSizeMismatch, algorithm, declared, size)
}

// checkSize rejects expected sizes no codec can produce and handles the
// empty payload, which every codec stores as zero bytes.
func checkSize(algorithm string, data []byte, size int) (done bool, err error) {
	if size < 0 || size > MaxDecodedSize {
		return true, fmt.Errorf("%w: %s expected size %d outside [0, %d]",
			errs.ErrPayloadSizeMismatch, algorithm, size, MaxDecodedSize)
	}
	if len(data) == 0 || size == 0 {
		if len(data) != 0 || size != 0 {
			return true, sizeMismatch(algorithm, uint64(len(data)), size)
		}

		return true, nil
	}

	return false, nil
}
