package format

import "fmt"

type (
	EncodingType     uint8
	CompressionType  uint8
	QuantizeMode     uint8
	OverflowPolicy   uint8
	ComplexityPolicy uint8
)

const (
	TypeRaw       EncodingType = 0x1 // TypeRaw represents unencoded float32 samples.
	TypeDelta     EncodingType = 0x2 // TypeDelta represents fixed-point 16-bit delta records.
	TypeQuantized EncodingType = 0x3 // TypeQuantized represents 11-byte quantized emotional states.
	TypeRLE       EncodingType = 0x4 // TypeRLE represents run-length encoded marker segments.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	// QuantizeRound rounds each unit-range dimension to the nearest step (max error 0.005).
	QuantizeRound QuantizeMode = 0x1
	// QuantizeTruncate truncates toward zero (max error 0.01, one-sided bias).
	QuantizeTruncate QuantizeMode = 0x2

	// OverflowReject fails a delta encode whose delta does not fit in int16.
	OverflowReject OverflowPolicy = 0x1
	// OverflowSaturate emits the nearest int16 and advances the running base by
	// the emitted delta only, so a lockstep decoder stays in sync.
	OverflowSaturate OverflowPolicy = 0x2

	// ComplexityDistanceReversal is the canonical complexity formula computed on
	// the quantized trajectory: normalized mean distance plus valence reversal ratio.
	ComplexityDistanceReversal ComplexityPolicy = 0x1
	// ComplexityVarianceDirection sums per-dimension variance of the decompressed
	// series and adds the valence direction change ratio.
	ComplexityVarianceDirection ComplexityPolicy = 0x2
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	case TypeQuantized:
		return "Quantized"
	case TypeRLE:
		return "RLE"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the supported compression types.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (m QuantizeMode) String() string {
	switch m {
	case QuantizeRound:
		return "Round"
	case QuantizeTruncate:
		return "Truncate"
	default:
		return fmt.Sprintf("QuantizeMode(%d)", uint8(m))
	}
}

// IsValid reports whether m is a supported quantization mode.
func (m QuantizeMode) IsValid() bool {
	return m == QuantizeRound || m == QuantizeTruncate
}

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "Reject"
	case OverflowSaturate:
		return "Saturate"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", uint8(p))
	}
}

// IsValid reports whether p is a supported overflow policy.
func (p OverflowPolicy) IsValid() bool {
	return p == OverflowReject || p == OverflowSaturate
}

func (p ComplexityPolicy) String() string {
	switch p {
	case ComplexityDistanceReversal:
		return "DistanceReversal"
	case ComplexityVarianceDirection:
		return "VarianceDirection"
	default:
		return fmt.Sprintf("ComplexityPolicy(%d)", uint8(p))
	}
}
