package accounting

import "fmt"

// Stats describes one original/compressed size pair.
type Stats struct {
	// OriginalSize is the size before encoding, in bytes.
	OriginalSize int64
	// CompressedSize is the size after encoding and compression, in bytes.
	CompressedSize int64
	// Ratio is OriginalSize/CompressedSize, or 0 when CompressedSize is 0.
	Ratio float64
	// SpaceSavingsPct is (OriginalSize-CompressedSize)/OriginalSize*100, or 0
	// when OriginalSize is 0. It is negative when encoding grew the data.
	SpaceSavingsPct float64
	// Method names the encoding pipeline that produced CompressedSize.
	Method string
}

// ComputeStats builds Stats for the given sizes. Negative sizes are treated
// as 0, so the result never divides by zero.
func ComputeStats(original, compressed int64, method string) Stats {
	original = max(original, 0)
	compressed = max(compressed, 0)

	s := Stats{
		OriginalSize:   original,
		CompressedSize: compressed,
		Method:         method,
	}
	if compressed > 0 {
		s.Ratio = float64(original) / float64(compressed)
	}
	if original > 0 {
		s.SpaceSavingsPct = float64(original-compressed) / float64(original) * 100
	}

	return s
}

// Merge sums the sizes of s and other and recomputes the derived fields.
// The method of s is kept unless it is empty.
func (s Stats) Merge(other Stats) Stats {
	method := s.Method
	if method == "" {
		method = other.Method
	}

	return ComputeStats(s.OriginalSize+other.OriginalSize, s.CompressedSize+other.CompressedSize, method)
}

// SavedBytes returns OriginalSize-CompressedSize.
func (s Stats) SavedBytes() int64 {
	return s.OriginalSize - s.CompressedSize
}

func (s Stats) String() string {
	method := s.Method
	if method == "" {
		method = "unknown"
	}

	return fmt.Sprintf("%s: %d -> %d bytes (ratio %.2fx, saved %.1f%%)",
		method, s.OriginalSize, s.CompressedSize, s.Ratio, s.SpaceSavingsPct)
}
