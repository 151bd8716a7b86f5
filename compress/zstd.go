package compress

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/emotrace/errs"
)

// ZstdCompressor compresses payloads with Zstandard.
//
// The implementation is chosen at build time, see zstd_pure.go and zstd_cgo.go.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec at the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// zstdFrameSize reads the frame header. It reports whether the frame
// records its content size and fails when that size differs from size.
// Small frames written without a single segment carry no content size.
func zstdFrameSize(data []byte, size int) (bool, error) {
	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return false, corrupt("zstd", err)
	}
	if h.Skippable {
		return false, corrupt("zstd", errors.New("skippable frame"))
	}
	if !h.HasFCS {
		return false, nil
	}
	if h.FrameContentSize != uint64(size) { //nolint:gosec
		return true, sizeMismatch("zstd", h.FrameContentSize, size)
	}

	return true, nil
}

// readExactly reads size bytes from a decompressing reader and requires the
// stream to end there, so at most size bytes of output are buffered.
func readExactly(algorithm string, r io.Reader, size int) ([]byte, error) {
	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %s payload shorter than %d bytes",
				errs.ErrPayloadSizeMismatch, algorithm, size)
		}

		return nil, corrupt(algorithm, err)
	}

	var extra [1]byte
	_, err := io.ReadFull(r, extra[:])
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s payload longer than %d bytes",
			errs.ErrPayloadSizeMismatch, algorithm, size)
	case errors.Is(err, io.EOF):
		return out, nil
	default:
		return nil, corrupt(algorithm, err)
	}
}
