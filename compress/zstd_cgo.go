//go:build gozstd && cgo

package compress

import (
	"bytes"

	"github.com/valyala/gozstd"
)

const gozstdLevel = 3

// Compress compresses data with the cgo zstd binding.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, gozstdLevel), nil
}

// Decompress decompresses a zstd frame with the cgo zstd binding.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, corrupt("zstd", err)
	}

	return out, nil
}

// DecompressSized implements Decompressor. A recorded frame content size is
// checked before the cgo decoder runs; frames without one are streamed into
// a buffer of exactly size bytes.
func (c ZstdCompressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if done, err := checkSize("zstd", data, size); done {
		return nil, err
	}
	hasSize, err := zstdFrameSize(data, size)
	if err != nil {
		return nil, err
	}

	if !hasSize {
		zr := gozstd.NewReader(bytes.NewReader(data))
		defer zr.Release()

		return readExactly("zstd", zr, size)
	}

	out, err := gozstd.Decompress(make([]byte, 0, size), data)
	if err != nil {
		return nil, corrupt("zstd", err)
	}
	if len(out) != size {
		return nil, sizeMismatch("zstd", uint64(len(out)), size)
	}

	return out, nil
}
