package compress

import "bytes"

// NoOpCompressor stores payloads uncompressed.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself. The result shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself. The result shares memory with the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressSized implements Decompressor. It returns a copy of data so a
// decoded payload never aliases the caller's buffer.
func (c NoOpCompressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if done, err := checkSize("none", data, size); done {
		return nil, err
	}
	if len(data) != size {
		return nil, sizeMismatch("none", uint64(len(data)), size)
	}

	return bytes.Clone(data), nil
}
