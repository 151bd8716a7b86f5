package compress

import "github.com/klauspost/compress/s2"

type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data as a single S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes a single S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, corrupt("s2", err)
	}

	return out, nil
}

// DecompressSized implements Decompressor. The decoded length stored in the
// block header is checked before the output buffer is allocated.
func (c S2Compressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if done, err := checkSize("s2", data, size); done {
		return nil, err
	}

	declared, err := s2.DecodedLen(data)
	if err != nil {
		return nil, corrupt("s2", err)
	}
	if declared != size {
		return nil, sizeMismatch("s2", uint64(declared), size) //nolint:gosec
	}

	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, corrupt("s2", err)
	}

	return out, nil
}
