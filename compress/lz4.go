package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/emotrace/errs"
)

// lz4MaxDecodedSize bounds the decode buffer so a corrupted length prefix
// cannot exhaust memory.
const lz4MaxDecodedSize = MaxDecodedSize

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor stores a payload as a uvarint decoded length followed by one
// LZ4 block. Raw LZ4 blocks do not record their decoded size.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 block codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data as a single LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) > lz4MaxDecodedSize {
		return nil, fmt.Errorf("%w: lz4 payload of %d bytes exceeds %d", errs.ErrValueOutOfRange, len(data), lz4MaxDecodedSize)
	}

	dst := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	hdr := binary.PutUvarint(dst, uint64(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[hdr:])
	if err != nil {
		return nil, err
	}

	return dst[:hdr+n], nil
}

// Decompress decodes a payload produced by Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, hdr, err := lz4DecodedLen(data)
	if err != nil {
		return nil, err
	}

	return lz4Uncompress(data[hdr:], size)
}

// DecompressSized implements Decompressor. The length prefix is checked
// before the output buffer is allocated.
func (c LZ4Compressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if done, err := checkSize("lz4", data, size); done {
		return nil, err
	}

	declared, hdr, err := lz4DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if declared != uint64(size) {
		return nil, sizeMismatch("lz4", declared, size)
	}

	return lz4Uncompress(data[hdr:], declared)
}

func lz4DecodedLen(data []byte) (uint64, int, error) {
	size, hdr := binary.Uvarint(data)
	if hdr <= 0 {
		return 0, 0, corrupt("lz4", errors.New("invalid length prefix"))
	}
	if size == 0 || size > lz4MaxDecodedSize {
		return 0, 0, corrupt("lz4", fmt.Errorf("decoded length %d", size))
	}

	return size, hdr, nil
}

func lz4Uncompress(block []byte, size uint64) ([]byte, error) {
	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(block, buf)
	if err != nil {
		return nil, corrupt("lz4", err)
	}
	if uint64(n) != size {
		return nil, corrupt("lz4", fmt.Errorf("decoded %d bytes, want %d", n, size))
	}

	return buf, nil
}
