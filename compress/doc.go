// Package compress provides the block codecs applied to a sealed session
// payload after the delta, quantized-state and run-length records have been
// laid out.
//
// Four algorithms are available, selected by format.CompressionType:
//
//   - None: the payload is stored as is.
//   - Zstd: best ratio, used for archival sessions.
//   - S2: fast with a reasonable ratio.
//   - LZ4: fastest decompression.
//
// Delta records of slowly varying channels are dominated by small values and
// marker streams are already run-length encoded, so Zstd usually gains the
// most on top of the record codecs.
//
// Codecs are stateless values backed by pooled encoders and are safe for
// concurrent use:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, _ := codec.Compress(payload)
//	payload, err = codec.Decompress(packed)
//
// Zstd uses github.com/klauspost/compress/zstd by default. Building with the
// gozstd tag (and cgo enabled) switches to the cgo binding
// github.com/valyala/gozstd; both produce standard zstd frames, so blobs are
// interchangeable.
package compress
