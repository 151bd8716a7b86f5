// Package emotrace records biometric telemetry sessions together with the
// emotional trajectory inferred from them, and stores each session as one
// compact, self-describing blob.
//
// A session combines three kinds of data:
//
//   - Scalar channels (EEG bands, heart rate, skin conductance) stored as
//     16-bit deltas at a fixed scale of 1000, so values keep three decimals
//   - Emotional states in valence/arousal/dominance space, quantized to
//     11 bytes each and classified into categories
//   - Event markers, run-length encoded
//
// # Core Features
//
//   - Hash-based channel identification (64-bit xxHash64) for O(1) lookups
//   - Lossless-within-scale delta coding with an explicit overflow policy
//   - Incremental trajectory metrics (volatility, complexity, dominant
//     categories) and short-horizon prediction
//   - Optional whole-payload compression (None, Zstd, S2, LZ4)
//   - xxHash64 checksum over the uncompressed payload
//   - Storage accounting (compression ratio, savings, storage cost)
//
// # Basic Usage
//
// Recording a session:
//
//	rec, _ := emotrace.NewDefaultRecorder(time.Now())
//	_ = rec.AddSamples("eeg.alpha", alpha)
//	_ = rec.AddState(emotion.NewState(nowMs, 0.4, 0.7, 0.6))
//	_ = rec.AddMarkers(markers)
//
//	sealed, _ := rec.Seal()
//	fmt.Println(sealed.Stats)
//
// Reading it back:
//
//	dec, _ := emotrace.NewDecoder(sealed.Data)
//	alpha, _ := dec.Channel("eeg.alpha")
//	summary, _ := dec.Summary()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the blob
// package. For fine-grained control, use blob, trajectory and store
// directly.
package emotrace

import (
	"time"

	"github.com/arloliu/emotrace/blob"
	"github.com/arloliu/emotrace/emotion"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/internal/hash"
	"github.com/arloliu/emotrace/trajectory"
)

var defaultRecorderOptions = []blob.RecorderOption{
	blob.WithLittleEndian(),
	blob.WithPayloadCompression(format.CompressionZstd),
	blob.WithOverflowPolicy(format.OverflowReject),
	blob.WithQuantization(format.QuantizeRound),
	blob.WithAutoClassify(true),
	blob.WithChannelNames(true),
}

var archiveRecorderOptions = []blob.RecorderOption{
	blob.WithLittleEndian(),
	blob.WithPayloadCompression(format.CompressionZstd),
	blob.WithOverflowPolicy(format.OverflowSaturate),
	blob.WithQuantization(format.QuantizeRound),
	blob.WithAutoClassify(true),
	blob.WithChannelNames(false),
}

// NewRecorder creates a session recorder with custom options.
//
// Parameters:
//   - base: The session start; every state offset is relative to it
//   - opts: Optional configuration (see blob.RecorderOption)
//
// Available options:
//   - blob.WithLittleEndian() / blob.WithBigEndian()
//   - blob.WithPayloadCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - blob.WithOverflowPolicy(format.OverflowReject|OverflowSaturate)
//   - blob.WithQuantization(format.QuantizeRound|QuantizeTruncate)
//   - blob.WithAutoClassify(true|false)
//   - blob.WithChannelNames(true|false)
//   - blob.WithSessionID(id)
//   - blob.WithStateCapacity(n)
//
// Returns an error if any option is invalid.
//
// Example:
//
//	rec, err := emotrace.NewRecorder(time.Now(),
//	    blob.WithPayloadCompression(format.CompressionS2),
//	)
func NewRecorder(base time.Time, opts ...blob.RecorderOption) (*blob.Recorder, error) {
	return blob.NewRecorder(base, opts...)
}

// NewDefaultRecorder creates a recorder with recommended default settings.
//
// It uses:
//   - Little-endian byte order
//   - Zstd payload compression
//   - Rejecting delta overflow, so a failed sample never desyncs a channel
//   - Rounding quantization with automatic category classification
//   - Channel names stored in the blob
func NewDefaultRecorder(base time.Time) (*blob.Recorder, error) {
	return blob.NewRecorder(base, defaultRecorderOptions...)
}

// NewArchiveRecorder creates a recorder tuned for long-term storage.
//
// Compared to NewDefaultRecorder it saturates oversized deltas instead of
// rejecting them and omits channel names; readers look channels up by
// ChannelID. Extra options are applied after the archive defaults.
func NewArchiveRecorder(base time.Time, opts ...blob.RecorderOption) (*blob.Recorder, error) {
	all := make([]blob.RecorderOption, 0, len(archiveRecorderOptions)+len(opts))
	all = append(all, archiveRecorderOptions...)
	all = append(all, opts...)

	return blob.NewRecorder(base, all...)
}

// NewDecoder verifies a sealed session blob and prepares it for reading.
func NewDecoder(data []byte) (*blob.Decoder, error) {
	return blob.NewDecoder(data)
}

// NewTrajectory creates an empty trajectory anchored at baseMs.
func NewTrajectory(baseMs int64) *trajectory.Trajectory {
	return trajectory.New(trajectory.WithBaseTimestamp(baseMs))
}

// NewEmotionCodec creates a state codec with rounding quantization and
// automatic classification.
func NewEmotionCodec() (*emotion.Codec, error) {
	return emotion.NewCodec(
		emotion.WithQuantization(format.QuantizeRound),
		emotion.WithAutoClassify(true),
	)
}

// ChannelID returns the 64-bit id a channel name is stored under.
func ChannelID(name string) uint64 {
	return hash.ID(name)
}
