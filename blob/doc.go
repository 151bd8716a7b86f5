// Package blob records one telemetry session and seals it into a single
// self-describing byte blob, and decodes such blobs back.
//
// A Recorder owns every codec of a session: one scalar delta encoder per
// channel, one run-length encoder for event markers and the emotional
// trajectory. Codec state is never shared between sessions, and a Recorder
// is not safe for concurrent use; the single writer of a session owns it.
//
//	rec, err := blob.NewRecorder(time.Now(),
//	    blob.WithPayloadCompression(format.CompressionZstd),
//	)
//	if err != nil {
//	    return err
//	}
//	_ = rec.AddSample("eeg.alpha", 1.234)
//	_ = rec.AddState(emotion.NewState(nowMs, 0.4, 0.7, 0.6))
//	_ = rec.AddMarker(1)
//
//	sealed, err := rec.Seal()
//
// Sealed bytes are read with a Decoder, which verifies the checksum before
// exposing anything:
//
//	dec, err := blob.NewDecoder(sealed.Data)
//	samples, err := dec.Channel("eeg.alpha")
//	summary, err := dec.Summary()
//
// See package section for the byte layout.
package blob
