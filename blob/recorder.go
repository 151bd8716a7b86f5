package blob

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/emotrace/accounting"
	"github.com/arloliu/emotrace/compress"
	"github.com/arloliu/emotrace/emotion"
	"github.com/arloliu/emotrace/encoding"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/internal/hash"
	"github.com/arloliu/emotrace/internal/options"
	"github.com/arloliu/emotrace/internal/pool"
	"github.com/arloliu/emotrace/section"
	"github.com/arloliu/emotrace/trajectory"
)

// Raw sizes used for accounting. A sample arrives as a float32; a state as a
// millisecond timestamp, six float64 dimensions and a category byte.
const (
	RawSampleSize = 4
	RawStateSize  = 8 + 6*8 + 1
	RawMarkerSize = 1
)

type channel struct {
	name string
	id   uint64
	enc  *encoding.ScalarDeltaEncoder
}

// Recorder accumulates the telemetry of one session and seals it into a blob.
//
// Note: Recorder is NOT thread-safe. A session has a single writer.
type Recorder struct {
	cfg      *RecorderConfig
	baseMs   int64
	channels []*channel
	byID     map[uint64]*channel
	states   *emotion.Codec
	markers  *encoding.RLEEncoder
	traj     *trajectory.Trajectory

	samples int
	sealed  bool
	final   accounting.Stats
}

// NewRecorder creates a Recorder for a session starting at base. State
// timestamps are stored as millisecond offsets from base.
func NewRecorder(base time.Time, opts ...RecorderOption) (*Recorder, error) {
	baseMs := base.UnixMilli()
	cfg := newRecorderConfig(baseMs)
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.codec == nil {
		if err := cfg.setCompression(format.CompressionNone); err != nil {
			return nil, err
		}
	}
	if cfg.sessionID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("generate session id: %w", err)
		}
		cfg.sessionID = id
	}
	cfg.header.SessionID = cfg.sessionID

	codec, err := emotion.NewCodec(
		emotion.WithQuantization(cfg.header.Flag.QuantizeMode()),
		emotion.WithAutoClassify(cfg.autoClassify),
	)
	if err != nil {
		return nil, err
	}

	traj, err := trajectory.NewWithOptions(
		trajectory.WithBaseTimestamp(baseMs),
		trajectory.WithCapacity(cfg.stateCap),
	)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		cfg:     cfg,
		baseMs:  baseMs,
		byID:    make(map[uint64]*channel),
		states:  codec,
		markers: encoding.NewRLEEncoder(),
		traj:    traj,
	}, nil
}

// SessionID returns the session id.
func (r *Recorder) SessionID() uuid.UUID {
	return r.cfg.sessionID
}

// BaseTime returns the session start, truncated to milliseconds.
func (r *Recorder) BaseTime() time.Time {
	return time.UnixMilli(r.baseMs).UTC()
}

// AddSample appends one sample to the named channel, creating the channel on
// first use.
//
// Errors from the channel's delta encoder (errs.ErrNonFiniteValue,
// errs.ErrValueOutOfRange, errs.ErrDeltaOverflow) leave the channel unchanged.
func (r *Recorder) AddSample(name string, value float32) error {
	ch, err := r.channel(name)
	if err != nil {
		return err
	}
	if err := ch.enc.Write(value); err != nil {
		return fmt.Errorf("channel %q: %w", name, err)
	}
	r.samples++

	return nil
}

// AddSamples appends values to the named channel in order.
//
// It stops at the first rejected value; the values before it are kept.
func (r *Recorder) AddSamples(name string, values []float32) error {
	ch, err := r.channel(name)
	if err != nil {
		return err
	}

	before := ch.enc.Len()
	err = ch.enc.WriteSlice(values)
	r.samples += ch.enc.Len() - before
	if err != nil {
		return fmt.Errorf("channel %q: %w", name, err)
	}

	return nil
}

// AddSamplesFloat64 narrows values to float32 and appends them like AddSamples.
func (r *Recorder) AddSamplesFloat64(name string, values []float64) error {
	narrowed, cleanup := pool.GetFloat32Slice(len(values))
	defer cleanup()

	for i, v := range values {
		narrowed[i] = float32(v)
	}

	return r.AddSamples(name, narrowed)
}

// AddMarker appends one event marker byte.
func (r *Recorder) AddMarker(b byte) error {
	if r.sealed {
		return errs.ErrSessionSealed
	}
	r.markers.Add(b)

	return nil
}

// AddMarkers appends event marker bytes in order.
func (r *Recorder) AddMarkers(data []byte) error {
	if r.sealed {
		return errs.ErrSessionSealed
	}
	r.markers.AddSlice(data)

	return nil
}

// AddState quantizes s and appends it to the session trajectory.
//
// Returns the quantization error (see emotion.Codec.Compress) or the
// trajectory error (see trajectory.Trajectory.AddState).
func (r *Recorder) AddState(s emotion.State) error {
	if r.sealed {
		return errs.ErrSessionSealed
	}

	q, err := r.states.Compress(s, r.baseMs)
	if err != nil {
		return err
	}

	return r.traj.AddState(q)
}

// AddQuantizedState appends an already quantized state.
func (r *Recorder) AddQuantizedState(q emotion.QuantizedState) error {
	if r.sealed {
		return errs.ErrSessionSealed
	}

	return r.traj.AddState(q)
}

// Trajectory returns the live trajectory. Callers must not add states to it
// directly.
func (r *Recorder) Trajectory() *trajectory.Trajectory {
	return r.traj
}

// ChannelCount returns the number of channels seen so far.
func (r *Recorder) ChannelCount() int {
	return len(r.channels)
}

// Stats reports raw versus encoded record bytes so far, before the blob
// header and block compression are applied. After Seal it reports the
// sealed records.
func (r *Recorder) Stats() accounting.Stats {
	if r.sealed {
		return r.final
	}

	encoded := r.traj.Len()*emotion.QuantizedStateSize + r.markers.Size()
	for _, ch := range r.channels {
		encoded += ch.enc.Size()
	}

	return accounting.ComputeStats(int64(r.rawSize()), int64(encoded), compress.Method(format.CompressionNone))
}

func (r *Recorder) rawSize() int {
	return r.samples*RawSampleSize + r.traj.Len()*RawStateSize + r.markers.Len()*RawMarkerSize
}

// Seal serializes the session into a blob and closes the recorder.
//
// Every later call to an Add method or Seal returns errs.ErrSessionSealed.
// A failed Seal leaves the recorder open.
func (r *Recorder) Seal() (SessionBlob, error) {
	if r.sealed {
		return SessionBlob{}, errs.ErrSessionSealed
	}

	engine := r.cfg.engine
	header := r.cfg.header
	recordStats := r.Stats()
	rawSize := r.rawSize()
	markerCount := r.markers.Len()
	segments := r.markers.Finalize()

	buf := pool.GetSealBuffer()
	defer pool.PutSealBuffer(buf)

	for _, ch := range r.channels {
		entry := section.ChannelEntry{
			ChannelID:  ch.id,
			Count:      uint32(ch.enc.Len()), //nolint:gosec
			LastScaled: ch.enc.State(),
		}
		buf.B = entry.AppendBinary(buf.B, engine)
	}
	if header.Flag.HasChannelNames() {
		for _, ch := range r.channels {
			buf.B = binary.AppendUvarint(buf.B, uint64(len(ch.name)))
			buf.B = append(buf.B, ch.name...)
		}
	}
	for _, ch := range r.channels {
		buf.MustWrite(ch.enc.Bytes())
	}
	buf.B = emotion.AppendQuantizedStates(buf.B, r.traj.States(), engine)
	buf.B = encoding.AppendRLESegments(buf.B, segments, engine)

	payload := buf.Bytes()
	if uint64(len(payload)) > section.MaxPayloadSize {
		r.restoreMarkers(segments)
		return SessionBlob{}, fmt.Errorf("%w: payload of %d bytes", errs.ErrValueOutOfRange, len(payload))
	}

	stored, err := r.cfg.codec.Compress(payload)
	if err != nil {
		r.restoreMarkers(segments)
		return SessionBlob{}, fmt.Errorf("compress payload: %w", err)
	}

	header.ChannelCount = uint16(len(r.channels)) //nolint:gosec
	header.StateCount = uint32(r.traj.Len())      //nolint:gosec
	header.SegmentCount = uint32(len(segments))   //nolint:gosec
	header.PayloadSize = uint32(len(payload))     //nolint:gosec
	header.StoredSize = uint32(len(stored))       //nolint:gosec
	header.Checksum = hash.Checksum(payload)

	data := make([]byte, 0, section.HeaderSize+len(stored))
	data = header.AppendBinary(data)
	data = append(data, stored...)

	for _, ch := range r.channels {
		ch.enc.Finish()
	}
	r.sealed = true
	r.final = recordStats

	compression := header.Flag.CompressionType()

	return SessionBlob{
		ID:          r.cfg.sessionID,
		BaseTime:    r.BaseTime(),
		Compression: compression,
		Channels:    len(r.channels),
		Samples:     r.samples,
		States:      r.traj.Len(),
		Markers:     markerCount,
		Segments:    len(segments),
		Data:        data,
		Stats:       accounting.ComputeStats(int64(rawSize), int64(len(data)), compress.Method(compression)),
	}, nil
}

// restoreMarkers reopens the marker stream after a failed Seal.
func (r *Recorder) restoreMarkers(segments []encoding.RLESegment) {
	for _, seg := range segments {
		for range seg.Count {
			r.markers.Add(seg.Value)
		}
	}
}

func (r *Recorder) channel(name string) (*channel, error) {
	if r.sealed {
		return nil, errs.ErrSessionSealed
	}
	if name == "" {
		return nil, errs.ErrInvalidChannelName
	}

	id := hash.ID(name)
	if ch, ok := r.byID[id]; ok {
		if ch.name != name {
			return nil, fmt.Errorf("%w: %q collides with %q", errs.ErrInvalidChannelName, name, ch.name)
		}

		return ch, nil
	}

	if len(r.channels) >= section.MaxChannelCount {
		return nil, fmt.Errorf("%w: %d", errs.ErrTooManyChannels, section.MaxChannelCount)
	}

	enc, err := encoding.NewScalarDeltaEncoder(r.cfg.engine, encoding.WithOverflowPolicy(r.cfg.overflow))
	if err != nil {
		return nil, err
	}

	ch := &channel{name: name, id: id, enc: enc}
	r.channels = append(r.channels, ch)
	r.byID[id] = ch

	return ch, nil
}
