package blob

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/emotrace/compress"
	"github.com/arloliu/emotrace/emotion"
	"github.com/arloliu/emotrace/encoding"
	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/internal/hash"
	"github.com/arloliu/emotrace/section"
	"github.com/arloliu/emotrace/trajectory"
)

// channelRef locates one channel's delta records inside the payload.
type channelRef struct {
	entry  section.ChannelEntry
	name   string
	offset int
}

// Decoder reads a sealed session blob.
//
// NewDecoder verifies the header, decompresses the body and checks its
// checksum, so every accessor works on verified bytes. Records are decoded
// lazily on each call.
//
// A Decoder is safe for concurrent reads.
type Decoder struct {
	header   section.SessionHeader
	engine   endian.EndianEngine
	channels []channelRef
	byID     map[uint64]int
	byName   map[string]int

	records  []byte
	states   []byte
	segments []byte
}

// NewDecoder parses and verifies data.
//
// Returns errs.ErrInvalidHeaderSize or a flag error for a bad header,
// errs.ErrPayloadSizeMismatch when the stored or decompressed body size
// disagrees with the header, errs.ErrCorruptPayload when decompression fails,
// errs.ErrChecksumMismatch when the body was altered, and
// errs.ErrTruncatedRecord when the sections do not fit the body.
//
// The body is decompressed into exactly the payload size the header declares,
// and the Decoder never retains data, so callers may reuse it afterwards.
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseSessionHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[section.HeaderSize:]
	if len(body) != int(header.StoredSize) {
		return nil, fmt.Errorf("%w: stored body is %d bytes, header says %d",
			errs.ErrPayloadSizeMismatch, len(body), header.StoredSize)
	}

	codec, err := compress.GetCodec(header.Flag.CompressionType())
	if err != nil {
		return nil, err
	}
	payload, err := codec.DecompressSized(body, int(header.PayloadSize))
	if err != nil {
		return nil, err
	}
	if sum := hash.Checksum(payload); sum != header.Checksum {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	d := &Decoder{
		header: header,
		engine: header.Flag.GetEndianEngine(),
	}
	if err := d.parsePayload(payload); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Decoder) parsePayload(payload []byte) error {
	count := int(d.header.ChannelCount)
	entries, err := section.ParseChannelEntries(payload, count, d.engine)
	if err != nil {
		return err
	}
	off := count * section.ChannelEntrySize

	var names []string
	if d.header.Flag.HasChannelNames() {
		names, off, err = parseChannelNames(payload, off, entries)
		if err != nil {
			return err
		}
	}

	d.channels = make([]channelRef, count)
	d.byID = make(map[uint64]int, count)
	recordsSize := 0
	for i, entry := range entries {
		if _, dup := d.byID[entry.ChannelID]; dup {
			return fmt.Errorf("%w: duplicate channel id %016x", errs.ErrFormat, entry.ChannelID)
		}
		d.byID[entry.ChannelID] = i
		d.channels[i] = channelRef{entry: entry, offset: recordsSize}
		recordsSize += entry.RecordsSize()
	}
	if names != nil {
		d.byName = make(map[string]int, count)
		for i, name := range names {
			d.channels[i].name = name
			d.byName[name] = i
		}
	}

	statesSize := int(d.header.StateCount) * emotion.QuantizedStateSize
	segmentsSize := int(d.header.SegmentCount) * encoding.RLESegmentSize
	if want := off + recordsSize + statesSize + segmentsSize; want != len(payload) {
		return fmt.Errorf("%w: sections need %d bytes, payload has %d", errs.ErrTruncatedRecord, want, len(payload))
	}

	d.records = payload[off : off+recordsSize]
	off += recordsSize
	d.states = payload[off : off+statesSize]
	off += statesSize
	d.segments = payload[off : off+segmentsSize]

	return nil
}

func parseChannelNames(payload []byte, off int, entries []section.ChannelEntry) ([]string, int, error) {
	names := make([]string, len(entries))
	for i, entry := range entries {
		n, size := binary.Uvarint(payload[off:])
		if size <= 0 || n > uint64(len(payload)-off-size) {
			return nil, 0, fmt.Errorf("%w: channel name %d", errs.ErrTruncatedRecord, i)
		}
		off += size

		name := string(payload[off : off+int(n)])
		off += int(n)
		if hash.ID(name) != entry.ChannelID {
			return nil, 0, fmt.Errorf("%w: channel name %q does not match id %016x", errs.ErrFormat, name, entry.ChannelID)
		}
		names[i] = name
	}

	return names, off, nil
}

// Header returns the parsed session header.
func (d *Decoder) Header() section.SessionHeader {
	return d.header
}

// SessionID returns the session id.
func (d *Decoder) SessionID() uuid.UUID {
	return uuid.UUID(d.header.SessionID)
}

// BaseTime returns the session start.
func (d *Decoder) BaseTime() time.Time {
	return d.header.BaseTime()
}

// ChannelIDs returns the channel ids in recording order.
func (d *Decoder) ChannelIDs() []uint64 {
	ids := make([]uint64, len(d.channels))
	for i, ch := range d.channels {
		ids[i] = ch.entry.ChannelID
	}

	return ids
}

// ChannelNames returns the channel names in recording order, or nil when the
// blob was sealed without names.
func (d *Decoder) ChannelNames() []string {
	if d.byName == nil {
		return nil
	}

	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.name
	}

	return names
}

// Channel decodes the samples of the named channel.
//
// Names are resolved through the stored names when present and through the
// channel id hash otherwise. Returns errs.ErrChannelNotFound for an unknown
// channel. When the replayed running total differs from the one recorded by
// the encoder, the samples are returned together with an error wrapping
// errs.ErrStateDesync.
func (d *Decoder) Channel(name string) ([]float32, error) {
	if d.byName != nil {
		i, ok := d.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrChannelNotFound, name)
		}

		return d.decodeChannel(d.channels[i])
	}

	samples, err := d.ChannelByID(hash.ID(name))
	if err != nil && samples == nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}

	return samples, err
}

// ChannelByID decodes the samples of the channel with the given id.
// See Channel for the error contract.
func (d *Decoder) ChannelByID(id uint64) ([]float32, error) {
	i, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %016x", errs.ErrChannelNotFound, id)
	}

	return d.decodeChannel(d.channels[i])
}

func (d *Decoder) decodeChannel(ch channelRef) ([]float32, error) {
	dec := encoding.NewScalarDeltaDecoder(d.engine)
	samples, err := dec.DecodeBytes(d.records[ch.offset : ch.offset+ch.entry.RecordsSize()])
	if err != nil {
		return nil, err
	}

	if err := encoding.CheckSync(ch.entry.LastScaled, dec.State()); err != nil {
		return samples, fmt.Errorf("channel %016x: %w", ch.entry.ChannelID, err)
	}

	return samples, nil
}

// States parses the stored quantized states.
func (d *Decoder) States() ([]emotion.QuantizedState, error) {
	return emotion.ParseQuantizedStates(d.states, d.engine)
}

// DecodedStates parses and dequantizes the stored states, anchored at the
// session start.
func (d *Decoder) DecodedStates() ([]emotion.State, error) {
	qs, err := d.States()
	if err != nil {
		return nil, err
	}

	codec, err := emotion.NewCodec(emotion.WithQuantization(d.header.Flag.QuantizeMode()))
	if err != nil {
		return nil, err
	}

	out := make([]emotion.State, len(qs))
	for i, q := range qs {
		if out[i], err = codec.Decompress(q, d.header.BaseTimestamp); err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
	}

	return out, nil
}

// MarkerSegments parses the stored run-length segments.
func (d *Decoder) MarkerSegments() ([]encoding.RLESegment, error) {
	return encoding.ParseRLESegments(d.segments, d.engine)
}

// Markers expands the stored event marker stream.
func (d *Decoder) Markers() ([]byte, error) {
	segs, err := d.MarkerSegments()
	if err != nil {
		return nil, err
	}

	return encoding.DecodeRLE(segs)
}

// Trajectory rebuilds the session trajectory from the stored states.
func (d *Decoder) Trajectory() (*trajectory.Trajectory, error) {
	qs, err := d.States()
	if err != nil {
		return nil, err
	}

	t, err := trajectory.NewWithOptions(
		trajectory.WithBaseTimestamp(d.header.BaseTimestamp),
		trajectory.WithCapacity(len(qs)),
	)
	if err != nil {
		return nil, err
	}
	for i, q := range qs {
		if err := t.AddState(q); err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
	}

	return t, nil
}

// Summary computes trajectory analytics directly from the stored states.
func (d *Decoder) Summary() (trajectory.Summary, error) {
	qs, err := d.States()
	if err != nil {
		return trajectory.Summary{}, err
	}

	return trajectory.Analyze(qs, d.header.BaseTimestamp)
}

// HasChannel reports whether a channel with the given name exists.
func (d *Decoder) HasChannel(name string) bool {
	if d.byName != nil {
		_, ok := d.byName[name]
		return ok
	}
	_, ok := d.byID[hash.ID(name)]

	return ok
}

// Len returns the sample count of the channel with the given id, or 0.
func (d *Decoder) Len(id uint64) int {
	i, ok := d.byID[id]
	if !ok {
		return 0
	}

	return int(d.channels[i].entry.Count)
}
