package section

import (
	"fmt"
	"time"

	"github.com/arloliu/emotrace/errs"
)

// SessionHeader is the fixed-size header at the start of a session blob.
type SessionHeader struct {
	// BaseTimestamp is the session start in Unix milliseconds.
	BaseTimestamp int64
	// ChannelCount is the number of channel index entries.
	ChannelCount uint16
	// StateCount is the number of quantized emotional states.
	StateCount uint32
	// SegmentCount is the number of run-length marker segments.
	SegmentCount uint32
	// PayloadSize is the decompressed body size in bytes.
	PayloadSize uint32
	// StoredSize is the body size as stored after the header.
	StoredSize uint32
	// Checksum is the xxHash64 of the decompressed body.
	Checksum uint64
	// SessionID is the 16-byte session UUID.
	SessionID [16]byte

	Flag SessionFlag
}

// NewSessionHeader creates a header for a session starting at baseMs.
// Counts, sizes and checksum are filled in when the session is sealed.
func NewSessionHeader(baseMs int64, sessionID [16]byte) *SessionHeader {
	return &SessionHeader{
		BaseTimestamp: baseMs,
		SessionID:     sessionID,
		Flag:          NewSessionFlag(),
	}
}

// BaseTime returns BaseTimestamp as a UTC time.
func (h *SessionHeader) BaseTime() time.Time {
	return time.UnixMilli(h.BaseTimestamp).UTC()
}

// Parse parses exactly HeaderSize bytes into h and validates the flag.
func (h *SessionHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	// Options is always little-endian; it carries the endianness bit.
	h.Flag.Options = uint16(data[offOptions]) | uint16(data[offOptions+1])<<8
	h.Flag.Quantization = data[offQuantization]
	h.Flag.Compression = data[offCompression]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	if reserved := engine.Uint16(data[offReserved:]); reserved != 0 {
		return fmt.Errorf("%w: reserved field 0x%04x", errs.ErrInvalidHeaderFlags, reserved)
	}

	h.BaseTimestamp = int64(engine.Uint64(data[offBaseTime:])) //nolint:gosec
	h.ChannelCount = engine.Uint16(data[offChannelCount:])
	h.StateCount = engine.Uint32(data[offStateCount:])
	h.SegmentCount = engine.Uint32(data[offSegmentCount:])
	h.PayloadSize = engine.Uint32(data[offPayloadSize:])
	h.StoredSize = engine.Uint32(data[offStoredSize:])
	h.Checksum = engine.Uint64(data[offChecksum:])
	copy(h.SessionID[:], data[offSessionID:offSessionID+16])

	return nil
}

// Bytes serializes the header into a new HeaderSize slice.
func (h *SessionHeader) Bytes() []byte {
	return h.AppendBinary(make([]byte, 0, HeaderSize))
}

// AppendBinary appends the serialized header to dst.
func (h *SessionHeader) AppendBinary(dst []byte) []byte {
	engine := h.Flag.GetEndianEngine()

	dst = append(dst, byte(h.Flag.Options), byte(h.Flag.Options>>8), h.Flag.Quantization, h.Flag.Compression)
	dst = engine.AppendUint64(dst, uint64(h.BaseTimestamp)) //nolint:gosec
	dst = engine.AppendUint16(dst, h.ChannelCount)
	dst = engine.AppendUint16(dst, 0)
	dst = engine.AppendUint32(dst, h.StateCount)
	dst = engine.AppendUint32(dst, h.SegmentCount)
	dst = engine.AppendUint32(dst, h.PayloadSize)
	dst = engine.AppendUint32(dst, h.StoredSize)
	dst = engine.AppendUint64(dst, h.Checksum)

	return append(dst, h.SessionID[:]...)
}

// ParseSessionHeader parses the header at the start of data.
//
// Returns errs.ErrInvalidHeaderSize when data is shorter than HeaderSize, or
// a flag validation error.
func ParseSessionHeader(data []byte) (SessionHeader, error) {
	if len(data) < HeaderSize {
		return SessionHeader{}, fmt.Errorf("%w: got %d bytes, want at least %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	var h SessionHeader
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return SessionHeader{}, err
	}

	return h, nil
}
