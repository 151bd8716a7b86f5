package section

import "math"

const (
	// Bit masks of SessionFlag.Options.
	ChannelNamesMask = 0x0001 // channel names payload present (bit 0)
	EndiannessMask   = 0x0002 // 0=little-endian, 1=big-endian (bit 1)
	ReservedBitsMask = 0x000C // bits 2-3, must be zero
	MagicNumberMask  = 0xFFF0 // bits 4-15

	// MagicSessionV1Opt identifies a version 1 session blob.
	MagicSessionV1Opt = 0xE510
)

// Sizes of the fixed sections of a session blob.
const (
	HeaderSize       = 56 // fixed session header size in bytes
	ChannelEntrySize = 16 // fixed channel index entry size in bytes

	MaxChannelCount = math.MaxUint16 // channel count is stored as uint16
	MaxPayloadSize  = 128 << 20      // decoders refuse to inflate anything larger
)

// Byte offsets of the session header fields.
const (
	offOptions      = 0
	offQuantization = 2
	offCompression  = 3
	offBaseTime     = 4
	offChannelCount = 12
	offReserved     = 14
	offStateCount   = 16
	offSegmentCount = 20
	offPayloadSize  = 24
	offStoredSize   = 28
	offChecksum     = 32
	offSessionID    = 40
)
