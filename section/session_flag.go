package section

import (
	"fmt"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
)

// SessionFlag packs the magic number, option bits and codec selection of a
// session header.
type SessionFlag struct {
	// Options holds the option bits (0-3) and the magic number (4-15).
	Options uint16
	// Quantization is the format.QuantizeMode used for the stored states.
	Quantization uint8
	// Compression is the format.CompressionType applied to the body.
	Compression uint8
}

// NewSessionFlag returns a little-endian flag with rounding quantization and
// no compression.
func NewSessionFlag() SessionFlag {
	return SessionFlag{
		Options:      MagicSessionV1Opt,
		Quantization: uint8(format.QuantizeRound),
		Compression:  uint8(format.CompressionNone),
	}
}

// HasChannelNames reports whether the body carries channel names.
func (f SessionFlag) HasChannelNames() bool {
	return f.Options&ChannelNamesMask != 0
}

// SetHasChannelNames sets or clears the channel names bit.
func (f *SessionFlag) SetHasChannelNames(enabled bool) {
	if enabled {
		f.Options |= ChannelNamesMask
	} else {
		f.Options &^= ChannelNamesMask
	}
}

// IsLittleEndian reports whether the blob is little-endian.
func (f SessionFlag) IsLittleEndian() bool {
	return f.Options&EndiannessMask == 0
}

// IsBigEndian reports whether the blob is big-endian.
func (f SessionFlag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// WithLittleEndian selects little-endian byte order.
func (f *SessionFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian selects big-endian byte order.
func (f *SessionFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f SessionFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// GetMagicNumber returns the magic number bits of Options.
func (f SessionFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// QuantizeMode returns the stored quantization mode.
func (f SessionFlag) QuantizeMode() format.QuantizeMode {
	return format.QuantizeMode(f.Quantization)
}

// SetQuantizeMode stores the quantization mode.
func (f *SessionFlag) SetQuantizeMode(mode format.QuantizeMode) {
	f.Quantization = uint8(mode)
}

// CompressionType returns the stored body compression.
func (f SessionFlag) CompressionType() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// SetCompressionType stores the body compression.
func (f *SessionFlag) SetCompressionType(c format.CompressionType) {
	f.Compression = uint8(c)
}

// Validate checks the magic number, reserved bits and codec selection.
func (f SessionFlag) Validate() error {
	if f.GetMagicNumber() != MagicSessionV1Opt {
		return fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, f.GetMagicNumber())
	}
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("%w: reserved option bits 0x%04x", errs.ErrInvalidHeaderFlags, f.Options&ReservedBitsMask)
	}
	if !f.QuantizeMode().IsValid() {
		return fmt.Errorf("%w: quantization 0x%02x", errs.ErrInvalidHeaderFlags, f.Quantization)
	}
	if !f.CompressionType().IsValid() {
		return fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidHeaderFlags, f.Compression)
	}

	return nil
}
