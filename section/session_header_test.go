package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
)

func sampleHeader() *SessionHeader {
	id := [16]byte{0: 0xde, 1: 0xad, 15: 0x01}
	h := NewSessionHeader(1_700_000_000_123, id)
	h.ChannelCount = 3
	h.StateCount = 120
	h.SegmentCount = 7
	h.PayloadSize = 4096
	h.StoredSize = 1500
	h.Checksum = 0x0123456789abcdef
	h.Flag.SetCompressionType(format.CompressionZstd)
	h.Flag.SetQuantizeMode(format.QuantizeTruncate)
	h.Flag.SetHasChannelNames(true)

	return h
}

func TestNewSessionHeader(t *testing.T) {
	h := NewSessionHeader(42, [16]byte{})

	require.Equal(t, int64(42), h.BaseTimestamp)
	require.True(t, h.Flag.IsLittleEndian())
	require.False(t, h.Flag.HasChannelNames())
	require.Equal(t, format.QuantizeRound, h.Flag.QuantizeMode())
	require.Equal(t, format.CompressionNone, h.Flag.CompressionType())
	require.NoError(t, h.Flag.Validate())
	require.Equal(t, int64(42), h.BaseTime().UnixMilli())
}

func TestSessionHeader_RoundTrip(t *testing.T) {
	for _, bigEndian := range []bool{false, true} {
		original := sampleHeader()
		if bigEndian {
			original.Flag.WithBigEndian()
		}

		data := original.Bytes()
		require.Len(t, data, HeaderSize)

		parsed, err := ParseSessionHeader(append(data, 0xaa, 0xbb))
		require.NoError(t, err)
		require.Equal(t, *original, parsed)
		require.Equal(t, bigEndian, parsed.Flag.IsBigEndian())
	}
}

func TestSessionHeader_Layout(t *testing.T) {
	h := sampleHeader()
	data := h.Bytes()

	// Options is little-endian: magic 0xE510 with the channel names bit.
	require.Equal(t, []byte{0x11, 0xe5}, data[0:2])
	require.Equal(t, byte(format.QuantizeTruncate), data[2])
	require.Equal(t, byte(format.CompressionZstd), data[3])
	require.Equal(t, []byte{3, 0}, data[12:14])
	require.Equal(t, []byte{0, 0}, data[14:16])
	require.Equal(t, []byte{0xef, 0xcd, 0xab, 0x89, 0x67, 0x45, 0x23, 0x01}, data[32:40])
	require.Equal(t, h.SessionID[:], data[40:56])

	h.Flag.WithBigEndian()
	data = h.Bytes()
	require.Equal(t, []byte{0x13, 0xe5}, data[0:2], "options stay little-endian")
	require.Equal(t, []byte{0, 3}, data[12:14])
}

func TestParseSessionHeader_Errors(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		_, err := ParseSessionHeader(make([]byte, HeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("parse wrong size", func(t *testing.T) {
		var h SessionHeader
		require.ErrorIs(t, h.Parse(make([]byte, HeaderSize+1)), errs.ErrInvalidHeaderSize)
	})

	t.Run("magic", func(t *testing.T) {
		data := sampleHeader().Bytes()
		data[1] = 0xea
		_, err := ParseSessionHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("reserved bits", func(t *testing.T) {
		data := sampleHeader().Bytes()
		data[0] |= 0x04
		_, err := ParseSessionHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("reserved field", func(t *testing.T) {
		data := sampleHeader().Bytes()
		data[15] = 1
		_, err := ParseSessionHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("quantization", func(t *testing.T) {
		data := sampleHeader().Bytes()
		data[2] = 9
		_, err := ParseSessionHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("compression", func(t *testing.T) {
		data := sampleHeader().Bytes()
		data[3] = 0
		_, err := ParseSessionHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})
}

func TestSessionFlag_Bits(t *testing.T) {
	f := NewSessionFlag()
	require.Equal(t, uint16(MagicSessionV1Opt), f.GetMagicNumber())

	f.SetHasChannelNames(true)
	f.WithBigEndian()
	require.True(t, f.HasChannelNames())
	require.True(t, f.IsBigEndian())
	require.Equal(t, uint16(MagicSessionV1Opt), f.GetMagicNumber())

	f.SetHasChannelNames(false)
	f.WithLittleEndian()
	require.False(t, f.HasChannelNames())
	require.True(t, f.IsLittleEndian())
	require.Equal(t, uint16(MagicSessionV1Opt), f.Options)
}
