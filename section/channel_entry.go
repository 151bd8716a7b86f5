package section

import (
	"fmt"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
)

// ChannelEntry describes one scalar channel in the channel index.
//
// Channels are stored in insertion order and their delta records are laid
// out back to back in the same order, so a channel's record offset is the sum
// of the preceding counts.
type ChannelEntry struct {
	// ChannelID is the xxHash64 of the channel name.
	ChannelID uint64
	// Count is the number of 2-byte delta records.
	Count uint32
	// LastScaled is the encoder's running fixed-point total after its last
	// record. A lockstep decoder ends on the same value.
	LastScaled int32
}

// RecordsSize returns the byte length of the channel's delta records.
func (e ChannelEntry) RecordsSize() int {
	return int(e.Count) * 2
}

// AppendBinary appends the 16-byte entry to dst.
func (e ChannelEntry) AppendBinary(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint64(dst, e.ChannelID)
	dst = engine.AppendUint32(dst, e.Count)

	return engine.AppendUint32(dst, uint32(e.LastScaled)) //nolint:gosec
}

// ParseChannelEntry parses an entry from the first ChannelEntrySize bytes of data.
func ParseChannelEntry(data []byte, engine endian.EndianEngine) (ChannelEntry, error) {
	if len(data) < ChannelEntrySize {
		return ChannelEntry{}, fmt.Errorf("%w: channel entry needs %d bytes, got %d",
			errs.ErrTruncatedRecord, ChannelEntrySize, len(data))
	}

	return ChannelEntry{
		ChannelID:  engine.Uint64(data[0:8]),
		Count:      engine.Uint32(data[8:12]),
		LastScaled: int32(engine.Uint32(data[12:16])), //nolint:gosec
	}, nil
}

// ParseChannelEntries parses count consecutive entries from data.
func ParseChannelEntries(data []byte, count int, engine endian.EndianEngine) ([]ChannelEntry, error) {
	if len(data) < count*ChannelEntrySize {
		return nil, fmt.Errorf("%w: channel index needs %d bytes, got %d",
			errs.ErrTruncatedRecord, count*ChannelEntrySize, len(data))
	}

	entries := make([]ChannelEntry, count)
	for i := range entries {
		entries[i], _ = ParseChannelEntry(data[i*ChannelEntrySize:], engine)
	}

	return entries, nil
}
