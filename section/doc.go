// Package section defines the fixed-size binary structures of a session blob.
//
// A sealed session blob is laid out as:
//
//	┌──────────────────────────────────────────────────────┐
//	│ SessionHeader (56 bytes, never compressed)           │
//	├──────────────────────────────────────────────────────┤
//	│ Body (StoredSize bytes, compressed as a whole)       │
//	│  ├ Channel index (ChannelCount × 16 bytes)           │
//	│  ├ Channel names (optional, uvarint length + bytes)  │
//	│  ├ Delta records (2 bytes each, channel order)       │
//	│  ├ Quantized states (StateCount × 11 bytes)          │
//	│  └ Marker segments (SegmentCount × 3 bytes)          │
//	└──────────────────────────────────────────────────────┘
//
// PayloadSize is the size of the decompressed body and Checksum is the
// xxHash64 of the decompressed body.
//
// SessionHeader (56 bytes):
//
//	Bytes  | Field         | Type     | Description
//	-------|---------------|----------|-----------------------------------
//	0-1    | Options       | uint16   | Magic number and option bits (LE)
//	2      | Quantization  | uint8    | format.QuantizeMode of the states
//	3      | Compression   | uint8    | format.CompressionType of the body
//	4-11   | BaseTimestamp | int64    | Session start, Unix milliseconds
//	12-13  | ChannelCount  | uint16   | Number of channel index entries
//	14-15  | Reserved      | uint16   | Must be zero
//	16-19  | StateCount    | uint32   | Number of quantized states
//	20-23  | SegmentCount  | uint32   | Number of marker segments
//	24-27  | PayloadSize   | uint32   | Decompressed body size
//	28-31  | StoredSize    | uint32   | Body size as stored
//	32-39  | Checksum      | uint64   | xxHash64 of the decompressed body
//	40-55  | SessionID     | [16]byte | Session UUID
//
// ChannelEntry (16 bytes):
//
//	Bytes  | Field       | Type   | Description
//	-------|-------------|--------|----------------------------------------
//	0-7    | ChannelID   | uint64 | xxHash64 of the channel name
//	8-11   | Count       | uint32 | Number of delta records
//	12-15  | LastScaled  | int32  | Encoder running total after the last record
//
// LastScaled lets a decoder confirm that replaying the records lands on the
// same running total as the encoder did.
//
// The Options field is always little-endian so the endianness bit can be read
// before anything else. Every other multi-byte field, and every record in the
// body, uses the byte order selected by that bit.
package section
