package blob

import (
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/emotrace/accounting"
	"github.com/arloliu/emotrace/format"
)

// SessionBlob is a sealed session ready to be persisted by id.
type SessionBlob struct {
	ID          uuid.UUID
	BaseTime    time.Time
	Compression format.CompressionType

	Channels int
	Samples  int
	States   int
	Markers  int
	Segments int

	// Data is the complete blob: header followed by the stored body.
	Data []byte
	// Stats compares the raw telemetry size with len(Data).
	Stats accounting.Stats
}

// Size returns len(Data).
func (b SessionBlob) Size() int {
	return len(b.Data)
}
