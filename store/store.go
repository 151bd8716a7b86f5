// Package store persists sealed session blobs by session id.
//
// Blobs are opaque to the store: it keeps the bytes plus a few columns
// describing them and never decodes or mutates the payload.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arloliu/emotrace/accounting"
	"github.com/arloliu/emotrace/blob"
)

var (
	// ErrNotFound is returned when no blob is stored under the requested id.
	ErrNotFound = errors.New("session not found")
	// ErrAlreadyExists is returned when a blob with the same id was stored before.
	// Sealed sessions are immutable, so Put never overwrites.
	ErrAlreadyExists = errors.New("session already exists")
	// ErrEmptyBlob is returned when Put receives a blob without data.
	ErrEmptyBlob = errors.New("session blob has no data")
)

// Store keeps sealed session blobs by session id.
type Store interface {
	// Put stores a sealed blob under its id.
	Put(ctx context.Context, b blob.SessionBlob) error
	// Get returns the stored bytes of a session.
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)
	// Delete removes a session.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns every stored id ordered by session start, then id.
	List(ctx context.Context) ([]uuid.UUID, error)
	// Totals sums the accounting of every stored session.
	Totals(ctx context.Context) (accounting.Stats, error)
}

// ValidateBlob checks the fields every Store requires before writing.
func ValidateBlob(b blob.SessionBlob) error {
	if b.ID == uuid.Nil {
		return fmt.Errorf("invalid session id: %s", b.ID)
	}
	if len(b.Data) == 0 {
		return ErrEmptyBlob
	}

	return nil
}
