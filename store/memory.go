package store

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/emotrace/accounting"
	"github.com/arloliu/emotrace/blob"
)

type memoryEntry struct {
	data     []byte
	baseTime time.Time
	stats    accounting.Stats
}

// Memory is an in-process Store guarded by a sync.RWMutex.
// It copies blobs on Put and Get, so callers may reuse their buffers.
type Memory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]memoryEntry
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[uuid.UUID]memoryEntry)}
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, b blob.SessionBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateBlob(b); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[b.ID]; ok {
		return ErrAlreadyExists
	}
	m.sessions[b.ID] = memoryEntry{
		data:     bytes.Clone(b.Data),
		baseTime: b.BaseTime,
		stats:    b.Stats,
	}

	return nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return bytes.Clone(e.data), nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)

	return nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		if c := m.sessions[a].baseTime.Compare(m.sessions[b].baseTime); c != 0 {
			return c
		}

		return cmp.Compare(a.String(), b.String())
	})
	m.mu.RUnlock()

	return ids, nil
}

// Totals implements Store.
func (m *Memory) Totals(ctx context.Context) (accounting.Stats, error) {
	if err := ctx.Err(); err != nil {
		return accounting.Stats{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var original, stored int64
	for _, e := range m.sessions {
		original += e.stats.OriginalSize
		stored += int64(len(e.data))
	}

	return accounting.ComputeStats(original, stored, "store"), nil
}

// Len returns the number of stored sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
