package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/emotrace/blob"
	"github.com/arloliu/emotrace/emotion"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func sealed(t *testing.T, base time.Time, opts ...blob.RecorderOption) blob.SessionBlob {
	t.Helper()

	rec, err := blob.NewRecorder(base, opts...)
	require.NoError(t, err)
	require.NoError(t, rec.AddSamples("eeg.alpha", []float32{0.125, 0.25, 0.5, 0.375, 0.25}))
	require.NoError(t, rec.AddState(emotion.NewState(base.UnixMilli(), -0.2, 0.7, 0.4)))
	require.NoError(t, rec.AddState(emotion.NewState(base.UnixMilli()+500, -0.3, 0.8, 0.3)))
	require.NoError(t, rec.AddMarkers([]byte{2, 2, 2, 0}))

	b, err := rec.Seal()
	require.NoError(t, err)

	return b
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_PutGetDecode(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	b := sealed(t, time.Now(), blob.WithPayloadCompression(format.CompressionZstd))

	require.NoError(t, s.Put(ctx, b))

	data, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.Data, data)

	dec, err := blob.NewDecoder(data)
	require.NoError(t, err)
	require.Equal(t, b.ID, dec.SessionID())

	values, err := dec.Channel("eeg.alpha")
	require.NoError(t, err)
	require.Len(t, values, 5)

	stats, err := s.Stats(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.Stats.OriginalSize, stats.OriginalSize)
	require.Equal(t, int64(b.Size()), stats.CompressedSize)
	require.Equal(t, b.Stats.Method, stats.Method)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	b := sealed(t, time.Now())

	require.NoError(t, s.Put(ctx, b))
	require.ErrorIs(t, s.Put(ctx, b), store.ErrAlreadyExists)

	_, err := s.Get(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Stats(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, uuid.New()), store.ErrNotFound)
	require.ErrorIs(t, s.Put(ctx, blob.SessionBlob{ID: uuid.New()}), store.ErrEmptyBlob)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.List(canceled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_ListOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	third := sealed(t, base.Add(2*time.Hour))
	first := sealed(t, base)
	second := sealed(t, base.Add(time.Hour))

	for _, b := range []blob.SessionBlob{third, first, second} {
		require.NoError(t, s.Put(ctx, b))
	}

	ids, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, ids)

	require.NoError(t, s.Delete(ctx, second.ID))
	ids, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first.ID, third.ID}, ids)
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	require.Zero(t, totals.OriginalSize)
	require.Zero(t, totals.CompressedSize)

	a := sealed(t, time.Now())
	b := sealed(t, time.Now(), blob.WithPayloadCompression(format.CompressionS2))
	require.NoError(t, s.Put(ctx, a))
	require.NoError(t, s.Put(ctx, b))

	totals, err = s.Totals(ctx)
	require.NoError(t, err)
	require.Equal(t, a.Stats.OriginalSize+b.Stats.OriginalSize, totals.OriginalSize)
	require.Equal(t, int64(a.Size()+b.Size()), totals.CompressedSize)
	require.Greater(t, totals.Ratio, 0.0)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := Open(path)
	require.NoError(t, err)
	b := sealed(t, time.Now())
	require.NoError(t, s.Put(ctx, b))
	require.NoError(t, s.Close())

	s, err = Open(path, WithLogger(nil))
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.Data, data)
}
