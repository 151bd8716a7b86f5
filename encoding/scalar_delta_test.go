package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
)

func newTestEncoder(t *testing.T, opts ...ScalarDeltaOption) *ScalarDeltaEncoder {
	t.Helper()

	enc, err := NewScalarDeltaEncoder(endian.GetLittleEndianEngine(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if enc.buf != nil {
			enc.Finish()
		}
	})

	return enc
}

func TestScalarDeltaEncoder_NewEncoder(t *testing.T) {
	enc := newTestEncoder(t)

	require.Equal(t, 0, enc.Len())
	require.Equal(t, 0, enc.Size())
	require.Empty(t, enc.Bytes())
	require.Equal(t, int32(0), enc.State())
}

func TestScalarDeltaEncoder_InvalidOption(t *testing.T) {
	_, err := NewScalarDeltaEncoder(nil, WithOverflowPolicy(format.OverflowPolicy(0)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestScalarDelta_SmallIncrements(t *testing.T) {
	enc := newTestEncoder(t)

	d1, err := enc.Encode(1.234)
	require.NoError(t, err)
	require.Equal(t, int16(1234), d1)

	d2, err := enc.Encode(1.235)
	require.NoError(t, err)
	require.Equal(t, int16(1), d2)

	require.Equal(t, []byte{0xd2, 0x04, 0x01, 0x00}, enc.Bytes())
	require.Equal(t, 2, enc.Len())
	require.Equal(t, 4, enc.Size())

	dec := NewScalarDeltaDecoder(endian.GetLittleEndianEngine())
	require.Equal(t, float32(1.234), dec.Decode(1234))
	require.Equal(t, float32(1.235), dec.Decode(1))
	require.NoError(t, CheckSync(enc.State(), dec.State()))
}

func TestScalarDelta_RoundTripPrecision(t *testing.T) {
	tests := []struct {
		name   string
		values []float32
	}{
		{"eeg-like microvolts", []float32{12.5, 13.25, 11.875, -4.001, -4.0005, 0, 7.777}},
		{"unit range", []float32{0, 0.001, 0.002, 0.5, 0.9999, 1, -1}},
		{"constant", []float32{3.3, 3.3, 3.3, 3.3}},
		{"negative drift", []float32{-1, -2, -3, -4.5, -6.25}},
		{"sub-resolution", []float32{0.0004, 0.0006, 0.0014}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := newTestEncoder(t)
			require.NoError(t, enc.WriteSlice(tt.values))

			dec := NewScalarDeltaDecoder(nil)
			decoded, err := dec.DecodeBytes(enc.Bytes())
			require.NoError(t, err)
			require.Len(t, decoded, len(tt.values))

			for i, want := range tt.values {
				require.InDelta(t, want, decoded[i], 0.0005+1e-6, "index %d", i)
			}
			require.NoError(t, CheckSync(enc.State(), dec.State()))
		})
	}
}

func TestScalarDelta_NonFiniteRejected(t *testing.T) {
	for _, v := range []float32{
		float32(math.NaN()),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
	} {
		enc := newTestEncoder(t)
		_, err := enc.Encode(1.0)
		require.NoError(t, err)

		_, err = enc.Encode(v)
		require.ErrorIs(t, err, errs.ErrNonFiniteValue)
		require.ErrorIs(t, err, errs.ErrInvalidInput)

		// State and output untouched.
		require.Equal(t, int32(1000), enc.State())
		require.Equal(t, 1, enc.Len())
	}
}

func TestScalarDelta_ValueOutOfRange(t *testing.T) {
	enc := newTestEncoder(t)

	_, err := enc.Encode(3e6)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)
	require.Equal(t, 0, enc.Len())
}

func TestScalarDelta_OverflowReject(t *testing.T) {
	enc := newTestEncoder(t)

	_, err := enc.Encode(32.767)
	require.NoError(t, err)

	// 32.767 -> 65.535 is a delta of 32768, one past int16.
	_, err = enc.Encode(65.535)
	require.ErrorIs(t, err, errs.ErrDeltaOverflow)
	require.Equal(t, int32(32767), enc.State())
	require.Equal(t, 1, enc.Len())

	_, err = enc.Encode(-0.002)
	require.ErrorIs(t, err, errs.ErrDeltaOverflow)

	// Stream stays usable after a rejected sample.
	d, err := enc.Encode(32.0)
	require.NoError(t, err)
	require.Equal(t, int16(-767), d)
}

func TestScalarDelta_OverflowSaturate(t *testing.T) {
	enc := newTestEncoder(t, WithOverflowPolicy(format.OverflowSaturate))
	dec := NewScalarDeltaDecoder(nil)

	d, err := enc.Encode(40.0)
	require.NoError(t, err)
	require.Equal(t, int16(math.MaxInt16), d)
	require.Equal(t, 1, enc.Saturated())
	require.InDelta(t, 32.767, dec.Decode(d), 1e-4)

	// The next sample at the same level lets the stream catch up.
	d, err = enc.Encode(40.0)
	require.NoError(t, err)
	require.Equal(t, int16(7233), d)
	require.InDelta(t, 40.0, dec.Decode(d), 1e-4)

	d, err = enc.Encode(-40.0)
	require.NoError(t, err)
	require.Equal(t, int16(math.MinInt16), d)
	require.Equal(t, 2, enc.Saturated())
	require.InDelta(t, 7.232, dec.Decode(d), 1e-4)

	require.NoError(t, CheckSync(enc.State(), dec.State()))
}

func TestScalarDelta_WriteSliceStopsAtError(t *testing.T) {
	enc := newTestEncoder(t)

	err := enc.WriteSlice([]float32{1, 2, float32(math.NaN()), 4})
	require.ErrorIs(t, err, errs.ErrNonFiniteValue)
	require.Contains(t, err.Error(), "sample 2")
	require.Equal(t, 2, enc.Len())
}

func TestScalarDelta_Reset(t *testing.T) {
	enc := newTestEncoder(t)
	require.NoError(t, enc.WriteSlice([]float32{1, 2, 3}))

	enc.Reset()
	require.Equal(t, 0, enc.Len())
	require.Equal(t, 0, enc.Size())
	require.Equal(t, int32(0), enc.State())

	d, err := enc.Encode(1.5)
	require.NoError(t, err)
	require.Equal(t, int16(1500), d)
}

func TestScalarDelta_Finish(t *testing.T) {
	enc, err := NewScalarDeltaEncoder(nil)
	require.NoError(t, err)
	enc.Finish()

	require.Panics(t, func() { _, _ = enc.Encode(1) })
	require.PanicsWithValue(t, "encoder already finished - cannot encode after Finish()", func() {
		_ = enc.WriteSlice([]float32{1, 2, 3})
	})
}

func TestScalarDelta_Desync(t *testing.T) {
	enc := newTestEncoder(t)
	dec := NewScalarDeltaDecoder(nil)

	for _, v := range []float32{0.5, 0.75, 1.0} {
		d, err := enc.Encode(v)
		require.NoError(t, err)
		dec.Decode(d)
	}
	require.NoError(t, CheckSync(enc.State(), dec.State()))

	// An independent reset on one side breaks lockstep.
	enc.Reset()
	_, err := enc.Encode(2.0)
	require.NoError(t, err)
	dec.Decode(2000)

	err = CheckSync(enc.State(), dec.State())
	require.ErrorIs(t, err, errs.ErrStateDesync)
}

func TestScalarDeltaDecoder_DecodeBytes(t *testing.T) {
	t.Run("truncated record", func(t *testing.T) {
		dec := NewScalarDeltaDecoder(nil)
		_, err := dec.DecodeBytes([]byte{0xd2, 0x04, 0x01})
		require.ErrorIs(t, err, errs.ErrTruncatedRecord)
		require.ErrorIs(t, err, errs.ErrFormat)
		require.Equal(t, int32(0), dec.State())
	})

	t.Run("empty", func(t *testing.T) {
		dec := NewScalarDeltaDecoder(nil)
		out, err := dec.DecodeBytes(nil)
		require.NoError(t, err)
		require.Empty(t, out)
	})

	t.Run("big endian", func(t *testing.T) {
		enc, err := NewScalarDeltaEncoder(endian.GetBigEndianEngine())
		require.NoError(t, err)
		defer enc.Finish()
		require.NoError(t, enc.WriteSlice([]float32{1.234, 1.235}))
		require.Equal(t, []byte{0x04, 0xd2, 0x00, 0x01}, enc.Bytes())

		dec := NewScalarDeltaDecoder(endian.GetBigEndianEngine())
		out, err := dec.DecodeBytes(enc.Bytes())
		require.NoError(t, err)
		require.Equal(t, []float32{1.234, 1.235}, out)
	})

	t.Run("negative deltas", func(t *testing.T) {
		dec := NewScalarDeltaDecoder(nil)
		// 500, -750 as little-endian int16.
		out, err := dec.DecodeBytes([]byte{0xf4, 0x01, 0x12, 0xfd})
		require.NoError(t, err)
		require.Equal(t, []float32{0.5, -0.25}, out)
	})
}

func TestScalarDeltaDecoder_AllEarlyBreak(t *testing.T) {
	dec := NewScalarDeltaDecoder(nil)
	data := []byte{0x01, 0x00, 0x01, 0x00, 0x01, 0x00}

	count := 0
	for range dec.All(data) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
	require.Equal(t, int32(2), dec.State())
}

func BenchmarkScalarDeltaEncoder_Encode(b *testing.B) {
	enc, _ := NewScalarDeltaEncoder(nil, WithOverflowPolicy(format.OverflowSaturate))
	defer enc.Finish()

	v := float32(0)
	for b.Loop() {
		v += 0.013
		if v > 10 {
			v = -10
			enc.Reset()
		}
		_, _ = enc.Encode(v)
	}
}
