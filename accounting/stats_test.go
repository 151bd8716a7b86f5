package accounting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name         string
		original     int64
		compressed   int64
		wantRatio    float64
		wantSavings  float64
		wantOriginal int64
	}{
		{name: "typical", original: 4000, compressed: 1000, wantRatio: 4, wantSavings: 75, wantOriginal: 4000},
		{name: "no gain", original: 512, compressed: 512, wantRatio: 1, wantSavings: 0, wantOriginal: 512},
		{name: "expansion", original: 100, compressed: 125, wantRatio: 0.8, wantSavings: -25, wantOriginal: 100},
		{name: "zero compressed", original: 100, compressed: 0, wantRatio: 0, wantSavings: 100, wantOriginal: 100},
		{name: "zero original", original: 0, compressed: 10, wantRatio: 0, wantSavings: 0},
		{name: "both zero", original: 0, compressed: 0, wantRatio: 0, wantSavings: 0},
		{name: "negative clamps", original: -5, compressed: -1, wantRatio: 0, wantSavings: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStats(tt.original, tt.compressed, "delta")

			require.Equal(t, "delta", s.Method)
			require.Equal(t, tt.wantOriginal, s.OriginalSize)
			require.GreaterOrEqual(t, s.CompressedSize, int64(0))
			require.InDelta(t, tt.wantRatio, s.Ratio, 1e-12)
			require.InDelta(t, tt.wantSavings, s.SpaceSavingsPct, 1e-12)
		})
	}
}

func TestComputeStats_RatioZeroIffCompressedZero(t *testing.T) {
	for original := int64(1); original < 50; original += 7 {
		for compressed := int64(0); compressed < 50; compressed += 5 {
			s := ComputeStats(original, compressed, "")
			require.Equal(t, compressed == 0, s.Ratio == 0, "original=%d compressed=%d", original, compressed)
		}
	}
}

func TestStats_Merge(t *testing.T) {
	a := ComputeStats(1000, 250, "delta")
	b := ComputeStats(3000, 750, "rle")

	m := a.Merge(b)
	require.Equal(t, int64(4000), m.OriginalSize)
	require.Equal(t, int64(1000), m.CompressedSize)
	require.InDelta(t, 4.0, m.Ratio, 1e-12)
	require.Equal(t, "delta", m.Method)

	require.Equal(t, "rle", Stats{}.Merge(b).Method)
	require.Equal(t, int64(3000), m.SavedBytes())
}

func TestStats_String(t *testing.T) {
	require.Equal(t, "delta+zstd: 4096 -> 1024 bytes (ratio 4.00x, saved 75.0%)",
		ComputeStats(4096, 1024, "delta+zstd").String())
	require.Equal(t, "unknown: 0 -> 0 bytes (ratio 0.00x, saved 0.0%)", Stats{}.String())
}
