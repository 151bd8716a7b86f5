package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	s, cleanup := GetFloat64Slice(16)
	require.Len(t, s, 16)
	for i := range s {
		s[i] = float64(i)
	}
	cleanup()

	s2, cleanup2 := GetFloat64Slice(4)
	defer cleanup2()
	require.Len(t, s2, 4)
}

func TestGetFloat64Slice_Grows(t *testing.T) {
	small, cleanup := GetFloat64Slice(2)
	require.Len(t, small, 2)
	cleanup()

	large, cleanup2 := GetFloat64Slice(1024)
	defer cleanup2()
	require.Len(t, large, 1024)
}

func TestGetFloat32Slice(t *testing.T) {
	s, cleanup := GetFloat32Slice(0)
	defer cleanup()
	require.Empty(t, s)

	s2, cleanup2 := GetFloat32Slice(8)
	defer cleanup2()
	require.Len(t, s2, 8)
}
