package pbwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewState(6)
	dec := NewState(6)
	variants := [][]int64{
		{0, 1, 0, 1, 1, 0},
		{1, 1, 0, 0, 1, 0},
		{0, 0, 0, 1, 1, 1},
	}
	for _, v := range variants {
		wire, err := enc.Encode(v)
		require.NoError(t, err)
		got, err := dec.Decode(wire)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

// The counting sort keys on each value's low byte only; values outside
// 0-255 -- negative missing sentinels, multi-byte allele counts -- must
// come back bit-exact.
func TestEncodeDecodeWideAndNegativeValues(t *testing.T) {
	enc := NewState(5)
	dec := NewState(5)
	variants := [][]int64{
		{0, -128, 1, 300, 0},
		{-128, -128, 70000, 1, 0},
		{512, 0, -1, 256, -128},
	}
	for _, v := range variants {
		wire, err := enc.Encode(v)
		require.NoError(t, err)
		got, err := dec.Decode(wire)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestResetOnFrameBoundary(t *testing.T) {
	enc := NewState(4)
	dec := NewState(4)

	v1 := []int64{1, 0, 1, 0}
	wire1, err := enc.Encode(v1)
	require.NoError(t, err)
	got1, err := dec.Decode(wire1)
	require.NoError(t, err)
	require.Equal(t, v1, got1)

	// Simulate a frame boundary: both sides reset to identity.
	enc.Reset(4)
	dec.Reset(4)

	v2 := []int64{0, 1, 1, 0}
	wire2, err := enc.Encode(v2)
	require.NoError(t, err)
	got2, err := dec.Decode(wire2)
	require.NoError(t, err)
	require.Equal(t, v2, got2)
}

func TestLengthMismatch(t *testing.T) {
	s := NewState(4)
	_, err := s.Encode([]int64{0, 1, 0})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestManagerLazyCreation(t *testing.T) {
	m := NewManager()
	require.False(t, m.Tracked(3))
	s := m.StateFor(3, 8)
	require.True(t, m.Tracked(3))
	require.Equal(t, 8, s.Len())
}
