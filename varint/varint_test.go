package varint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)}
	for _, v := range values {
		buf := make([]byte, MaxLen)
		n := PutUvarint(buf, v)
		if v == 0 {
			require.Equal(t, 1, n)
			require.Equal(t, byte(0), buf[0])
		}
		got, consumed := Uvarint(buf[:n])
		require.Equal(t, n, consumed)
		require.Equal(t, v, got)
	}
}

func TestPrefixedRoundTrip(t *testing.T) {
	for k := uint(1); k <= 7; k++ {
		mask := byte((1 << k) - 1)
		values := []uint64{0, 1, 1 << (6 - k + 1), 1 << 10, 1 << 30, 1 << 50, ^uint64(0)}
		for _, v := range values {
			for p := byte(0); p <= mask; p++ {
				buf := make([]byte, PrefixedMaxLen)
				n := PutPrefixed(k, p, v, buf)
				gotPrefix, gotN, consumed, err := Prefixed(k, buf[:n])
				require.NoError(t, err)
				require.Equal(t, n, consumed)
				require.Equal(t, p&mask, gotPrefix)
				require.Equal(t, v, gotN)
			}
		}
	}
}

func TestPrefixedShortEncodingLength(t *testing.T) {
	for k := uint(1); k <= 7; k++ {
		buf := make([]byte, PrefixedMaxLen)
		n := PutPrefixed(k, 0, (1<<(7-k))-1, buf)
		require.Equal(t, 1, n)
	}
}

func TestPrefixedTruncated(t *testing.T) {
	buf := make([]byte, PrefixedMaxLen)
	n := PutPrefixed(3, 0x5, 1<<40, buf)
	_, _, _, err := Prefixed(3, buf[:n-1])
	require.Error(t, err)
}

func TestPrefixedOverflowRejected(t *testing.T) {
	// A continuation chain carrying more than 64 bits of value must be
	// rejected, not silently truncated.
	buf := []byte{0x80 | 0x40, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7F}
	_, _, _, err := Prefixed(1, buf)
	require.ErrorIs(t, err, ErrOverflow)
}
