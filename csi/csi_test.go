package csi

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func writeBin(buf *bytes.Buffer, id uint32, loffset uint64, chunks [][2]uint64) {
	binary.Write(buf, binary.LittleEndian, id)
	binary.Write(buf, binary.LittleEndian, loffset)
	binary.Write(buf, binary.LittleEndian, int32(len(chunks)))
	for _, c := range chunks {
		binary.Write(buf, binary.LittleEndian, c[0])
		binary.Write(buf, binary.LittleEndian, c[1])
	}
}

func buildTestIndex(t *testing.T, minShift, depth int32, bins map[uint32][][2]uint64) []byte {
	var raw bytes.Buffer
	raw.Write(magic[:])
	binary.Write(&raw, binary.LittleEndian, minShift)
	binary.Write(&raw, binary.LittleEndian, depth)
	binary.Write(&raw, binary.LittleEndian, int32(0)) // l_aux
	binary.Write(&raw, binary.LittleEndian, int32(1)) // n_ref
	binary.Write(&raw, binary.LittleEndian, int32(len(bins)))
	for id, chunks := range bins {
		writeBin(&raw, id, 0, chunks)
	}

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return gz.Bytes()
}

func TestReadAndQuery(t *testing.T) {
	minShift, depth := int32(14), int32(5)
	targetBin := reg2bins(1000, 2000, minShift, depth)[0]
	raw := buildTestIndex(t, minShift, depth, map[uint32][][2]uint64{
		targetBin: {{1 << 16, 2 << 16}},
	})

	idx, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, minShift, idx.MinShift)
	require.Equal(t, depth, idx.Depth)

	offsets, err := idx.Query(0, 1000, 2000)
	require.NoError(t, err)
	require.Len(t, offsets, 1)
	require.Equal(t, int64(1), offsets[0][0].File)
	require.Equal(t, int64(2), offsets[0][1].File)
}

func TestQueryOutOfRangeRef(t *testing.T) {
	raw := buildTestIndex(t, 14, 5, nil)
	idx, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	offsets, err := idx.Query(5, 0, 100)
	require.NoError(t, err)
	require.Nil(t, offsets)
}

func TestReadBadMagic(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write([]byte("XXXXbogus"))
	w.Close()
	_, err := Read(bytes.NewReader(gz.Bytes()))
	require.ErrorIs(t, err, ErrCorruptIndex)
}

func TestReg2BinsEmptyRange(t *testing.T) {
	require.Nil(t, reg2bins(100, 100, 14, 5))
	require.Nil(t, reg2bins(200, 100, 14, 5))
}

func TestPseudoBinKnownValue(t *testing.T) {
	// BAI-compatible parameters (min_shift=14, depth=5) reserve bin 37450
	// for the unmapped-reads placeholder.
	require.Equal(t, uint32(37450), pseudoBin(5))
}
