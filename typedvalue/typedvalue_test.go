package typedvalue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenseIntRoundTrip(t *testing.T) {
	v := NewDenseInt(Int32, []int64{1, -1, 1 << 20, MissingInt(4)})
	buf := Serialize(v, nil)
	got, n, err := Deserialize(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, v.Ints(), got.Ints())
}

func TestSparseRoundTrip(t *testing.T) {
	v := NewSparseFloat32(Int8, 10, []uint64{7, 9}, []float32{1.5, 2.0})
	buf := Serialize(v, nil)
	got, n, err := Deserialize(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.True(t, got.IsSparse())
	require.Equal(t, v.ToDenseFloat32s(), got.ToDenseFloat32s())
}

func TestLongVectorUsesLengthScalar(t *testing.T) {
	vals := make([]int64, 20)
	for i := range vals {
		vals[i] = int64(i)
	}
	v := NewDenseInt(Int8, vals)
	buf := Serialize(v, nil)
	got, n, err := Deserialize(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, 20, got.Len)
}

func TestTruncatedRecord(t *testing.T) {
	v := NewDenseInt(Int32, []int64{1, 2, 3})
	buf := Serialize(v, nil)
	_, _, err := Deserialize(buf[:len(buf)-1])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestSparseOffsetsMustBeMonotone(t *testing.T) {
	// Hand-construct a malformed sparse body: two equal offsets.
	v := NewSparseInt(Int8, Int8, 10, []uint64{3, 3}, []int64{1, 2})
	buf := Serialize(v, nil)
	_, _, err := Deserialize(buf)
	require.ErrorIs(t, err, ErrSparseOffsets)
}

func TestMinimizePicksSmaller(t *testing.T) {
	sparse := make([]int64, 1000)
	sparse[7] = 1
	sparse[900] = 2
	m := Minimize(NewDenseInt(Int32, sparse))
	require.True(t, m.IsSparse())

	dense := make([]int64, 4)
	for i := range dense {
		dense[i] = int64(i + 1)
	}
	m2 := Minimize(NewDenseInt(Int8, dense))
	require.False(t, m2.IsSparse())
}

func TestIntoIntWidthWidening(t *testing.T) {
	v := NewDenseInt(Int8, []int64{1, MissingInt(1), -5})
	widened, err := IntoIntWidth(v, 4)
	require.NoError(t, err)
	require.Equal(t, []int64{1, MissingInt(4), -5}, widened.Ints())
}

func TestIntoIntWidthNarrowingLoss(t *testing.T) {
	v := NewDenseInt(Int32, []int64{MissingInt(1)})
	_, err := IntoIntWidth(v, 1)
	require.ErrorIs(t, err, ErrNarrowingLoss)
}

func TestSubset(t *testing.T) {
	// GT [a,b, c,d, e,f, g,h, i,j] subset {S1,S3} -> [c,d, g,h]
	v := NewDenseInt(Int8, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	indexMap := make([]int, 10)
	for i := range indexMap {
		indexMap[i] = SubsetSentinel
	}
	indexMap[2], indexMap[3] = 0, 1
	indexMap[6], indexMap[7] = 2, 3
	out := Subset(v, indexMap, 4)
	require.Equal(t, []int64{3, 4, 7, 8}, out.ToDenseInts())
}
