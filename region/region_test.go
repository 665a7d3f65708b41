package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	r := require.New(t)

	got, gotErr := ParseString("chr1")
	require.NoError(t, gotErr)
	r.Equal(Region{Chromosome: "chr1", From: 1, To: MaxPos}, got)

	got, gotErr = ParseString("chr1:100")
	require.NoError(t, gotErr)
	r.Equal(Region{Chromosome: "chr1", From: 100, To: 100}, got)

	got, gotErr = ParseString("chr1:100-200")
	require.NoError(t, gotErr)
	r.Equal(Region{Chromosome: "chr1", From: 100, To: 200}, got)

	_, gotErr = ParseString("")
	require.Error(t, gotErr)

	_, gotErr = ParseString(":100")
	require.Error(t, gotErr)

	_, gotErr = ParseString("chr1:200-100")
	require.Error(t, gotErr)

	_, gotErr = ParseString("chr1:0")
	require.Error(t, gotErr)
}

func TestMerge(t *testing.T) {
	got := Merge([]Region{
		{Chromosome: "chr1", From: 100, To: 200},
		{Chromosome: "chr2", From: 10, To: 20},
		{Chromosome: "chr1", From: 150, To: 300},
	})
	require.Equal(t, []Region{
		{Chromosome: "chr1", From: 100, To: 300},
		{Chromosome: "chr2", From: 10, To: 20},
	}, got)
}

// A deletion at 20:100 with ref GTCTA spans 20:100-104. A region query
// of 20:102-104 with Any must match; with Beg it must not, since the
// leftmost coordinate (100) falls outside the region.
func TestBoundingPointDeletion(t *testing.T) {
	reg := Region{Chromosome: "20", From: 102, To: 104}
	require.True(t, Matches(Any, "20", 100, 104, reg))
	require.False(t, Matches(Beg, "20", 100, 104, reg))
	require.True(t, Matches(End, "20", 100, 104, reg))
	require.False(t, Matches(All, "20", 100, 104, reg))
}

func TestBoundingPointChromosomeMismatch(t *testing.T) {
	reg := Region{Chromosome: "chr1", From: 1, To: 10}
	require.False(t, Matches(Any, "chr2", 1, 5, reg))
}

func TestBoundingPointEmptyChromosomeMatchesAny(t *testing.T) {
	reg := Region{Chromosome: "", From: 1, To: 10}
	require.True(t, Matches(Any, "chr2", 1, 5, reg))
}
