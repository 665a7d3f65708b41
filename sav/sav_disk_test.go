package sav

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/require"

	"github.com/statgen/sav/typedvalue"
)

// TestWriteReadOnDiskWithBEDMask exercises the Writer/Reader pair against
// real files instead of in-memory buffers -- including a plain-text BED
// mask loaded through region.LoadMask/interval.NewBEDUnionFromPath's
// file.Open + fileio.DetermineType path -- the way a caller actually uses
// this package, rather than through bytes.Buffer as the other tests do.
func TestWriteReadOnDiskWithBEDMask(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "sav")
	defer testutil.NoCleanupOnError(t, cleanup)

	dataPath := filepath.Join(dir, "test.sav")
	sidecarPath := filepath.Join(dir, "test.sav.s1r")
	bedPath := filepath.Join(dir, "mask.bed")

	require.NoError(t, os.WriteFile(bedPath, []byte("20\t149\t160\n"), 0o644))

	dataFile, err := os.Create(dataPath)
	require.NoError(t, err)
	sidecarFile, err := os.Create(sidecarPath)
	require.NoError(t, err)

	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
	}
	samples := []string{"S0"}
	w, err := NewWriter(dataFile, sidecarFile, lines, samples, WriteOpts{})
	require.NoError(t, err)

	positions := []int64{100, 150, 200}
	for _, pos := range positions {
		v := Variant{
			Chromosome: "20",
			Position:   pos,
			Ref:        "A",
			Alt:        []string{"G"},
			Format: []FormatField{
				{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 1})},
			},
		}
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Close())
	require.NoError(t, dataFile.Close())
	require.NoError(t, sidecarFile.Close())

	dataFile, err = os.Open(dataPath)
	require.NoError(t, err)
	defer dataFile.Close()

	r, err := NewReader(dataFile, nil, ReadOpts{BEDMask: bedPath})
	require.NoError(t, err)

	var got []int64
	for r.Scan() {
		got = append(got, r.Record().Position)
	}
	require.NoError(t, r.Err())
	require.Equal(t, []int64{150}, got)
}
