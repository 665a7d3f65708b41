package sav

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statgen/sav/region"
	"github.com/statgen/sav/typedvalue"
)

func gtHeader(samples ...string) []string {
	return []string{
		"##contig=<ID=20>",
		"##contig=<ID=X>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
	}
}

// Single biallelic SNP round-trip.
func TestWriteReadSNP(t *testing.T) {
	var data bytes.Buffer
	samples := []string{"S0"}
	w, err := NewWriter(&data, nil, gtHeader(), samples, WriteOpts{})
	require.NoError(t, err)

	in := Variant{
		Chromosome: "20",
		Position:   100,
		Ref:        "A",
		Alt:        []string{"G"},
		Format: []FormatField{
			{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 1})},
		},
	}
	require.NoError(t, w.Write(in))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	require.True(t, r.Scan())
	out := r.Record()
	require.Equal(t, int64(100), out.Position)
	require.Equal(t, "A", out.Ref)
	require.Equal(t, []string{"G"}, out.Alt)
	require.Len(t, out.Format, 1)
	require.Equal(t, "GT", out.Format[0].Key)
	require.Equal(t, []int64{0, 1}, out.Format[0].Val.ToDenseInts())
	require.False(t, r.Scan())
	require.NoError(t, r.Err())
}

// Multiallelic indel with filters.
func TestWriteReadMultiallelicFiltered(t *testing.T) {
	var data bytes.Buffer
	lines := append(gtHeader(), "##FILTER=<ID=q10>")
	samples := []string{"S0"}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{})
	require.NoError(t, err)

	in := Variant{
		Chromosome: "X",
		Position:   1000000,
		Ref:        "GTC",
		Alt:        []string{"G", "GTCT"},
		Filters:    []string{"q10"},
		Format: []FormatField{
			{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 2})},
		},
	}
	require.NoError(t, w.Write(in))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	require.True(t, r.Scan())
	out := r.Record()
	require.Equal(t, []string{"G", "GTCT"}, out.Alt)
	require.Equal(t, []string{"q10"}, out.Filters)
}

// Sparse dosage storage round-trip.
func TestWriteReadSparseDosage(t *testing.T) {
	var data bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=DS,Number=1,Type=Float>",
	}
	samples := make([]string, 10)
	for i := range samples {
		samples[i] = "S" + string(rune('0'+i))
	}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{})
	require.NoError(t, err)

	dsVal := typedvalue.NewSparseFloat32(typedvalue.Int8, 10, []uint64{7, 9}, []float32{1.5, 2.0})
	in := Variant{
		Chromosome: "20",
		Position:   50,
		Ref:        "A",
		Alt:        []string{"T"},
		Format: []FormatField{
			{Key: "DS", Val: dsVal},
		},
	}
	require.NoError(t, w.Write(in))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	require.True(t, r.Scan())
	out := r.Record()
	got := out.Format[0].Val.ToDenseFloat32s()
	want := make([]float32, 10)
	want[7] = 1.5
	want[9] = 2.0
	require.Equal(t, want, got)
	require.True(t, out.Format[0].Val.IsSparse())
}

// PBWT reset on frame boundary, verified both by sequential read and
// by random access (via S1R) straight into a later frame.
func TestPBWTResetOnFrameBoundary(t *testing.T) {
	var data, sidecar bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
		"##_PBWT_SORT_GT=<Format=GT>",
	}
	samples := []string{"S0", "S1"}
	w, err := NewWriter(&data, &sidecar, lines, samples, WriteOpts{BlockRecords: 3})
	require.NoError(t, err)

	gts := [][]int64{
		{0, 1, 0, 1},
		{1, 0, 1, 0},
		{0, 0, 1, 1},
		{1, 1, 0, 0},
		{0, 1, 1, 0},
		{1, 0, 0, 1},
		{1, 1, 1, 1},
	}
	for i, vals := range gts {
		v := Variant{
			Chromosome: "20",
			Position:   int64(100 + i),
			Ref:        "A",
			Alt:        []string{"G"},
			Format: []FormatField{
				{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, vals)},
			},
		}
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Close())

	// Sequential read recovers every original GT vector, regardless of
	// the permutation state in between frames.
	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	for i, want := range gts {
		require.True(t, r.Scan(), "record %d", i)
		require.Equal(t, want, r.Record().Format[0].Val.ToDenseInts(), "record %d", i)
	}
	require.False(t, r.Scan())
	require.NoError(t, r.Err())

	// Random access straight to the last record (alone in its own frame,
	// after the BlockRecords=3 cap flushed twice) must still decode
	// correctly: the reset bit on its frame's first record re-identifies
	// the permutation before this record's FORMAT block is decoded.
	r2, err := NewReader(bytes.NewReader(data.Bytes()), bytes.NewReader(sidecar.Bytes()), ReadOpts{})
	require.NoError(t, err)
	require.NoError(t, r2.ResetBounds(region.Region{Chromosome: "20", From: 106, To: 106}, region.All))
	require.True(t, r2.Scan())
	require.Equal(t, gts[6], r2.Record().Format[0].Val.ToDenseInts())
	require.False(t, r2.Scan())
}

// The synthetic descriptor may also be spelled as a real INFO line; its
// Format= sub-field still names the PBWT-tracked FORMAT key, and its ID
// still occupies a dictionary code like any other INFO declaration.
func TestPBWTInfoDescriptorForm(t *testing.T) {
	var data bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
		"##INFO=<ID=_PBWT_SORT_GT,Number=0,Type=Flag,Format=GT>",
	}
	samples := []string{"S0", "S1"}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{})
	require.NoError(t, err)

	gts := [][]int64{
		{0, 1, 1, 0},
		{1, 1, 0, 0},
	}
	for i, vals := range gts {
		v := Variant{
			Chromosome: "20",
			Position:   int64(10 + i),
			Ref:        "A",
			Alt:        []string{"G"},
			Format: []FormatField{
				{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, vals)},
			},
		}
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	for _, want := range gts {
		require.True(t, r.Scan())
		require.Equal(t, want, r.Record().Format[0].Val.ToDenseInts())
	}
	require.False(t, r.Scan())
	require.NoError(t, r.Err())
}

// A PBWT-tracked field must round-trip values the counting sort cannot
// key on directly: the int8 missing sentinel (-128, the encoding of a
// "." allele) and multi-byte values >= 256. The permutation may reorder
// them, but each decoded vector must be bit-exact.
func TestPBWTPreservesMissingAndWideValues(t *testing.T) {
	var data bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
		"##FORMAT=<ID=AD,Number=2,Type=Integer>",
		"##_PBWT_SORT_GT=<Format=GT>",
		"##_PBWT_SORT_AD=<Format=AD>",
	}
	samples := []string{"S0", "S1"}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{BlockRecords: 2})
	require.NoError(t, err)

	missing := typedvalue.MissingInt(1)
	gts := [][]int64{
		{0, missing, 1, 0},
		{missing, missing, 0, 1},
		{1, 0, missing, 1},
	}
	ads := [][]int64{
		{300, 0, 12, 512},
		{0, 256, 70, 1},
		{41, 300, 0, 0},
	}
	for i := range gts {
		v := Variant{
			Chromosome: "20",
			Position:   int64(100 + i),
			Ref:        "A",
			Alt:        []string{"G"},
			Format: []FormatField{
				{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, gts[i])},
				{Key: "AD", Val: typedvalue.NewDenseInt(typedvalue.Int16, ads[i])},
			},
		}
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	for i := range gts {
		require.True(t, r.Scan(), "record %d", i)
		rec := r.Record()
		require.Equal(t, gts[i], rec.Format[0].Val.ToDenseInts(), "GT record %d", i)
		require.Equal(t, ads[i], rec.Format[1].Val.ToDenseInts(), "AD record %d", i)
	}
	require.False(t, r.Scan())
	require.NoError(t, r.Err())
}

// ResetSliceBounds selects records [From, From+Count) in file order:
// intact frames before the slice are skipped via the index's per-frame
// record counts, and the first overlapping frame's leading records are
// decoded but not surfaced.
func TestResetSliceBounds(t *testing.T) {
	var data, sidecar bytes.Buffer
	samples := []string{"S0"}
	w, err := NewWriter(&data, &sidecar, gtHeader(), samples, WriteOpts{BlockRecords: 3})
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		v := Variant{
			Chromosome: "20",
			Position:   int64(100 + i),
			Ref:        "A",
			Alt:        []string{"G"},
			Format: []FormatField{
				{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 1})},
			},
		}
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Close())

	// Frames hold records {0,1,2}, {3,4,5}, {6,7}; the slice [4, 7) skips
	// the first frame whole, discards record 3, and stops after record 6.
	r, err := NewReader(bytes.NewReader(data.Bytes()), bytes.NewReader(sidecar.Bytes()), ReadOpts{})
	require.NoError(t, err)
	require.NoError(t, r.ResetSliceBounds(SliceBounds{From: 4, Count: 3}))
	var got []int64
	for r.Scan() {
		got = append(got, r.Record().Position)
	}
	require.NoError(t, r.Err())
	require.Equal(t, []int64{104, 105, 106}, got)
}

// A bounded-query setup failure (no index available) is the one error
// state ClearBounds recovers from: the reader reverts to sequential
// streaming.
func TestClearBoundsRecoversFromMissingIndex(t *testing.T) {
	var data bytes.Buffer
	samples := []string{"S0"}
	w, err := NewWriter(&data, nil, gtHeader(), samples, WriteOpts{})
	require.NoError(t, err)
	v := Variant{
		Chromosome: "20", Position: 5, Ref: "A", Alt: []string{"G"},
		Format: []FormatField{{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 1})}},
	}
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{})
	require.NoError(t, err)
	require.Error(t, r.ResetBounds(region.Region{Chromosome: "20", From: 1, To: 10}, region.Any))
	require.False(t, r.Scan())
	require.Error(t, r.Err())

	require.NoError(t, r.ClearBounds())
	require.NoError(t, r.Err())
	require.True(t, r.Scan())
	require.Equal(t, int64(5), r.Record().Position)
	require.False(t, r.Scan())
	require.NoError(t, r.Err())
}

// Region query with bounding point Any vs Beg.
func TestRegionQueryBoundingPoint(t *testing.T) {
	var data, sidecar bytes.Buffer
	lines := gtHeader()
	samples := []string{"S0"}
	w, err := NewWriter(&data, &sidecar, lines, samples, WriteOpts{})
	require.NoError(t, err)

	// A deletion at 20:100, ref GTCTA (len 5), alt G: spans one-based
	// [100, 104].
	v := Variant{
		Chromosome: "20",
		Position:   100,
		Ref:        "GTCTA",
		Alt:        []string{"G"},
		Format: []FormatField{
			{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 1})},
		},
	}
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), bytes.NewReader(sidecar.Bytes()), ReadOpts{})
	require.NoError(t, err)
	require.NoError(t, r.ResetBounds(region.Region{Chromosome: "20", From: 102, To: 104}, region.Any))
	require.True(t, r.Scan(), "bounding_point=any must return the overlapping deletion")

	r2, err := NewReader(bytes.NewReader(data.Bytes()), bytes.NewReader(sidecar.Bytes()), ReadOpts{})
	require.NoError(t, err)
	require.NoError(t, r2.ResetBounds(region.Region{Chromosome: "20", From: 102, To: 104}, region.Beg))
	require.False(t, r2.Scan(), "bounding_point=beg must not return it: leftmost coordinate is 100")
}

// Sample subset of size 2 from 5.
func TestSampleSubset(t *testing.T) {
	var data bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
	}
	samples := []string{"S0", "S1", "S2", "S3", "S4"}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{})
	require.NoError(t, err)

	gt := []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9} // a..j per sample pair
	v := Variant{
		Chromosome: "20",
		Position:   1,
		Ref:        "A",
		Alt:        []string{"G"},
		Format: []FormatField{
			{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, gt)},
		},
	}
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{Samples: []string{"S1", "S3"}})
	require.NoError(t, err)
	require.True(t, r.Scan())
	got := r.Record().Format[0].Val.ToDenseInts()
	require.Equal(t, []int64{2, 3, 6, 7}, got)
}

// SampleSubsetEmpty still succeeds but logs a warning once; an empty
// intersection must not be treated as an error.
func TestSampleSubsetEmptyIntersection(t *testing.T) {
	var data bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=GT,Number=2,Type=Integer>",
	}
	samples := []string{"S0"}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{})
	require.NoError(t, err)
	v := Variant{
		Chromosome: "20", Position: 1, Ref: "A", Alt: []string{"G"},
		Format: []FormatField{{Key: "GT", Val: typedvalue.NewDenseInt(typedvalue.Int8, []int64{0, 1})}},
	}
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{Samples: []string{}})
	require.NoError(t, err)
	require.True(t, r.Scan())
	require.Equal(t, []int64{}, r.Record().Format[0].Val.ToDenseInts())
}

// ReadOpts.CollapseDosage reduces a per-haplotype FORMAT field to
// per-sample values via cvector.StrideReduce at read time.
func TestCollapseDosageToPerSample(t *testing.T) {
	var data bytes.Buffer
	lines := []string{
		"##contig=<ID=20>",
		"##FORMAT=<ID=HDS,Number=2,Type=Float>",
	}
	samples := []string{"S0", "S1", "S2"}
	w, err := NewWriter(&data, nil, lines, samples, WriteOpts{})
	require.NoError(t, err)

	// Per-haplotype dosage: sample S0 = (0.2, 0.3), S1 = (1.0, 0.0), S2 = (0.0, 0.0).
	hds := []float32{0.2, 0.3, 1.0, 0.0, 0.0, 0.0}
	v := Variant{
		Chromosome: "20", Position: 1, Ref: "A", Alt: []string{"G"},
		Format: []FormatField{{Key: "HDS", Val: typedvalue.NewDenseFloat32(hds)}},
	}
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(data.Bytes()), nil, ReadOpts{
		CollapseDosage: map[string]int{"HDS": 2},
	})
	require.NoError(t, err)
	require.True(t, r.Scan())
	got := r.Record().Format[0].Val.ToDenseFloat64s()
	require.InDeltaSlice(t, []float64{0.5, 1.0, 0.0}, got, 1e-6)
}
