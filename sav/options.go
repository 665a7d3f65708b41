package sav

// Default option values.
const (
	// DefaultBlockRecords is the default number of records a Writer batches
	// into one zstd frame / S1R leaf entry before flushing.
	DefaultBlockRecords = 4096

	// DefaultBufPoolSize is the default number of frame-accumulator buffers
	// the writer keeps in its internal/bufpool.Pool.
	DefaultBufPoolSize = 2
)

// WriteOpts defines options for NewWriter.
type WriteOpts struct {
	// BlockRecords caps the number of records per zstd frame / S1R leaf
	// entry. A new frame also starts whenever a record's chromosome
	// differs from the current frame's, regardless of this cap. If <= 0,
	// DefaultBlockRecords is used.
	BlockRecords int

	// Transformers defines the recordio block transformers, passed through
	// to recordio.WriterOpts.Transformers. If empty, {"zstd"} is used.
	Transformers []string

	// BufPoolSize bounds the number of frame-accumulator buffers kept alive
	// at once. If <= 0, DefaultBufPoolSize is used.
	BufPoolSize int

	// S1RBlockSizeKiB1 is the S1R sidecar's block size, encoded as (KiB-1)
	// per s1r.Header.BlockSizeKiB1. If 0, 4096-byte blocks are used.
	S1RBlockSizeKiB1 byte
}

func validateWriteOpts(o *WriteOpts) {
	if o.BlockRecords <= 0 {
		o.BlockRecords = DefaultBlockRecords
	}
	if len(o.Transformers) == 0 {
		o.Transformers = []string{"zstd"}
	}
	if o.BufPoolSize <= 0 {
		o.BufPoolSize = DefaultBufPoolSize
	}
	if o.S1RBlockSizeKiB1 == 0 {
		o.S1RBlockSizeKiB1 = 4096/1024 - 1
	}
}

// ReadOpts defines options for NewReader.
type ReadOpts struct {
	// Samples, if non-nil, restricts decoded FORMAT data to this subset of
	// samples, applied to every record the Reader returns. Names absent
	// from the file are ignored. An empty, non-nil slice, or one naming no
	// sample in the file, is a valid subset of zero samples; see
	// SampleSubsetEmpty.
	Samples []string

	// BEDMask, if non-empty, names a BED file (gzip-compressed or plain)
	// restricting Scan to records overlapping it, applied on top of
	// whatever ResetBounds query is active (or during a plain sequential
	// scan, on its own). Supplements the coordinate-range bounding with a
	// finer-grained inclusion mask.
	BEDMask string

	// CollapseDosage, if non-nil, names FORMAT keys whose per-haplotype
	// vectors should be reduced to per-sample vectors at read time via
	// cvector.StrideReduce; each key maps to its ploidy (the stride). It runs after
	// sample subsetting, so the stride always matches the subset's own
	// ploidy grouping.
	CollapseDosage map[string]int
}

func validateReadOpts(o *ReadOpts) {
	// No defaults to fill; every field's zero value ("no subset", "no BED
	// mask", "no dosage collapsing") is meaningful on its own.
	_ = o
}
