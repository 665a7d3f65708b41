package sav

import (
	"bytes"
	stderrors "errors"
	"io"
	"sort"

	"github.com/grailbio/base/errorreporter"
	"v.io/x/lib/vlog"

	"github.com/statgen/sav/cvector"
	"github.com/statgen/sav/pbwt"
	"github.com/statgen/sav/record"
	"github.com/statgen/sav/region"
	"github.com/statgen/sav/s1r"
	"github.com/statgen/sav/typedvalue"
)

// DataSource is what a Reader needs from the underlying file: sequential
// and seekable access for the recordio/zstd frame stream. The S1R
// sidecar is opened separately, as an io.ReaderAt.
type DataSource interface {
	io.Reader
	io.Seeker
}

type readerState int

const (
	stateStreaming readerState = iota
	stateS1RQuery
	stateSliceQuery
	stateEOF
)

// Reader drives sequential or bounded reads over a SAV file:
// Scan/Record/Err/Close for streaming, plus ResetBounds /
// ResetSliceBounds to restrict the scan through the S1R sidecar index.
type Reader struct {
	opts  ReadOpts
	dicts *dictionaries
	mgr   *pbwt.Manager

	headerEnd int64
	data      *offsetStream
	fr        *record.FrameReader
	curFrame  *bytes.Reader

	state readerState
	reg   region.Region
	bp    region.BoundingPoint

	s1rReader   *s1r.Reader
	s1rLocators []uint64
	discard     int // leading records of the next frame to decode and drop
	limit       int // records left to surface in a slice-bounded query; -1 = unlimited

	keepSample   map[int]int // original sample index -> new index
	subsetTotal  int         // total sample count in the header
	subsetNewLen int         // new sample count

	bedMask *region.Mask

	rec     Variant
	numRead int
	err     errorreporter.T
	// boundsErr is set when a bounded-query setup fails (e.g. ResetBounds
	// with no S1R sidecar). Unlike err, it is recoverable: ClearBounds
	// clears it and reverts the reader to sequential streaming.
	boundsErr error
}

// NewReader parses the SAV magic/header from data and returns a Reader
// positioned to stream records from the beginning. ra, if non-nil, is an
// open handle on the ".s1r" sidecar, enabling ResetBounds to drive
// S1R_QUERYING; without it, ResetBounds returns an error since no other
// bounded-query mechanism is wired into Reader.
func NewReader(data DataSource, ra io.ReaderAt, opts ReadOpts) (*Reader, error) {
	validateReadOpts(&opts)
	lines, samples, err := readFileHeader(data)
	if err != nil {
		return nil, err
	}
	headerEnd, err := data.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, wrap(Io, "locating frame stream", err)
	}
	d, err := buildDictionaries(lines, samples)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		opts:        opts,
		dicts:       d,
		mgr:         pbwt.NewManager(),
		headerEnd:   headerEnd,
		subsetTotal: len(samples),
	}
	r.data = newOffsetStream(data, headerEnd)
	r.fr = record.NewFrameReader(r.data)
	r.state = stateStreaming
	r.limit = -1

	if ra != nil {
		s1rr, err := s1r.NewReader(ra)
		if err != nil {
			return nil, wrap(CorruptHeader, "s1r sidecar", err)
		}
		r.s1rReader = s1rr
	}
	if opts.Samples != nil {
		if err := r.applySubset(opts.Samples); err != nil {
			return nil, err
		}
	}
	if opts.BEDMask != "" {
		mask, err := region.LoadMask(opts.BEDMask)
		if err != nil {
			return nil, wrap(Io, "loading BED mask", err)
		}
		r.bedMask = mask
	}
	return r, nil
}

func (r *Reader) applySubset(samples []string) error {
	keep := make(map[int]int, len(samples))
	for _, name := range samples {
		code, ok := r.dicts.samples.Code(name)
		if !ok {
			continue
		}
		if _, dup := keep[int(code)]; !dup {
			keep[int(code)] = len(keep)
		}
	}
	if len(keep) == 0 {
		defaultWarnOnce.warn("sample-subset-empty", "sav: sample subset intersects no samples")
	}
	r.keepSample = keep
	r.subsetNewLen = len(keep)
	return nil
}

// Record returns the most recently scanned record.
//
// REQUIRES: Scan returned true.
func (r *Reader) Record() Variant { return r.rec }

// Err returns the first error encountered, if any. It never returns
// io.EOF: a clean end of stream or query surfaces as Scan returning
// false with Err returning nil.
func (r *Reader) Err() error {
	if r.boundsErr != nil {
		return r.boundsErr
	}
	return r.err.Err()
}

// Close releases resources held by the reader. Must be called exactly
// once.
func (r *Reader) Close() error {
	return r.Err()
}

// Scan advances to the next record matching the current bounds (all
// records, in STREAMING state), returning false at EOF, at query
// exhaustion, or on error.
func (r *Reader) Scan() bool {
	for {
		if r.err.Err() != nil || r.boundsErr != nil {
			return false
		}
		if r.limit == 0 {
			return false
		}
		if r.curFrame != nil {
			v, ok, err := r.nextFromFrame()
			if err != nil {
				r.err.Set(err)
				return false
			}
			if ok {
				if r.discard > 0 {
					// Decoded only to advance cross-record state (PBWT
					// permutations); not part of the requested slice.
					r.discard--
					continue
				}
				if r.matches(v) {
					r.rec = v
					r.numRead++
					if r.limit > 0 {
						r.limit--
					}
					return true
				}
				continue
			}
			r.curFrame = nil
		}
		if !r.advanceFrame() {
			return false
		}
	}
}

// classifyDecodeErr distinguishes a type-code violation from the length
// shortfalls every other block-decode failure reduces to.
func classifyDecodeErr(context string, err error) error {
	if stderrors.Is(err, typedvalue.ErrUnknownType) {
		return wrap(UnknownTypeCode, context, err)
	}
	return wrap(TruncatedRecord, context, err)
}

func (r *Reader) matches(v Variant) bool {
	if r.bedMask != nil {
		begin, end := v.Span()
		if !r.bedMask.Overlaps(v.Chromosome, begin-1, end) {
			return false
		}
	}
	if r.state != stateS1RQuery {
		return true
	}
	begin, end := v.Span()
	return region.Matches(r.bp, v.Chromosome, begin, end, r.reg)
}

func (r *Reader) nextFromFrame() (Variant, bool, error) {
	shared, individual, err := record.ReadFrame(r.curFrame)
	if err == io.EOF {
		return Variant{}, false, nil
	}
	if err != nil {
		return Variant{}, false, wrap(TruncatedRecord, "frame record", err)
	}
	site, err := record.DecodeShared(shared)
	if err != nil {
		return Variant{}, false, classifyDecodeErr("shared block", err)
	}
	fields, err := record.DecodeIndividual(individual, site.NFmt)
	if err != nil {
		return Variant{}, false, classifyDecodeErr("individual block", err)
	}
	v, err := decodeVariant(r.dicts, r.mgr, site, fields)
	if err != nil {
		return Variant{}, false, err
	}
	if r.keepSample != nil {
		r.subsetVariant(&v)
	}
	if len(r.opts.CollapseDosage) > 0 {
		r.collapseDosage(&v)
	}
	return v, true, nil
}

// collapseDosage reduces every FORMAT field named in r.opts.CollapseDosage
// from a per-haplotype vector to a per-sample vector, summing consecutive
// windows of that field's declared ploidy via cvector.StrideReduce.
// It runs after sample subsetting so the stride divides the already-
// subsetted vector's length.
func (r *Reader) collapseDosage(v *Variant) {
	for i, f := range v.Format {
		k, ok := r.opts.CollapseDosage[f.Key]
		if !ok || k <= 1 {
			continue
		}
		v.Format[i].Val = collapseHaplotypes(f.Val, k)
	}
}

// collapseHaplotypes reduces v from N entries to N/k by summing
// consecutive windows of k, routing through cvector.Float64/Int64 so the
// reduction itself is the same stride_reduce cvector already provides and
// tests independently. It leaves v untouched if its length is not a
// multiple of k.
func collapseHaplotypes(v typedvalue.Value, k int) typedvalue.Value {
	valType := v.Type()
	if valType == typedvalue.Sparse {
		valType = v.Sparse.Val.Type
	}
	switch valType {
	case typedvalue.Float32, typedvalue.Float64:
		var dense []float64
		if valType == typedvalue.Float32 {
			src := v.ToDenseFloat32s()
			dense = make([]float64, len(src))
			for i, x := range src {
				dense[i] = float64(x)
			}
		} else {
			dense = v.ToDenseFloat64s()
		}
		reduced, err := cvector.DenseFloat64(dense).StrideReduce(k)
		if err != nil {
			return v
		}
		return typedvalue.Minimize(typedvalue.NewDenseFloat64(reduced.Dense()))
	case typedvalue.Int8, typedvalue.Int16, typedvalue.Int32, typedvalue.Int64:
		dense := v.ToDenseInts()
		reduced, err := cvector.DenseInt64(dense).StrideReduce(k)
		if err != nil {
			return v
		}
		return typedvalue.Minimize(typedvalue.NewDenseInt(typedvalue.Int32, reduced.Dense()))
	default:
		return v
	}
}

func (r *Reader) subsetVariant(v *Variant) {
	if r.subsetTotal == 0 {
		return
	}
	for i, f := range v.Format {
		total := f.Val.Len
		if total == 0 || total%r.subsetTotal != 0 {
			continue
		}
		ploidy := total / r.subsetTotal
		indexMap := make([]int, total)
		for h := range indexMap {
			sample := h / ploidy
			within := h % ploidy
			if newSample, ok := r.keepSample[sample]; ok {
				indexMap[h] = newSample*ploidy + within
			} else {
				indexMap[h] = -1
			}
		}
		v.Format[i].Val = typedvalue.Subset(f.Val, indexMap, r.subsetNewLen*ploidy)
	}
}

func (r *Reader) advanceFrame() bool {
	switch r.state {
	case stateStreaming:
		return r.scanNextStreamingFrame()
	case stateS1RQuery, stateSliceQuery:
		return r.scanNextS1RFrame()
	default:
		return false
	}
}

func (r *Reader) scanNextStreamingFrame() bool {
	if !r.fr.Scan() {
		if err := r.fr.Err(); err != nil {
			r.err.Set(wrap(Io, "frame stream", err))
		}
		return false
	}
	r.curFrame = bytes.NewReader(r.fr.Bytes())
	return true
}

func (r *Reader) scanNextS1RFrame() bool {
	for len(r.s1rLocators) > 0 {
		loc := r.s1rLocators[0]
		r.s1rLocators = r.s1rLocators[1:]
		fileOffset, _ := s1r.UnpackValue(loc)
		r.fr.Seek(fileOffset)
		if !r.fr.Scan() {
			if err := r.fr.Err(); err != nil {
				r.err.Set(wrap(Io, "frame stream", err))
				return false
			}
			continue
		}
		r.curFrame = bytes.NewReader(r.fr.Bytes())
		return true
	}
	return false
}

// ResetBounds transitions the reader into a bounded-query state, driven
// by the S1R sidecar supplied to NewReader; without one it fails, and
// only ClearBounds can recover the reader. Driving a bounded query
// against an external CSI/TBI index is out of scope for Reader: see
// csi.Read and csi.Index.Query, which remain available as a standalone
// index-parsing utility for callers pairing them with their own
// bgzf-compressed stream (e.g. a BCF adapter), a combination this
// package does not produce or consume.
func (r *Reader) ResetBounds(reg region.Region, bp region.BoundingPoint) error {
	r.curFrame = nil
	r.discard = 0
	r.limit = -1
	r.reg = reg
	r.bp = bp
	if r.s1rReader == nil {
		r.boundsErr = wrap(Io, "reset_bounds: no S1R sidecar available", nil)
		return r.boundsErr
	}
	locators, err := r.s1rReader.Query(reg.Chromosome, reg.From-1, reg.To-1)
	if err != nil {
		return wrap(Io, "s1r query", err)
	}
	r.s1rLocators = locators
	r.state = stateS1RQuery
	return nil
}

// SliceBounds selects the records numbered [From, From+Count) in file
// order, irrespective of genomic coordinates.
type SliceBounds struct {
	From  int
	Count int
}

// ResetSliceBounds transitions the reader into a record-number-bounded
// query: frames wholly before the slice are skipped without decoding,
// using the per-frame record counts the S1R index carries; the first
// overlapping frame's leading records are decoded and discarded (the
// PBWT permutations still need them); and Scan stops after Count records
// have been surfaced.
func (r *Reader) ResetSliceBounds(sb SliceBounds) error {
	r.curFrame = nil
	if r.s1rReader == nil {
		r.boundsErr = wrap(Io, "reset_bounds: no S1R sidecar available", nil)
		return r.boundsErr
	}
	var locs []uint64
	for _, c := range r.s1rReader.Chromosomes() {
		vals, err := r.s1rReader.Query(c.Name, 0, ^uint64(0))
		if err != nil {
			return wrap(Io, "s1r query", err)
		}
		locs = append(locs, vals...)
	}
	// Midpoint order within a chromosome need not be file order; the
	// slice is defined over the latter.
	sort.Slice(locs, func(i, j int) bool { return locs[i]>>16 < locs[j]>>16 })
	skipped := 0
	for len(locs) > 0 {
		_, n := s1r.UnpackValue(locs[0])
		if skipped+n > sb.From {
			break
		}
		skipped += n
		locs = locs[1:]
	}
	r.s1rLocators = locs
	r.discard = sb.From - skipped
	r.limit = sb.Count
	r.state = stateSliceQuery
	return nil
}

// ClearBounds reverts the reader to sequential streaming. It is the only
// recoverable transition out of a failed bounded-query setup: a fail bit
// set because no index was available is cleared here, while corruption
// and I/O errors remain permanent.
func (r *Reader) ClearBounds() error {
	r.curFrame = nil
	r.s1rLocators = nil
	r.discard = 0
	r.limit = -1
	r.boundsErr = nil
	r.state = stateStreaming
	vlog.VI(1).Infof("sav: bounds cleared, reverting to sequential scan")
	return nil
}
