package sav

import (
	"io"
	"sync"

	"github.com/grailbio/base/errorreporter"

	"github.com/statgen/sav/internal/bufpool"
	"github.com/statgen/sav/pbwt"
	"github.com/statgen/sav/record"
	"github.com/statgen/sav/s1r"
)

// pendingFrameMeta is queued by flushFrame and consumed, FIFO, by
// onFrameIndexed once recordio reports the frame's file offset. recordio
// may flush items from a background goroutine (MaxFlushParallelism), but
// preserves append order, so a plain queue -- not a map keyed by
// FileOffset, which isn't known until the callback fires -- is enough to
// recover which chromosome/span a given callback belongs to.
type pendingFrameMeta struct {
	chrom  string
	minPos uint64
	maxPos uint64
}

// Writer drives sequential writes of Variant records to a SAV file:
// dictionary encode, per-FORMAT PBWT permute, typed-value emit,
// shared/individual framing, block-boundary batching into zstd frames,
// and S1R index-entry emission.
type Writer struct {
	opts  WriteOpts
	dicts *dictionaries
	mgr   *pbwt.Manager

	fw   *record.FrameWriter
	pool *bufpool.Pool

	curBuf       []byte
	frameRecords int
	frameChrom   string
	frameMinPos  uint64
	frameMaxPos  uint64
	haveFrame    bool
	needReset    bool // true if the next record written starts a new frame

	s1rEnabled bool
	mu         sync.Mutex // guards s1r accumulation; onFrameIndexed may fire off the writer's goroutine
	pending    []pendingFrameMeta
	chromOrder []string
	chromSeen  map[string]bool
	entries    map[string][]s1r.LeafEntry

	sidecar io.Writer
	err     errorreporter.T
	closed  bool
}

// NewWriter validates opts, writes the SAV magic/header/column line to
// data, builds the three dictionaries from lines and samples (the same
// order-sensitive parse NewReader uses, so a file this Writer produces
// parses back identically), and returns a Writer ready to accept records
// in chromosome-contiguous order. sidecar, if non-nil, receives the
// finalized S1R index at Close; if nil, indexing is skipped entirely and
// bounded queries against this file will fail until an index is built.
func NewWriter(data io.Writer, sidecar io.Writer, lines []string, samples []string, opts WriteOpts) (*Writer, error) {
	validateWriteOpts(&opts)
	if err := writeFileHeader(data, lines, samples); err != nil {
		return nil, wrap(Io, "writing file header", err)
	}
	d, err := buildDictionaries(lines, samples)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		opts:       opts,
		dicts:      d,
		mgr:        pbwt.NewManager(),
		pool:       bufpool.New(opts.BufPoolSize),
		s1rEnabled: sidecar != nil,
		sidecar:    sidecar,
		chromSeen:  make(map[string]bool),
		entries:    make(map[string][]s1r.LeafEntry),
		needReset:  true,
	}
	w.fw = record.NewFrameWriter(data, opts.Transformers, w.onFrameIndexed)
	return w, nil
}

// Write encodes v and appends it to the current frame, starting a new
// frame first if the current one has reached opts.BlockRecords or v's
// chromosome differs from the frame in progress. Every record surfaces
// the same *Error kinds NewReader's
// decode path does (e.g. UnknownDictionaryKey for a name the header
// never declared).
func (w *Writer) Write(v Variant) error {
	if err := w.err.Err(); err != nil {
		return err
	}
	if w.haveFrame && (w.frameRecords >= w.opts.BlockRecords || w.frameChrom != v.Chromosome) {
		if err := w.flushFrame(); err != nil {
			w.err.Set(err)
			return err
		}
	}
	pbwtReset := w.needReset
	if pbwtReset {
		w.mgr.ResetAll()
		w.needReset = false
	}

	site, err := encodeSite(w.dicts, v, int32(len(v.Format)), pbwtReset)
	if err != nil {
		w.err.Set(err)
		return err
	}
	fmtFields, err := encodeFormat(w.dicts, w.mgr, v.Format)
	if err != nil {
		w.err.Set(err)
		return err
	}

	shared := record.EncodeShared(site)
	individual := record.EncodeIndividual(fmtFields)
	if w.curBuf == nil {
		w.curBuf = w.pool.Get()
	}
	w.curBuf = record.AppendFrame(w.curBuf, shared, individual)

	begin, end := site.Span()
	if !w.haveFrame {
		w.frameChrom = v.Chromosome
		w.frameMinPos = begin
		w.frameMaxPos = end
		w.haveFrame = true
	} else {
		if begin < w.frameMinPos {
			w.frameMinPos = begin
		}
		if end > w.frameMaxPos {
			w.frameMaxPos = end
		}
	}
	w.frameRecords++
	return nil
}

// flushFrame appends the in-progress frame to the recordio stream and
// queues its chromosome/span for S1R entry emission once its file offset
// is known. It resets writer state so the next Write starts a fresh
// frame with the PBWT reset bit set, keeping every frame independently
// decodable.
func (w *Writer) flushFrame() error {
	if !w.haveFrame {
		return nil
	}
	buf := w.curBuf
	numRecords := w.frameRecords
	if w.s1rEnabled {
		w.mu.Lock()
		w.pending = append(w.pending, pendingFrameMeta{
			chrom:  w.frameChrom,
			minPos: w.frameMinPos,
			maxPos: w.frameMaxPos,
		})
		w.mu.Unlock()
	}
	w.fw.Append(buf, numRecords, func() { w.pool.Put(buf) })

	w.curBuf = nil
	w.frameRecords = 0
	w.haveFrame = false
	w.needReset = true
	return nil
}

// onFrameIndexed pairs a just-flushed frame's file offset with the
// chromosome/span queued for it by flushFrame, and appends the resulting
// S1R leaf entry. Invoked from recordio's index callback, possibly off
// the goroutine that called Write.
func (w *Writer) onFrameIndexed(loc record.FrameLocation) {
	if !w.s1rEnabled {
		return
	}
	if err := s1r.CheckIndexEntry(loc.FileOffset, loc.NumRecords); err != nil {
		w.err.Set(wrap(IndexOverflow, "s1r entry", err))
		return
	}
	value := s1r.PackValue(loc.FileOffset, loc.NumRecords)

	w.mu.Lock()
	defer w.mu.Unlock()
	meta := w.pending[0]
	w.pending = w.pending[1:]
	if !w.chromSeen[meta.chrom] {
		w.chromSeen[meta.chrom] = true
		w.chromOrder = append(w.chromOrder, meta.chrom)
	}
	entry := s1r.LeafEntry{Begin: meta.minPos, Length: meta.maxPos - meta.minPos, Value: value}
	w.entries[meta.chrom] = append(w.entries[meta.chrom], entry)
}

// Close flushes any buffered frame, finalizes the recordio stream, and,
// if a sidecar was supplied to NewWriter, builds and writes the S1R
// forest over every chromosome observed, in first-seen order. Calls after
// the first do no further work and return the first error, if any.
func (w *Writer) Close() error {
	if w.closed {
		return w.err.Err()
	}
	w.closed = true
	if err := w.flushFrame(); err != nil {
		w.err.Set(err)
	}
	if err := w.fw.Finish(); err != nil {
		w.err.Set(wrap(Io, "finishing frame stream", err))
	}
	w.pool.Finish()
	if err := w.err.Err(); err != nil {
		return err
	}
	if w.s1rEnabled {
		trees := make([]s1r.ChromTree, len(w.chromOrder))
		for i, name := range w.chromOrder {
			trees[i] = s1r.ChromTree{Name: name, Entries: w.entries[name]}
		}
		if err := s1r.Write(w.sidecar, trees, w.opts.S1RBlockSizeKiB1); err != nil {
			return wrap(Io, "writing s1r sidecar", err)
		}
	}
	return nil
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error { return w.err.Err() }
