package record

import (
	"io"

	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

// FrameLocation reports where one appended frame landed in the underlying
// recordio stream. FileOffset is the value an S1R leaf entry packs via
// s1r.PackValue.
type FrameLocation struct {
	FileOffset uint64
	NumRecords int
}

// FrameWriter batches whole frames of already zstd-block-sized record
// bytes into one recordio item per frame: one item is a complete
// sequence of WriteFrame-encoded records.
type FrameWriter struct {
	rio     recordio.Writer
	onIndex func(FrameLocation)
}

// frameItem is the value passed through recordio.Append: recordio may
// flush items asynchronously (MaxFlushParallelism), so numRecords must
// travel with its frame bytes rather than live in a field FrameWriter
// mutates between Append calls. release, if non-nil, is invoked once the
// frame's bytes are no longer needed by recordio (from the Index
// callback), letting the caller return a pooled buffer.
type frameItem struct {
	bytes      []byte
	numRecords int
	release    func()
}

// NewFrameWriter wraps w in a recordio stream using transformers (e.g.
// {"zstd"}). onIndex, if non-nil, is invoked once per appended frame once
// recordio has assigned it a location.
func NewFrameWriter(w io.Writer, transformers []string, onIndex func(FrameLocation)) *FrameWriter {
	fw := &FrameWriter{onIndex: onIndex}
	fw.rio = recordio.NewWriter(w, recordio.WriterOpts{
		Transformers: transformers,
		Marshal:      fw.marshal,
		Index:        fw.index,
	})
	return fw
}

func (fw *FrameWriter) marshal(scratch []byte, v interface{}) ([]byte, error) {
	return v.(*frameItem).bytes, nil
}

func (fw *FrameWriter) index(loc recordio.ItemLocation, v interface{}) error {
	item := v.(*frameItem)
	if fw.onIndex != nil {
		fw.onIndex(FrameLocation{FileOffset: loc.Block, NumRecords: item.numRecords})
	}
	if item.release != nil {
		item.release()
	}
	return nil
}

// Append writes one frame -- the concatenation of numRecords
// WriteFrame-encoded records -- as a single recordio item. release, if
// non-nil, is called once recordio has finished with frame's bytes.
func (fw *FrameWriter) Append(frame []byte, numRecords int, release func()) {
	fw.rio.Append(&frameItem{bytes: frame, numRecords: numRecords, release: release})
}

// Finish flushes any buffered item and closes the recordio stream. It
// must be called exactly once.
func (fw *FrameWriter) Finish() error { return fw.rio.Finish() }

// FrameReader reads frames back from a recordio stream written by
// FrameWriter, one item (= one zstd-compressed frame) at a time.
type FrameReader struct {
	rio recordio.Scanner
}

// NewFrameReader wraps r in a recordio scanner.
func NewFrameReader(r io.ReadSeeker) *FrameReader {
	return &FrameReader{rio: recordio.NewScanner(r, recordio.ScannerOpts{})}
}

// Scan advances to the next frame, returning false at EOF or on error.
func (fr *FrameReader) Scan() bool { return fr.rio.Scan() }

// Bytes returns the current frame's raw (decompressed) bytes.
func (fr *FrameReader) Bytes() []byte { return fr.rio.Get().([]byte) }

// Err returns the first error the scanner encountered, if any.
func (fr *FrameReader) Err() error { return fr.rio.Err() }

// Finish releases resources held by the scanner. Must be called exactly
// once.
func (fr *FrameReader) Finish() error { return fr.rio.Finish() }

// Seek repositions the scanner at the frame whose recordio item begins at
// fileOffset -- the value s1r.UnpackValue resolves a query to. The next
// Scan call yields that frame; a bad offset surfaces through Err.
func (fr *FrameReader) Seek(fileOffset uint64) {
	fr.rio.Seek(recordio.ItemLocation{Block: fileOffset, Item: 0})
}

func init() { recordiozstd.Init() }
