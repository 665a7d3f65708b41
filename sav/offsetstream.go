package sav

import (
	"fmt"
	"io"
)

// offsetStream adapts a DataSource so that seek offset 0 lands on base
// bytes into the underlying stream, letting the frame stream (everything
// recordio reads/writes) share a file with the SAV text header without
// recordio needing any notion of a header. The writer side needs no such
// adapter since it only ever writes forward past the header bytes it has
// already emitted.
type offsetStream struct {
	under DataSource
	base  int64
}

func newOffsetStream(under DataSource, base int64) *offsetStream {
	return &offsetStream{under: under, base: base}
}

func (o *offsetStream) Read(p []byte) (int, error) { return o.under.Read(p) }

func (o *offsetStream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		pos, err := o.under.Seek(o.base+offset, io.SeekStart)
		if err != nil {
			return 0, err
		}
		return pos - o.base, nil
	case io.SeekCurrent:
		pos, err := o.under.Seek(offset, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		return pos - o.base, nil
	case io.SeekEnd:
		pos, err := o.under.Seek(offset, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		return pos - o.base, nil
	default:
		return 0, fmt.Errorf("sav: invalid seek whence %d", whence)
	}
}
