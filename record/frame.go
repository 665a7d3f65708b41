package record

import (
	"encoding/binary"
	"io"
)

// WriteFrame writes one record's framing: a u32 shared-block size, a u32
// individual-block size, then the two blocks back to back.
func WriteFrame(w io.Writer, shared, individual []byte) error {
	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:4], uint32(len(shared)))
	binary.LittleEndian.PutUint32(sizes[4:8], uint32(len(individual)))
	if _, err := w.Write(sizes[:]); err != nil {
		return err
	}
	if _, err := w.Write(shared); err != nil {
		return err
	}
	_, err := w.Write(individual)
	return err
}

// AppendFrame appends one record's framing to buf, returning the grown
// slice. It is the in-memory counterpart of WriteFrame, used by the
// writer driver to accumulate a whole frame's worth of records into one
// buffer before handing it to recordio as a single item.
func AppendFrame(buf []byte, shared, individual []byte) []byte {
	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:4], uint32(len(shared)))
	binary.LittleEndian.PutUint32(sizes[4:8], uint32(len(individual)))
	buf = append(buf, sizes[:]...)
	buf = append(buf, shared...)
	buf = append(buf, individual...)
	return buf
}

// ReadFrame reads one record's framing from r and returns the shared and
// individual block bytes. It returns io.EOF (unwrapped) if r is at a
// clean frame boundary with nothing left to read, and ErrTruncated if a
// frame header is partially present or a declared block is short.
func ReadFrame(r io.Reader) (shared, individual []byte, err error) {
	var sizes [8]byte
	if _, err := io.ReadFull(r, sizes[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, nil, ErrTruncated
		}
		return nil, nil, err
	}
	sharedSize := binary.LittleEndian.Uint32(sizes[0:4])
	individualSize := binary.LittleEndian.Uint32(sizes[4:8])

	shared = make([]byte, sharedSize)
	if _, err := io.ReadFull(r, shared); err != nil {
		return nil, nil, ErrTruncated
	}
	individual = make([]byte, individualSize)
	if _, err := io.ReadFull(r, individual); err != nil {
		return nil, nil, ErrTruncated
	}
	return shared, individual, nil
}
