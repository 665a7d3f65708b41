package s1r

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"io"
)

// Magic is the 7-byte S1R file magic.
var Magic = [7]byte{'s', '1', 'r', 0x00, 0x01, 0x00, 0x00}

// ErrCorruptHeader is returned when the magic, a chromosome name length,
// or the header's overall framing is inconsistent.
var ErrCorruptHeader = stderrors.New("s1r: corrupt header")

// SortOrder is the header's sort-tie-break byte; the writer in this
// package always emits Midpoint.
type SortOrder byte

// Sort tie-break orders.
const (
	Midpoint SortOrder = 0x00
	Left     SortOrder = 0x10
	Right    SortOrder = 0x01
)

// ChromHeader is one chromosome's entry in the file header's bucket list.
type ChromHeader struct {
	Name       string
	EntryCount uint64
}

// Header is the S1R file header (block 0 and beyond, if the chromosome
// list overflows one block).
type Header struct {
	UUID          [16]byte
	Sort          SortOrder
	BlockSizeKiB1 byte
	Chromosomes   []ChromHeader
}

// BlockSize returns the header's block size in bytes.
func (h Header) BlockSize() int { return BlockSize(h.BlockSizeKiB1) }

// Encode serializes the header, padded with zeroes to a whole number of
// blocks, and returns the bytes plus how many blocks they occupy.
func (h Header) Encode() ([]byte, int) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.Write(h.UUID[:])
	buf.WriteByte(byte(h.Sort))
	buf.WriteByte(h.BlockSizeKiB1)
	for _, c := range h.Chromosomes {
		if len(c.Name) == 0 || len(c.Name) > 255 {
			panic("s1r: chromosome name must be 1-255 bytes")
		}
		buf.WriteByte(byte(len(c.Name)))
		buf.WriteString(c.Name)
		var countBuf [8]byte
		binary.BigEndian.PutUint64(countBuf[:], c.EntryCount)
		buf.Write(countBuf[:])
	}
	buf.WriteByte(0) // terminator: zero-length name

	blockSize := h.BlockSize()
	nBlocks := ceilDiv(buf.Len(), blockSize)
	out := make([]byte, nBlocks*blockSize)
	copy(out, buf.Bytes())
	return out, nBlocks
}

// DecodeHeader reads a Header from r, which must be positioned at the
// start of the file. It returns the header and the number of blocks it
// occupies (the absolute block offset at which chromosome trees begin).
func DecodeHeader(r io.Reader) (Header, int, error) {
	var fixed [7 + 16 + 1 + 1]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, 0, ErrCorruptHeader
	}
	if !bytes.Equal(fixed[:7], Magic[:]) {
		return Header{}, 0, ErrCorruptHeader
	}
	var h Header
	copy(h.UUID[:], fixed[7:23])
	h.Sort = SortOrder(fixed[23])
	h.BlockSizeKiB1 = fixed[24]

	consumed := len(fixed)
	for {
		var nameLen [1]byte
		if _, err := io.ReadFull(r, nameLen[:]); err != nil {
			return Header{}, 0, ErrCorruptHeader
		}
		consumed++
		if nameLen[0] == 0 {
			break
		}
		name := make([]byte, nameLen[0])
		if _, err := io.ReadFull(r, name); err != nil {
			return Header{}, 0, ErrCorruptHeader
		}
		consumed += len(name)
		var countBuf [8]byte
		if _, err := io.ReadFull(r, countBuf[:]); err != nil {
			return Header{}, 0, ErrCorruptHeader
		}
		consumed += 8
		h.Chromosomes = append(h.Chromosomes, ChromHeader{
			Name:       string(name),
			EntryCount: binary.BigEndian.Uint64(countBuf[:]),
		})
	}

	blockSize := h.BlockSize()
	nBlocks := ceilDiv(consumed, blockSize)
	if pad := nBlocks*blockSize - consumed; pad > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
			return Header{}, 0, ErrCorruptHeader
		}
	}
	return h, nBlocks, nil
}
