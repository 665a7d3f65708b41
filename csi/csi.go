package csi

import (
	"bufio"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io"
	"sort"

	"github.com/biogo/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// ErrCorruptIndex is returned when the CSI magic or framing is invalid.
var ErrCorruptIndex = stderrors.New("csi: corrupt index")

var magic = [4]byte{'C', 'S', 'I', 0x01}

type chunk struct {
	begin, end uint64
}

type bin struct {
	id      uint32
	loffset uint64
	chunks  []chunk
}

type refIndex struct {
	bins map[uint32]bin
}

// Index is a parsed CSI file: per-reference bin-to-chunk maps, plus the
// min_shift/depth parameters that define the binning scheme used to
// translate a query interval into candidate bin IDs.
type Index struct {
	MinShift int32
	Depth    int32
	Aux      []byte
	refs     []refIndex
}

// Read parses a CSI index from r. CSI files are themselves BGZF (equal
// to plain gzip for a reading decoder), the same framing
// github.com/biogo/hts/bgzf produces for the data file it indexes.
func Read(r io.Reader) (*Index, error) {
	gz, err := gzip.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("csi: %w", err)
	}
	defer gz.Close()

	var got [4]byte
	if _, err := io.ReadFull(gz, got[:]); err != nil {
		return nil, ErrCorruptIndex
	}
	if got != magic {
		return nil, ErrCorruptIndex
	}

	idx := &Index{}
	if err := readInt32(gz, &idx.MinShift); err != nil {
		return nil, err
	}
	if err := readInt32(gz, &idx.Depth); err != nil {
		return nil, err
	}
	var lAux int32
	if err := readInt32(gz, &lAux); err != nil {
		return nil, err
	}
	if lAux < 0 {
		return nil, ErrCorruptIndex
	}
	idx.Aux = make([]byte, lAux)
	if _, err := io.ReadFull(gz, idx.Aux); err != nil {
		return nil, ErrCorruptIndex
	}

	var nRef int32
	if err := readInt32(gz, &nRef); err != nil {
		return nil, err
	}
	idx.refs = make([]refIndex, nRef)
	for i := range idx.refs {
		ref, err := readRefIndex(gz)
		if err != nil {
			return nil, err
		}
		idx.refs[i] = ref
	}
	return idx, nil
}

func readRefIndex(r io.Reader) (refIndex, error) {
	var nBin int32
	if err := readInt32(r, &nBin); err != nil {
		return refIndex{}, err
	}
	if nBin < 0 {
		return refIndex{}, ErrCorruptIndex
	}
	ref := refIndex{bins: make(map[uint32]bin, nBin)}
	for i := int32(0); i < nBin; i++ {
		var b bin
		if err := binary.Read(r, binary.LittleEndian, &b.id); err != nil {
			return refIndex{}, ErrCorruptIndex
		}
		if err := binary.Read(r, binary.LittleEndian, &b.loffset); err != nil {
			return refIndex{}, ErrCorruptIndex
		}
		var nChunk int32
		if err := readInt32(r, &nChunk); err != nil {
			return refIndex{}, err
		}
		if nChunk < 0 {
			return refIndex{}, ErrCorruptIndex
		}
		b.chunks = make([]chunk, nChunk)
		for c := range b.chunks {
			if err := binary.Read(r, binary.LittleEndian, &b.chunks[c].begin); err != nil {
				return refIndex{}, ErrCorruptIndex
			}
			if err := binary.Read(r, binary.LittleEndian, &b.chunks[c].end); err != nil {
				return refIndex{}, ErrCorruptIndex
			}
		}
		ref.bins[b.id] = b
	}
	return ref, nil
}

func readInt32(r io.Reader, v *int32) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return ErrCorruptIndex
	}
	return nil
}

// pseudoBin returns the reserved bin ID used for the unmapped-reads
// placeholder at the given depth, one past the real bin count (real bin
// IDs run from 0 to count-1).
func pseudoBin(depth int32) uint32 {
	return uint32((int64(1)<<(3*(depth+1))-1)/7) + 1
}

// reg2bins returns the candidate bin IDs whose hierarchical interval
// overlaps [begin, end), per the generalized binning scheme shared by
// BAI (fixed min_shift=14, depth=5) and CSI (variable min_shift, depth).
func reg2bins(begin, end uint64, minShift, depth int32) []uint32 {
	if begin >= end {
		return nil
	}
	maxPos := uint64(1) << uint(minShift+depth*3)
	if end > maxPos {
		end = maxPos
	}
	end--
	var bins []uint32
	t := uint32(0)
	s := uint(minShift + depth*3)
	for l := int32(0); l <= depth; l++ {
		b := t + uint32(begin>>s)
		e := t + uint32(end>>s)
		for ; b <= e; b++ {
			bins = append(bins, b)
		}
		t += uint32(1) << uint(3*l)
		s -= 3
	}
	return bins
}

// Offset is a chunk's begin/end virtual file offsets, in the same
// (coffset<<16 | uoffset) packing bgzf uses.
type Offset = bgzf.Offset

// toOffset unpacks a (coffset<<16 | uoffset) virtual offset into a
// bgzf.Offset.
func toOffset(v uint64) bgzf.Offset {
	return bgzf.Offset{File: int64(v >> 16), Block: uint16(v & 0xffff)}
}

// Query returns the list of bgzf virtual-offset chunks, sorted by begin
// offset (overlapping chunks are not merged), that may contain records on reference refID
// overlapping the half-open interval [begin, end). refID indexes
// Index.refs in file declaration order. It returns (nil, nil) if refID
// is out of range or the reference has no bins.
func (idx *Index) Query(refID int, begin, end uint64) ([][2]bgzf.Offset, error) {
	if refID < 0 || refID >= len(idx.refs) {
		return nil, nil
	}
	ref := idx.refs[refID]
	pb := pseudoBin(idx.Depth)
	var chunks []chunk
	for _, id := range reg2bins(begin, end, idx.MinShift, idx.Depth) {
		if id == pb {
			continue
		}
		if b, ok := ref.bins[id]; ok {
			chunks = append(chunks, b.chunks...)
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].begin < chunks[j].begin })

	out := make([][2]bgzf.Offset, len(chunks))
	for i, c := range chunks {
		out[i] = [2]bgzf.Offset{toOffset(c.begin), toOffset(c.end)}
	}
	return out, nil
}
