package s1r

import "encoding/binary"

// LeafEntrySize is the on-wire size of one leaf entry: region_begin (u64),
// region_length (u64), value (u64), big-endian.
const LeafEntrySize = 24

// InternalEntrySize is the on-wire size of one internal entry:
// region_begin (u64), region_length (u64), big-endian.
const InternalEntrySize = 16

// LeafEntry is one data-bearing entry at the bottom of a tree: an interval
// plus the opaque value it indexes (for SAV, the packed frame locator).
type LeafEntry struct {
	Begin  uint64
	Length uint64
	Value  uint64
}

// End returns the entry's inclusive right bound.
func (e LeafEntry) End() uint64 { return e.Begin + e.Length }

func (e LeafEntry) encode(dst []byte) {
	binary.BigEndian.PutUint64(dst[0:8], e.Begin)
	binary.BigEndian.PutUint64(dst[8:16], e.Length)
	binary.BigEndian.PutUint64(dst[16:24], e.Value)
}

func decodeLeafEntry(src []byte) LeafEntry {
	return LeafEntry{
		Begin:  binary.BigEndian.Uint64(src[0:8]),
		Length: binary.BigEndian.Uint64(src[8:16]),
		Value:  binary.BigEndian.Uint64(src[16:24]),
	}
}

// internalEntry bounds one child subtree: the union of that subtree's
// descendant leaf intervals.
type internalEntry struct {
	Begin  uint64
	Length uint64
}

func (e internalEntry) End() uint64 { return e.Begin + e.Length }

func (e internalEntry) encode(dst []byte) {
	binary.BigEndian.PutUint64(dst[0:8], e.Begin)
	binary.BigEndian.PutUint64(dst[8:16], e.Length)
}

func decodeInternalEntry(src []byte) internalEntry {
	return internalEntry{
		Begin:  binary.BigEndian.Uint64(src[0:8]),
		Length: binary.BigEndian.Uint64(src[8:16]),
	}
}

// PackValue packs a SAV frame locator into the 64-bit leaf entry value:
// the frame's file offset in the high 48 bits, and (records_in_frame - 1)
// in the low 16 bits.
func PackValue(fileOffset uint64, recordsInFrame int) uint64 {
	if fileOffset >= 1<<48 {
		panic("s1r: file offset exceeds 2^48")
	}
	if recordsInFrame <= 0 || recordsInFrame > 1<<16 {
		panic("s1r: records-in-frame out of range")
	}
	return fileOffset<<16 | uint64(recordsInFrame-1)
}

// UnpackValue is the inverse of PackValue.
func UnpackValue(v uint64) (fileOffset uint64, recordsInFrame int) {
	return v >> 16, int(v&0xffff) + 1
}
