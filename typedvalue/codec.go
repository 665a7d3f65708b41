package typedvalue

import (
	stderrors "errors"
)

// ErrTruncated is returned when a declared length exceeds the bytes
// remaining in the input.
var ErrTruncated = stderrors.New("typedvalue: truncated record")

// ErrUnknownType is returned when a header byte's type-code nibble falls
// outside {1..8}.
var ErrUnknownType = stderrors.New("typedvalue: unknown type code")

// ErrSparseOffsets is returned when a sparse value's offsets are not
// strictly increasing or run off the end of the declared logical length.
var ErrSparseOffsets = stderrors.New("typedvalue: sparse offsets not monotone")

const lenEscape = 15

// EncodeInt64 serializes n as a typed_int64: a header byte naming the
// narrowest integer width that can hold n (treating that width's missing
// sentinel as unavailable), followed by n in that width, little-endian.
func EncodeInt64(n int64) []byte {
	t := narrowestInt(n)
	w := &writeBuffer{}
	w.PutByte(byte(1<<4) | byte(t))
	putIntWidth(w, t, n)
	return w.Bytes()
}

func narrowestInt(n int64) Type {
	for _, t := range [...]Type{Int8, Int16, Int32, Int64} {
		width := t.Width()
		lo := MissingInt(width)
		hi := -lo - 1
		if n >= lo+1 && n <= hi && n != lo {
			return t
		}
	}
	return Int64
}

// DecodeInt64 reads a typed_int64 from the front of buf, returning the
// value and the number of bytes consumed.
func DecodeInt64(buf []byte) (int64, int, error) {
	if len(buf) == 0 {
		return 0, 0, ErrTruncated
	}
	header := buf[0]
	t := Type(header & 0x0f)
	if !t.IsInt() {
		return 0, 0, ErrUnknownType
	}
	w := t.Width()
	if len(buf) < 1+w {
		return 0, 0, ErrTruncated
	}
	return getIntWidth(t, buf[1:1+w]), 1 + w, nil
}

// Serialize appends v's wire encoding to dst and returns the result.
func Serialize(v Value, dst []byte) []byte {
	w := &writeBuffer{buf: dst}
	lenNibble := v.Len
	if lenNibble > lenEscape {
		lenNibble = lenEscape
	}
	w.PutByte(byte(lenNibble<<4) | byte(v.Type()))
	if v.Len >= lenEscape {
		w.PutBytes(EncodeInt64(int64(v.Len)))
	}
	if v.Sparse != nil {
		w.PutByte(byte(v.Sparse.OffType)<<4 | byte(v.Sparse.Val.Type))
		w.PutBytes(EncodeInt64(int64(len(v.Sparse.Offsets))))
		for _, off := range v.Sparse.Offsets {
			putUintWidth(w, v.Sparse.OffType, off)
		}
		w.PutBytes(v.Sparse.Val.Bytes)
		return w.Bytes()
	}
	w.PutBytes(v.Dense.Bytes)
	return w.Bytes()
}

func putUintWidth(w *writeBuffer, t Type, x uint64) {
	switch t {
	case Int8:
		w.PutByte(byte(x))
	case Int16:
		w.PutUint16(uint16(x))
	case Int32:
		w.PutUint32(uint32(x))
	case Int64:
		w.PutUint64(x)
	default:
		panic("typedvalue: not an integer type")
	}
}

func getUintWidth(t Type, b []byte) uint64 {
	switch t {
	case Int8:
		return uint64(b[0])
	case Int16:
		return uint64(leUint16(b))
	case Int32:
		return uint64(leUint32(b))
	case Int64:
		return leUint64(b)
	default:
		panic("typedvalue: not an integer type")
	}
}

// Deserialize reads one typed value from the front of buf, returning it
// and the number of bytes consumed. It fails with ErrTruncated if a
// declared length exceeds the remaining input, with ErrUnknownType if the
// type nibble is outside {1..8}, and with ErrSparseOffsets if a sparse
// value's offsets are not strictly increasing and bounded by its logical
// length.
func Deserialize(buf []byte) (Value, int, error) {
	c := &readCursor{buf: buf}
	header, ok := c.byte()
	if !ok {
		return Value{}, 0, ErrTruncated
	}
	t := Type(header & 0x0f)
	if !t.Valid() {
		return Value{}, 0, ErrUnknownType
	}
	length := int(header >> 4)
	if length == lenEscape {
		n, consumed, err := decodeInt64Cursor(c)
		if err != nil {
			return Value{}, 0, err
		}
		_ = consumed
		length = int(n)
	}

	if t != Sparse {
		body, ok := c.take(denseByteLen(t, length))
		if !ok {
			return Value{}, 0, ErrTruncated
		}
		return Value{Len: length, Dense: &denseData{Type: t, Bytes: append([]byte(nil), body...)}}, c.pos, nil
	}

	subHeader, ok := c.byte()
	if !ok {
		return Value{}, 0, ErrTruncated
	}
	offType := Type(subHeader >> 4)
	valType := Type(subHeader & 0x0f)
	if !offType.IsInt() || !valType.Valid() || valType == Sparse {
		return Value{}, 0, ErrUnknownType
	}
	k64, _, err := decodeInt64Cursor(c)
	if err != nil {
		return Value{}, 0, err
	}
	k := int(k64)

	offsets := make([]uint64, k)
	offW := offType.Width()
	var prev uint64
	first := true
	for i := 0; i < k; i++ {
		b, ok := c.take(offW)
		if !ok {
			return Value{}, 0, ErrTruncated
		}
		off := getUintWidth(offType, b)
		if !first && off <= prev {
			return Value{}, 0, ErrSparseOffsets
		}
		if off >= uint64(length) {
			return Value{}, 0, ErrSparseOffsets
		}
		offsets[i] = off
		prev = off
		first = false
	}
	valBody, ok := c.take(denseByteLen(valType, k))
	if !ok {
		return Value{}, 0, ErrTruncated
	}
	return Value{
		Len: length,
		Sparse: &sparseData{
			OffType: offType,
			Offsets: offsets,
			Val:     denseData{Type: valType, Bytes: append([]byte(nil), valBody...)},
		},
	}, c.pos, nil
}

func decodeInt64Cursor(c *readCursor) (int64, int, error) {
	n, consumed, err := DecodeInt64(c.buf[c.pos:])
	if err != nil {
		return 0, 0, err
	}
	c.pos += consumed
	return n, consumed, nil
}

func denseByteLen(t Type, length int) int {
	if t == String {
		return length
	}
	return length * t.Width()
}

// SerializedLen returns the number of bytes Serialize(v, nil) would
// produce, without materializing them -- used by minimize to compare the
// dense and sparse encoding sizes.
func SerializedLen(v Value) int {
	n := 1
	if v.Len >= lenEscape {
		n += len(EncodeInt64(int64(v.Len)))
	}
	if v.Sparse != nil {
		n++ // sub-header
		n += len(EncodeInt64(int64(len(v.Sparse.Offsets))))
		n += len(v.Sparse.Offsets) * v.Sparse.OffType.Width()
		n += len(v.Sparse.Val.Bytes)
		return n
	}
	n += len(v.Dense.Bytes)
	return n
}
