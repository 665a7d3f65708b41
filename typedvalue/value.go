package typedvalue

import (
	gunsafe "github.com/grailbio/base/unsafe"
)

// denseData is the dense physical encoding of a typed value: Len elements
// (or, for String, Len raw bytes) of Type packed little-endian back to
// back.
type denseData struct {
	Type  Type
	Bytes []byte
}

// sparseData is the sparse physical encoding: K strictly-increasing
// absolute offsets (each < the owning Value's logical length) paired with
// K values.
type sparseData struct {
	OffType Type
	Offsets []uint64
	Val     denseData // Val.Type is the sparse sub-header's VAL_TYPE; len(Offsets) == K
}

// Value is a self-describing scalar or vector: a tagged union of a dense
// physical encoding and a sparse one, per the wire format's HEADER_BYTE
// type code. Exactly one of Dense/Sparse is non-nil.
type Value struct {
	Len    int // logical length: element count (numeric), byte count (string), or dense count (sparse)
	Dense  *denseData
	Sparse *sparseData
}

// Type returns the value's outer wire type code.
func (v Value) Type() Type {
	if v.Sparse != nil {
		return Sparse
	}
	if v.Dense != nil {
		return v.Dense.Type
	}
	return 0
}

// IsSparse reports whether v is physically sparse.
func (v Value) IsSparse() bool { return v.Sparse != nil }

// NewDenseInt builds a dense integer vector of the given width (Int8,
// Int16, Int32, or Int64), truncating each element to that width.
func NewDenseInt(t Type, vals []int64) Value {
	if !t.IsInt() {
		panic("typedvalue: NewDenseInt requires an integer type")
	}
	w := &writeBuffer{}
	for _, x := range vals {
		putIntWidth(w, t, x)
	}
	return Value{Len: len(vals), Dense: &denseData{Type: t, Bytes: w.Bytes()}}
}

// NewDenseFloat32 builds a dense float32 vector.
func NewDenseFloat32(vals []float32) Value {
	w := &writeBuffer{}
	for _, x := range vals {
		w.PutFloat32(x)
	}
	return Value{Len: len(vals), Dense: &denseData{Type: Float32, Bytes: w.Bytes()}}
}

// NewDenseFloat64 builds a dense float64 vector.
func NewDenseFloat64(vals []float64) Value {
	w := &writeBuffer{}
	for _, x := range vals {
		w.PutFloat64(x)
	}
	return Value{Len: len(vals), Dense: &denseData{Type: Float64, Bytes: w.Bytes()}}
}

// NewString builds a UTF-8 string value. The empty string is stored as
// zero bytes; callers implementing the site-info "." <-> "" mapping do so
// above this layer.
func NewString(s string) Value {
	return Value{Len: len(s), Dense: &denseData{Type: String, Bytes: []byte(s)}}
}

// NewMissingString builds the reserved single-byte missing string value.
func NewMissingString() Value {
	return Value{Len: 1, Dense: &denseData{Type: String, Bytes: []byte{MissingStringByte}}}
}

// IsMissingString reports whether v is bit-exactly the reserved missing
// string sentinel.
func IsMissingString(v Value) bool {
	return v.Dense != nil && v.Dense.Type == String && v.Len == 1 && v.Dense.Bytes[0] == MissingStringByte
}

// NewSparseInt builds a sparse integer vector: length elements total,
// non-zero at the given offsets (strictly increasing, each < length).
func NewSparseInt(offType, valType Type, length int, offsets []uint64, vals []int64) Value {
	if len(offsets) != len(vals) {
		panic("typedvalue: offsets/vals length mismatch")
	}
	w := &writeBuffer{}
	for _, x := range vals {
		putIntWidth(w, valType, x)
	}
	return Value{
		Len: length,
		Sparse: &sparseData{
			OffType: offType,
			Offsets: append([]uint64(nil), offsets...),
			Val:     denseData{Type: valType, Bytes: w.Bytes()},
		},
	}
}

// NewSparseFloat32 builds a sparse float32 vector.
func NewSparseFloat32(offType Type, length int, offsets []uint64, vals []float32) Value {
	if len(offsets) != len(vals) {
		panic("typedvalue: offsets/vals length mismatch")
	}
	w := &writeBuffer{}
	for _, x := range vals {
		w.PutFloat32(x)
	}
	return Value{
		Len: length,
		Sparse: &sparseData{
			OffType: offType,
			Offsets: append([]uint64(nil), offsets...),
			Val:     denseData{Type: Float32, Bytes: w.Bytes()},
		},
	}
}

// NewSparseFloat64 builds a sparse float64 vector.
func NewSparseFloat64(offType Type, length int, offsets []uint64, vals []float64) Value {
	if len(offsets) != len(vals) {
		panic("typedvalue: offsets/vals length mismatch")
	}
	w := &writeBuffer{}
	for _, x := range vals {
		w.PutFloat64(x)
	}
	return Value{
		Len: length,
		Sparse: &sparseData{
			OffType: offType,
			Offsets: append([]uint64(nil), offsets...),
			Val:     denseData{Type: Float64, Bytes: w.Bytes()},
		},
	}
}

func putIntWidth(w *writeBuffer, t Type, x int64) {
	switch t {
	case Int8:
		w.PutByte(byte(int8(x)))
	case Int16:
		w.PutUint16(uint16(int16(x)))
	case Int32:
		w.PutUint32(uint32(int32(x)))
	case Int64:
		w.PutUint64(uint64(x))
	default:
		panic("typedvalue: not an integer type")
	}
}

func getIntWidth(t Type, b []byte) int64 {
	switch t {
	case Int8:
		return int64(int8(b[0]))
	case Int16:
		return int64(int16(leUint16(b)))
	case Int32:
		return int64(int32(leUint32(b)))
	case Int64:
		return int64(leUint64(b))
	default:
		panic("typedvalue: not an integer type")
	}
}

// Ints decodes a dense integer Value into a widened []int64 slice. It
// panics if v is not a dense integer value; callers crossing from sparse
// should call ToDenseInts instead.
func (v Value) Ints() []int64 {
	if v.Dense == nil || !v.Dense.Type.IsInt() {
		panic("typedvalue: Ints on non-integer value")
	}
	w := v.Dense.Type.Width()
	out := make([]int64, v.Len)
	for i := 0; i < v.Len; i++ {
		out[i] = getIntWidth(v.Dense.Type, v.Dense.Bytes[i*w:(i+1)*w])
	}
	return out
}

// Float32s decodes a dense float32 Value.
func (v Value) Float32s() []float32 {
	if v.Dense == nil || v.Dense.Type != Float32 {
		panic("typedvalue: Float32s on non-float32 value")
	}
	out := make([]float32, v.Len)
	for i := 0; i < v.Len; i++ {
		out[i] = float32frombits(leUint32(v.Dense.Bytes[i*4 : i*4+4]))
	}
	return out
}

// Float64s decodes a dense float64 Value.
func (v Value) Float64s() []float64 {
	if v.Dense == nil || v.Dense.Type != Float64 {
		panic("typedvalue: Float64s on non-float64 value")
	}
	out := make([]float64, v.Len)
	for i := 0; i < v.Len; i++ {
		out[i] = float64frombits(leUint64(v.Dense.Bytes[i*8 : i*8+8]))
	}
	return out
}

// Str decodes a dense string Value.
func (v Value) Str() string {
	if v.Dense == nil || v.Dense.Type != String {
		panic("typedvalue: Str on non-string value")
	}
	return gunsafe.BytesToString(v.Dense.Bytes)
}

// ToDenseInts materializes any integer Value (dense or sparse) into a full
// []int64 of length v.Len, with zero at every position not explicitly
// stored.
func (v Value) ToDenseInts() []int64 {
	if v.Dense != nil {
		return v.Ints()
	}
	out := make([]int64, v.Len)
	w := v.Sparse.Val.Type.Width()
	for i, off := range v.Sparse.Offsets {
		out[off] = getIntWidth(v.Sparse.Val.Type, v.Sparse.Val.Bytes[i*w:(i+1)*w])
	}
	return out
}

// ToDenseFloat32s materializes any float32 Value into a full []float32.
func (v Value) ToDenseFloat32s() []float32 {
	if v.Dense != nil {
		return v.Float32s()
	}
	out := make([]float32, v.Len)
	for i, off := range v.Sparse.Offsets {
		out[off] = float32frombits(leUint32(v.Sparse.Val.Bytes[i*4 : i*4+4]))
	}
	return out
}

// ToDenseFloat64s materializes any float64 Value into a full []float64.
func (v Value) ToDenseFloat64s() []float64 {
	if v.Dense != nil {
		return v.Float64s()
	}
	out := make([]float64, v.Len)
	for i, off := range v.Sparse.Offsets {
		out[off] = float64frombits(leUint64(v.Sparse.Val.Bytes[i*8 : i*8+8]))
	}
	return out
}
