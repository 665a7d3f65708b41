package typedvalue

import "math"

// Type is the wire-level value-type tag. It occupies the low 4 bits of a
// typed value's header byte.
type Type byte

// Type codes, fixed by the wire format.
const (
	Int8    Type = 1
	Int16   Type = 2
	Int32   Type = 3
	Int64   Type = 4
	Float32 Type = 5
	Float64 Type = 6
	String  Type = 7
	Sparse  Type = 8
)

// Width returns the on-wire byte width of one dense element of t. It panics
// for String and Sparse, which have no fixed per-element width.
func (t Type) Width() int {
	switch t {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		panic("typedvalue: type has no fixed width")
	}
}

// IsInt reports whether t is one of the signed integer types.
func (t Type) IsInt() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// Valid reports whether t is one of the eight defined type codes.
func (t Type) Valid() bool {
	return t >= Int8 && t <= Sparse
}

func (t Type) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// MissingInt returns the reserved "missing" sentinel for a signed integer
// of the given byte width: -2^(width*8-1), i.e. the type's most negative
// representable value.
func MissingInt(width int) int64 {
	return -(int64(1) << uint(width*8-1))
}

// missingFloat32Bits / endOfVectorFloat32Bits are the two reserved NaN bit
// patterns for float32: significand 0x000001 means "missing", 0x000002 is a
// reserved "end-of-vector" marker that the core only ever passes through.
const (
	missingFloat32Bits     uint32 = 0x7fc00001
	endOfVectorFloat32Bits uint32 = 0x7fc00002
	missingFloat64Bits     uint64 = 0x7ff8000000000001
	endOfVectorFloat64Bits uint64 = 0x7ff8000000000002
)

// MissingFloat32 returns the reserved float32 "missing" sentinel.
func MissingFloat32() float32 { return math.Float32frombits(missingFloat32Bits) }

// MissingFloat64 returns the reserved float64 "missing" sentinel.
func MissingFloat64() float64 { return math.Float64frombits(missingFloat64Bits) }

// IsMissingFloat32 reports whether v is bit-exactly the "missing" sentinel.
func IsMissingFloat32(v float32) bool { return math.Float32bits(v) == missingFloat32Bits }

// IsMissingFloat64 reports whether v is bit-exactly the "missing" sentinel.
func IsMissingFloat64(v float64) bool { return math.Float64bits(v) == missingFloat64Bits }

// IsEndOfVectorFloat32 reports whether v is the reserved end-of-vector NaN.
func IsEndOfVectorFloat32(v float32) bool { return math.Float32bits(v) == endOfVectorFloat32Bits }

// IsEndOfVectorFloat64 reports whether v is the reserved end-of-vector NaN.
func IsEndOfVectorFloat64(v float64) bool { return math.Float64bits(v) == endOfVectorFloat64Bits }

// MissingStringByte is the single-byte string body that denotes a missing
// string value.
const MissingStringByte byte = 0x07
