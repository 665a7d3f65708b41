package record

import (
	"encoding/binary"
	"math"
)

func float32bits(v float32) uint32     { return math.Float32bits(v) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }

func putI32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func putU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func putF32(buf []byte, v float32) []byte {
	return putU32(buf, float32bits(v))
}

func takeI32(buf []byte, pos int) (int32, int, bool) {
	if len(buf)-pos < 4 {
		return 0, pos, false
	}
	return int32(binary.LittleEndian.Uint32(buf[pos : pos+4])), pos + 4, true
}

func takeU32(buf []byte, pos int) (uint32, int, bool) {
	if len(buf)-pos < 4 {
		return 0, pos, false
	}
	return binary.LittleEndian.Uint32(buf[pos : pos+4]), pos + 4, true
}

func takeF32(buf []byte, pos int) (float32, int, bool) {
	bits, next, ok := takeU32(buf, pos)
	if !ok {
		return 0, pos, false
	}
	return float32frombits(bits), next, true
}
