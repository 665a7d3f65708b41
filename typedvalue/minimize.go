package typedvalue

// Minimize returns the smaller of v's dense and sparse encodings, measured
// by serialized byte size (ties keep dense). The wire format accepts
// either representation for the same logical value, so this is purely an
// on-disk-size optimization with no effect on what a reader observes
// beyond IsSparse().
func Minimize(v Value) Value {
	if v.Type() == String {
		return v
	}
	valType := v.Type()
	if valType == Sparse {
		valType = v.Sparse.Val.Type
	}

	switch valType {
	case Int8, Int16, Int32, Int64:
		dense := v.ToDenseInts()
		return smaller(denseIntValue(valType, dense), sparseIntCandidate(valType, dense))
	case Float32:
		dense := v.ToDenseFloat32s()
		return smaller(NewDenseFloat32(dense), sparseFloat32Candidate(dense))
	case Float64:
		dense := v.ToDenseFloat64s()
		return smaller(NewDenseFloat64(dense), sparseFloat64Candidate(dense))
	default:
		return v
	}
}

func smaller(dense, sparse Value) Value {
	if SerializedLen(sparse) < SerializedLen(dense) {
		return sparse
	}
	return dense
}

func denseIntValue(t Type, vals []int64) Value { return NewDenseInt(t, vals) }

func offsetType(maxOffset uint64) Type {
	switch {
	case maxOffset < 1<<8:
		return Int8
	case maxOffset < 1<<16:
		return Int16
	case maxOffset < 1<<32:
		return Int32
	default:
		return Int64
	}
}

func sparseIntCandidate(valType Type, dense []int64) Value {
	var offs []uint64
	var vals []int64
	for i, x := range dense {
		if x != 0 {
			offs = append(offs, uint64(i))
			vals = append(vals, x)
		}
	}
	maxOff := uint64(0)
	if len(dense) > 0 {
		maxOff = uint64(len(dense) - 1)
	}
	return NewSparseInt(offsetType(maxOff), valType, len(dense), offs, vals)
}

func sparseFloat32Candidate(dense []float32) Value {
	var offs []uint64
	var vals []float32
	for i, x := range dense {
		if x != 0 {
			offs = append(offs, uint64(i))
			vals = append(vals, x)
		}
	}
	maxOff := uint64(0)
	if len(dense) > 0 {
		maxOff = uint64(len(dense) - 1)
	}
	return NewSparseFloat32(offsetType(maxOff), len(dense), offs, vals)
}

func sparseFloat64Candidate(dense []float64) Value {
	var offs []uint64
	var vals []float64
	for i, x := range dense {
		if x != 0 {
			offs = append(offs, uint64(i))
			vals = append(vals, x)
		}
	}
	maxOff := uint64(0)
	if len(dense) > 0 {
		maxOff = uint64(len(dense) - 1)
	}
	return NewSparseFloat64(offsetType(maxOff), len(dense), offs, vals)
}
