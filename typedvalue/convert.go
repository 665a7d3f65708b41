package typedvalue

import stderrors "errors"

// ErrNarrowingLoss is returned by IntoIntWidth when narrowing a value would
// alias a non-missing element to the destination width's missing
// sentinel.
var ErrNarrowingLoss = stderrors.New("typedvalue: narrowing would alias a value to the missing sentinel")

// intWidthOf maps a byte width to its Type.
func intWidthOf(width int) Type {
	switch width {
	case 1:
		return Int8
	case 2:
		return Int16
	case 4:
		return Int32
	case 8:
		return Int64
	default:
		panic("typedvalue: invalid integer width")
	}
}

// IntoIntWidth converts an integer Value (dense or sparse) into a value
// of the requested byte width (1, 2, 4, or 8), preserving the
// physical sparsity of the source. Widening maps the source's missing
// sentinel to the destination's missing sentinel. Narrowing fails with
// ErrNarrowingLoss if any non-missing source element equals the
// destination's missing sentinel once truncated, since that would silently
// turn a real value into "missing".
func IntoIntWidth(v Value, width int) (Value, error) {
	dstType := intWidthOf(width)
	srcType := v.Dense.Type
	if v.Sparse != nil {
		srcType = v.Sparse.Val.Type
	}
	srcMissing := MissingInt(srcType.Width())
	dstMissing := MissingInt(width)

	convert := func(x int64) (int64, error) {
		if x == srcMissing {
			return dstMissing, nil
		}
		truncated := truncateToWidth(x, width)
		if truncated == dstMissing {
			return 0, ErrNarrowingLoss
		}
		return truncated, nil
	}

	if v.Sparse == nil {
		src := v.Ints()
		out := make([]int64, len(src))
		for i, x := range src {
			c, err := convert(x)
			if err != nil {
				return Value{}, err
			}
			out[i] = c
		}
		return NewDenseInt(dstType, out), nil
	}

	vals := v.Sparse.Val.Bytes
	w := v.Sparse.Val.Type.Width()
	k := len(v.Sparse.Offsets)
	out := make([]int64, k)
	for i := 0; i < k; i++ {
		x := getIntWidth(v.Sparse.Val.Type, vals[i*w:(i+1)*w])
		c, err := convert(x)
		if err != nil {
			return Value{}, err
		}
		out[i] = c
	}
	return NewSparseInt(v.Sparse.OffType, dstType, v.Len, v.Sparse.Offsets, out), nil
}

func truncateToWidth(x int64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(x))
	case 2:
		return int64(int16(x))
	case 4:
		return int64(int32(x))
	default:
		return x
	}
}

// IntoFloat64 widens a dense or sparse float32 Value to float64, mapping
// the float32 missing sentinel to the float64 missing sentinel. Widening
// float32->float64 never loses information otherwise, so this direction
// cannot fail.
func IntoFloat64(v Value) Value {
	conv := func(x float32) float64 {
		if IsMissingFloat32(x) {
			return MissingFloat64()
		}
		return float64(x)
	}
	if v.Sparse == nil {
		src := v.Float32s()
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = conv(x)
		}
		return NewDenseFloat64(out)
	}
	src := v.ToDenseFloat32s()
	out := make([]float64, 0, len(v.Sparse.Offsets))
	offs := make([]uint64, 0, len(v.Sparse.Offsets))
	for _, off := range v.Sparse.Offsets {
		out = append(out, conv(src[off]))
		offs = append(offs, off)
	}
	return NewSparseFloat64(v.Sparse.OffType, v.Len, offs, out)
}
