package typedvalue

// SubsetSentinel marks an index-map entry that has no image under the
// subset: the corresponding source position is dropped entirely.
const SubsetSentinel = -1

// Subset reindexes v according to indexMap: indexMap[i] is the output
// position of source position i, or SubsetSentinel if source position i is
// dropped. The result has logical length newLen. Its caller is sample
// subsetting (sav.Reader), where indexMap maps haplotype index to output
// haplotype index.
func Subset(v Value, indexMap []int, newLen int) Value {
	if v.Type() == String {
		// Only single-valued string fields appear outside vector contexts;
		// subsetting a scalar string is a no-op by construction since
		// indexMap always has length 1 there.
		return v
	}
	valType := v.Type()
	if valType == Sparse {
		valType = v.Sparse.Val.Type
	}
	switch valType {
	case Int8, Int16, Int32, Int64:
		src := v.ToDenseInts()
		out := make([]int64, newLen)
		for i, dst := range indexMap {
			if dst != SubsetSentinel {
				out[dst] = src[i]
			}
		}
		return Minimize(denseIntValue(valType, out))
	case Float32:
		src := v.ToDenseFloat32s()
		out := make([]float32, newLen)
		for i, dst := range indexMap {
			if dst != SubsetSentinel {
				out[dst] = src[i]
			}
		}
		return Minimize(NewDenseFloat32(out))
	case Float64:
		src := v.ToDenseFloat64s()
		out := make([]float64, newLen)
		for i, dst := range indexMap {
			if dst != SubsetSentinel {
				out[dst] = src[i]
			}
		}
		return Minimize(NewDenseFloat64(out))
	default:
		return v
	}
}
