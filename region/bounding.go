package region

// BoundingPoint selects which coordinate(s) of a record's span must lie
// within a query region for the record to match.
type BoundingPoint byte

const (
	// Any matches if the record's span intersects the region at all.
	Any BoundingPoint = iota
	// All matches only if the record's span is fully contained in the
	// region.
	All
	// Beg matches if the record's leftmost coordinate lies in the region.
	Beg
	// End matches if the record's rightmost coordinate lies in the
	// region.
	End
)

// Matches reports whether a record spanning the closed interval
// [begin, end] on chromosome chrom satisfies the bounding-point predicate
// against reg. An empty reg.Chromosome matches any chromosome.
func Matches(bp BoundingPoint, chrom string, begin, end uint64, reg Region) bool {
	if reg.Chromosome != "" && chrom != reg.Chromosome {
		return false
	}
	switch bp {
	case All:
		return begin >= reg.From && end <= reg.To
	case Beg:
		return begin >= reg.From && begin <= reg.To
	case End:
		return end >= reg.From && end <= reg.To
	default: // Any
		return begin <= reg.To && end >= reg.From
	}
}
