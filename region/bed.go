package region

import (
	"github.com/statgen/sav/interval"
)

// Mask wraps a loaded BED interval-union, supplementing coordinate-range
// queries with a finer-grained inclusion mask (e.g. a callable-sites
// BED) applied to every scanned record.
type Mask struct {
	bed interval.BEDUnion
}

// LoadMask reads a BED file -- gzip-compressed or plain, detected by file
// extension -- and returns the interval-union it describes. Touching or
// overlapping entries are merged; see interval.NewBEDUnionFromPath.
func LoadMask(path string) (*Mask, error) {
	bed, err := interval.NewBEDUnionFromPath(path, interval.NewBEDOpts{})
	if err != nil {
		return nil, err
	}
	return &Mask{bed: bed}, nil
}

// maxPointScan bounds the per-call cost of Overlaps: BEDUnion exposes only
// name-keyed point containment (ContainsByName), not a range query, so a
// span longer than this is checked at its boundary positions only.
const maxPointScan = 1 << 16

// Overlaps reports whether the half-open, 0-based interval [begin, end) on
// chrom intersects the mask. A nil *Mask matches everything.
func (m *Mask) Overlaps(chrom string, begin, end uint64) bool {
	if m == nil {
		return true
	}
	if end <= begin {
		end = begin + 1
	}
	if end-begin > maxPointScan {
		return m.bed.ContainsByName(chrom, interval.PosType(begin)) ||
			m.bed.ContainsByName(chrom, interval.PosType(end-1))
	}
	for pos := begin; pos < end; pos++ {
		if m.bed.ContainsByName(chrom, interval.PosType(pos)) {
			return true
		}
	}
	return false
}
