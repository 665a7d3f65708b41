package region

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPos is the largest representable 1-based position; a region with no
// upper bound uses it as a sentinel "to".
const MaxPos = ^uint64(0)

// Region is a chromosome and a closed, 1-based coordinate interval
// [From, To].
type Region struct {
	Chromosome string
	From       uint64
	To         uint64
}

// ParseString parses a region string of one of the forms
//
//	chrom:from-to
//	chrom:pos
//	chrom
//
// returning the 1-based, closed interval it names. A bare chromosome name
// has no positional restriction: From is 1 and To is MaxPos.
func ParseString(s string) (Region, error) {
	if len(s) == 0 {
		return Region{}, fmt.Errorf("region.ParseString: empty region string")
	}
	colon := strings.IndexByte(s, ':')
	if colon == -1 {
		return Region{Chromosome: s, From: 1, To: MaxPos}, nil
	}
	if colon == 0 {
		return Region{}, fmt.Errorf("region.ParseString: empty chromosome name")
	}
	chrom := s[:colon]
	rangeStr := s[colon+1:]

	dash := strings.IndexByte(rangeStr, '-')
	if dash == -1 {
		pos, err := strconv.ParseUint(rangeStr, 10, 64)
		if err != nil {
			return Region{}, fmt.Errorf("region.ParseString: invalid position %q: %w", rangeStr, err)
		}
		if pos == 0 {
			return Region{}, fmt.Errorf("region.ParseString: position must be >= 1")
		}
		return Region{Chromosome: chrom, From: pos, To: pos}, nil
	}

	fromStr, toStr := rangeStr[:dash], rangeStr[dash+1:]
	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("region.ParseString: invalid start %q: %w", fromStr, err)
	}
	if from == 0 {
		return Region{}, fmt.Errorf("region.ParseString: position must be >= 1")
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("region.ParseString: invalid end %q: %w", toStr, err)
	}
	if to < from {
		return Region{}, fmt.Errorf("region.ParseString: invalid range %q", rangeStr)
	}
	return Region{Chromosome: chrom, From: from, To: to}, nil
}

// Merge coalesces same-chromosome regions into their per-chromosome union
// bounds, preserving first-seen chromosome order.
func Merge(regions []Region) []Region {
	index := make(map[string]int, len(regions))
	var out []Region
	for _, r := range regions {
		if i, ok := index[r.Chromosome]; ok {
			if r.From < out[i].From {
				out[i].From = r.From
			}
			if r.To > out[i].To {
				out[i].To = r.To
			}
			continue
		}
		index[r.Chromosome] = len(out)
		out = append(out, r)
	}
	return out
}
