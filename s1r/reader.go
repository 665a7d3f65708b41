package s1r

import "io"

// Reader drives bounded queries over a persisted S1R forest. It holds no
// in-memory copy of the tree; every query issues absolute block reads
// against the underlying ReaderAt, which is never mutated after
// creation.
type Reader struct {
	ra           io.ReaderAt
	header       Header
	blockSize    int
	chromStart   map[string]int // absolute block index of chromosome's root
	chromEntries map[string]int
}

// NewReader parses the file header from ra and precomputes each
// chromosome's starting block offset from the deterministic level-arity
// arithmetic, so no separate offset table needs to be persisted.
func NewReader(ra io.ReaderAt) (*Reader, error) {
	h, headerBlocks, err := DecodeHeader(io.NewSectionReader(ra, 0, 1<<62))
	if err != nil {
		return nil, err
	}
	blockSize := h.BlockSize()
	r := &Reader{
		ra:           ra,
		header:       h,
		blockSize:    blockSize,
		chromStart:   make(map[string]int, len(h.Chromosomes)),
		chromEntries: make(map[string]int, len(h.Chromosomes)),
	}
	offset := headerBlocks
	for _, c := range h.Chromosomes {
		r.chromStart[c.Name] = offset
		r.chromEntries[c.Name] = int(c.EntryCount)
		offset += totalBlocks(int(c.EntryCount), blockSize)
	}
	return r, nil
}

// HasChromosome reports whether name appears in the forest's bucket list
// (even if its tree is the empty-tree sentinel).
func (r *Reader) HasChromosome(name string) bool {
	_, ok := r.chromStart[name]
	return ok
}

// Chromosomes returns the forest's bucket list in header order, which is
// also the order the chromosomes' frames appear in the data file.
func (r *Reader) Chromosomes() []ChromHeader {
	return r.header.Chromosomes
}

func (r *Reader) readBlock(absBlock int) ([]byte, error) {
	buf := make([]byte, r.blockSize)
	if _, err := r.ra.ReadAt(buf, int64(absBlock)*int64(r.blockSize)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Query returns the packed values of every leaf entry on chromosome name
// whose interval [begin, end] intersects the query interval
// [queryBegin, queryEnd] (both inclusive), in ascending midpoint order.
// It returns (nil, nil) for an unknown or empty-tree chromosome.
func (r *Reader) Query(name string, queryBegin, queryEnd uint64) ([]uint64, error) {
	n, ok := r.chromEntries[name]
	if !ok || n == 0 {
		return nil, nil
	}
	levels := levelNodeCounts(n, r.blockSize)
	chromStart := r.chromStart[name]
	height := len(levels)
	perInternal := entriesPerInternal(r.blockSize)

	var out []uint64
	var walk func(level, nodeOffset int) error
	walk = func(level, nodeOffset int) error {
		count := r.nodeEntryCount(levels, level, nodeOffset, n)
		if count == 0 {
			return nil
		}
		absBlock := chromStart + levelStart(levels, level) + nodeOffset
		block, err := r.readBlock(absBlock)
		if err != nil {
			return err
		}
		if level == height-1 {
			for i := 0; i < count; i++ {
				e := decodeLeafEntry(block[i*LeafEntrySize : (i+1)*LeafEntrySize])
				if e.Begin <= queryEnd && e.End() >= queryBegin {
					out = append(out, e.Value)
				}
			}
			return nil
		}
		for i := 0; i < count; i++ {
			e := decodeInternalEntry(block[i*InternalEntrySize : (i+1)*InternalEntrySize])
			if e.Begin <= queryEnd && e.End() >= queryBegin {
				if err := walk(level+1, nodeOffset*perInternal+i); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(0, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// nodeEntryCount returns how many valid entries (out of the capacity of
// its level) live in node (level, nodeOffset): full capacity for every
// node but the last at its level, and the remainder for the last one.
func (r *Reader) nodeEntryCount(levels []int, level, nodeOffset, n int) int {
	var capacity, totalAtLevel int
	if level == len(levels)-1 {
		capacity = entriesPerLeaf(r.blockSize)
		totalAtLevel = n
	} else {
		capacity = entriesPerInternal(r.blockSize)
		totalAtLevel = levels[level+1]
	}
	start := nodeOffset * capacity
	end := start + capacity
	if end > totalAtLevel {
		end = totalAtLevel
	}
	if end <= start {
		return 0
	}
	return end - start
}
