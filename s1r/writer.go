package s1r

import "sort"

// BuildTree bulk-constructs one chromosome's tree from its leaf entries,
// sorted by interval midpoint, and returns the tree's blocks in on-disk
// order: the root first, then each internal level in level order, then a
// tail of leaf blocks. A tree over zero entries returns no blocks at all
// (the empty-tree sentinel).
func BuildTree(entries []LeafEntry, blockSizeKiB1 byte) [][]byte {
	blockSize := BlockSize(blockSizeKiB1)
	if len(entries) == 0 {
		return nil
	}
	sorted := append([]LeafEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		mi := sorted[i].Begin + sorted[i].Length/2
		mj := sorted[j].Begin + sorted[j].Length/2
		if mi != mj {
			return mi < mj
		}
		return sorted[i].Begin < sorted[j].Begin
	})

	perLeaf := entriesPerLeaf(blockSize)
	nLeafBlocks := ceilDiv(len(sorted), perLeaf)

	leafBlocks := make([][]byte, nLeafBlocks)
	bounds := make([]internalEntry, nLeafBlocks)
	for b := 0; b < nLeafBlocks; b++ {
		start := b * perLeaf
		end := start + perLeaf
		if end > len(sorted) {
			end = len(sorted)
		}
		block := make([]byte, blockSize)
		minBegin, maxEnd := sorted[start].Begin, sorted[start].End()
		for i, e := range sorted[start:end] {
			e.encode(block[i*LeafEntrySize : (i+1)*LeafEntrySize])
			if e.Begin < minBegin {
				minBegin = e.Begin
			}
			if e.End() > maxEnd {
				maxEnd = e.End()
			}
		}
		leafBlocks[b] = block
		bounds[b] = internalEntry{Begin: minBegin, Length: maxEnd - minBegin}
	}

	// Build internal levels bottom-up until a single root node remains.
	levels := [][][]byte{leafBlocks}
	levelBounds := bounds
	perInternal := entriesPerInternal(blockSize)
	for len(levelBounds) > 1 {
		nNodes := ceilDiv(len(levelBounds), perInternal)
		nodeBlocks := make([][]byte, nNodes)
		nextBounds := make([]internalEntry, nNodes)
		for b := 0; b < nNodes; b++ {
			start := b * perInternal
			end := start + perInternal
			if end > len(levelBounds) {
				end = len(levelBounds)
			}
			block := make([]byte, blockSize)
			minBegin, maxEnd := levelBounds[start].Begin, levelBounds[start].End()
			for i, e := range levelBounds[start:end] {
				e.encode(block[i*InternalEntrySize : (i+1)*InternalEntrySize])
				if e.Begin < minBegin {
					minBegin = e.Begin
				}
				if e.End() > maxEnd {
					maxEnd = e.End()
				}
			}
			nodeBlocks[b] = block
			nextBounds[b] = internalEntry{Begin: minBegin, Length: maxEnd - minBegin}
		}
		levels = append(levels, nodeBlocks)
		levelBounds = nextBounds
	}

	// levels[0] is the leaf level, levels[len-1] is the root; flatten
	// root-first.
	var out [][]byte
	for i := len(levels) - 1; i >= 0; i-- {
		out = append(out, levels[i]...)
	}
	return out
}

// BlockSize converts the header's "kib-1" byte into a byte count.
func BlockSize(kib1 byte) int { return (int(kib1) + 1) * 1024 }

// BlockSizeKiB1 converts a byte count into the header's "kib-1" encoding.
// blockSize must be a positive multiple of 1024 no larger than 256KiB.
func BlockSizeKiB1(blockSize int) byte {
	if blockSize <= 0 || blockSize%1024 != 0 || blockSize/1024 > 256 {
		panic("s1r: block size must be a multiple of 1024 up to 256KiB")
	}
	return byte(blockSize/1024 - 1)
}

// CheckIndexEntry validates a would-be S1R leaf entry value against the
// packing limits: records-in-frame <= 65536 and file offset < 2^48.
func CheckIndexEntry(fileOffset uint64, recordsInFrame int) error {
	if recordsInFrame <= 0 || recordsInFrame > 1<<16 {
		return ErrIndexOverflow
	}
	if fileOffset >= 1<<48 {
		return ErrIndexOverflow
	}
	return nil
}
