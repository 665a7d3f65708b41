package s1r

import (
	"io"

	"github.com/google/uuid"
	"github.com/grailbio/base/traverse"
)

// ChromTree is one chromosome's bucket of leaf entries, ready to be
// written as a tree.
type ChromTree struct {
	Name    string
	Entries []LeafEntry
}

// Write serializes a complete S1R file — header followed by each
// chromosome's tree, in the order given — to w. Chromosomes are written
// in the order of trees; an empty Entries slice still gets a header
// bucket entry but contributes no blocks (the empty-tree sentinel).
func Write(w io.Writer, trees []ChromTree, blockSizeKiB1 byte) error {
	h := Header{
		UUID:          uuid.New(),
		Sort:          Midpoint,
		BlockSizeKiB1: blockSizeKiB1,
		Chromosomes:   make([]ChromHeader, len(trees)),
	}
	for i, t := range trees {
		h.Chromosomes[i] = ChromHeader{Name: t.Name, EntryCount: uint64(len(t.Entries))}
	}
	headerBytes, _ := h.Encode()
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}

	// Each chromosome's bottom-up tree is built independently of every
	// other's, so the CPU-bound construction runs concurrently; only the
	// final write to w, which must preserve chromosome order, is
	// sequential.
	blocks := make([][][]byte, len(trees))
	if err := traverse.Each(len(trees), func(i int) error {
		blocks[i] = BuildTree(trees[i].Entries, blockSizeKiB1)
		return nil
	}); err != nil {
		return err
	}
	for _, chromBlocks := range blocks {
		for _, block := range chromBlocks {
			if _, err := w.Write(block); err != nil {
				return err
			}
		}
	}
	return nil
}
