package pbwt

import stderrors "errors"

// ErrLengthMismatch is returned when a PBWT-tracked FORMAT field's
// effective haplotype count changes across variants without an
// intervening reset, violating the "L constant within a run" invariant.
var ErrLengthMismatch = stderrors.New("pbwt: haplotype count changed without a reset")

// the counting sort buckets on the low byte of each value; the values
// themselves are carried through the transform untouched. Haplotype
// indicator fields (e.g. GT allele index) cluster well under this key,
// and values outside 0-255 -- including integer missing sentinels --
// merely share a bucket, they are never altered.
const buckets = 256

// State is the permutation carried across variants for one (FORMAT key,
// ploidy) pair. The zero State is not usable; construct with NewState or
// Reset before first use.
type State struct {
	perm []int
}

// NewState returns a State initialized to the identity permutation over l
// haplotypes.
func NewState(l int) *State {
	s := &State{}
	s.Reset(l)
	return s
}

// Reset reinitializes the permutation to identity over l haplotypes. It is
// called after header parse and whenever the reset bit is set on a
// record's first appearance in a new frame.
func (s *State) Reset(l int) {
	s.perm = make([]int, l)
	for i := range s.perm {
		s.perm[i] = i
	}
}

// Len returns the haplotype count this State is currently tracking.
func (s *State) Len() int { return len(s.perm) }

// Encode reorders v (length L) into the previous permutation's order and
// advances the permutation for the next variant. Only the counting-sort
// bucket is derived from each value's low byte; the emitted values are
// the originals, bit for bit. It fails with ErrLengthMismatch if
// len(v) != s.Len().
func (s *State) Encode(v []int64) ([]int64, error) {
	if len(v) != len(s.perm) {
		return nil, ErrLengthMismatch
	}
	prev := s.perm
	l := len(v)
	out := make([]int64, l)
	newPerm := make([]int, l)
	cursor := countingSortCursor(v)
	for i := 0; i < l; i++ {
		j := prev[i]
		c := byte(v[j]) // bucket index only; v[j] itself is emitted whole
		newPerm[cursor[c]] = j
		cursor[c]++
		out[i] = v[j]
	}
	s.perm = newPerm
	return out, nil
}

// Decode inverts Encode: given enc (the values emitted by Encode, in the
// previous permutation's order), it recovers the original per-haplotype
// vector v and advances the permutation exactly as Encode would have,
// using the decoded v. It fails with ErrLengthMismatch if len(enc) !=
// s.Len().
func (s *State) Decode(enc []int64) ([]int64, error) {
	if len(enc) != len(s.perm) {
		return nil, ErrLengthMismatch
	}
	prev := s.perm
	l := len(enc)
	v := make([]int64, l)
	for i, j := range prev {
		v[j] = enc[i]
	}
	newPerm := make([]int, l)
	cursor := countingSortCursor(v)
	for i := 0; i < l; i++ {
		j := prev[i]
		c := byte(v[j])
		newPerm[cursor[c]] = j
		cursor[c]++
	}
	s.perm = newPerm
	return v, nil
}

// countingSortCursor returns, for each bucket c, the insertion position of
// the first entry with low byte c: the prefix sum of the histogram of v's
// low bytes.
func countingSortCursor(v []int64) []int {
	var hist [buckets + 1]int
	for _, x := range v {
		hist[int(byte(x))+1]++
	}
	cursor := make([]int, buckets+1)
	for c := 1; c <= buckets; c++ {
		cursor[c] = cursor[c-1] + hist[c]
	}
	return cursor
}
