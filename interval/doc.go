// Package interval implements interval-union operations for sets of genomic
// coordinates represented by BED files.
// (Note the 'union'.  Overlapping intervals are merged, not tracked
// separately; it is currently necessary to use another package when that is
// not the desired behavior.)
// It assumes every position fits in a PosType, currently defined as int32.
// region.Mask is the sole consumer: it loads a BEDUnion as a file-backed
// inclusion mask for Reader.Scan.
package interval
