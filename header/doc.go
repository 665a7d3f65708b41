// Package header parses the small subset of VCF meta-information grammar
// SAV headers carry: "##KEY=VALUE" lines, and the "<ID=...,Number=...,
// Type=...,Format=...,IDX=...>" structured-value grammar used by INFO,
// FORMAT, FILTER, and the synthetic "_PBWT_SORT_*" descriptors that mark
// a FORMAT key for PBWT reordering.
package header
