// Package sav implements the SAV variant-record file format: a header
// parser/writer, a random-access Reader whose bounded queries are driven
// by the S1R sidecar index only (external CSI indices are not read; see
// package csi), and a Writer that batches records into zstd frames and
// emits S1R index entries at block boundaries.
package sav
