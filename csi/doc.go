// Package csi reads external CSI 1.x coordinate-sorted indices (the
// format samtools/htslib attaches to bgzipped VCF/BCF files) and answers
// chunk queries against them. It is a standalone parser: sav.Reader does
// not use it, and bounded SAV reads still require an S1R sidecar.
package csi
