// Package region parses genomic region strings, implements the
// bounding-point predicates a reader driver uses to decide whether a
// record's span falls within a query region, and loads BED-file interval
// masks for finer-grained inclusion filtering.
package region
