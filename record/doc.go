// Package record implements the per-variant wire codec: the site-info
// ("shared") block, the individual ("FORMAT") block, and the framing that
// glues one record's pair of blocks together on disk. It has no notion of
// files, indices, or PBWT state carried across records -- those live in
// the sav and pbwt packages, which call into this one per record.
package record
