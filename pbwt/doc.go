// Copyright 2024 The SAV Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package pbwt implements the positional Burrows-Wheeler transform used to
// reorder haplotype-like FORMAT fields at write time and invert that
// reorder at read time. The transform is a stable counting sort of the
// sample axis keyed by each variant's values, carried forward across
// variants as a permutation vector per FORMAT key.
package pbwt
