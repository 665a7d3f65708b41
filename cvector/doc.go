// Copyright 2024 The SAV Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cvector implements the compressed sparse vector container: a
// pair of parallel (offset, value) arrays representing a logical vector
// whose zero entries are not stored, plus the stride_reduce operation that
// collapses per-haplotype values into per-sample values by summing
// consecutive windows.
package cvector
