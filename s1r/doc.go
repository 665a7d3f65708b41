// Copyright 2024 The SAV Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package s1r implements the S1R persisted interval-tree index: a
// multi-chromosome forest of balanced, bucketed interval trees, each
// stored as a sequence of fixed-size blocks and built bottom-up once at
// writer close. Bounded queries traverse a tree by file-offset arithmetic
// alone, without an in-memory copy of the tree.
package s1r
