// Copyright 2024 The SAV Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package dict implements the header-sourced string-to-code dictionaries
// used inside record payloads: one each for contig names, INFO/FORMAT/
// FILTER IDs, and sample names. Each dictionary is both a forward table
// (string to code) and an inverse table (code to string plus metadata),
// the latter supporting sparse "deleted placeholder" slots for headers
// whose declared IDX= skips positions.
package dict
