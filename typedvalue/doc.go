// Copyright 2024 The SAV Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package typedvalue implements the self-describing scalar/vector value
// format shared by INFO and per-sample FORMAT fields: a type-tagged,
// optionally-sparse container with explicit dense and sparse physical
// encodings of one logical vector.
package typedvalue
