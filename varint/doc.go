// Copyright 2024 The SAV Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package varint implements the two little-endian-septet varint families
// of the SAV wire format: a plain unsigned LEB128 varint, and a family of
// seven "prefixed" varints that let a caller steal 1-7 high bits of the
// first byte for its own tag value. No other package in this module
// imports it.
package varint
