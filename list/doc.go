// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package list implements the in-memory symbolic list primitives that the
// SLIP reader and writer consume through a narrow interface: headers,
// bidirectionally linked cells, datum variants, sublist references,
// per-header descriptor-list attachment, marks and reference counts.
//
// It has no knowledge of the textual grammar, the hash-table registry or
// the writer's graph walk; those live in sibling packages and treat a
// *Header as an opaque, reference-counted handle.
package list
