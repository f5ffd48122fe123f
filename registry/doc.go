// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package registry implements the open-addressed hash table that backs
// one reader or writer's name-to-list, name-to-parser and
// handle-to-name bindings, together with the entry lifecycle state
// machine and the forward-reference resolution it drives.
package registry
