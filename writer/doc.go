// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package writer serializes a list.Header graph back to the textual
// grammar slip/parser accepts. A Writer owns its own registry, a fresh
// one for every Write call: pass one (walker.go) discovers which headers
// need their own named declaration, pass two (format.go) renders the
// user/list declarations and the top-level list through a line-fitting
// outputter.
package writer
