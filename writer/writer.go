// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package writer

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/list"
	"github.com/gnuslip/slip/registry"
)

// passGen hands out the per-Write generation stamp Header.Visited uses,
// so successive Writes over the same graph need no pass that clears the
// previous stamps. The stamp is a single field per header, so Writes
// that walk the same graph at the same time share it.
var passGen uint64

func nextGen() uint64 {
	return atomic.AddUint64(&passGen, 1)
}

// Writer serializes a list graph back to its textual form. It owns a
// fresh Registry for every Write call; nothing survives between calls.
type Writer struct {
	diag *slip.Diagnostics
	cfg  Config
}

// New builds a Writer tuned with DefaultConfig.
func New(diag *slip.Diagnostics) *Writer {
	return NewWithConfig(diag, DefaultConfig())
}

// NewWithConfig builds a Writer with an explicit line-fitting tuning.
func NewWithConfig(diag *slip.Diagnostics, cfg Config) *Writer {
	return &Writer{diag: diag, cfg: cfg.normalized()}
}

// Write renders root, and any list its graph shares or that src has a
// name for, to out. src is the registry the graph was read through, if
// any (nil for a graph built directly against the list package); its
// named lists are preserved under their original names instead of being
// assigned synthetic ones.
func (w *Writer) Write(out io.Writer, root *list.Header, src *registry.Registry) bool {
	reg := registry.New(w.diag)
	wk := newWalker(reg, w.diag, nextGen())
	wk.seedNames(src)
	wk.discover(root)
	renumber(reg, wk.synthetic)

	e := &emitter{reg: reg, buf: newLineBuffer(out, w.cfg)}

	var userNames []string
	reg.ForEachUserData(func(name string) bool {
		userNames = append(userNames, name)
		return true
	})
	e.emitUserDecl(userNames)

	reg.ForEachBinary(func(h *list.Header, name string) bool {
		e.emitDeclaration(name, h)
		return true
	})

	e.emitTop(root)
	io.WriteString(out, "\n")
	return w.diag.Count() == 0
}

// renumber rewrites every synthetic listN name pass 1 minted into
// ordered list1..listK by table-scan order, a deterministic post-pass
// over the already-built hash table rather than a resort of it.
// Originally-named lists, seeded before discovery, are left untouched.
func renumber(reg *registry.Registry, synthetic map[*list.Header]bool) {
	n := 1
	reg.ForEachBinary(func(h *list.Header, name string) bool {
		if !synthetic[h] {
			return true
		}
		reg.RenameOutputList(h, fmt.Sprintf("list%d", n))
		n++
		return true
	})
}
