// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package writer

import (
	"fmt"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/list"
	"github.com/gnuslip/slip/registry"
)

// walker drives pass 1: a recursive walk of the graph reachable from a
// root header, deciding which headers need their own listK declaration
// and which user-data class names appear.
//
// A header gets a declaration if it already carries an original name
// (seeded from the reader's registry before the walk starts) or if it is
// reachable from more than one place in the graph (refcount > 1, true
// sharing). Everything else is emitted inline at the single point it is
// referenced. synthetic tracks which names this walker minted itself, so
// the renumbering pass in writer.go can renumber those and leave
// originally-named lists untouched.
type walker struct {
	reg       *registry.Registry
	diag      *slip.Diagnostics
	gen       uint64
	next      int
	synthetic map[*list.Header]bool

	longestUserName int
}

func newWalker(reg *registry.Registry, diag *slip.Diagnostics, gen uint64) *walker {
	return &walker{reg: reg, diag: diag, gen: gen, next: 1, synthetic: make(map[*list.Header]bool)}
}

// seedNames pre-registers every named list from src under its own name,
// so discover never mints a synthetic one for it.
func (w *walker) seedNames(src *registry.Registry) {
	if src == nil {
		return
	}
	src.ForEachNamed(func(name string, h *list.Header) bool {
		w.reg.RegisterOutputList(h, name)
		return true
	})
}

// discover walks root and, for completeness, every header seeded by
// seedNames, so an originally-named list that root's graph never
// actually reaches still gets declared and its own subgraph resolved.
//
// visit can itself register a freshly-named header while this scan is in
// progress (a shared sublist discovered under a seeded header). That
// insert may grow the table out from under the in-progress ForEachBinary
// scan; the scan then finishes over its original snapshot rather than
// the grown one. The newly-named header is still fully registered and
// gets emitted, just not re-visited a second time by this loop, which
// would have been a no-op anyway since visit is itself idempotent per
// generation.
func (w *walker) discover(root *list.Header) {
	if root != nil {
		w.visit(root, nil)
	}
	w.reg.ForEachBinary(func(h *list.Header, name string) bool {
		w.visit(h, nil)
		return true
	})
}

// visit walks h's descriptor list (if any) and its cells. descPath is the
// chain of headers whose descriptor-list pointer is currently being
// followed, so a descriptor list that circles back onto one of its own
// hosts is diagnosed instead of recursed into forever.
func (w *walker) visit(h *list.Header, descPath []*list.Header) {
	if h == nil || h.Visited() == w.gen {
		return
	}
	h.SetVisited(w.gen)

	if d := h.DescriptorList(); d != nil {
		chain := append(descPath, h)
		if descriptorCycle(chain, d) {
			ERR("self-referencing descriptor list detected, emitting without further recursion")
			w.diag.Addf(slip.Semantic, "", 0, 0,
				"descriptor list references a header already in its own annotation chain")
		} else {
			w.visit(d, chain)
		}
	}

	if _, named := w.reg.GetSublistName(h); !named && h.RefCount() > 1 {
		w.assignName(h)
	}

	for _, c := range h.Cells() {
		if sub, ok := c.SublistHeader(); ok {
			w.visit(sub, nil)
			continue
		}
		d, _ := c.Datum()
		if d.Kind == list.DUserData {
			w.reg.RegisterUserData(list.UserDatum(list.UserData{ClassName: d.User.ClassName}))
			if n := len(d.User.ClassName); n > w.longestUserName {
				w.longestUserName = n
			}
		}
	}
}

func descriptorCycle(path []*list.Header, d *list.Header) bool {
	for _, p := range path {
		if p == d {
			return true
		}
	}
	return false
}

func (w *walker) assignName(h *list.Header) {
	name := fmt.Sprintf("list%d", w.next)
	w.next++
	w.reg.RegisterOutputList(h, name)
	w.synthetic[h] = true
}
