// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

import "github.com/gnuslip/slip/list"

var anonCounter int

// BindDescriptor implements the descriptor-list forward reference of a
// bare '<{descName}>' production: host's descriptor-list slot should end
// up holding a copy of descName's payload list. namedHost is host's own
// registered name, or "" if host is an anonymous list (one under
// construction that has no Ascii entry of its own); in that case a
// synthetic Anonymous entry is created to carry the pending link and is
// deleted once it resolves. When namedHost is set, the copy goes to
// namedHost's own registry header (the one its definition's cells are
// moved into) rather than to host, which is only the temporary header
// the definition's body is built in.
//
// If descName is already complete, the copy happens immediately;
// otherwise the link is appended to descName's entry and drained later
// by resolve.
func (r *Registry) BindDescriptor(descName string, host *list.Header, namedHost string) bool {
	if descName == namedHost && namedHost != "" {
		r.fatalf("list %q cannot use itself as its own descriptor", descName)
		return false
	}

	n := r.findOrCreateAscii(descName)
	if n == nil {
		return false
	}

	var hostEntry *Entry
	if namedHost != "" {
		hostEntry = r.findOrCreateAscii(namedHost)
		if hostEntry == nil {
			return false
		}
		if hostEntry.Header == nil {
			hostEntry.Header = list.NewHeader()
		}
		host = hostEntry.Header
	} else {
		anonCounter++
		hostEntry = &Entry{Kind: Anonymous, Name: syntheticAnonName(anonCounter)}
		if _, _, st := r.table.insert(hostEntry); st == Full {
			r.fatalf("hash table full binding anonymous descriptor host")
			return false
		}
	}

	if n.complete() {
		r.resolveOne(n, &descRef{host: host, hostEntry: hostEntry})
		return true
	}
	n.appendDescRef(host, hostEntry)
	return true
}

func syntheticAnonName(n int) string {
	const hex = "0123456789abcdef"
	buf := []byte("$anon0000")
	for i := 0; i < 4; i++ {
		buf[len(buf)-1-i] = hex[n&0xf]
		n >>= 4
	}
	return string(buf)
}

func (r *Registry) findOrCreateAscii(name string) *Entry {
	lookup := newAsciiEntry(name)
	_, existing, st := r.table.insert(lookup)
	if st == Full {
		r.fatalf("hash table full resolving name %q", name)
		return nil
	}
	return existing
}

// resolve drains n's descriptor forward-reference chain, and any other
// chain that becomes ready as a side effect of draining this one. It is
// called whenever an entry transitions to Defined or RAndD.
//
// This is an explicit worklist, not recursive Go calls: resolving one
// link can make another entry's own chain ready to drain (cascading
// descriptor references), and nothing bounds how deep that cascade
// nests, so the drain loop pushes newly-ready entries onto work instead
// of calling itself.
func (r *Registry) resolve(n *Entry) {
	work := []*Entry{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		chain := cur.descChain
		cur.descChain = nil
		for c := chain; c != nil; c = c.next {
			if ready := r.resolveOne(cur, c); ready != nil {
				work = append(work, ready)
			}
		}
	}
}

// resolveOne fills c.host's descriptor-list slot from n's payload and
// reports the host entry it just made ready to drain, if any: an
// Anonymous host entry deletes itself immediately instead (it never has
// a chain of its own), and a named host entry is only ready once its own
// state has reached Defined or RAndD.
func (r *Registry) resolveOne(n *Entry, c *descRef) *Entry {
	if c.host.DescriptorList() == nil {
		c.host.SetDescriptorList(list.NewHeader())
	}
	copyInto(c.host.DescriptorList(), n.Header)

	if c.hostEntry == nil {
		return nil
	}
	if c.hostEntry.Kind == Anonymous {
		r.deleteEntry(c.hostEntry)
		return nil
	}
	if c.hostEntry.complete() {
		return c.hostEntry
	}
	return nil
}

func (r *Registry) deleteEntry(e *Entry) {
	ndx, found, st := r.table.search(e)
	if st == Found && found == e {
		r.table.delete(ndx)
	}
}

// copyInto appends a structural copy of src's cells onto dst, leaving
// src intact (unlike moveInto, used when the same named payload may back
// more than one descriptor-list copy).
func copyInto(dst, src *list.Header) {
	for _, c := range src.Cells() {
		if sub, ok := c.SublistHeader(); ok {
			sub.Ref()
			dst.Enqueue(list.NewSublistCell(sub))
			continue
		}
		d, _ := c.Datum()
		dst.Enqueue(list.NewDatumCell(d))
	}
}
