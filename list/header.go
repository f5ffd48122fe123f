// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package list

// MaxMark is the largest value a Header's mark can hold (15 bits).
const MaxMark = 1<<15 - 1

// Header is the stable identity object for a list: a ring of Cells
// anchored by a sentinel, plus a mark, a reference count and an optional
// descriptor-list attachment.
//
// The cell ring is a head-sentinel doubly linked list, the same shape
// _examples/intuitivelabs-sipsp/calltr/callentry_lst.go uses for its hash
// bucket lists: head.next/head.prev always point somewhere (to head
// itself when empty); a cell not yet linked into a header has nil links.
type Header struct {
	head Cell // sentinel; only next/prev are meaningful
	n    int

	mark    uint16 // 15 bits used, 0 means unmarked
	refCnt  uint16
	visited uint64 // writer-pass generation stamp, see Visited/SetVisited

	descriptor *Header
}

// NewHeader allocates an empty, unreferenced Header.
func NewHeader() *Header {
	h := &Header{}
	h.head.next = &h.head
	h.head.prev = &h.head
	return h
}

// Empty reports whether h has no cells.
func (h *Header) Empty() bool {
	return h.n == 0
}

// Len returns the number of cells in h.
func (h *Header) Len() int {
	return h.n
}

// Push inserts c at the top (front) of h's cell chain.
func (h *Header) Push(c *Cell) {
	c.prev = &h.head
	c.next = h.head.next
	c.next.prev = c
	h.head.next = c
	h.n++
}

// Enqueue appends c at the bottom (back) of h's cell chain.
func (h *Header) Enqueue(c *Cell) {
	c.next = &h.head
	c.prev = h.head.prev
	c.prev.next = c
	h.head.prev = c
	h.n++
}

// Flush detaches and discards every cell in h (does not touch refcounts
// of sublists referenced by the removed cells; callers that own strong
// references must Unref() them first via ForEach).
func (h *Header) Flush() {
	h.head.next = &h.head
	h.head.prev = &h.head
	h.n = 0
}

// ForEach calls f for every cell in h, top to bottom, stopping early if f
// returns false. It does not support removing the current cell from f;
// see ForEachSafeRm.
func (h *Header) ForEach(f func(c *Cell) bool) {
	cont := true
	for v := h.head.next; v != &h.head && cont; v = v.next {
		cont = f(v)
	}
}

// ForEachSafeRm calls f for every cell in h, top to bottom, tolerating f
// unlinking the current cell from h before moving to the next one.
func (h *Header) ForEachSafeRm(f func(c *Cell) bool) {
	cont := true
	s := h.head.next
	for v, nxt := s, s.next; v != &h.head && cont; v, nxt = nxt, nxt.next {
		cont = f(v)
	}
}

// Cells returns a snapshot slice of h's cells, top to bottom.
func (h *Header) Cells() []*Cell {
	out := make([]*Cell, 0, h.n)
	h.ForEach(func(c *Cell) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Mark returns h's mark (0 means unmarked).
func (h *Header) Mark() uint16 {
	return h.mark
}

// SetMark sets h's mark, truncated to 15 bits.
func (h *Header) SetMark(m uint16) {
	h.mark = m & MaxMark
}

// Ref increments h's reference count. Every sublist cell pointing at h
// holds one strong reference; the registry holds one only on a
// placeholder header it created for a name first seen as a reference.
func (h *Header) Ref() {
	h.refCnt++
}

// RefCount returns h's current reference count.
func (h *Header) RefCount() uint16 {
	return h.refCnt
}

// Unref decrements h's reference count and reports whether h is now
// reclaimable (count reached 0). It does not itself free h's cells; the
// caller decides whether reclaiming means Flush() or simply abandoning
// the Header to the garbage collector.
func (h *Header) Unref() bool {
	if h.refCnt > 0 {
		h.refCnt--
	}
	return h.refCnt == 0
}

// DescriptorList returns h's descriptor-list handle, or nil if none is
// attached.
func (h *Header) DescriptorList() *Header {
	return h.descriptor
}

// SetDescriptorList attaches d as h's descriptor list, replacing any
// previous attachment. It does not adjust d's reference count.
func (h *Header) SetDescriptorList(d *Header) {
	h.descriptor = d
}

// ClearDescriptorList detaches h's descriptor list and returns it (nil if
// none was attached), so the caller can Unref() it.
func (h *Header) ClearDescriptorList() *Header {
	d := h.descriptor
	h.descriptor = nil
	return d
}

// Visited returns the writer-pass generation stamp last set via
// SetVisited. Writers use a monotonically increasing generation counter
// per Write() call instead of a plain visited bit, so no separate
// clear-all pass is needed between writes. The stamp is one field per
// header, so Writers walking a shared graph at the same time share it.
func (h *Header) Visited() uint64 {
	return h.visited
}

// SetVisited stamps h with the given writer-pass generation.
func (h *Header) SetVisited(gen uint64) {
	h.visited = gen
}
