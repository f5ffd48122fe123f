// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package list

import "testing"

func TestHeaderPushEnqueueOrder(t *testing.T) {
	h := NewHeader()
	h.Enqueue(NewDatumCell(I64Datum(1)))
	h.Enqueue(NewDatumCell(I64Datum(2)))
	h.Push(NewDatumCell(I64Datum(0)))

	want := []int64{0, 1, 2}
	got := h.Cells()
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i, c := range got {
		d, ok := c.Datum()
		if !ok || d.Kind != DI64 || d.I64 != want[i] {
			t.Errorf("cell %d = %+v, want int %d", i, d, want[i])
		}
	}
}

func TestHeaderFlush(t *testing.T) {
	h := NewHeader()
	h.Enqueue(NewDatumCell(I64Datum(1)))
	h.Enqueue(NewDatumCell(I64Datum(2)))
	h.Flush()
	if !h.Empty() || h.Len() != 0 {
		t.Fatalf("Flush(): Empty()=%v Len()=%d, want empty", h.Empty(), h.Len())
	}
}

func TestHeaderRefUnref(t *testing.T) {
	h := NewHeader()
	h.Ref()
	h.Ref()
	if h.RefCount() != 2 {
		t.Fatalf("RefCount() = %d, want 2", h.RefCount())
	}
	if h.Unref() {
		t.Fatalf("Unref() reported reclaimable after first Unref")
	}
	if !h.Unref() {
		t.Fatalf("Unref() did not report reclaimable at count 0")
	}
}

func TestHeaderMarkTruncates(t *testing.T) {
	h := NewHeader()
	h.SetMark(0xFFFF)
	if h.Mark() != MaxMark {
		t.Errorf("Mark() = %#x, want %#x (15 bits)", h.Mark(), MaxMark)
	}
}

func TestHeaderSublistCellRoundtrip(t *testing.T) {
	inner := NewHeader()
	inner.Enqueue(NewDatumCell(I64Datum(7)))
	inner.Ref()

	outer := NewHeader()
	outer.Enqueue(NewSublistCell(inner))

	cells := outer.Cells()
	if len(cells) != 1 {
		t.Fatalf("outer.Len() = %d, want 1", len(cells))
	}
	got, ok := cells[0].SublistHeader()
	if !ok || got != inner {
		t.Fatalf("SublistHeader() = (%p, %v), want (%p, true)", got, ok, inner)
	}
}

func TestHeaderDescriptorList(t *testing.T) {
	h := NewHeader()
	if h.DescriptorList() != nil {
		t.Fatalf("new header has a descriptor list")
	}
	d := NewHeader()
	h.SetDescriptorList(d)
	if h.DescriptorList() != d {
		t.Fatalf("DescriptorList() = %p, want %p", h.DescriptorList(), d)
	}
	got := h.ClearDescriptorList()
	if got != d || h.DescriptorList() != nil {
		t.Fatalf("ClearDescriptorList() = %p, leftover %p", got, h.DescriptorList())
	}
}
