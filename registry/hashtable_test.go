// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

import "testing"

func TestHashTableInsertFindFound(t *testing.T) {
	tbl := newHashTable()
	e := newAsciiEntry("foo")
	ndx, got, st := tbl.insert(e)
	if st != Inserted || got != e || ndx < 0 {
		t.Fatalf("insert: got (%d, %v, %v)", ndx, got, st)
	}
	ndx2, got2, st2 := tbl.insert(newAsciiEntry("foo"))
	if st2 != Found || got2 != e || ndx2 != ndx {
		t.Fatalf("second insert of same key: got (%d, %v, %v), want Found at %d", ndx2, got2, st2, ndx)
	}
}

func TestHashTableSearchEmpty(t *testing.T) {
	tbl := newHashTable()
	_, _, st := tbl.search(newAsciiEntry("nope"))
	if st != Empty {
		t.Fatalf("search on empty table: got %v, want Empty", st)
	}
}

func TestHashTableManyDistinctNames(t *testing.T) {
	tbl := newHashTable()
	const n = 2000
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = syntheticAnonName(i)
	}
	for _, name := range names {
		if _, _, st := tbl.insert(newAsciiEntry(name)); st != Inserted {
			t.Fatalf("insert %q: got %v, want Inserted", name, st)
		}
	}
	for _, name := range names {
		if _, _, st := tbl.search(newAsciiEntry(name)); st != Found {
			t.Fatalf("search %q after growth: got %v, want Found", name, st)
		}
	}
	if len(tbl.slots) <= initialCapacity {
		t.Fatalf("expected table to have grown past initial capacity, got %d slots", len(tbl.slots))
	}
}

// TestInsertFullDespiteFreeSlots pins down the exact reason grow() must be
// able to fail and roll back: the triangular re-probe sequence used here
// only forms a complete permutation of the slot indices when the table
// capacity is a power of two. At capacity 6, 'Z' (sdbm hash 90, primary
// slot 0; fnv-1a hash 3742114125, secondary base 3) only ever reaches
// slots {0, 1, 3, 4} no matter how many probes it is given — slots 2 and
// 5 are structurally unreachable for this key. With those four slots
// occupied by other entries, inserting 'Z' reports Full even though two
// slots remain empty.
func TestInsertFullDespiteFreeSlots(t *testing.T) {
	tbl := &hashTable{
		slots: make([]*Entry, 6),
		cfg:   Config{InitialCapacity: 6, MaxProbes: 100, GrowLoadFactor: 1}.normalized(),
	}
	for _, i := range []int{0, 1, 3, 4} {
		tbl.slots[i] = newAsciiEntry(syntheticAnonName(i))
	}
	tbl.count = 4

	_, _, st := tbl.insert(newAsciiEntry("Z"))
	if st != Full {
		t.Fatalf("insert into a table with 2 genuinely free slots: got %v, want Full", st)
	}
}

// TestGrowPreservesEntriesOnSuccess is the companion regression test for
// the ordinary path through grow(): every re-inserted entry must still be
// reachable afterward, and the slot count must match.
func TestGrowPreservesEntriesOnSuccess(t *testing.T) {
	tbl := &hashTable{
		slots: make([]*Entry, 4),
		cfg:   Config{InitialCapacity: 4, MaxProbes: 100, GrowLoadFactor: 1}.normalized(),
	}
	names := []string{"a", "b", "c"}
	for i, name := range names {
		tbl.slots[i] = newAsciiEntry(name)
	}
	tbl.count = len(names)

	if !tbl.grow() {
		t.Fatalf("grow() failed on a table with ample room to double into")
	}
	if len(tbl.slots) != 8 {
		t.Fatalf("got %d slots after grow, want 8", len(tbl.slots))
	}
	if tbl.count != len(names) {
		t.Fatalf("got count %d after grow, want %d", tbl.count, len(names))
	}
	for _, name := range names {
		if _, _, st := tbl.search(newAsciiEntry(name)); st != Found {
			t.Fatalf("search %q after grow: got %v, want Found", name, st)
		}
	}
}

func TestSdbmAndFnvAvoidSentinel(t *testing.T) {
	// exercise the hash functions directly; the sentinel-avoidance branch
	// is hard to hit by construction, so this just checks the contract
	// holds for arbitrary input.
	for _, s := range []string{"", "a", "foo", "a much longer name to hash"} {
		if h := sdbmHash([]byte(s)); h == 0xFFFFFFFF {
			t.Errorf("sdbmHash(%q) returned the reserved sentinel", s)
		}
		if h := fnv1aHash([]byte(s)); h == 0xFFFFFFFF {
			t.Errorf("fnv1aHash(%q) returned the reserved sentinel", s)
		}
	}
}
