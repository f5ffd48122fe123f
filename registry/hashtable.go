// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

import (
	"encoding/binary"
	"hash/fnv"
	"unsafe"

	"github.com/gnuslip/slip/list"
)

const (
	initialCapacity = 1024
	maxProbes       = 10
	growLoadFactor  = 0.70
)

// status is the outcome of an insert or search.
type status uint8

const (
	Inserted status = iota
	Found
	Empty
	Full
)

// hashTable is the open-addressed table backing one Registry. Lookup
// tries the primary (SDBM) hash slot first, and falls back to a
// quadratic re-probe seeded by the secondary (FNV-1a) hash on
// collision, mirroring the two-hash scheme of the system being ported.
type hashTable struct {
	slots   []*Entry
	count   int
	growing bool
	cfg     Config
}

func newHashTable() *hashTable {
	return newHashTableWithConfig(DefaultConfig())
}

func newHashTableWithConfig(cfg Config) *hashTable {
	cfg = cfg.normalized()
	return &hashTable{slots: make([]*Entry, cfg.InitialCapacity), cfg: cfg}
}

func keyBytes(kind EntryKind, name string, handle *list.Header) []byte {
	if kind == Binary {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(uintptr(unsafe.Pointer(handle))))
		return buf[:]
	}
	return []byte(name)
}

func entryKeyBytes(e *Entry) []byte {
	return keyBytes(e.Kind, e.Name, e.HandleKey)
}

// avoidSentinel keeps 0xFFFFFFFF reserved for "uninitialized" per the
// hashing contract.
func avoidSentinel(h uint32) uint32 {
	if h == 0xFFFFFFFF {
		return 0xFFFFFFFE
	}
	return h
}

// sdbmHash is the primary hash: h = c + 36h + 65511h - h, accumulated
// byte by byte in 32-bit arithmetic.
func sdbmHash(b []byte) uint32 {
	var h uint32
	for _, c := range b {
		h = uint32(c) + 36*h + 65511*h - h
	}
	return avoidSentinel(h)
}

// fnv1aHash is the secondary hash.
func fnv1aHash(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b)
	return avoidSentinel(h.Sum32())
}

func sameKey(a, b *Entry) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Binary:
		return a.HandleKey == b.HandleKey
	default:
		return a.Name == b.Name
	}
}

func (t *hashTable) loadFactor() float64 {
	return float64(t.count) / float64(len(t.slots))
}

// insert places e, or returns the already-present entry with the same
// key when one exists.
func (t *hashTable) insert(e *Entry) (int, *Entry, status) {
	capacity := len(t.slots)
	key := entryKeyBytes(e)
	primary := int(sdbmHash(key) % uint32(capacity))

	if t.slots[primary] == nil {
		t.slots[primary] = e
		t.count++
		if !t.maybeGrow(0) {
			t.slots[primary] = nil
			t.count--
			return -1, nil, Full
		}
		return primary, e, Inserted
	}
	if sameKey(t.slots[primary], e) {
		return primary, t.slots[primary], Found
	}

	base := int(fnv1aHash(key) % uint32(capacity))
	ndx := base
	i := 0
	for i < capacity-1 {
		if t.slots[ndx] == nil {
			t.slots[ndx] = e
			t.count++
			if !t.maybeGrow(i) {
				t.slots[ndx] = nil
				t.count--
				return -1, nil, Full
			}
			return ndx, e, Inserted
		}
		if sameKey(t.slots[ndx], e) {
			return ndx, t.slots[ndx], Found
		}
		i++
		ndx = (base + i*(i+1)/2) % capacity
	}
	return -1, nil, Full
}

// search looks up the entry with e's key without mutating the table.
func (t *hashTable) search(e *Entry) (int, *Entry, status) {
	capacity := len(t.slots)
	key := entryKeyBytes(e)
	primary := int(sdbmHash(key) % uint32(capacity))

	if t.slots[primary] == nil {
		return -1, nil, Empty
	}
	if sameKey(t.slots[primary], e) {
		return primary, t.slots[primary], Found
	}

	base := int(fnv1aHash(key) % uint32(capacity))
	ndx := base
	i := 0
	for i < capacity-1 {
		if t.slots[ndx] == nil {
			return -1, nil, Empty
		}
		if sameKey(t.slots[ndx], e) {
			return ndx, t.slots[ndx], Found
		}
		i++
		ndx = (base + i*(i+1)/2) % capacity
	}
	return -1, nil, Full
}

func (t *hashTable) delete(ndx int) {
	if ndx < 0 || ndx >= len(t.slots) || t.slots[ndx] == nil {
		return
	}
	t.slots[ndx] = nil
	t.count--
}

// forEach visits populated slots in index order.
func (t *hashTable) forEach(f func(*Entry) bool) {
	for _, e := range t.slots {
		if e == nil {
			continue
		}
		if !f(e) {
			return
		}
	}
}

// maybeGrow doubles the table when an insert needed more than maxProbes
// re-probes and the load factor has crossed growLoadFactor. probes==0
// always means a first-slot hit, never growth-worthy. It reports false
// when growth was needed but failed, in which case the table is left
// exactly as it was before the triggering insert.
func (t *hashTable) maybeGrow(probes int) bool {
	if t.growing || probes <= t.cfg.MaxProbes || t.loadFactor() <= t.cfg.GrowLoadFactor {
		return true
	}
	return t.grow()
}

// grow doubles the table and re-inserts every existing entry. If the
// doubled table still cannot hold them all (the re-insertion loop itself
// hits Full; maybeGrow's t.growing guard rules out a nested regrowth
// attempt), the attempt is abandoned and the table is restored to its
// pre-grow slots and count, so the triggering insert can revert its own
// change and report Full to its own caller.
func (t *hashTable) grow() bool {
	t.growing = true
	defer func() { t.growing = false }()

	old := t.slots
	oldCount := t.count
	t.slots = make([]*Entry, len(old)*2)
	t.count = 0
	for _, e := range old {
		if e == nil {
			continue
		}
		if _, _, st := t.insert(e); st == Full {
			t.slots = old
			t.count = oldCount
			return false
		}
	}
	return true
}
