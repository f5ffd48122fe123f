// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

import "github.com/gnuslip/slip/list"

// EntryKind tags which of the registry's three key spaces an Entry
// belongs to.
type EntryKind uint8

const (
	// Ascii entries are keyed on a textual name: user-data parsers and
	// named lists during input.
	Ascii EntryKind = iota
	// Binary entries are keyed on a header handle: the output-side
	// reverse lookup from a sublist's identity to its generated name.
	Binary
	// Anonymous entries represent an unnamed list whose descriptor slot
	// is waiting on a forward reference; they delete themselves once
	// resolved.
	Anonymous
)

func (k EntryKind) String() string {
	switch k {
	case Ascii:
		return "ascii"
	case Binary:
		return "binary"
	case Anonymous:
		return "anonymous"
	default:
		return "bad-entry-kind"
	}
}

// EntryState is both the state and the transition event of the entry
// lifecycle state machine.
type EntryState uint8

const (
	Illegal EntryState = iota
	UserData
	Referenced
	Defined
	RAndD
)

func (s EntryState) String() string {
	switch s {
	case Illegal:
		return "illegal"
	case UserData:
		return "user-data"
	case Referenced:
		return "referenced"
	case Defined:
		return "defined"
	case RAndD:
		return "referenced-and-defined"
	default:
		return "bad-entry-state"
	}
}

// transitionTable[incoming][current] is the next state, or -1 if the
// incoming observation is illegal for the current state.
var transitionTable = [4][5]int8{
	Illegal:    {int8(Illegal), int8(UserData), int8(Referenced), int8(Defined), int8(RAndD)},
	UserData:   {int8(Illegal), int8(UserData), -1, -1, -1},
	Referenced: {int8(Illegal), -1, int8(Referenced), int8(RAndD), int8(RAndD)},
	Defined:    {int8(Illegal), -1, int8(RAndD), -1, -1},
}

// transition applies incoming to current and reports the resulting
// state, or ok=false if the transition is illegal (a caller error or an
// attempted redefinition).
func transition(current, incoming EntryState) (EntryState, bool) {
	if int(incoming) >= len(transitionTable) {
		return current, false
	}
	next := transitionTable[incoming][current]
	if next < 0 {
		return current, false
	}
	return EntryState(next), true
}

// descRef is one link in a named list's descriptor forward-reference
// chain: host is the header whose descriptor-list slot will be filled in
// once the chain's owning name resolves.
type descRef struct {
	host        *list.Header
	hostEntry   *Entry // set when host is itself an Anonymous entry
	next        *descRef
}

// Entry is one hash table slot's payload.
type Entry struct {
	Kind  EntryKind
	State EntryState

	// Name is the Ascii/Anonymous key.
	Name string
	// HandleKey is the Binary key.
	HandleKey *list.Header

	// Header is the Ascii payload for a named list: the pre-populated
	// handle every {name} reference already points to.
	Header *list.Header
	// Parse is the Ascii payload for a registered user-data class.
	Parse list.ParseFunc
	// GeneratedName is the Binary payload: the listN name assigned to
	// HandleKey during a write pass.
	GeneratedName string

	descChain *descRef
}

func newAsciiEntry(name string) *Entry {
	return &Entry{Kind: Ascii, Name: name}
}

func newBinaryEntry(h *list.Header, name string) *Entry {
	return &Entry{Kind: Binary, HandleKey: h, GeneratedName: name, State: RAndD}
}

// observe applies event to e's state, returning false and leaving the
// state untouched if the transition is illegal.
func (e *Entry) observe(event EntryState) bool {
	next, ok := transition(e.State, event)
	if !ok {
		return false
	}
	e.State = next
	return true
}

// appendDescRef appends a forward-reference link to e's descriptor
// chain; host is the header whose descriptor slot will be filled once e
// resolves.
func (e *Entry) appendDescRef(host *list.Header, hostEntry *Entry) {
	e.descChain = &descRef{host: host, hostEntry: hostEntry, next: e.descChain}
}

func (e *Entry) complete() bool {
	return e.State == Defined || e.State == RAndD
}
