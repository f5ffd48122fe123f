// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

import (
	"github.com/pkg/errors"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/list"
)

// Registry binds the hash table to the operations a reader or writer
// drives it with. Each reader and each writer owns an independent
// Registry; nothing here is package-level mutable state.
type Registry struct {
	table *hashTable
	diag  *slip.Diagnostics
}

// New builds a Registry tuned with DefaultConfig.
func New(diag *slip.Diagnostics) *Registry {
	return NewWithConfig(diag, DefaultConfig())
}

// NewWithConfig builds a Registry with an explicit hash table tuning.
func NewWithConfig(diag *slip.Diagnostics, cfg Config) *Registry {
	return &Registry{table: newHashTableWithConfig(cfg), diag: diag}
}

// fatalf records a Resource-class diagnostic. A stack trace is attached
// via pkg/errors at the point the fault is first observed, the same
// "annotate once, at the boundary" treatment storage-layer faults get,
// before it is flattened into the plain Diag the caller sees.
func (r *Registry) fatalf(format string, args ...interface{}) {
	err := errors.Errorf(format, args...)
	ERR("%+v", err)
	r.diag.Fatal("", 0, 0, "%s", err.Error())
}

// RegisterUserData posts name as the Ascii key for a user-data parser.
// It rejects datum values that are not user-data, and rejects a name
// already held by a non-user-data entry. Registering a name that is
// already a user-data class succeeds and keeps the parser registered
// first; the new parser is not compared with it and is discarded.
func (r *Registry) RegisterUserData(d list.Datum) bool {
	if d.Kind != list.DUserData {
		BUG("RegisterUserData called with non-user-data datum kind %v", d.Kind)
		return false
	}
	lookup := &Entry{Kind: Ascii, Name: d.User.ClassName}
	ndx, existing, st := r.table.insert(lookup)
	switch st {
	case Inserted:
		existing.Parse = d.User.Parse
		existing.State = UserData
		return true
	case Found:
		if existing.State != UserData {
			r.fatalf("name %q already registered as a non-user-data entry", d.User.ClassName)
			return false
		}
		_ = ndx
		return true
	default:
		r.fatalf("hash table full registering user-data %q", d.User.ClassName)
		return false
	}
}

// RegisterSublistReference inserts-or-finds the Ascii entry for name,
// pre-populating an empty header so a {name} sublist reference can point
// at it before the name is ever defined.
//
// The very first time a name is seen this way (Inserted, not Found), the
// registry takes out its own strong reference on the fresh placeholder:
// it is the only owner of a name nobody has defined yet, so the header
// must outlive any single reference to it. A name seen for the first
// time via its own definition does not get this extra reference — its
// definition supplies real ownership context instead of a placeholder
// promise, which is what keeps a plain shared-sublist header's refcount
// equal to its number of {name} occurrences rather than one more.
func (r *Registry) RegisterSublistReference(name string) *Entry {
	lookup := newAsciiEntry(name)
	_, existing, st := r.table.insert(lookup)
	switch st {
	case Inserted:
		existing.Header = list.NewHeader()
		existing.Header.Ref()
		existing.State = Referenced
		return existing
	case Found:
		if existing.Header == nil {
			existing.Header = list.NewHeader()
		}
		// An entry BindDescriptor inserted before any reference or
		// definition still has the zero (Illegal) state and starts out
		// Referenced here. Otherwise the observation is applied; it only
		// fails for a user-data entry, and that failure is ignored.
		if existing.State == Illegal {
			existing.State = Referenced
		} else {
			existing.observe(Referenced)
		}
		return existing
	default:
		r.fatalf("hash table full referencing %q", name)
		return nil
	}
}

// RegisterSublistDefinition binds packet's body to name, moving the
// packet's cells into the pre-existing handle so every earlier reference
// sees the definition, then resolves any descriptor forward references
// chained on name.
func (r *Registry) RegisterSublistDefinition(name string, packet *slip.Packet) bool {
	lookup := newAsciiEntry(name)
	_, existing, st := r.table.insert(lookup)
	if st == Full {
		r.fatalf("hash table full defining %q", name)
		return false
	}
	if existing.Header == nil {
		existing.Header = list.NewHeader()
	}
	if st == Inserted || existing.State == Illegal {
		existing.State = Defined
	} else if !existing.observe(Defined) {
		r.fatalf("redefinition of %q", name)
		return false
	}
	moveInto(existing.Header, packet.Header)
	existing.Header.SetMark(packet.Header.Mark())
	if d := packet.Header.DescriptorList(); d != nil {
		existing.Header.SetDescriptorList(d)
	}
	r.resolve(existing)
	return true
}

// moveInto transfers src's cells onto dst, preserving dst's identity
// (the header every prior {name} reference already points to).
func moveInto(dst, src *list.Header) {
	if dst == src {
		return
	}
	for _, c := range src.Cells() {
		dst.Enqueue(c)
	}
	src.Flush()
}

// RegisterOutputList posts a Binary entry mapping handle to a generated
// name, used by the writer's first pass to decide whether a sublist has
// already been named. Duplicate handles are rejected.
func (r *Registry) RegisterOutputList(handle *list.Header, name string) bool {
	lookup := newBinaryEntry(handle, name)
	_, existing, st := r.table.insert(lookup)
	if st == Found {
		BUG("RegisterOutputList called twice for the same handle (existing name %q)", existing.GeneratedName)
		return false
	}
	if st == Full {
		r.fatalf("hash table full registering output list %q", name)
		return false
	}
	return true
}

// GetParse returns the parser registered for name, if any.
func (r *Registry) GetParse(name string) (list.ParseFunc, bool) {
	_, e, st := r.table.search(newAsciiEntry(name))
	if st != Found || e.Parse == nil {
		return nil, false
	}
	return e.Parse, true
}

// GetSublistHandle returns the header bound to name, creating the
// Referenced placeholder on first lookup.
func (r *Registry) GetSublistHandle(name string) *list.Header {
	e := r.RegisterSublistReference(name)
	if e == nil {
		return nil
	}
	return e.Header
}

// GetSublistName is the output-side reverse lookup from a header's
// identity to its generated name.
func (r *Registry) GetSublistName(handle *list.Header) (string, bool) {
	_, e, st := r.table.search(newBinaryEntry(handle, ""))
	if st != Found {
		return "", false
	}
	return e.GeneratedName, true
}

// RenameOutputList rewrites the generated name bound to handle, used by
// the writer's second pass to renumber lists in deterministic
// table-scan order.
func (r *Registry) RenameOutputList(handle *list.Header, name string) {
	_, e, st := r.table.search(newBinaryEntry(handle, ""))
	if st == Found {
		e.GeneratedName = name
	}
}

// ForEachBinary visits every Binary entry in table-scan order.
func (r *Registry) ForEachBinary(f func(handle *list.Header, name string) bool) {
	r.table.forEach(func(e *Entry) bool {
		if e.Kind != Binary {
			return true
		}
		return f(e.HandleKey, e.GeneratedName)
	})
}

// ForEachNamed visits every named-list Ascii entry (a list declared with
// `name ( ... );` somewhere in the input) that has reached a header, in
// table-scan order. The writer uses this to seed its own registry with
// the original names before discovery, so a named list keeps its name in
// the output instead of being assigned a synthetic one.
func (r *Registry) ForEachNamed(f func(name string, handle *list.Header) bool) {
	r.table.forEach(func(e *Entry) bool {
		if e.Kind != Ascii || e.Header == nil || !e.complete() {
			return true
		}
		return f(e.Name, e.Header)
	})
}

// ForEachUserData visits every registered user-data class name in
// table-scan order, used by the writer to build the leading "user
// name1, name2;" declaration.
func (r *Registry) ForEachUserData(f func(name string) bool) {
	r.table.forEach(func(e *Entry) bool {
		if e.Kind != Ascii || e.State != UserData {
			return true
		}
		return f(e.Name)
	})
}
