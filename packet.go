// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package slip

import (
	"github.com/gnuslip/slip/list"
)

// PacketKind tags what a Packet carries.
type PacketKind uint8

const (
	// Anonymous packets carry an unnamed list's header; the grammar action
	// that produced them owns the header until it is consumed one level up.
	Anonymous PacketKind = iota
	// Named packets carry a named list's header; ownership belongs to the
	// registry, never to the packet.
	Named
	// Data packets carry a scalar or user-data Datum.
	Data
)

// DebugFlags are the parser-action debug bits carried on a Packet.
type DebugFlags uint8

const (
	DebugTrace DebugFlags = 1 << iota
	DebugDump
)

// Packet is a description packet: a value that flows up one level
// through the parser stack and is consumed exactly once there. It is a
// plain Go value (not a pointer with shared ownership); the linear
// ownership discipline is enforced by convention, the same way a PField
// documents but does not runtime-enforce single ownership of the span
// it describes.
type Packet struct {
	Kind   PacketKind
	Header *list.Header // valid for Anonymous and Named
	Datum  list.Datum   // valid for Data
	Name   string       // valid for Named
	Nested *Packet      // optional descriptor-list packet
	Debug  DebugFlags

	disposed bool
}

// AnonymousPacket builds a Packet wrapping an unnamed list's header.
func AnonymousPacket(h *list.Header) Packet {
	return Packet{Kind: Anonymous, Header: h}
}

// NamedPacket builds a Packet wrapping a named list's header.
func NamedPacket(name string, h *list.Header) Packet {
	return Packet{Kind: Named, Name: name, Header: h}
}

// DataPacket builds a Packet wrapping a scalar or user-data Datum.
func DataPacket(d list.Datum) Packet {
	return Packet{Kind: Data, Datum: d}
}

// WithDescriptor attaches a descriptor-list packet and returns p.
func (p Packet) WithDescriptor(nested *Packet) Packet {
	p.Nested = nested
	return p
}

// BindNestedDescriptor transfers ownership of p.Nested's header into
// p.Header's descriptor-list slot and clears Nested, so a later Dispose
// of p does not also dispose a descriptor that now belongs to the
// header. It is a no-op when p has no nested descriptor.
func (p *Packet) BindNestedDescriptor() {
	if p.Nested == nil || p.Header == nil {
		return
	}
	p.Header.SetDescriptorList(p.Nested.Header)
	p.Nested.disposed = true // header ownership transferred, not deleted
	p.Nested = nil
}

// Dispose consumes p exactly once, dispatching to the disposal mode that
// matches its Kind: Data packets have no owned resource beyond the Datum
// itself (user-data values are owned by whoever registered the parser);
// Anonymous packets release their list (Unref, and Flush if that drops
// the count to zero); Named packets release nothing, because the registry
// owns every named list for the registry's lifetime.
//
// Calling Dispose twice on the same Packet is a programmer error (BUG is
// logged) but does not panic, so an error-path cleanup that races a
// normal consumption path fails safe.
func (p *Packet) Dispose() {
	if p.disposed {
		BUG("Packet.Dispose called twice for kind %v", p.Kind)
		return
	}
	p.disposed = true
	if p.Nested != nil {
		p.Nested.Dispose()
	}
	switch p.Kind {
	case Data:
		p.disposeData()
	case Anonymous:
		p.disposeList()
	case Named:
		p.disposeNamed()
	}
}

func (p *Packet) disposeData() {
	p.Datum = list.Datum{}
}

func (p *Packet) disposeList() {
	if p.Header == nil {
		return
	}
	if p.Header.Unref() {
		p.Header.Flush()
	}
	p.Header = nil
}

func (p *Packet) disposeNamed() {
	// intentionally a no-op: the registry owns Named headers.
}
