// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package parser

import (
	"errors"
	"testing"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/lexer"
	"github.com/gnuslip/slip/list"
	"github.com/gnuslip/slip/registry"
)

func parse(t *testing.T, src string) (*list.Header, *slip.Diagnostics) {
	t.Helper()
	diag := &slip.Diagnostics{}
	reg := registry.New(diag)
	opener := func(path string) ([]byte, error) {
		return nil, errors.New("no includes configured for this test")
	}
	lex := lexer.New("<test>", []byte(src), opener, slip.DefaultReaderConfig(), diag)
	p := New(lex, reg, diag)
	h, _ := p.Parse()
	return h, diag
}

func parseWithRegistry(t *testing.T, src string, reg *registry.Registry, diag *slip.Diagnostics) *list.Header {
	t.Helper()
	opener := func(path string) ([]byte, error) {
		return nil, errors.New("no includes configured for this test")
	}
	lex := lexer.New("<test>", []byte(src), opener, slip.DefaultReaderConfig(), diag)
	p := New(lex, reg, diag)
	h, _ := p.Parse()
	return h
}

func TestParseAnonymousFlatList(t *testing.T) {
	h, diag := parse(t, "(1 2 3)")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	if h == nil || h.Len() != 3 {
		t.Fatalf("got header %v", h)
	}
	cells := h.Cells()
	for i, want := range []int64{1, 2, 3} {
		d, ok := cells[i].Datum()
		if !ok || d.Kind != list.DI64 || d.I64 != want {
			t.Errorf("cell %d: got %v, want datum %d", i, d, want)
		}
	}
}

func TestParseMarkOnAnonymousList(t *testing.T) {
	h, diag := parse(t, "({5} 1 2)")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	if h.Mark() != 5 {
		t.Errorf("got mark %d, want 5", h.Mark())
	}
	if h.Len() != 2 {
		t.Errorf("got %d items, want 2", h.Len())
	}
}

func TestParseNamedListAndReference(t *testing.T) {
	h, diag := parse(t, "foo (1 2); ({foo} 3)")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	if h.Len() != 2 {
		t.Fatalf("got %d top-level items, want 2", h.Len())
	}
	cells := h.Cells()
	sub, ok := cells[0].SublistHeader()
	if !ok || sub.Len() != 2 {
		t.Fatalf("expected first item to be the 2-element sublist foo, got %v", cells[0])
	}
}

func TestParseForwardSublistReference(t *testing.T) {
	diag := &slip.Diagnostics{}
	reg := registry.New(diag)
	h := parseWithRegistry(t, "list foo; outer ({foo} 9); foo (1); {outer}", reg, diag)
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	foo := reg.GetSublistHandle("foo")
	if foo.Len() != 1 {
		t.Fatalf("foo should have been filled in by its later definition, got len=%d", foo.Len())
	}
	_ = h
}

func TestParseTopLevelSublistReference(t *testing.T) {
	h, diag := parse(t, "foo (42); {foo}")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	if h == nil || h.Len() != 1 {
		t.Fatalf("got %v", h)
	}
}

func TestParseDescriptorLiteral(t *testing.T) {
	h, diag := parse(t, `(< "k" 1 > 42)`)
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	d := h.DescriptorList()
	if d == nil || d.Len() != 2 {
		t.Fatalf("got descriptor %v", d)
	}
}

func TestParseDescriptorForwardReference(t *testing.T) {
	diag := &slip.Diagnostics{}
	reg := registry.New(diag)
	h := parseWithRegistry(t, "outer (<{attrs}> 1 2); attrs (true 9); {outer}", reg, diag)
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	outer, ok := reg.GetSublistHandle("outer"), true
	if !ok || outer.DescriptorList() == nil || outer.DescriptorList().Len() != 2 {
		t.Fatalf("outer's descriptor was not resolved: %v", outer.DescriptorList())
	}
	_ = h
}

func TestParseUserDataCall(t *testing.T) {
	diag := &slip.Diagnostics{}
	reg := registry.New(diag)
	reg.RegisterUserData(list.UserDatum(list.UserData{
		ClassName: "COORD",
		Parse: func(body *list.Header) (interface{}, bool) {
			return body.Len(), true
		},
	}))
	h := parseWithRegistry(t, "(COORD(1 2 3))", reg, diag)
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	if h.Len() != 1 {
		t.Fatalf("got %d items, want 1", h.Len())
	}
	d, ok := h.Cells()[0].Datum()
	if !ok || d.Kind != list.DUserData || d.User.Value.(int) != 3 {
		t.Fatalf("got %v", d)
	}
}

func TestParseUserDataCallMissingParserDiagnoses(t *testing.T) {
	h, diag := parse(t, "(UNKNOWN(1))")
	if diag.Count() == 0 {
		t.Fatalf("expected a diagnostic for an unregistered user-data class")
	}
	if h.Len() != 0 {
		t.Fatalf("expected the elided user-data node to leave no cell, got %d", h.Len())
	}
}

func TestParseSyntaxErrorReported(t *testing.T) {
	_, diag := parse(t, "(1 2")
	if diag.Count() == 0 {
		t.Fatalf("expected a diagnostic for the missing ')'")
	}
}
