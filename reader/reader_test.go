// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package reader

import (
	"path/filepath"
	"testing"

	"github.com/gnuslip/slip/list"
)

func TestParseBytesEndToEnd(t *testing.T) {
	r := New()
	h, ok := r.ParseBytes("<test>", []byte("( 1 2 3 )"))
	if !ok {
		t.Fatalf("parse failed: %v", r.Diagnostics().Errs())
	}
	if h.Len() != 3 {
		t.Fatalf("got %d cells, want 3", h.Len())
	}
	if h.RefCount() != 0 {
		t.Fatalf("got refcount %d, want 0", h.RefCount())
	}
}

func TestParseFileNotOpenable(t *testing.T) {
	r := New()
	_, ok := r.Parse(filepath.Join(t.TempDir(), "does-not-exist.slip"))
	if ok {
		t.Fatalf("expected failure parsing a nonexistent file")
	}
	if r.Diagnostics().Count() == 0 {
		t.Fatalf("expected a diagnostic for the unopenable file")
	}
}

func TestRegisterUserDataBeforeParse(t *testing.T) {
	r := New()
	called := false
	r.RegisterUserData("COORD", func(body *list.Header) (interface{}, bool) {
		called = true
		return body.Len(), true
	})

	h, ok := r.ParseBytes("<test>", []byte("( COORD(10 11) )"))
	if !ok {
		t.Fatalf("parse failed: %v", r.Diagnostics().Errs())
	}
	if !called {
		t.Fatalf("registered parser was never invoked")
	}
	if h.Len() != 1 {
		t.Fatalf("got %d cells, want 1", h.Len())
	}
}
