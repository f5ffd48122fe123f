// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lexer

import (
	"errors"
	"testing"

	"github.com/gnuslip/slip"
)

func noOpener(path string) ([]byte, error) {
	return nil, errors.New("no includes in this test")
}

func scanAll(t *testing.T, src string) ([]Token, *slip.Diagnostics) {
	t.Helper()
	diag := &slip.Diagnostics{}
	l := New("<test>", []byte(src), noOpener, slip.DefaultReaderConfig(), diag)
	var toks []Token
	for {
		tok, lerr := l.Next()
		if lerr != slip.ErrLexOk && lerr != slip.ErrLexEOF {
			t.Fatalf("scan error at %q: %v", src, lerr)
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks, diag
}

func TestLexerPunctuation(t *testing.T) {
	toks, diag := scanAll(t, "; ( ) < > # , { }")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	want := []Kind{Semi, LParen, RParen, LAngle, RAngle, Hash, Comma, LBrace, RBrace, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexerKeywordsCaseInsensitive(t *testing.T) {
	toks, _ := scanAll(t, "TRUE False LIST User InClUdE")
	want := []Kind{Bool, Bool, ListKw, UserKw, Include, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
	if !toks[0].Value.Bool {
		t.Errorf("TRUE did not decode to Bool(true)")
	}
	if toks[1].Value.Bool {
		t.Errorf("False did not decode to Bool(false)")
	}
}

func TestLexerName(t *testing.T) {
	toks, _ := scanAll(t, "foo_bar $baz Qux123")
	want := []string{"foo_bar", "$baz", "Qux123"}
	for i, w := range want {
		if toks[i].Kind != Name || toks[i].Text != w {
			t.Errorf("token %d: got %v %q, want Name %q", i, toks[i].Kind, toks[i].Text, w)
		}
	}
}

func TestLexerIntegerSuffixes(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
	}{
		{"123", Integer},
		{"-45", Integer},
		{"123U", UInteger},
		{"5C", Chars},
		{"5UC", UChar},
	}
	for _, c := range cases {
		toks, diag := scanAll(t, c.src)
		if diag.Count() != 0 {
			t.Fatalf("%q: unexpected diagnostics: %v", c.src, diag.Errs())
		}
		if toks[0].Kind != c.kind {
			t.Errorf("%q: got %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestLexerFloat(t *testing.T) {
	toks, _ := scanAll(t, "3.14 -2.5e10")
	if toks[0].Kind != Float || toks[0].Value.Float != 3.14 {
		t.Errorf("got %v %v, want Float 3.14", toks[0].Kind, toks[0].Value.Float)
	}
	if toks[1].Kind != Float || toks[1].Value.Float != -2.5e10 {
		t.Errorf("got %v %v, want Float -2.5e10", toks[1].Kind, toks[1].Value.Float)
	}
}

func TestLexerString(t *testing.T) {
	toks, diag := scanAll(t, `"hello \"world\"\n"`)
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	want := "hello \"world\"\n"
	if toks[0].Kind != String || toks[0].Value.String != want {
		t.Errorf("got %v %q, want String %q", toks[0].Kind, toks[0].Value.String, want)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	_, diag := scanAll(t, `"no closing quote`)
	if diag.Count() == 0 {
		t.Fatalf("expected a diagnostic for unterminated string")
	}
}

func TestLexerChar(t *testing.T) {
	toks, _ := scanAll(t, `'a' '\n'`)
	if toks[0].Kind != Char || toks[0].Value.I8 != 'a' {
		t.Errorf("got %v %v, want Char 'a'", toks[0].Kind, toks[0].Value.I8)
	}
	if toks[1].Kind != Char || toks[1].Value.I8 != '\n' {
		t.Errorf("got %v %v, want Char '\\n'", toks[1].Kind, toks[1].Value.I8)
	}
}

func TestLexerComments(t *testing.T) {
	toks, diag := scanAll(t, "foo // line comment\nbar /* block\ncomment */ baz")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	want := []string{"foo", "bar", "baz"}
	for i, w := range want {
		if toks[i].Text != w {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Text, w)
		}
	}
}

func TestLexerIncludeCycle(t *testing.T) {
	diag := &slip.Diagnostics{}
	opener := func(path string) ([]byte, error) {
		return []byte("x"), nil
	}
	l := New("a.slip", []byte("x"), opener, slip.DefaultReaderConfig(), diag)
	if lerr := l.SaveLexState("b.slip"); lerr != slip.ErrLexOk {
		t.Fatalf("first include push failed: %v", lerr)
	}
	if lerr := l.SaveLexState("a.slip"); lerr != slip.ErrLexIncludeCycle {
		t.Errorf("expected include cycle error, got %v", lerr)
	}
}

func TestLexerIncludePushPopResumesParent(t *testing.T) {
	diag := &slip.Diagnostics{}
	opener := func(path string) ([]byte, error) {
		return []byte("included"), nil
	}
	cfg := slip.DefaultReaderConfig()
	l := New("top.slip", []byte("before"), opener, cfg, diag)

	tok, _ := l.Next()
	if tok.Text != "before" {
		t.Fatalf("got %q before include push", tok.Text)
	}
	if lerr := l.SaveLexState("inc.slip"); lerr != slip.ErrLexOk {
		t.Fatalf("SaveLexState: %v", lerr)
	}
	if l.IsTop() {
		t.Fatalf("expected IsTop false after push")
	}
	tok, _ = l.Next()
	if tok.Text != "included" {
		t.Fatalf("got %q inside include", tok.Text)
	}
	tok, _ = l.Next()
	if tok.Kind != EOF {
		t.Fatalf("expected lexer to pop back to EOF of parent, got %v", tok.Kind)
	}
	if !l.IsTop() {
		t.Fatalf("expected IsTop true after auto-pop")
	}
}

func TestLexerIncludeOpenFailure(t *testing.T) {
	diag := &slip.Diagnostics{}
	l := New("top.slip", []byte(""), noOpener, slip.DefaultReaderConfig(), diag)
	if lerr := l.SaveLexState("missing.slip"); lerr != slip.ErrLexIncludeOpen {
		t.Errorf("expected ErrLexIncludeOpen, got %v", lerr)
	}
}

func TestLexerHexMark(t *testing.T) {
	toks, diag := scanAll(t, "{0x2a}")
	if diag.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Errs())
	}
	if toks[1].Kind != Integer || toks[1].Value.I64 != 0x2a {
		t.Fatalf("got %v, want Integer(42)", toks[1])
	}
}
