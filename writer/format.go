// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gnuslip/slip/list"
	"github.com/gnuslip/slip/registry"
)

// charClass is what fitOutput's state machine needs to know about one
// byte of an oversized token: whether it opens/closes a quoted literal,
// escapes the next byte, or is a plain top-level space.
type charClass uint8

const (
	ccIgnore charClass = iota
	ccStringQuote
	ccCharQuote
	ccEscape
	ccSpace
)

func classify(b byte) charClass {
	switch b {
	case '"':
		return ccStringQuote
	case '\'':
		return ccCharQuote
	case '\\':
		return ccEscape
	case ' ':
		return ccSpace
	default:
		return ccIgnore
	}
}

// fitState is where fitOutput's scan currently sits relative to a quoted
// literal. Escapes only ever occur inside a string literal in output
// this writer generates (a char literal is always exactly one,
// unescaped, byte), so a single afterEscape state that always returns to
// inString is enough; there is no afterEscape-in-char variant to track.
type fitState uint8

const (
	fsOutside fitState = iota
	fsInString
	fsInChar
	fsAfterEscape
)

var fitTransition = [...][5]fitState{
	fsOutside: {
		ccIgnore:      fsOutside,
		ccStringQuote: fsInString,
		ccCharQuote:   fsInChar,
		ccEscape:      fsOutside,
		ccSpace:       fsOutside,
	},
	fsInString: {
		ccIgnore:      fsInString,
		ccStringQuote: fsOutside,
		ccCharQuote:   fsInString,
		ccEscape:      fsAfterEscape,
		ccSpace:       fsInString,
	},
	fsInChar: {
		ccIgnore:      fsInChar,
		ccStringQuote: fsInChar,
		ccCharQuote:   fsOutside,
		ccEscape:      fsInChar,
		ccSpace:       fsInChar,
	},
	fsAfterEscape: {
		ccIgnore:      fsInString,
		ccStringQuote: fsInString,
		ccCharQuote:   fsInString,
		ccEscape:      fsInString,
		ccSpace:       fsInString,
	},
}

// fitOutput splits an oversized single token into width-limited pieces,
// breaking only at a space outside any quoted literal. A run with no
// such breakable space inside it is kept whole, so a token with none at
// all is returned as a single piece, wider than width.
func fitOutput(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}
	state := fsOutside
	var out []string
	start, lastSpace := 0, -1
	cut := func(end int) {
		if end-start > width && lastSpace > start {
			out = append(out, s[start:lastSpace])
			start = lastSpace + 1
		}
	}
	for i := 0; i < len(s); i++ {
		cls := classify(s[i])
		breakable := state == fsOutside && cls == ccSpace
		state = fitTransition[state][cls]
		if breakable {
			cut(i)
			lastSpace = i
		}
	}
	cut(len(s))
	out = append(out, s[start:])
	return out
}

// lineBuffer is the column-tracked outputter pass 2 writes every token
// through: it wraps at MaxCol, resumes continuation lines at an indent
// capped at MaxIndent, and forces declarations onto their own line via
// freshLine regardless of how much room is left.
type lineBuffer struct {
	out     io.Writer
	cfg     Config
	col     int
	indent  int
	started bool
}

func newLineBuffer(out io.Writer, cfg Config) *lineBuffer {
	return &lineBuffer{out: out, cfg: cfg}
}

func (b *lineBuffer) newline() {
	io.WriteString(b.out, "\n")
	b.col = 0
	b.started = false
	if b.indent > 0 {
		io.WriteString(b.out, strings.Repeat(" ", b.indent))
		b.col = b.indent
		b.started = true
	}
}

// freshLine starts a new top-level construct: a named declaration or the
// final top-level list.
func (b *lineBuffer) freshLine() {
	if b.started {
		io.WriteString(b.out, "\n")
	}
	b.col = 0
	b.started = false
	b.indent = 0
}

// setIndent pins the column continuation lines resume at, capped at
// MaxIndent per the "indented under the declaration's own header" layout.
func (b *lineBuffer) setIndent(n int) {
	if n > b.cfg.MaxIndent {
		n = b.cfg.MaxIndent
	}
	b.indent = n
}

func (b *lineBuffer) writeFit(tok string) {
	if len(tok) <= b.cfg.MaxCol {
		io.WriteString(b.out, tok)
		b.col += len(tok)
		return
	}
	pieces := fitOutput(tok, b.cfg.MaxCol)
	for i, p := range pieces {
		if i > 0 {
			b.newline()
		}
		io.WriteString(b.out, p)
		b.col += len(p)
	}
}

// put appends tok as a new space-separated token, wrapping to a
// continuation line first if it would not fit on the current one.
func (b *lineBuffer) put(tok string) {
	width := len(tok)
	if b.started {
		width++
	}
	if b.started && b.col+width > b.cfg.MaxCol {
		b.newline()
	}
	if b.started {
		io.WriteString(b.out, " ")
		b.col++
	}
	b.writeFit(tok)
	b.started = true
}

// putTight appends tok directly against whatever precedes it, with no
// separating space — used for ';' closing a declaration.
func (b *lineBuffer) putTight(tok string) {
	if b.started && b.col+len(tok) > b.cfg.MaxCol {
		b.newline()
	}
	b.writeFit(tok)
	b.started = true
}

// renderDatum renders d the way the grammar's literal forms read it back:
// DI8/DU8 always in numeric-suffix form, never quoted-char form, since a
// reader does not retain whether "65C" or "'A'" produced a given DI8
// value; DUserData renders as its class constructor with an empty body,
// since the parsed-out body list is not retained once the parser's
// callback has consumed it.
func renderDatum(d list.Datum) string {
	switch d.Kind {
	case list.DBool:
		if d.Bool {
			return "true"
		}
		return "false"
	case list.DI8:
		return strconv.FormatInt(int64(d.I8), 10) + "C"
	case list.DU8:
		return strconv.FormatUint(uint64(d.U8), 10) + "UC"
	case list.DI32:
		return strconv.FormatInt(int64(d.I32), 10)
	case list.DU32:
		return strconv.FormatUint(uint64(d.U32), 10) + "U"
	case list.DI64:
		return strconv.FormatInt(d.I64, 10)
	case list.DU64:
		return strconv.FormatUint(d.U64, 10) + "U"
	case list.DFloat:
		return formatFloat(d.Float)
	case list.DString:
		return quoteString(d.String)
	case list.DUserData:
		return d.User.ClassName + "()"
	default:
		BUG("renderDatum: unhandled datum kind %v", d.Kind)
		return "0"
	}
}

// formatFloat renders v so it always re-lexes as FLOAT rather than
// INTEGER: strconv's 'g' form omits the decimal point for an integral
// value like 2.0, so one is forced back in.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quoteString renders s as a "..." literal with the C-style escapes the
// lexer's scanString accepts back.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// markToken renders a header's mark the way worked output shows it:
// hex, lowercase, as a bare-integer mark inside the '{' '}' the grammar's
// mark production uses ("{0x2a}"), distinct from a '{' name '}' sublist
// reference by virtue of containing a 0x-prefixed literal, not a name.
func markToken(mark uint16) string {
	return fmt.Sprintf("{0x%x}", mark)
}

func refToken(name string) string {
	return "{" + name + "}"
}

// emitter walks a discovered graph (via reg, the walker's own registry,
// already populated by pass 1) and renders it through buf.
type emitter struct {
	reg *registry.Registry
	buf *lineBuffer
}

// emitBody renders every cell of h onto buf, space-separated, recursing
// into an inline sublist or emitting a {listK} reference for one that
// pass 1 decided needs its own declaration.
func (e *emitter) emitBody(h *list.Header) {
	for _, c := range h.Cells() {
		if sub, ok := c.SublistHeader(); ok {
			e.emitListRef(sub)
			continue
		}
		d, _ := c.Datum()
		e.buf.put(renderDatum(d))
	}
}

// emitListRef renders h either as a {listK} reference, if pass 1 named
// it, or inline as a full "( ... )" otherwise.
func (e *emitter) emitListRef(h *list.Header) {
	if name, ok := e.reg.GetSublistName(h); ok {
		e.buf.put(refToken(name))
		return
	}
	e.emitInlineList(h)
}

// emitInlineList renders h's mark, descriptor and body inline, with no
// declaration of its own.
func (e *emitter) emitInlineList(h *list.Header) {
	e.buf.put("(")
	e.emitHeaderContents(h)
	e.buf.put(")")
}

func (e *emitter) emitHeaderContents(h *list.Header) {
	if m := h.Mark(); m != 0 {
		e.buf.put(markToken(m))
	}
	if d := h.DescriptorList(); d != nil {
		e.emitDescriptor(d)
	}
	e.emitBody(h)
}

// emitDescriptor renders h's attached descriptor list as "< ... >": a
// bare {name} if the descriptor itself was named or is shared, otherwise
// its key/value pairs inline.
func (e *emitter) emitDescriptor(h *list.Header) {
	if name, ok := e.reg.GetSublistName(h); ok {
		e.buf.put("<")
		e.buf.put(refToken(name))
		e.buf.put(">")
		return
	}
	e.buf.put("<")
	if m := h.Mark(); m != 0 {
		e.buf.put(markToken(m))
	}
	e.emitBody(h)
	e.buf.put(">")
}

// emitDeclaration renders one "name ( ... );" on its own line, with
// continuation lines indented under the opening "name (".
func (e *emitter) emitDeclaration(name string, h *list.Header) {
	e.buf.freshLine()
	e.buf.put(name)
	e.buf.put("(")
	e.buf.setIndent(5 + len(name) + 1)
	e.emitHeaderContents(h)
	e.buf.setIndent(0)
	e.buf.put(")")
	e.buf.putTight(";")
}

// emitUserDecl renders the leading "user name1, name2, ...;" line, if
// any user-data classes were seen during discovery.
func (e *emitter) emitUserDecl(names []string) {
	if len(names) == 0 {
		return
	}
	e.buf.freshLine()
	e.buf.put("user")
	for i, n := range names {
		if i > 0 {
			e.buf.putTight(",")
		}
		e.buf.put(n)
	}
	e.buf.putTight(";")
}

// emitTop renders the final top-level construct: a bare {listK}
// reference if root itself ended up named, otherwise its contents
// inline with no trailing ';'.
func (e *emitter) emitTop(root *list.Header) {
	e.buf.freshLine()
	if root == nil {
		e.buf.put("(")
		e.buf.put(")")
		return
	}
	if name, ok := e.reg.GetSublistName(root); ok {
		e.buf.put(refToken(name))
		return
	}
	e.emitInlineList(root)
}
