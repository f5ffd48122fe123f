// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package parser implements a recursive-descent parser over the lexer's
// token stream, building list.Header graphs and driving the registry's
// forward-reference machinery as it goes.
package parser

import (
	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/lexer"
	"github.com/gnuslip/slip/list"
	"github.com/gnuslip/slip/registry"
)

// Parser consumes one token stream to completion, producing the header
// of the top-level list if one is present.
type Parser struct {
	lex  *lexer.Lexer
	reg  *registry.Registry
	diag *slip.Diagnostics

	cur     lexer.Token
	result  *list.Header
	hadFail bool
}

// New builds a Parser. diag accumulates both lexical and syntactic
// diagnostics across the whole parse.
func New(lex *lexer.Lexer, reg *registry.Registry, diag *slip.Diagnostics) *Parser {
	return &Parser{lex: lex, reg: reg, diag: diag}
}

// Parse runs the file production to completion and returns the
// top-level list's header. ok is false if any diagnostic (lexical,
// syntactic, semantic or resource) was recorded.
func (p *Parser) Parse() (*list.Header, bool) {
	p.advance()
	for p.atDeclarationStart() {
		p.parseDeclaration()
		if p.hadFail {
			return nil, false
		}
	}
	if p.cur.Kind != lexer.EOF {
		p.result = p.parseTopList()
	}
	return p.result, p.diag.Count() == 0
}

func (p *Parser) advance() {
	tok, lerr := p.lex.Next()
	if lerr != slip.ErrLexOk && lerr != slip.ErrLexEOF {
		p.hadFail = true
	}
	p.cur = tok
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.diag.Addf(slip.Syntactic, p.lex.Path(), p.cur.Line, p.cur.Col, format, args...)
	p.hadFail = true
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, bool) {
	if p.cur.Kind != k {
		p.errorf("expected %v, got %v", k, p.cur.Kind)
		return lexer.Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// atDeclarationStart reports whether the current token opens a
// declaration rather than the file's trailing topList. NAME is
// unambiguous here: topList only ever starts with '(' or '{'.
func (p *Parser) atDeclarationStart() bool {
	switch p.cur.Kind {
	case lexer.ListKw, lexer.UserKw, lexer.Hash, lexer.Name:
		return true
	}
	return false
}

func (p *Parser) parseDeclaration() {
	switch p.cur.Kind {
	case lexer.ListKw:
		p.parseNameListDecl(func(name string) { p.reg.RegisterSublistReference(name) })
	case lexer.UserKw:
		p.parseNameListDecl(func(name string) {
			if _, ok := p.reg.GetParse(name); !ok {
				p.diag.Addf(slip.Semantic, p.lex.Path(), p.cur.Line, p.cur.Col,
					"user-data class %q declared but no parser is registered for it", name)
			}
		})
	case lexer.Hash:
		p.parseInclude()
	case lexer.Name:
		p.parseNamedListDef()
	}
}

func (p *Parser) parseNameListDecl(register func(name string)) {
	p.advance() // 'list' or 'user'
	for {
		name, ok := p.expect(lexer.Name)
		if !ok {
			return
		}
		register(name.Text)
		if p.cur.Kind != lexer.Comma {
			break
		}
		p.advance()
	}
	p.expect(lexer.Semi)
}

func (p *Parser) parseInclude() {
	p.advance() // '#'
	if _, ok := p.expect(lexer.Include); !ok {
		return
	}
	// The include is pushed before advancing past the path, so the token
	// that follows the #include line is read only once the included
	// source is exhausted.
	if p.cur.Kind != lexer.String {
		p.errorf("expected %v, got %v", lexer.String, p.cur.Kind)
		return
	}
	path := p.cur
	if lerr := p.lex.SaveLexState(path.Value.String); lerr != slip.ErrLexOk {
		p.diag.Addf(slip.Lexical, p.lex.Path(), path.Line, path.Col,
			"cannot include %q: %v", path.Value.String, lerr)
	}
	p.advance()
}

func (p *Parser) parseNamedListDef() {
	name, ok := p.expect(lexer.Name)
	if !ok {
		return
	}
	pkt, ok := p.parseListDef(name.Text)
	if !ok {
		return
	}
	named := slip.NamedPacket(name.Text, pkt.Header)
	if !p.reg.RegisterSublistDefinition(name.Text, &named) {
		p.diag.Addf(slip.Semantic, p.lex.Path(), name.Line, name.Col, "failed to register list %q", name.Text)
	}
	p.expect(lexer.Semi)
}

// parseTopList implements `topList := listDef | '{' name '}'`. It takes
// no reference of its own on the returned header: an anonymous top-level
// list comes back with a reference count of 0, and a {name} top-level
// list keeps only the references its sublist cells and the registry hold.
func (p *Parser) parseTopList() *list.Header {
	if p.cur.Kind == lexer.LBrace {
		return p.parseSublistReference()
	}
	pkt, ok := p.parseListDef("")
	if !ok {
		return nil
	}
	return pkt.Header
}

func (p *Parser) parseSublistReference() *list.Header {
	p.advance() // '{'
	name, ok := p.expect(lexer.Name)
	if !ok {
		return nil
	}
	h := p.reg.GetSublistHandle(name.Text)
	p.expect(lexer.RBrace)
	return h
}

// parseListDef implements `listDef := '(' mark? description? listBody? ')'`.
// namedHost is the name this listDef will define, or "" when it builds
// an anonymous list (used for self-reference diagnostics in descriptors).
func (p *Parser) parseListDef(namedHost string) (slip.Packet, bool) {
	if _, ok := p.expect(lexer.LParen); !ok {
		return slip.Packet{}, false
	}
	header := list.NewHeader()
	pkt := slip.AnonymousPacket(header)

	// A leading '{' is ambiguous between a mark ('{' integer '}') and
	// the listBody's first item being a sublist reference ('{' name
	// '}'); the token after '{' disambiguates it.
	if p.cur.Kind == lexer.LBrace {
		p.advance()
		switch p.cur.Kind {
		case lexer.Integer:
			v := p.cur.Value.I64
			p.advance()
			if _, ok := p.expect(lexer.RBrace); !ok {
				pkt.Dispose()
				return slip.Packet{}, false
			}
			header.SetMark(uint16(v))
		case lexer.Name:
			name := p.cur
			p.advance()
			if _, ok := p.expect(lexer.RBrace); !ok {
				pkt.Dispose()
				return slip.Packet{}, false
			}
			h := p.reg.GetSublistHandle(name.Text)
			h.Ref()
			header.Enqueue(list.NewSublistCell(h))
		default:
			p.errorf("expected integer mark or name after '{', got %v", p.cur.Kind)
			pkt.Dispose()
			return slip.Packet{}, false
		}
	}

	if p.cur.Kind == lexer.LAngle {
		descPkt, ok := p.parseDescription(header, namedHost)
		if !ok {
			pkt.Dispose()
			return slip.Packet{}, false
		}
		if descPkt != nil {
			pkt = pkt.WithDescriptor(descPkt)
		}
	}

	for p.startsItem() {
		if !p.parseItem(header) {
			pkt.Dispose()
			return slip.Packet{}, false
		}
	}

	if _, ok := p.expect(lexer.RParen); !ok {
		pkt.Dispose()
		return slip.Packet{}, false
	}
	pkt.BindNestedDescriptor()
	return pkt, true
}

// parseDescription implements the description production. It returns a
// non-nil packet to attach when the descriptor is a literal body built
// right here; it returns (nil, true) when the descriptor was a bare
// forward reference already bound directly against host, or empty.
func (p *Parser) parseDescription(host *list.Header, namedHost string) (*slip.Packet, bool) {
	p.advance() // '<'

	if p.cur.Kind == lexer.RAngle {
		p.advance()
		return nil, true
	}

	if p.cur.Kind == lexer.LBrace {
		save := p.cur
		p.advance()
		if p.cur.Kind == lexer.Name {
			name := p.cur
			p.advance()
			if _, ok := p.expect(lexer.RBrace); !ok {
				return nil, false
			}
			if _, ok := p.expect(lexer.RAngle); !ok {
				return nil, false
			}
			if !p.reg.BindDescriptor(name.Text, host, namedHost) {
				return nil, false
			}
			return nil, true
		}
		// '{' not followed by a name: this is actually mark+descItems
		// starting with an integer mark, e.g. '<' '{' 5 '}' k v '>'.
		if save.Kind != lexer.LBrace || p.cur.Kind != lexer.Integer {
			p.errorf("expected name or integer after '{' in descriptor")
			return nil, false
		}
		v := p.cur.Value.I64
		p.advance()
		if _, ok := p.expect(lexer.RBrace); !ok {
			return nil, false
		}
		return p.parseDescriptorBody(uint16(v))
	}

	return p.parseDescriptorBody(0)
}

func (p *Parser) parseDescriptorBody(mark uint16) (*slip.Packet, bool) {
	descHeader := list.NewHeader()
	descHeader.SetMark(mark)
	for p.startsDatumOrRef() {
		key, ok := p.parseDescItemValue()
		if !ok {
			descHeader.Flush()
			return nil, false
		}
		val, ok := p.parseDescItemValue()
		if !ok {
			descHeader.Flush()
			return nil, false
		}
		descHeader.Enqueue(key)
		descHeader.Enqueue(val)
	}
	if _, ok := p.expect(lexer.RAngle); !ok {
		descHeader.Flush()
		return nil, false
	}
	pkt := slip.AnonymousPacket(descHeader)
	return &pkt, true
}

func (p *Parser) parseDescItemValue() (*list.Cell, bool) {
	if !p.startsDatumOrRef() {
		p.errorf("expected a descriptor value, got %v", p.cur.Kind)
		return nil, false
	}
	if p.cur.Kind == lexer.LBrace {
		h := p.parseSublistReference()
		if h == nil {
			return nil, false
		}
		h.Ref()
		return list.NewSublistCell(h), true
	}
	d, ok := p.parseDatum()
	if !ok {
		return nil, false
	}
	return list.NewDatumCell(d), true
}

func (p *Parser) startsDatumOrRef() bool {
	return p.startsDatum() || p.cur.Kind == lexer.LBrace
}

// startsItem implements `item := datum | '{' name '}' | userCall | listDef`.
func (p *Parser) startsItem() bool {
	switch p.cur.Kind {
	case lexer.LBrace, lexer.LParen:
		return true
	case lexer.Name:
		return true
	default:
		return p.startsDatum()
	}
}

func (p *Parser) startsDatum() bool {
	switch p.cur.Kind {
	case lexer.Bool, lexer.Char, lexer.Chars, lexer.UChar,
		lexer.Integer, lexer.UInteger, lexer.Float, lexer.String:
		return true
	}
	return false
}

// parseItem implements the single-item productions and appends the
// resulting cell (or cells, for a user-data elision) to header.
func (p *Parser) parseItem(header *list.Header) bool {
	switch {
	case p.cur.Kind == lexer.LBrace:
		h := p.parseSublistReference()
		if h == nil {
			return false
		}
		h.Ref()
		header.Enqueue(list.NewSublistCell(h))
		return true
	case p.cur.Kind == lexer.LParen:
		pkt, ok := p.parseListDef("")
		if !ok {
			return false
		}
		pkt.Header.Ref()
		header.Enqueue(list.NewSublistCell(pkt.Header))
		return true
	case p.cur.Kind == lexer.Name:
		return p.parseUserCall(header)
	case p.startsDatum():
		d, ok := p.parseDatum()
		if !ok {
			return false
		}
		header.Enqueue(list.NewDatumCell(d))
		return true
	}
	p.errorf("unexpected token %v in list body", p.cur.Kind)
	return false
}

// parseUserCall implements `userCall := name listDef`.
func (p *Parser) parseUserCall(header *list.Header) bool {
	name, ok := p.expect(lexer.Name)
	if !ok {
		return false
	}
	pkt, ok := p.parseListDef("")
	if !ok {
		return false
	}
	parse, found := p.reg.GetParse(name.Text)
	if !found {
		p.diag.Addf(slip.Semantic, p.lex.Path(), name.Line, name.Col,
			"no user-data parser registered for %q", name.Text)
		pkt.Dispose()
		return true
	}
	value, ok := parse(pkt.Header)
	pkt.Dispose()
	if !ok {
		p.diag.Addf(slip.Semantic, p.lex.Path(), name.Line, name.Col,
			"user-data parser for %q rejected its input", name.Text)
		return true
	}
	d := list.UserDatum(list.UserData{ClassName: name.Text, Value: value})
	header.Enqueue(list.NewDatumCell(d))
	return true
}

func (p *Parser) parseDatum() (list.Datum, bool) {
	if !p.startsDatum() {
		p.errorf("expected a literal, got %v", p.cur.Kind)
		return list.Datum{}, false
	}
	d := p.cur.Value
	p.advance()
	return d, true
}
