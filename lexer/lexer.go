// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lexer

import (
	"strconv"

	"github.com/intuitivelabs/bytescase"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/list"
)

// Opener resolves an include path to its contents. A real Reader backs
// this with os.ReadFile; tests back it with an in-memory map.
type Opener func(path string) ([]byte, error)

// Lexer scans one token stream, descending into #include targets via an
// explicit stack of sources. Pushing and popping that stack is not done
// automatically on '#include' syntax: the parser recognizes the
// '#' INCLUDE STRING production and calls SaveLexState itself, keeping
// lexical scanning free of grammar knowledge.
type Lexer struct {
	stack  []*source
	opener Opener
	cfg    slip.ReaderConfig
	diag   *slip.Diagnostics
}

// New creates a Lexer over buf, identified as path for diagnostics.
func New(path string, buf []byte, opener Opener, cfg slip.ReaderConfig, diag *slip.Diagnostics) *Lexer {
	return &Lexer{
		stack:  []*source{newSource(path, buf)},
		opener: opener,
		cfg:    cfg,
		diag:   diag,
	}
}

func (l *Lexer) top() *source {
	return l.stack[len(l.stack)-1]
}

// IsTop reports whether the lexer is scanning its original input, as
// opposed to a pushed #include target.
func (l *Lexer) IsTop() bool {
	return len(l.stack) == 1
}

// Path is the path of the source currently being scanned.
func (l *Lexer) Path() string {
	return l.top().path
}

// SaveLexState opens path and pushes it as the new scan source. It
// refuses to push a path already on the stack (an include cycle) and
// refuses to exceed cfg.MaxIncludeDepth.
func (l *Lexer) SaveLexState(path string) slip.LexError {
	for _, s := range l.stack {
		if s.path == path {
			return slip.ErrLexIncludeCycle
		}
	}
	if l.cfg.MaxIncludeDepth > 0 && len(l.stack) >= l.cfg.MaxIncludeDepth {
		return slip.ErrLexIncludeCycle
	}
	buf, err := l.opener(path)
	if err != nil {
		return slip.ErrLexIncludeOpen
	}
	l.stack = append(l.stack, newSource(path, buf))
	return slip.ErrLexOk
}

// RestoreLexState pops the current include source and resumes its
// parent. It reports false when called at the top-level source, which
// is a lexer bug, not a user error.
func (l *Lexer) RestoreLexState() bool {
	if l.IsTop() {
		return false
	}
	l.stack = l.stack[:len(l.stack)-1]
	return true
}

func isNameStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameCont(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

var keywords = map[string]Kind{
	"true":    Bool,
	"false":   Bool,
	"list":    ListKw,
	"user":    UserKw,
	"include": Include,
}

var singlePunct = map[byte]Kind{
	';': Semi, '(': LParen, ')': RParen, '<': LAngle, '>': RAngle,
	'#': Hash, ',': Comma, '{': LBrace, '}': RBrace,
}

// Next returns the next token from the active source, popping exhausted
// #include sources and resuming their parent automatically. At the
// bottom of the stack, exhausting the source yields an EOF token.
func (l *Lexer) Next() (Token, slip.LexError) {
	for {
		l.skipLWS()
		s := l.top()
		if s.eof() {
			if l.IsTop() {
				return Token{Kind: EOF, Line: s.line, Col: s.col}, slip.ErrLexOk
			}
			l.RestoreLexState()
			continue
		}
		return l.scanToken()
	}
}

// skipLWS skips whitespace, line comments ("//") and block comments
// ("/* ... */"), stopping at the first significant byte or EOF.
func (l *Lexer) skipLWS() {
	for {
		s := l.top()
		for !s.eof() {
			c := s.peek()
			if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
				s.advance()
				continue
			}
			break
		}
		if s.eof() {
			return
		}
		if s.peek() == '/' && s.peekAt(1) == '/' {
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
			continue
		}
		if s.peek() == '/' && s.peekAt(1) == '*' {
			s.advance()
			s.advance()
			for !s.eof() && !(s.peek() == '*' && s.peekAt(1) == '/') {
				s.advance()
			}
			if s.eof() {
				l.diag.Addf(slip.Lexical, s.path, s.line, s.col, "unterminated block comment")
				return
			}
			s.advance()
			s.advance()
			continue
		}
		return
	}
}

func (l *Lexer) scanToken() (Token, slip.LexError) {
	s := l.top()
	line, col := s.line, s.col
	c := s.peek()

	switch {
	case isNameStart(c):
		return l.scanName(line, col)
	case isDigit(c), c == '-' && isDigit(s.peekAt(1)):
		return l.scanNumber(line, col)
	case c == '"':
		return l.scanString(line, col)
	case c == '\'':
		return l.scanChar(line, col)
	}

	if k, ok := singlePunct[c]; ok {
		s.advance()
		return Token{Kind: k, Line: line, Col: col}, slip.ErrLexOk
	}

	s.advance()
	l.diag.Addf(slip.Lexical, s.path, line, col, "unrecognized character %q", c)
	return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexBadChar
}

func (l *Lexer) scanName(line, col int) (Token, slip.LexError) {
	s := l.top()
	start := s.pos
	for !s.eof() && isNameCont(s.peek()) {
		s.advance()
	}
	text := string(s.buf[start:s.pos])

	for kw, kind := range keywords {
		if bytescase.CmpEq([]byte(kw), []byte(text)) {
			if kind == Bool {
				return Token{
					Kind: Bool, Line: line, Col: col, Text: text,
					Value: list.BoolDatum(bytescase.CmpEq([]byte("true"), []byte(text))),
				}, slip.ErrLexOk
			}
			return Token{Kind: kind, Line: line, Col: col, Text: text}, slip.ErrLexOk
		}
	}
	return Token{Kind: Name, Line: line, Col: col, Text: text}, slip.ErrLexOk
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanNumber scans an optionally-signed integer or float literal, with
// the C-style suffixes the grammar's UCHAR/CHARS/INTEGER/UINTEGER
// terminals use to disambiguate width and signedness ('U', 'C', 'UC',
// 'L', 'UL'; plain digits default to a 64-bit signed Integer).
func (l *Lexer) scanNumber(line, col int) (Token, slip.LexError) {
	s := l.top()
	start := s.pos
	if s.peek() == '-' {
		s.advance()
	}
	if s.peek() == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
		return l.scanHexNumber(line, col, start)
	}
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	isFloat := false
	if !s.eof() && s.peek() == '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		s.advance()
		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
	}
	if !s.eof() && (s.peek() == 'e' || s.peek() == 'E') {
		isFloat = true
		s.advance()
		if !s.eof() && (s.peek() == '+' || s.peek() == '-') {
			s.advance()
		}
		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
	}
	digits := string(s.buf[start:s.pos])

	if isFloat {
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			l.diag.Addf(slip.Lexical, s.path, line, col, "malformed float literal %q", digits)
			return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
		}
		return Token{Kind: Float, Line: line, Col: col, Text: digits, Value: list.FloatDatum(v)}, slip.ErrLexOk
	}

	suffixStart := s.pos
	for !s.eof() && (s.peek() == 'u' || s.peek() == 'U' || s.peek() == 'c' || s.peek() == 'C' || s.peek() == 'l' || s.peek() == 'L') {
		s.advance()
	}
	suffix := string(s.buf[suffixStart:s.pos])
	text := digits + suffix
	return numberToken(suffix, digits, text, line, col, func(format string, args ...interface{}) {
		l.diag.Addf(slip.Lexical, s.path, line, col, format, args...)
	})
}

// scanHexNumber scans a "0x"/"0X"-prefixed literal. This is not part of
// the original grammar's plain-decimal INTEGER terminal, but the writer
// emits a header's mark in hex (matching the "{0x2a}" form observed for
// marks), so the lexer accepts it here to keep mark round-tripping
// lossless; hex literals take no 'U'/'C'/'L' suffix.
func (l *Lexer) scanHexNumber(line, col, start int) (Token, slip.LexError) {
	s := l.top()
	s.advance() // '0'
	s.advance() // 'x' or 'X'
	digitsStart := s.pos
	for !s.eof() && isHexDigit(s.peek()) {
		s.advance()
	}
	text := string(s.buf[start:s.pos])
	if s.pos == digitsStart {
		l.diag.Addf(slip.Lexical, s.path, line, col, "malformed hex literal %q", text)
		return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
	}
	v, err := strconv.ParseInt(string(s.buf[digitsStart:s.pos]), 16, 64)
	if err != nil {
		l.diag.Addf(slip.Lexical, s.path, line, col, "hex literal %q out of range", text)
		return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
	}
	return Token{Kind: Integer, Line: line, Col: col, Text: text, Value: list.I64Datum(v)}, slip.ErrLexOk
}

func numberToken(suffix, digits, text string, line, col int, addDiag func(string, ...interface{})) (Token, slip.LexError) {
	unsigned := false
	byteWidth := false
	for _, c := range suffix {
		switch c {
		case 'u', 'U':
			unsigned = true
		case 'c', 'C':
			byteWidth = true
		}
	}

	if byteWidth {
		if unsigned {
			v, err := strconv.ParseUint(digits, 10, 8)
			if err != nil {
				addDiag("unsigned char literal %q out of range", text)
				return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
			}
			return Token{Kind: UChar, Line: line, Col: col, Text: text, Value: list.U8Datum(uint8(v))}, slip.ErrLexOk
		}
		v, err := strconv.ParseInt(digits, 10, 8)
		if err != nil {
			addDiag("char literal %q out of range", text)
			return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
		}
		return Token{Kind: Chars, Line: line, Col: col, Text: text, Value: list.I8Datum(int8(v))}, slip.ErrLexOk
	}

	if unsigned {
		v, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			addDiag("unsigned integer literal %q out of range", text)
			return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
		}
		return Token{Kind: UInteger, Line: line, Col: col, Text: text, Value: list.U64Datum(v)}, slip.ErrLexOk
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		addDiag("integer literal %q out of range", text)
		return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexNumberBad
	}
	return Token{Kind: Integer, Line: line, Col: col, Text: text, Value: list.I64Datum(v)}, slip.ErrLexOk
}

func (l *Lexer) scanString(line, col int) (Token, slip.LexError) {
	s := l.top()
	s.advance()
	var buf []byte
	for {
		if s.eof() {
			l.diag.Addf(slip.Lexical, s.path, line, col, "unterminated string literal")
			return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexUnterminatedString
		}
		c := s.advance()
		if c == '"' {
			break
		}
		if c == '\\' && !s.eof() {
			buf = append(buf, unescape(s.advance()))
			continue
		}
		buf = append(buf, c)
	}
	return Token{Kind: String, Line: line, Col: col, Text: string(buf), Value: list.StringDatum(string(buf))}, slip.ErrLexOk
}

func (l *Lexer) scanChar(line, col int) (Token, slip.LexError) {
	s := l.top()
	s.advance()
	if s.eof() {
		l.diag.Addf(slip.Lexical, s.path, line, col, "unterminated char literal")
		return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexUnterminatedString
	}
	var c byte
	if s.peek() == '\\' {
		s.advance()
		if s.eof() {
			l.diag.Addf(slip.Lexical, s.path, line, col, "unterminated char literal")
			return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexUnterminatedString
		}
		c = unescape(s.advance())
	} else {
		c = s.advance()
	}
	if s.eof() || s.peek() != '\'' {
		l.diag.Addf(slip.Lexical, s.path, line, col, "unterminated char literal")
		return Token{Kind: EOF, Line: line, Col: col}, slip.ErrLexUnterminatedString
	}
	s.advance()
	return Token{Kind: Char, Line: line, Col: col, Value: list.I8Datum(int8(c))}, slip.ErrLexOk
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}
