// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package lexer implements the SLIP token scanner: whitespace and
// comment skipping, literal scanning, keyword recognition, and the
// include-file stack that lets #include push and pop input sources.
package lexer

import "github.com/gnuslip/slip/list"

// Kind is one of the terminals of the grammar's token alphabet.
type Kind uint8

const (
	EOF Kind = iota
	Bool
	End // ';'
	Char
	Chars // 'C'-suffixed signed byte literal
	CharU // reserved, never emitted by Next()
	Float
	Include
	Integer
	Name
	String
	ListKw
	UChar
	UInteger
	UserKw
	Semi
	LParen
	RParen
	LAngle
	RAngle
	Hash
	Comma
	LBrace
	RBrace
)

var kindStr = [...]string{
	EOF: "EOF", Bool: "BOOL", End: "END", Char: "CHAR", Chars: "CHARS",
	CharU: "CHARU", Float: "FLOAT", Include: "INCLUDE", Integer: "INTEGER",
	Name: "NAME", String: "STRING", ListKw: "LIST", UChar: "UCHAR",
	UInteger: "UINTEGER", UserKw: "USER", Semi: "';'", LParen: "'('",
	RParen: "')'", LAngle: "'<'", RAngle: "'>'", Hash: "'#'", Comma: "','",
	LBrace: "'{'", RBrace: "'}'",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) && kindStr[k] != "" {
		return kindStr[k]
	}
	return "?"
}

// Token is one lexical unit, positioned for diagnostics.
type Token struct {
	Kind Kind
	Line int
	Col  int

	// Text is the raw identifier/keyword spelling for Name tokens.
	Text string
	// Value holds the literal's value for Bool/Char/Chars/UChar/
	// Integer/UInteger/Float/String tokens.
	Value list.Datum
}
