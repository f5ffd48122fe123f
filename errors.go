// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package slip

import "fmt"

// ErrorKind classifies a Diag by the stage that raised it.
type ErrorKind uint8

const (
	Lexical ErrorKind = iota
	Syntactic
	Semantic
	Resource
)

var errorKindStr = [...]string{
	Lexical:   "lexical",
	Syntactic: "syntactic",
	Semantic:  "semantic",
	Resource:  "resource",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindStr) {
		return errorKindStr[k]
	}
	return "unknown"
}

// Diag is one diagnostic produced while reading or writing a list.
type Diag struct {
	File    string
	Line    int
	Col     int
	Kind    ErrorKind
	Message string
}

func (d Diag) Error() string {
	if d.File == "" && d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Col, d.Kind, d.Message)
}

// Diagnostics accumulates Diag values for one reader or writer instance.
// It is an explicit field on that instance rather than a package-level
// singleton, so concurrent reads and writes never share diagnostic state.
type Diagnostics struct {
	items []Diag
	fatal bool
}

// Addf appends a formatted diagnostic.
func (d *Diagnostics) Addf(kind ErrorKind, file string, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diag{
		File:    file,
		Line:    line,
		Col:     col,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// Fatal appends a Resource-class diagnostic and marks the pass as having
// hit a destructive error that aborts the read or write outright.
func (d *Diagnostics) Fatal(file string, line, col int, format string, args ...interface{}) {
	d.Addf(Resource, file, line, col, format, args...)
	d.fatal = true
}

// IsFatal reports whether a Resource-class error was recorded.
func (d *Diagnostics) IsFatal() bool {
	return d.fatal
}

// Count returns the number of diagnostics recorded so far.
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Errs returns the recorded diagnostics in emission order.
func (d *Diagnostics) Errs() []Diag {
	return d.items
}

// ExitCode maps the diagnostics collected during a parse to the CLI's
// process-exit convention: 0 success, 1 parse failed, 2 file not openable.
// fileOpenable should be false only when the top-level input itself could
// not be opened (an #include failure is reported as a Diag, not this).
func (d *Diagnostics) ExitCode(fileOpenable bool) int {
	if !fileOpenable {
		return 2
	}
	if d.fatal || d.Count() > 0 {
		return 1
	}
	return 0
}

// LexError is the type returned by lexer scanning functions. The zero
// value is the non-error, the same convention syscall.Errno uses.
type LexError uint32

const (
	ErrLexOk LexError = iota
	ErrLexEOF
	ErrLexBadChar
	ErrLexUnterminatedString
	ErrLexUnterminatedComment
	ErrLexIncludeOpen
	ErrLexIncludeCycle
	ErrLexNumberBad
	ErrLexBug
)

var lexErrStr = [...]string{
	ErrLexOk:                  "no error",
	ErrLexEOF:                 "end of input",
	ErrLexBadChar:             "unrecognized character",
	ErrLexUnterminatedString:  "unterminated string literal",
	ErrLexUnterminatedComment: "unterminated comment",
	ErrLexIncludeOpen:         "include file not openable",
	ErrLexIncludeCycle:        "include cycle detected",
	ErrLexNumberBad:           "malformed numeric literal",
	ErrLexBug:                 "internal BUG in lexer",
}

func (e LexError) Error() string {
	if int(e) < len(lexErrStr) {
		return lexErrStr[e]
	}
	return "unknown lexer error"
}
