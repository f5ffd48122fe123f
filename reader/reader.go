// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package reader assembles the lexer, parser and registry packages into
// the single entry point a caller drives a parse through. It is a
// separate package from slip itself (rather than the usual sibling
// leaf/hub split) because the parser package already imports slip for
// Packet and Diagnostics; a Reader living in package slip and also
// calling into parser would be an import cycle.
package reader

import (
	"os"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/lexer"
	"github.com/gnuslip/slip/list"
	"github.com/gnuslip/slip/parser"
	"github.com/gnuslip/slip/registry"
)

// Reader drives one complete parse: it owns a registry, builds a lexer
// over the input, drives a parser to completion, and hands back the
// result header plus the accumulated diagnostics. Each Reader is
// independent; nothing here is shared across Readers running in
// parallel (§5).
type Reader struct {
	cfg  slip.ReaderConfig
	reg  *registry.Registry
	diag *slip.Diagnostics
}

// New builds a Reader tuned with slip.DefaultReaderConfig and
// registry.DefaultConfig.
func New() *Reader {
	return NewWithConfig(slip.DefaultReaderConfig(), registry.DefaultConfig())
}

// NewWithConfig builds a Reader with explicit tuning for both the
// parse-side knobs (include depth, debug tracing) and the registry's
// hash table.
func NewWithConfig(cfg slip.ReaderConfig, regCfg registry.Config) *Reader {
	diag := &slip.Diagnostics{}
	return &Reader{cfg: cfg, diag: diag, reg: registry.NewWithConfig(diag, regCfg)}
}

// RegisterUserData pre-registers a user-data class's parser before a
// parse begins, so a `ClassName ( ... )` call in the input resolves to
// it. It mirrors registry.Registry.RegisterUserData directly.
func (r *Reader) RegisterUserData(className string, parse list.ParseFunc) bool {
	return r.reg.RegisterUserData(list.UserDatum(list.UserData{ClassName: className, Parse: parse}))
}

// Registry returns the Reader's registry, so a Writer can seed its own
// named-list declarations from it (writer.Writer.Write's src parameter).
func (r *Reader) Registry() *registry.Registry {
	return r.reg
}

// Diagnostics returns the accumulated diagnostics from every Parse call
// this Reader has driven.
func (r *Reader) Diagnostics() *slip.Diagnostics {
	return r.diag
}

// Parse reads path from disk and parses it to completion. An #include
// target is opened as given (relative to the working directory, not to
// path's directory), then joined onto each of cfg.IncludePaths in turn.
func (r *Reader) Parse(path string) (*list.Header, bool) {
	buf, err := os.ReadFile(path)
	if err != nil {
		r.diag.Addf(slip.Resource, path, 0, 0, "cannot open %q: %v", path, err)
		return nil, false
	}
	return r.ParseBytes(path, buf)
}

// ParseBytes parses buf as if it were the contents of path, using the
// same file-based #include resolution Parse does.
func (r *Reader) ParseBytes(path string, buf []byte) (*list.Header, bool) {
	lex := lexer.New(path, buf, r.openInclude, r.cfg, r.diag)
	p := parser.New(lex, r.reg, r.diag)
	return p.Parse()
}

// openInclude backs the lexer's Opener: it tries the literal path first,
// then each of cfg.IncludePaths joined with path, in order.
func (r *Reader) openInclude(path string) ([]byte, error) {
	if buf, err := os.ReadFile(path); err == nil {
		return buf, nil
	}
	var lastErr error
	for _, dir := range r.cfg.IncludePaths {
		buf, err := os.ReadFile(dir + string(os.PathSeparator) + path)
		if err == nil {
			return buf, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return nil, lastErr
}
