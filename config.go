// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package slip

// ReaderConfig tunes one Reader instance. It is a small struct of
// tunables set once, the same shape as a package-level Config/Cfg, except
// it lives per-instance instead of as global mutable state, so
// independent readers are safe to run in parallel.
type ReaderConfig struct {
	// IncludePaths are searched, in order, for #include "path" targets
	// that cannot be opened as given (relative to the working
	// directory); targets are not resolved against the including file's
	// directory.
	IncludePaths []string
	// MaxIncludeDepth bounds the include stack to guard against runaway
	// nesting.
	MaxIncludeDepth int
	// Debug is stored with the lexer's configuration; no lexer or parser
	// code reads it, and no token trace is produced.
	Debug bool
}

// DefaultReaderConfig returns the default tuning for a Reader.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{MaxIncludeDepth: 32}
}
