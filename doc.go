// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package slip holds the description-packet, diagnostic, configuration
// and logging types that the SLIP lexer (slip/lexer), recursive-descent
// parser (slip/parser) and the sibling registry/writer packages share.
//
// A complete read is driven through the sibling package slip/reader's
// Reader: it owns a lexer, a parser and a registry, and materializes one
// top-level list.Header per successful Parse call. It lives in its own
// package rather than here because slip/parser already imports this
// package. Writing a list back out lives in the sibling package
// slip/writer.
package slip

// ReaderConfig, Diagnostics, Packet and the logging/error helpers in this
// package are shared by the lexer, parser, registry and writer packages;
// none of them import the others back.
