// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

import (
	"github.com/intuitivelabs/slog"
)

// Log is this package's own logger instance, independent of slip.Log,
// so a registry can be tuned (verbosity, backend) without touching the
// reader/writer's logging.
var Log slog.Log = slog.New(slog.LERR, slog.LbackTraceL|slog.LlocInfoL, slog.LStdErr)

func WARN(f string, a ...interface{}) {
	Log.LLog(slog.LWARN, 1, "WARNING: registry: ", f, a...)
}

func ERR(f string, a ...interface{}) {
	Log.LLog(slog.LERR, 1, "ERROR: registry: ", f, a...)
}

func BUG(f string, a ...interface{}) {
	Log.LLog(slog.LBUG, 1, "BUG: registry: ", f, a...)
}
