package reactive

import (
	"fmt"
	"os"
)

// DevMode enables development-time diagnostics throughout the package.
// When true, misuse (observing a non-object, writing to a locked read-only
// view, calling ToRefs on a non-observable) logs a warning to stderr.
// In production builds this should stay false; misused operations then
// return a safe default silently.
//
// This should be set at startup and not changed during runtime.
var DevMode bool

// Debug holds fine-grained diagnostic toggles. All default to off.
var Debug struct {
	// LogTracking logs every dependency edge added by Track.
	LogTracking bool

	// LogFlush logs scheduler flush passes and their job counts.
	LogFlush bool
}

// warnf logs a development warning. No-op unless DevMode is set.
func warnf(format string, args ...any) {
	if !DevMode {
		return
	}
	fmt.Fprintf(os.Stderr, "[ripple warn] "+format+"\n", args...)
}
