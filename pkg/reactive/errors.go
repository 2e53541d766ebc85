package reactive

import "errors"

// ErrMaxRecursiveUpdates is the sentinel wrapped by the fatal error raised
// when a single job is queued more than maxRecursionLimit times during one
// flush pass. This almost always means an effect, render function, or
// post-flush callback is mutating state that the same pass depends on.
//
// The scheduler panics with an error wrapping this sentinel; recover and
// errors.Is to detect it.
var ErrMaxRecursiveUpdates = errors.New("ripple: maximum recursive updates exceeded")

// ErrNotObservable describes a value that is not an observable kind. No
// operation in this package returns or reports it: Observe and ToRefs log a
// DevMode warning for such values instead.
var ErrNotObservable = errors.New("ripple: value is not an observable kind")
