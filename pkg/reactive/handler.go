package reactive

import (
	"fmt"
	"sync/atomic"
)

// errorHandler is the collaborator that receives errors raised inside
// scheduled jobs. The component system installs one via OnError; without a
// handler errors re-panic so nothing is ever swallowed inside the core.
var errorHandler atomic.Pointer[func(error)]

// OnError installs the handler invoked with errors recovered from scheduled
// jobs and post-flush callbacks. Passing nil restores the default, which
// re-panics.
func OnError(fn func(error)) {
	if fn == nil {
		errorHandler.Store(nil)
		return
	}
	errorHandler.Store(&fn)
}

func handleError(err error) {
	if h := errorHandler.Load(); h != nil {
		(*h)(err)
		return
	}
	panic(err)
}

// recoveredError normalizes a recovered panic value into an error.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("ripple: effect panic: %v", r)
}
