package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine: the stack of
// currently-executing effects and the tracking-paused flag. Each goroutine
// has its own context so concurrent callers do not observe each other's
// effect stacks. Within one goroutine the engine is cooperative and
// single-threaded, matching the execution model the interceptors assume.
type trackingContext struct {
	// effectStack is the sequence of currently-executing effects.
	// The top of the stack is the active effect that Track subscribes.
	effectStack []*Effect

	// paused suppresses all Track calls between PauseTracking and
	// ResumeTracking. Trigger is unaffected.
	paused bool
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
// Note: This is an implementation detail and should not be relied upon externally.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// currentTracking returns the tracking context for the current goroutine,
// creating one if none exists.
func currentTracking() *trackingContext {
	gid := getGoroutineID()

	if tc, ok := trackingContexts.Load(gid); ok {
		return tc.(*trackingContext)
	}

	tc := &trackingContext{}
	trackingContexts.Store(gid, tc)
	return tc
}

// activeEffect returns the effect on top of the current goroutine's effect
// stack, or nil if no effect is executing. The active effect is always
// derived from the stack; it is never stored separately.
func activeEffect() *Effect {
	tc := currentTracking()
	if n := len(tc.effectStack); n > 0 {
		return tc.effectStack[n-1]
	}
	return nil
}

// onStack reports whether e is anywhere on the goroutine's effect stack.
// Used to make re-entrant runs of the same effect a no-op.
func (tc *trackingContext) onStack(e *Effect) bool {
	for _, s := range tc.effectStack {
		if s == e {
			return true
		}
	}
	return false
}

func (tc *trackingContext) push(e *Effect) {
	tc.effectStack = append(tc.effectStack, e)
}

func (tc *trackingContext) pop() {
	if n := len(tc.effectStack); n > 0 {
		tc.effectStack[n-1] = nil
		tc.effectStack = tc.effectStack[:n-1]
	}
}

// PauseTracking suppresses dependency tracking on the current goroutine.
// Reads performed until ResumeTracking do not subscribe the active effect.
func PauseTracking() {
	currentTracking().paused = true
}

// ResumeTracking re-enables dependency tracking on the current goroutine.
func ResumeTracking() {
	currentTracking().paused = false
}

// Untracked runs fn with tracking paused, restoring the previous state
// afterwards. Reads inside fn do not create subscriptions.
//
// Example:
//
//	Untracked(func() {
//	    // Reading o here won't subscribe the running effect
//	    current := o.Get("count")
//	    _ = current
//	})
func Untracked(fn func()) {
	tc := currentTracking()
	old := tc.paused
	tc.paused = true
	defer func() { tc.paused = old }()
	fn()
}
