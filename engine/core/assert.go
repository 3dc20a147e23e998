package core

import (
	"fmt"
	"sync/atomic"
)

var fatalAssertions atomic.Bool

// SetFatalAssertions switches invalid-usage assertions between logging only
// and panicking. Debug builds of a host application usually turn it on.
func SetFatalAssertions(fatal bool) {
	fatalAssertions.Store(fatal)
}

func FatalAssertions() bool {
	return fatalAssertions.Load()
}

// Assert reports a caller contract violation when cond is false. The return
// value is cond, so call sites can bail out with their own error.
func Assert(cond bool, msg string, args ...interface{}) bool {
	if cond {
		return true
	}
	text := fmt.Sprintf(msg, args...)
	LogError("assertion failed: %s", text)
	if fatalAssertions.Load() {
		panic("assertion failed: " + text)
	}
	return false
}
