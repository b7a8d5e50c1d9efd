package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

// innermostStackTrace returns the frames of the deepest stack trace attached to err, as
// "function file:line" lines, innermost call first.
func innermostStackTrace(err error) ([]string, bool) {
	var (
		found errbase.StackTrace
		ok    bool
	)
	for ; err != nil; err = errbase.UnwrapOnce(err) {
		if p, isProvider := err.(errbase.StackTraceProvider); isProvider {
			found, ok = p.StackTrace(), true
		}
	}
	if !ok {
		return nil, false
	}
	return traceLines(found), true
}

// traceLines renders the frames of st. Trailing runtime frames are dropped.
func traceLines(st errbase.StackTrace) []string {
	end := len(st)
	for end > 0 {
		fn := runtime.FuncForPC(uintptr(st[end-1]) - 1)
		if fn == nil || !strings.HasPrefix(fn.Name(), "runtime.") {
			break
		}
		end--
	}
	lines := make([]string, 0, end)
	for _, frame := range st[:end] {
		pc := uintptr(frame) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			lines = append(lines, "unknown")
			continue
		}
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("%s %s:%d", fn.Name(), file, line))
	}
	return lines
}
