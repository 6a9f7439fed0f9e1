package stacktrace

import (
	"strings"
)

// MapStack runs transform over every line of stack, passing the line's index
// within stack, and joins the results back together.
//
// Leading indentation is stripped before a line is handed to transform and put
// back in front of whatever transform returns, so plugins see "at fn (...)"
// regardless of how the stack was indented.
func MapStack(stack string, transform Transform) string {
	lines := strings.Split(stack, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + transform(trimmed, i)
	}
	return strings.Join(lines, "\n")
}

// Trace can be used as a glog attribute to attach a textual stack trace, for
// example one reported by a browser, to a log event:
//
//	glog.Error("uncaught exception in checkout", stacktrace.Trace(report.Stack))
type Trace string
