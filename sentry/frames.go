package sentry

import (
	"runtime"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/yext/cleanstack/stacktrace"
)

var goroot = runtime.GOROOT()

// NewStacktrace decodes a textual stack trace, innermost frame first as
// printed by Node.js or by stacktrace.Callers, into a Sentry stacktrace with
// the innermost frame last. Lines which are not frames are skipped.
// It returns nil if stack contains no frames.
func NewStacktrace(stack string) *sentry.Stacktrace {
	st := stacktrace.Parse(stack)
	if len(st.Frames) == 0 {
		return nil
	}

	frames := make([]sentry.Frame, len(st.Frames))
	for i, info := range st.Frames {
		frames[len(frames)-1-i] = newFrame(info)
	}
	return &sentry.Stacktrace{Frames: frames}
}

func newFrame(info stacktrace.LocationInfo) sentry.Frame {
	return sentry.Frame{
		Function: info.Place,
		Filename: stacktrace.RelativeFile(info.Filename),
		AbsPath:  info.Filename,
		Lineno:   info.Line,
		Colno:    info.Column,
		InApp:    inApp(info.Filename),
	}
}

// inApp reports whether a frame belongs to the application rather than to a
// runtime or a third party package. Bare file names such as "module.js" are
// Node.js internals.
func inApp(filename string) bool {
	switch {
	case !strings.Contains(filename, "/"):
		return false
	case strings.Contains(filename, "/node_modules/"), strings.Contains(filename, "/vendor/"):
		return false
	case goroot != "" && strings.HasPrefix(filename, goroot+"/"):
		return false
	}
	return true
}
