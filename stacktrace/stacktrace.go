package stacktrace

import (
	"fmt"
	"runtime"
	"strings"
)

type StackTrace struct {
	Frames []LocationInfo `json:"frames"`
}

// Parse decodes every frame of stack, innermost first. Lines before the first
// one starting with "at " are the error message, e.g. "TypeError: Cannot read
// property 'data' of undefined", and are skipped even if they contain "at".
func Parse(stack string) StackTrace {
	var (
		frames  []LocationInfo
		started bool
	)
	collect, _ := New(func(frame string, info LocationInfo, _ int) string {
		if !started && !strings.HasPrefix(strings.TrimSpace(frame), "at ") {
			return ""
		}
		started = true
		frames = append(frames, info)
		return ""
	})
	MapStack(stack, collect)
	return StackTrace{frames}
}

// Callers renders program counters, as returned by runtime.Callers, in the
// textual frame format understood by Decode:
//
//	at github.com/yext/cleanstack/sentry.FromGlogEvent (/src/sentry/backend.go:132)
func Callers(stack []uintptr) string {
	if len(stack) == 0 {
		return ""
	}
	var lines []string
	frames := runtime.CallersFrames(stack)
	for {
		frame, more := frames.Next()
		lines = append(lines, formatFrame(frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func formatFrame(function, file string, line int) string {
	if function == "" {
		return fmt.Sprintf("at %s:%d", file, line)
	}
	return fmt.Sprintf("at %s (%s:%d)", function, file, line)
}

// Inner returns the innermost stack frame.
func (st StackTrace) Inner() LocationInfo {
	if len(st.Frames) == 0 {
		return LocationInfo{}
	}
	return st.Frames[0]
}

// Strings returns a list of string descriptions of each stack frame.
func (st StackTrace) Strings() []string {
	var r = make([]string, len(st.Frames))
	for i, f := range st.Frames {
		r[i] = f.String()
	}
	return r
}

// String describes the frame as "file in place at line N:C".
func (f LocationInfo) String() string {
	place := f.Place
	if place == "" {
		place = "<anonymous>"
	}
	return fmt.Sprintf("%s in %s at line %d:%d", f.Filename, place, f.Line, f.Column)
}
