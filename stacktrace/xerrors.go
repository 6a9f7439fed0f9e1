package stacktrace

import (
	"strings"

	"github.com/yext/glog"
	"golang.org/x/xerrors"
)

// ErrorFrames renders the frames recorded by err and the errors it wraps
// (xerrors, yerrors and anything else implementing xerrors.Formatter) in the
// textual frame format understood by Decode, innermost (originating) error
// first like Callers. It returns "" if no frames were recorded.
func ErrorFrames(err error) string {
	xs := &xerrorsStack{}
	for err != nil {
		xs.detail = false
		switch xerr := err.(type) {
		case xerrors.Formatter:
			err = xerr.FormatError(xs)
		case xerrors.Wrapper:
			err = xerr.Unwrap()
		default:
			err = nil
		}
	}
	// Formatters are visited outermost first.
	for i, j := 0, len(xs.lines)-1; i < j; i, j = i+1, j-1 {
		xs.lines[i], xs.lines[j] = xs.lines[j], xs.lines[i]
	}
	return strings.Join(xs.lines, "\n")
}

// xerrorsStack implements xerrors.Printer to capture only the wrapped stack trace.
//
// Exploits the fact that xerrors.Frame is always written as detail (and nothing else is, for any
// known implementation).
//
// It expects a sequence of alternating calls like this:
//
//	Printf("%s\n    ", []interface {}{"package.FuncName"})
//	Printf("%s:%d\n", []interface {}{"/absolute/path/to/file.go", 47})
type xerrorsStack struct {
	detail bool
	lines  []string
	fnName string
}

func (x *xerrorsStack) Print(args ...interface{}) {}

func (x *xerrorsStack) Printf(format string, args ...interface{}) {
	if !x.detail {
		return
	}
	switch len(args) {
	case 1:
		if fn, ok := args[0].(string); ok {
			x.fnName = fn
		}
	case 2:
		var (
			absPath, ok1 = args[0].(string)
			lineno, ok2  = args[1].(int)
		)
		if !ok1 || !ok2 {
			glog.Warningf("unexpected: Printf(%q, %#v)", format, args)
			return
		}
		x.lines = append(x.lines, formatFrame(x.fnName, absPath, lineno))
		x.fnName = ""
	}
}

func (x *xerrorsStack) Detail() bool {
	x.detail = true
	return true
}
