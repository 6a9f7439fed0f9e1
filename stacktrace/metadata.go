// Package stacktrace extracts location metadata (file, line, column and
// enclosing function) from textual stack trace frames such as
//
//	at quxie (/home/charlike/apps/alwa.js:8:10)
//
// and hands it to a Plugin before the frame is written back out. It is meant
// to be used as the per-line mapper of a stack rewriting pipeline like MapStack.
package stacktrace

import (
	"golang.org/x/xerrors"
)

// ErrInvalidArgument is returned when a Transform is requested for something
// that cannot be called as a Plugin.
var ErrInvalidArgument = xerrors.New("invalid argument")

// LocationInfo is the metadata decoded from a single frame.
type LocationInfo struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Filename string `json:"filename"`
	Place    string `json:"place"`
}

// Plugin receives every frame together with its decoded location and its
// index in the stack. A non-empty return value replaces the frame; an empty
// one keeps the frame unchanged.
type Plugin func(frame string, info LocationInfo, index int) string

// Transform maps one line of a stack trace, see New.
type Transform func(frame string, index int) string

// New binds plugin to the frame decoder. Lines that are not frames are passed
// through untouched without calling plugin.
//
//	var place string
//	mapper, _ := stacktrace.New(func(line string, info stacktrace.LocationInfo, i int) string {
//		if i == 1 {
//			place = info.Place
//		}
//		return line
//	})
//	stacktrace.MapStack(err.Stack, mapper)
func New(plugin Plugin) (Transform, error) {
	if plugin == nil {
		return nil, xerrors.Errorf("expect plugin to be a function: %w", ErrInvalidArgument)
	}

	return func(frame string, index int) string {
		info, ok := Decode(frame)
		if !ok {
			return frame
		}
		if out := plugin(frame, info, index); out != "" {
			return out
		}
		return frame
	}, nil
}

// FromFunc is New for callers holding the plugin as an interface{} value,
// e.g. when it comes out of a registry or a glog attribute.
func FromFunc(v interface{}) (Transform, error) {
	switch fn := v.(type) {
	case Plugin:
		return New(fn)
	case func(string, LocationInfo, int) string:
		return New(fn)
	default:
		return nil, xerrors.Errorf("expect plugin to be a function, got %T: %w", v, ErrInvalidArgument)
	}
}
