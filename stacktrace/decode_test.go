package stacktrace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yext/cleanstack/stacktrace"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		frame string
		want  stacktrace.LocationInfo
	}{
		{"at quxie (/home/u/app.js:8:10)", stacktrace.LocationInfo{Place: "quxie", Filename: "/home/u/app.js", Line: 8, Column: 10}},
		{"at /home/u/app.js:8:10", stacktrace.LocationInfo{Filename: "/home/u/app.js", Line: 8, Column: 10}},
		{"at module.exports (/home/u/foo.js:6:3)", stacktrace.LocationInfo{Place: "module.exports", Filename: "/home/u/foo.js", Line: 6, Column: 3}},
		{"at weird (no-numbers-here)", stacktrace.LocationInfo{Place: "weird", Filename: "no-numbers-here"}},
		{"at Module._compile (module.js:409:26)", stacktrace.LocationInfo{Place: "Module._compile", Filename: "module.js", Line: 409, Column: 26}},
		{"at (/home/u/app.js:8:10)", stacktrace.LocationInfo{Filename: "/home/u/app.js", Line: 8, Column: 10}},
		{"at foo (C:\\Users\\u\\app.js:3:4)", stacktrace.LocationInfo{Place: "foo", Filename: "C:/Users/u/app.js", Line: 3, Column: 4}},
		{"at foo (/home//u/lib/../app.js:3:4)", stacktrace.LocationInfo{Place: "foo", Filename: "/home/u/app.js", Line: 3, Column: 4}},
		{"at foo (/home/u/app.js:12)", stacktrace.LocationInfo{Place: "foo", Filename: "/home/u/app.js", Line: 12}},
		{"at foo (/home/u/app.js)", stacktrace.LocationInfo{Place: "foo", Filename: "/home/u/app.js"}},
		{"at foo (/home/u/app.js:x:-4)", stacktrace.LocationInfo{Place: "foo", Filename: "/home/u/app.js"}},
		{"at foo (/home/u/app.js:8:10", stacktrace.LocationInfo{Place: "foo", Filename: "/home/u/app.js", Line: 8, Column: 10}},
		{"at foo /home/u/app.js:8:10)", stacktrace.LocationInfo{Place: "foo", Filename: "/home/u/app.js", Line: 8, Column: 10}},
		{"at /app.js:1:2", stacktrace.LocationInfo{Filename: "/app.js", Line: 1, Column: 2}},
		{"at", stacktrace.LocationInfo{Filename: "at"}},
		{"at github.com/yext/cleanstack/sentry.FromGlogEvent (/go/src/sentry/backend.go:132)", stacktrace.LocationInfo{Place: "github.com/yext/cleanstack/sentry.FromGlogEvent", Filename: "/go/src/sentry/backend.go", Line: 132}},
	}

	for _, tt := range tests {
		got, ok := stacktrace.Decode(tt.frame)
		assert.True(t, ok, tt.frame)
		assert.Equal(t, tt.want, got, tt.frame)
	}
}

func TestDecodeNotAFrame(t *testing.T) {
	for _, line := range []string{"", "Error: Missing unicorn", "    ", "TypeError: x is undefined"} {
		_, ok := stacktrace.Decode(line)
		assert.False(t, ok, line)
	}
}

// Any line containing "at" is treated as a candidate frame, even when the
// two letters are part of a word.
func TestDecodeMatchesAtAnywhere(t *testing.T) {
	info, ok := stacktrace.Decode("Error: Cannot read property 'data' of undefined")
	assert.True(t, ok)
	assert.Equal(t, "Error:", info.Place)
	assert.Zero(t, info.Line)
	assert.Zero(t, info.Column)

	info, ok = stacktrace.Decode("/var/data/file.js:3:4")
	assert.True(t, ok)
	assert.Equal(t, stacktrace.LocationInfo{Filename: "/var/data/file.js", Line: 3, Column: 4}, info)

	// "at" followed by whitespace is removed even in the middle of a word.
	info, ok = stacktrace.Decode("Request format invalid")
	assert.True(t, ok)
	assert.Equal(t, stacktrace.LocationInfo{Place: "Request", Filename: "forminvalid"}, info)
}

// The base name is split on every colon, so a drive-relative Windows path
// loses its file name. This is a known limitation.
func TestDecodeDriveRelativePath(t *testing.T) {
	info, ok := stacktrace.Decode("at foo (C:app.js:3:4)")
	assert.True(t, ok)
	assert.Equal(t, stacktrace.LocationInfo{Place: "foo", Filename: "C", Column: 3}, info)
}

func TestDecodeNeverNegative(t *testing.T) {
	for _, frame := range []string{
		"at a (b.js:-1:-2)",
		"at a (b.js:99999999999999999999999:1)",
		"at a (b.js: 7 : 8 )",
		"at a (b.js:::)",
		"at a b c d",
	} {
		info, ok := stacktrace.Decode(frame)
		assert.True(t, ok, frame)
		assert.GreaterOrEqual(t, info.Line, 0, frame)
		assert.GreaterOrEqual(t, info.Column, 0, frame)
	}

	info, _ := stacktrace.Decode("at a (b.js: 7 : 8 )")
	assert.Equal(t, 7, info.Line)
	assert.Equal(t, 8, info.Column)
}
