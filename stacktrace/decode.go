package stacktrace

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var atPrefixRe = regexp.MustCompile(`at\s+`)

// Decode extracts the location of a frame such as "at fn (/path/file.js:8:10)".
// It reports false if frame does not look like a stack frame at all, which is
// any line without "at" somewhere in it. Anything else decodes on a best-effort
// basis: missing or malformed parts come back as zero values.
func Decode(frame string) (LocationInfo, bool) {
	if !strings.Contains(frame, "at") {
		return LocationInfo{}, false
	}

	tmp := frame
	if loc := atPrefixRe.FindStringIndex(frame); loc != nil {
		tmp = frame[:loc[0]] + frame[loc[1]:]
	}

	var place, filepath string
	if idx := strings.IndexByte(tmp, ' '); idx > 0 {
		place = tmp[:idx]
		filepath = tmp[idx+1:]
	} else {
		filepath = tmp
	}

	filepath = strings.TrimPrefix(filepath, "(")
	filepath = strings.TrimSuffix(filepath, ")")

	dir, base := splitPath(normalizePath(filepath))
	parts := strings.Split(normalizePath(base), ":")

	info := LocationInfo{
		Filename: normalizePath(path.Join(normalizePath(dir), parts[0])),
		Place:    place,
	}
	if len(parts) > 1 {
		info.Line = atoiOrZero(parts[1])
	}
	if len(parts) > 2 {
		info.Column = atoiOrZero(parts[2])
	}
	return info, true
}

// atoiOrZero parses s as a non-negative base 10 integer, returning 0 for
// anything else.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
