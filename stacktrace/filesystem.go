package stacktrace

import (
	"regexp"
	"strings"
)

var separatorsRe = regexp.MustCompile(`[\\/]+`)

// normalizePath converts any run of forward or back slashes to a single
// forward slash and drops a trailing slash.
func normalizePath(p string) string {
	p = separatorsRe.ReplaceAllString(p, "/")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// splitPath splits a normalized path into its directory and final element
// using POSIX dirname/basename rules: the directory of a bare name is ".",
// the directory of a root level name is "/".
func splitPath(p string) (dir, base string) {
	i := strings.LastIndexByte(p, '/')
	switch {
	case i < 0:
		return ".", p
	case i == 0:
		return "/", p[1:]
	default:
		return p[:i], p[i+1:]
	}
}

// RelativeFile trims a frame's absolute path down to the part that identifies
// it within its project. Concretely, this takes the path after the last
// instance of '/node_modules/' or, failing that, '/src/'. Paths containing
// neither are returned unchanged.
func RelativeFile(absPath string) string {
	for _, marker := range []string{"/node_modules/", "/src/"} {
		if i := strings.LastIndex(absPath, marker); i != -1 {
			return absPath[i+len(marker):]
		}
	}
	return absPath
}

// RelativePaths returns a Plugin rewriting the paths of frames located under
// root to paths relative to root:
//
//	at quxie (/home/charlike/apps/alwa.js:8:10)
//
// becomes, for root "/home/charlike",
//
//	at quxie (apps/alwa.js:8:10)
//
// Frames outside of root are left alone.
func RelativePaths(root string) Plugin {
	root = normalizePath(root)
	prefix := root + "/"
	if root == "/" {
		prefix = root
	}

	return func(frame string, info LocationInfo, _ int) string {
		if !strings.HasPrefix(info.Filename, prefix) {
			return ""
		}
		normalized := separatorsRe.ReplaceAllString(frame, "/")
		i := strings.Index(normalized, info.Filename)
		if i == -1 {
			return ""
		}
		return normalized[:i] + strings.TrimPrefix(info.Filename, prefix) + normalized[i+len(info.Filename):]
	}
}
