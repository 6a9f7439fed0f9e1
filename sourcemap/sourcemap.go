// Package sourcemap rewrites stack frames of minified JavaScript bundles to
// their original source positions. It plugs into the stacktrace package:
//
//	fetcher, _ := sourcemap.NewCachingFetcher(sourcemap.FileFetcher{Root: "public"}, 0)
//	mapper, _ := stacktrace.New(sourcemap.Plugin(ctx, fetcher))
//	stack = stacktrace.MapStack(stack, mapper)
package sourcemap

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/yext/glog"

	"github.com/yext/cleanstack/stacktrace"
)

// Plugin returns a stacktrace.Plugin replacing every frame that has a source
// map with "at <name> (<source>:<line>:<column>)", where name is the original
// symbol name if the source map has one and the frame's own name otherwise.
// Frames without a line and column, without a source map, or outside of the
// mapped range are kept as they are.
func Plugin(ctx context.Context, fetcher Fetcher) stacktrace.Plugin {
	return func(frame string, info stacktrace.LocationInfo, _ int) string {
		if info.Line == 0 || info.Column == 0 {
			return ""
		}

		consumer, err := fetcher.Fetch(ctx, info.Filename)
		if err != nil {
			glog.Warningf("sourcemap: fetching source map for %s: %v", info.Filename, err)
			return ""
		}
		if consumer == nil {
			return ""
		}

		// Source takes a 1-based line and a 0-based column.
		file, name, line, col, ok := consumer.Source(info.Line, info.Column-1)
		if !ok || file == "" || line <= 0 {
			glog.V(1).Infof("sourcemap: no mapping for %s:%d:%d", info.Filename, info.Line, info.Column)
			return ""
		}

		if name == "" {
			name = info.Place
		}
		if name == "" {
			return fmt.Sprintf("at %s:%d:%d", file, line, col+1)
		}
		return fmt.Sprintf("at %s (%s:%d:%d)", name, file, line, col+1)
	}
}

// Preload fetches the source maps of bundles, e.g. to warm a CachingFetcher
// at startup. All bundles are attempted; the returned error lists every
// failure.
func Preload(ctx context.Context, fetcher Fetcher, bundles ...string) error {
	var result *multierror.Error
	for _, bundle := range bundles {
		if _, err := fetcher.Fetch(ctx, bundle); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", bundle, err))
		}
	}
	return result.ErrorOrNil()
}
