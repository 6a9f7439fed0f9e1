package sourcemap

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sourcemap/sourcemap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/yext/glog"
	"github.com/yext/yerrors"
	"golang.org/x/xerrors"
)

var cacheExpiration = flag.Duration("sourcemapCacheExpiration", 5*time.Minute,
	"how long parsed source maps, and the absence of one, are cached")

var errNegativeExpiration = xerrors.New("sourcemap: cache expiration must be >= 0")

// Fetcher fetches the source map of a bundle, identified by the file name of
// a decoded frame. If there is no source map available, Fetch returns a nil
// Consumer.
type Fetcher interface {
	Fetch(ctx context.Context, bundle string) (*sourcemap.Consumer, error)
}

// FileFetcher reads the source map of a bundle from "<bundle>.map" below
// Root. For bundles served over http(s) the scheme and host are dropped, so
// "https://example.com/static/app.js" is looked up as
// Root/static/app.js.map. Lookups never leave Root.
type FileFetcher struct {
	Root string
}

func (f FileFetcher) Fetch(ctx context.Context, bundle string) (*sourcemap.Consumer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mapPath := filepath.Join(f.Root, filepath.FromSlash(bundlePath(bundle))+".map")
	b, err := os.ReadFile(mapPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, yerrors.Wrap(err)
	}

	consumer, err := sourcemap.Parse("", b)
	if err != nil {
		return nil, xerrors.Errorf("sourcemap: parsing %s: %w", mapPath, err)
	}
	return consumer, nil
}

// bundlePath strips the scheme and host from a decoded URL and roots the
// result, so ".." elements cannot climb above "/". Decoded file names have
// their slashes collapsed, so the host follows "scheme:/".
func bundlePath(bundle string) string {
	p := bundle
	if i := strings.Index(bundle, ":/"); i > 1 {
		rest := bundle[i+2:]
		p = "/"
		if j := strings.IndexByte(rest, '/'); j != -1 {
			p = rest[j:]
		}
	}
	return path.Clean("/" + p)
}

// CachingFetcher wraps a Fetcher, caching source maps in memory and fetching
// from the wrapped Fetcher on cache misses. Bundles without a source map are
// cached too.
type CachingFetcher struct {
	cache   *gocache.Cache
	backend Fetcher
}

// NewCachingFetcher returns a CachingFetcher that wraps backend, caching
// results for expiration, or for -sourcemapCacheExpiration if expiration is 0.
func NewCachingFetcher(backend Fetcher, expiration time.Duration) (*CachingFetcher, error) {
	if expiration < 0 {
		return nil, errNegativeExpiration
	}
	if expiration == 0 {
		expiration = *cacheExpiration
	}
	return &CachingFetcher{
		cache:   gocache.New(expiration, 2*expiration),
		backend: backend,
	}, nil
}

// Fetch fetches a source map from the cache or wrapped backend. Errors are
// not cached.
func (c *CachingFetcher) Fetch(ctx context.Context, bundle string) (*sourcemap.Consumer, error) {
	if val, found := c.cache.Get(bundle); found {
		consumer, _ := val.(*sourcemap.Consumer)
		return consumer, nil
	}

	consumer, err := c.backend.Fetch(ctx, bundle)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(bundle, consumer)
	if glog.V(2) {
		glog.Infof("sourcemap: cached %s, %d entries", bundle, c.cache.ItemCount())
	}
	return consumer, nil
}
