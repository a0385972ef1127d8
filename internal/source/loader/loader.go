package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formrows/pkg/source"
)

// Loader implements source.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	cache     *responseCache
}

var _ source.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options source.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		cache:     newResponseCache(options.CacheDir),
	}
}

// Load fetches the bytes behind src.
func (l *Loader) Load(ctx context.Context, src source.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("source loader: source is nil")
	}

	switch src.Kind() {
	case source.KindFile:
		return loadFile(ctx, src.Location())
	case source.KindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	case source.KindURL:
		if !l.allowHTTP {
			return nil, errors.New("source loader: http support disabled")
		}
		return l.loadURL(ctx, src.Location())
	default:
		return nil, errors.New("source loader: unsupported source kind")
	}
}

// loadURL fetches url and refreshes the cache. When the fetch fails and a
// cached body exists the cached body is returned instead.
func (l *Loader) loadURL(ctx context.Context, url string) ([]byte, error) {
	data, err := loadHTTP(ctx, l.http, url, l.timeout)
	if err == nil {
		if cacheErr := l.cache.put(url, data); cacheErr != nil {
			return nil, fmt.Errorf("source loader: cache %s: %w", url, cacheErr)
		}
		return data, nil
	}
	if ctx.Err() == nil {
		if cached, ok := l.cache.get(url); ok {
			return cached, nil
		}
	}
	return nil, err
}
