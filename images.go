package md2doc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/alnah/go-md2doc/internal/assetstore"
	"github.com/alnah/go-md2doc/internal/fileutil"
)

// AssetScheme is the custom local-asset URL scheme. References like
// mdasset://figure.png resolve inside the local asset store.
const AssetScheme = "mdasset://"

// maxImageBytes caps a single resolved image (remote or local).
const maxImageBytes = 20 << 20

// imageResolver resolves an image reference to raw bytes. Failures are
// returned as errors and logged; they never abort a conversion pass.
type imageResolver interface {
	Resolve(ctx context.Context, ref string) ([]byte, error)
}

// assetImageResolver resolves references in four classes, checked in
// order: the mdasset:// scheme, app-relative asset paths, remote URLs,
// and bare filesystem paths.
type assetImageResolver struct {
	assetRoot    string
	client       *http.Client
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// newAssetImageResolver creates a resolver. assetRoot may be empty, in
// which case scheme and asset-relative references fail (→ placeholder).
func newAssetImageResolver(assetRoot string, client *http.Client, fetchTimeout time.Duration, logger *zap.Logger) *assetImageResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &assetImageResolver{
		assetRoot:    assetRoot,
		client:       client,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Resolve classifies ref and reads its bytes. The returned bytes are
// content-sniffed; payloads that are not images count as failures.
func (r *assetImageResolver) Resolve(ctx context.Context, ref string) ([]byte, error) {
	data, err := r.read(ctx, ref)
	if err != nil {
		r.logger.Warn("image resolution failed",
			zap.String("ref", ref),
			zap.Error(err))
		return nil, err
	}
	if !filetype.IsImage(data) {
		r.logger.Warn("resolved bytes are not an image", zap.String("ref", ref))
		return nil, fmt.Errorf("%w: %q", ErrNotAnImage, ref)
	}
	return data, nil
}

// read dispatches on the reference class.
func (r *assetImageResolver) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, AssetScheme):
		return r.readAsset(strings.TrimPrefix(ref, AssetScheme))
	case isAssetRelative(ref):
		return r.readAsset(path.Base(ref))
	case fileutil.IsURL(ref):
		return r.fetch(ctx, ref)
	default:
		return r.readFile(ref)
	}
}

// isAssetRelative reports whether ref is an app-relative asset path.
func isAssetRelative(ref string) bool {
	trimmed := strings.TrimPrefix(ref, "./")
	return strings.HasPrefix(trimmed, "assets/images/")
}

// readAsset looks up a basename in the local asset store.
func (r *assetImageResolver) readAsset(name string) ([]byte, error) {
	if r.assetRoot == "" {
		return nil, fmt.Errorf("%w: no asset root configured", ErrImageNotFound)
	}
	p, err := assetstore.Lookup(r.assetRoot, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	return r.readFile(p)
}

// readFile reads a local filesystem path with the size cap applied.
func (r *assetImageResolver) readFile(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrImageNotFound, p)
	}
	if info.Size() > maxImageBytes {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrImageFetch, p, maxImageBytes)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrImageNotFound, p)
	}
	return data, nil
}

// fetch downloads a remote image. A per-fetch timeout bounds each
// request so a stuck server cannot hang the whole pass; expiry is
// treated like any other fetch failure.
func (r *assetImageResolver) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrImageFetch, url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrImageFetch, url, maxImageBytes)
	}
	return data, nil
}

// imageCache memoizes resolutions by exact reference string within one
// conversion pass. Each distinct reference is fetched at most once; a
// concurrent lookup for an in-flight key awaits the first resolution
// instead of re-fetching. The cache lives for one pass only.
type imageCache struct {
	resolver imageResolver

	mu      sync.Mutex
	entries map[string]*imageEntry
}

// imageEntry is a single resolution, possibly still in flight.
type imageEntry struct {
	ready chan struct{}
	data  []byte
	err   error
}

// newImageCache creates an empty pass-scoped cache.
func newImageCache(resolver imageResolver) *imageCache {
	return &imageCache{
		resolver: resolver,
		entries:  make(map[string]*imageEntry),
	}
}

// Get returns the resolved bytes for ref, resolving on first use.
func (c *imageCache) Get(ctx context.Context, ref string) ([]byte, error) {
	c.mu.Lock()
	e, ok := c.entries[ref]
	if !ok {
		e = &imageEntry{ready: make(chan struct{})}
		c.entries[ref] = e
		c.mu.Unlock()

		e.data, e.err = c.resolver.Resolve(ctx, ref)
		close(e.ready)
		return e.data, e.err
	}
	c.mu.Unlock()

	select {
	case <-e.ready:
		return e.data, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Warm resolves all refs concurrently, one outstanding request per
// distinct reference, and waits for completion. Failures stay cached so
// block construction degrades to placeholders without refetching.
func (c *imageCache) Warm(ctx context.Context, refs []string) {
	var wg sync.WaitGroup
	for _, ref := range refs {
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			_, _ = c.Get(ctx, ref)
		}(ref)
	}
	wg.Wait()
}
