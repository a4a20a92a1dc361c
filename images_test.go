package md2doc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// countingResolver counts resolutions safely under concurrency.
type countingResolver struct {
	calls atomic.Int32
	data  []byte
	err   error
}

func (r *countingResolver) Resolve(_ context.Context, _ string) ([]byte, error) {
	r.calls.Add(1)
	return r.data, r.err
}

func TestImageCacheResolvesOnce(t *testing.T) {
	t.Parallel()

	t.Run("repeated gets hit the resolver once", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{data: pngMagic}
		cache := newImageCache(resolver)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			data, err := cache.Get(ctx, "mdasset://a.png")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(data) == 0 {
				t.Fatal("Get() returned empty data")
			}
		}
		if got := resolver.calls.Load(); got != 1 {
			t.Errorf("resolver called %d times, want 1", got)
		}
	})

	t.Run("failures are cached too", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{err: ErrImageNotFound}
		cache := newImageCache(resolver)
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			if _, err := cache.Get(ctx, "missing.png"); !errors.Is(err, ErrImageNotFound) {
				t.Fatalf("Get() error = %v, want %v", err, ErrImageNotFound)
			}
		}
		if got := resolver.calls.Load(); got != 1 {
			t.Errorf("resolver called %d times, want 1", got)
		}
	})

	t.Run("warm dedups concurrent duplicates", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{data: pngMagic}
		cache := newImageCache(resolver)

		refs := []string{"a.png", "b.png", "a.png", "b.png", "a.png"}
		cache.Warm(context.Background(), refs)

		if got := resolver.calls.Load(); got != 2 {
			t.Errorf("resolver called %d times, want 2 (one per distinct ref)", got)
		}
	})
}

func TestAssetImageResolver(t *testing.T) {
	t.Parallel()

	writeAsset := func(t *testing.T, root, name string, data []byte) {
		t.Helper()
		dir := filepath.Join(root, "images")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("mdasset scheme resolves in asset store", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeAsset(t, root, "fig.png", pngMagic)

		r := newAssetImageResolver(root, nil, 0, nil)
		data, err := r.Resolve(context.Background(), "mdasset://fig.png")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if len(data) != len(pngMagic) {
			t.Errorf("got %d bytes, want %d", len(data), len(pngMagic))
		}
	})

	t.Run("asset-relative path resolves by basename", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeAsset(t, root, "fig.png", pngMagic)

		r := newAssetImageResolver(root, nil, 0, nil)
		for _, ref := range []string{"assets/images/fig.png", "./assets/images/fig.png"} {
			if _, err := r.Resolve(context.Background(), ref); err != nil {
				t.Errorf("Resolve(%q) error = %v", ref, err)
			}
		}
	})

	t.Run("scheme without asset root fails", func(t *testing.T) {
		t.Parallel()
		r := newAssetImageResolver("", nil, 0, nil)
		_, err := r.Resolve(context.Background(), "mdasset://fig.png")
		if !errors.Is(err, ErrImageNotFound) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrImageNotFound)
		}
	})

	t.Run("traversal names are rejected", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		r := newAssetImageResolver(root, nil, 0, nil)
		_, err := r.Resolve(context.Background(), "mdasset://../secret.png")
		if !errors.Is(err, ErrImageNotFound) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrImageNotFound)
		}
	})

	t.Run("bare path reads local file", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "local.png")
		if err := os.WriteFile(p, pngMagic, 0o644); err != nil {
			t.Fatal(err)
		}

		r := newAssetImageResolver("", nil, 0, nil)
		if _, err := r.Resolve(context.Background(), p); err != nil {
			t.Errorf("Resolve() error = %v", err)
		}
	})

	t.Run("missing local file", func(t *testing.T) {
		t.Parallel()
		r := newAssetImageResolver("", nil, 0, nil)
		_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "absent.png"))
		if !errors.Is(err, ErrImageNotFound) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrImageNotFound)
		}
	})

	t.Run("remote fetch succeeds", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(pngMagic)
		}))
		defer srv.Close()

		r := newAssetImageResolver("", srv.Client(), 0, nil)
		data, err := r.Resolve(context.Background(), srv.URL+"/img.png")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if len(data) != len(pngMagic) {
			t.Errorf("got %d bytes, want %d", len(data), len(pngMagic))
		}
	})

	t.Run("remote error status fails the fetch", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		r := newAssetImageResolver("", srv.Client(), 0, nil)
		_, err := r.Resolve(context.Background(), srv.URL+"/gone.png")
		if !errors.Is(err, ErrImageFetch) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrImageFetch)
		}
	})

	t.Run("non-image payload is rejected", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not an image</html>"))
		}))
		defer srv.Close()

		r := newAssetImageResolver("", srv.Client(), 0, nil)
		_, err := r.Resolve(context.Background(), srv.URL+"/fake.png")
		if !errors.Is(err, ErrNotAnImage) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrNotAnImage)
		}
	})
}
