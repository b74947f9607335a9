package proxy

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cache"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
)

// MockObjectStore is a mock implementation of storage.IObjectStore.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObject(ctx context.Context, bucket, key, rng string) (*storage.Object, error) {
	args := m.Called(ctx, bucket, key, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockObjectStore) Bucket() string {
	return "agentsstore"
}

// memoryBlobs is an in-memory cache.BlobCache.
type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[string]*cache.Blob
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: map[string]*cache.Blob{}}
}

func (m *memoryBlobs) Get(ctx context.Context, key string) (*cache.Blob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	return b, ok
}

func (m *memoryBlobs) Set(ctx context.Context, key string, blob *cache.Blob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = blob
}

// rewriteTransport sends every request to target, keeping the path.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(r)
}
