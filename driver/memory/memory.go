package memory

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/contentkit"
	"github.com/gobwas/glob"
)

// memoryBlob represents named content stored in memory
type memoryBlob struct {
	content []byte
	modTime time.Time
}

// Adapter provides an in-memory implementation of contentkit.Backend
// Useful for testing and caching scenarios
type Adapter struct {
	mu      sync.RWMutex
	blobs   map[string]*memoryBlob
	maxSize int64 // Maximum total storage size (0 = unlimited)
	size    int64 // Current total size
}

// Config holds configuration for the memory adapter
type Config struct {
	// MaxSize is the maximum total storage size in bytes (0 = unlimited)
	MaxSize int64
}

// New creates a new in-memory adapter
func New(cfg ...Config) *Adapter {
	var maxSize int64
	if len(cfg) > 0 {
		maxSize = cfg[0].MaxSize
	}

	return &Adapter{
		blobs:   make(map[string]*memoryBlob),
		maxSize: maxSize,
	}
}

// Open implements contentkit.Backend
func (a *Adapter) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	name = normalizeName(name)

	a.mu.RLock()
	defer a.mu.RUnlock()

	blob, exists := a.blobs[name]
	if !exists {
		return nil, &contentkit.ContentError{
			Op:   "open",
			Name: name,
			Err:  contentkit.ErrNotExist,
		}
	}

	// Readers see the content as of Open; later writes replace the slice
	return &blobReader{r: bytes.NewReader(blob.content)}, nil
}

// Create implements contentkit.Backend. Like os.Create, the named content is
// truncated immediately; written bytes become visible on Flush and Close.
func (a *Adapter) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	name = normalizeName(name)

	if !isValidName(name) {
		return nil, &contentkit.ContentError{
			Op:   "create",
			Name: name,
			Err:  contentkit.ErrNotAllowed,
		}
	}

	if err := a.commit(name, nil); err != nil {
		return nil, &contentkit.ContentError{Op: "create", Name: name, Err: err}
	}

	return &blobWriter{adapter: a, name: name}, nil
}

// Delete removes named content
func (a *Adapter) Delete(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	name = normalizeName(name)

	a.mu.Lock()
	defer a.mu.Unlock()

	blob, exists := a.blobs[name]
	if !exists {
		return &contentkit.ContentError{
			Op:   "delete",
			Name: name,
			Err:  contentkit.ErrNotExist,
		}
	}

	a.size -= int64(len(blob.content))
	delete(a.blobs, name)
	return nil
}

// Exists reports whether named content is stored
func (a *Adapter) Exists(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.blobs[normalizeName(name)]
	return ok
}

// List returns the sorted names matching a glob pattern.
// Supports "*" within a segment, "**" across segments, "?", "[a-z]" and "{a,b}".
func (a *Adapter) List(pattern string) ([]string, error) {
	g, err := glob.Compile(normalizeName(pattern), '/')
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var names []string
	for name := range a.blobs {
		if g.Match(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes all content
func (a *Adapter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.blobs = make(map[string]*memoryBlob)
	a.size = 0
}

// Size returns the current total size of stored content
func (a *Adapter) Size() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

// Count returns the number of stored entries
func (a *Adapter) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.blobs)
}

// ModTime returns when named content was last committed
func (a *Adapter) ModTime(name string) (time.Time, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[normalizeName(name)]
	if !ok {
		return time.Time{}, false
	}
	return blob.modTime, true
}

// commit replaces the content stored under name, enforcing the size limit
func (a *Adapter) commit(name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var old int64
	if existing, ok := a.blobs[name]; ok {
		old = int64(len(existing.content))
	}

	newSize := a.size - old + int64(len(data))
	if a.maxSize > 0 && newSize > a.maxSize {
		return contentkit.ErrInvalidSize
	}

	a.blobs[name] = &memoryBlob{
		content: bytes.Clone(data),
		modTime: time.Now(),
	}
	a.size = newSize
	return nil
}

// blobReader is the stream handed out by Open
type blobReader struct {
	r      *bytes.Reader
	closed bool
}

func (b *blobReader) Read(p []byte) (int, error) {
	if b.closed {
		return 0, contentkit.ErrClosed
	}
	return b.r.Read(p)
}

func (b *blobReader) Close() error {
	if b.closed {
		return contentkit.ErrClosed
	}
	b.closed = true
	return nil
}

// blobWriter is the stream handed out by Create
type blobWriter struct {
	adapter *Adapter
	name    string
	buf     bytes.Buffer
	closed  bool
}

func (b *blobWriter) Write(p []byte) (int, error) {
	if b.closed {
		return 0, contentkit.ErrClosed
	}
	return b.buf.Write(p)
}

// Flush publishes the bytes written so far
func (b *blobWriter) Flush() error {
	if b.closed {
		return contentkit.ErrClosed
	}
	return b.adapter.commit(b.name, b.buf.Bytes())
}

func (b *blobWriter) Close() error {
	if b.closed {
		return contentkit.ErrClosed
	}
	b.closed = true
	return b.adapter.commit(b.name, b.buf.Bytes())
}

// Helper functions

func normalizeName(name string) string {
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(name))
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return true
}
