package contentkit

import (
	"context"
	"fmt"
	"sync"
)

// ============================================================================
// SynchronizedSource Decorator
// ============================================================================

// SynchronizedSource makes a Source usable from several goroutines.
// Calls are serialized by a mutex, and the wrapped Source is closed as part of
// the Retrieve that uses it, so the decorator is single-use:
//
//	src := contentkit.NewSynchronizedSource(contentkit.NewStreamSource(f))
//	text, err := src.Retrieve(ctx) // f is closed when this returns
//	_, err = src.Retrieve(ctx)     // err wraps ErrClosed
//
// The decorator becomes the only accessor of the wrapped Source.
type SynchronizedSource struct {
	mu    sync.Mutex
	inner Source
	spent bool
}

// NewSynchronizedSource takes ownership of src.
func NewSynchronizedSource(src Source) *SynchronizedSource {
	return &SynchronizedSource{inner: src}
}

// Retrieve delegates to the wrapped Source and releases it before returning,
// whether the retrieval succeeded or not.
func (s *SynchronizedSource) Retrieve(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spent {
		return "", &ContentError{Op: "retrieve", Err: ErrClosed}
	}
	s.spent = true
	return RetrieveAndClose(ctx, s.inner)
}

// Close releases the wrapped Source if no Retrieve has done so yet.
func (s *SynchronizedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spent {
		return &ContentError{Op: "close", Err: ErrClosed}
	}
	s.spent = true
	return s.inner.Close()
}

func (s *SynchronizedSource) closesItself() {}

// Unwrap returns the wrapped Source.
func (s *SynchronizedSource) Unwrap() Source {
	return s.inner
}

// Checksum reports the checksum of the wrapped Source, if it keeps one.
func (s *SynchronizedSource) Checksum() (string, error) {
	return checksumOf(&s.mu, s.inner)
}

// ============================================================================
// SynchronizedSink Decorator
// ============================================================================

// SynchronizedSink is the Sink counterpart of SynchronizedSource: Save is
// serialized, closes the wrapped Sink before returning and can run only once.
type SynchronizedSink struct {
	mu    sync.Mutex
	inner Sink
	spent bool
}

// NewSynchronizedSink takes ownership of dst.
func NewSynchronizedSink(dst Sink) *SynchronizedSink {
	return &SynchronizedSink{inner: dst}
}

// Save delegates to the wrapped Sink and releases it before returning.
func (s *SynchronizedSink) Save(ctx context.Context, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spent {
		return &ContentError{Op: "save", Err: ErrClosed}
	}
	s.spent = true
	return SaveAndClose(ctx, s.inner, content)
}

// Close releases the wrapped Sink if no Save has done so yet.
func (s *SynchronizedSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spent {
		return &ContentError{Op: "close", Err: ErrClosed}
	}
	s.spent = true
	return s.inner.Close()
}

func (s *SynchronizedSink) closesItself() {}

// Unwrap returns the wrapped Sink.
func (s *SynchronizedSink) Unwrap() Sink {
	return s.inner
}

// Checksum reports the checksum of the wrapped Sink, if it keeps one.
func (s *SynchronizedSink) Checksum() (string, error) {
	return checksumOf(&s.mu, s.inner)
}

func checksumOf(mu *sync.Mutex, inner any) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	c, ok := inner.(Checksummer)
	if !ok {
		return "", fmt.Errorf("%w: checksum not enabled", ErrNotSupported)
	}
	return c.Checksum()
}
