package contentkit

import (
	"context"
	"fmt"
	"hash"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Sink encodes text and writes it to its stream.
//
// Save is meant to be called once. Close releases the stream and must run
// exactly once, even when Save fails; see SaveAndClose and SynchronizedSink.
type Sink interface {
	Save(ctx context.Context, content string) error
	io.Closer
}

// Flusher is implemented by streams that buffer writes, such as *bufio.Writer.
type Flusher interface {
	Flush() error
}

// StreamSink is a Sink backed by an io.WriteCloser it exclusively owns.
// It is not safe for concurrent use; wrap it in a SynchronizedSink for that.
type StreamSink struct {
	w       io.WriteCloser
	opts    *Options
	hasher  hash.Hash
	hashErr error
	written int64
	guard   closeGuard
}

// NewStreamSink takes ownership of an already-open stream.
func NewStreamSink(w io.WriteCloser, opts ...Option) *StreamSink {
	s := &StreamSink{
		w:    w,
		opts: processOptions(opts...),
	}
	if s.opts.Checksum != "" {
		s.hasher, s.hashErr = NewHasher(s.opts.Checksum)
	}
	return s
}

// Save encodes content with the charmap, writes every byte and flushes the
// stream if it implements Flusher. Nothing is written when a character cannot
// be encoded. A failed write may leave a prefix behind; it is not rolled back.
func (s *StreamSink) Save(ctx context.Context, content string) error {
	if s.guard.isClosed() {
		return s.fail("save", ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return s.fail("save", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, r := range content {
		b, ok := s.opts.Charmap.EncodeRune(r)
		if !ok {
			return s.fail("encode", fmt.Errorf("%w: %U at offset %d", ErrUnencodable, r, i))
		}
		buf.B = append(buf.B, b)
	}

	n, err := s.w.Write(buf.B)
	if n > 0 {
		s.written += int64(n)
		if s.hasher != nil {
			s.hasher.Write(buf.B[:n])
		}
	}
	if err == nil && n < buf.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		return s.fail("write", err)
	}

	if f, ok := s.w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return s.fail("flush", err)
		}
	}

	s.opts.Logger.DebugContext(ctx, "content saved", "name", s.opts.Name, "bytes", n)
	return nil
}

// Close releases the stream. A second call returns ErrClosed.
func (s *StreamSink) Close() error {
	if err := s.guard.release(s.w); err != nil {
		return s.fail("close", err)
	}
	return nil
}

// Written returns the number of bytes accepted by the stream.
func (s *StreamSink) Written() int64 {
	return s.written
}

// Checksum returns the checksum of the bytes written so far.
func (s *StreamSink) Checksum() (string, error) {
	if s.hashErr != nil {
		return "", s.hashErr
	}
	return hexSum(s.hasher)
}

func (s *StreamSink) fail(op string, err error) error {
	return &ContentError{Op: op, Name: s.opts.Name, Err: err}
}
