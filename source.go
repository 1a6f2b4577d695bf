package contentkit

import (
	"context"
	"errors"
	"hash"
	"io"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
)

// readChunkSize is the size of a single Read on the underlying stream.
const readChunkSize = 32 * 1024

// Source reads its whole stream and returns the filtered text.
//
// Retrieve is meant to be called once: it exhausts the stream. Close releases
// the stream and must run exactly once, even when Retrieve fails; see
// RetrieveAndClose and SynchronizedSource.
type Source interface {
	Retrieve(ctx context.Context) (string, error)
	io.Closer
}

// StreamSource is a Source backed by an io.ReadCloser it exclusively owns.
// It is not safe for concurrent use; wrap it in a SynchronizedSource for that.
type StreamSource struct {
	r       io.ReadCloser
	opts    *Options
	hasher  hash.Hash
	hashErr error
	guard   closeGuard
}

// NewStreamSource takes ownership of an already-open stream.
// Without WithFilter every character is kept.
func NewStreamSource(r io.ReadCloser, opts ...Option) *StreamSource {
	s := &StreamSource{
		r:    r,
		opts: processOptions(opts...),
	}
	if s.opts.Checksum != "" {
		s.hasher, s.hashErr = NewHasher(s.opts.Checksum)
	}
	return s
}

// Retrieve reads the stream until io.EOF, widens every byte to a character
// through the charmap and keeps the characters the filter accepts.
// It does not close the stream. A failed read yields no partial content.
func (s *StreamSource) Retrieve(ctx context.Context) (string, error) {
	if s.guard.isClosed() {
		return "", s.fail("retrieve", ErrClosed)
	}

	chunk := bytebufferpool.Get()
	defer bytebufferpool.Put(chunk)
	if cap(chunk.B) < readChunkSize {
		chunk.B = make([]byte, readChunkSize)
	} else {
		chunk.B = chunk.B[:readChunkSize]
	}

	out := bytebufferpool.Get()
	defer bytebufferpool.Put(out)

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return "", s.abort("retrieve", err)
		}

		n, err := s.r.Read(chunk.B)
		if n > 0 {
			total += int64(n)
			if s.hasher != nil {
				s.hasher.Write(chunk.B[:n])
			}
			for _, b := range chunk.B[:n] {
				r := s.opts.Charmap.DecodeByte(b)
				if s.opts.Filter.Accepts(r) {
					out.B = utf8.AppendRune(out.B, r)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", s.abort("read", err)
		}
	}

	s.opts.Logger.DebugContext(ctx, "content retrieved", "name", s.opts.Name, "bytes", total, "kept", out.Len())
	return out.String(), nil
}

// Close releases the stream. A second call returns ErrClosed.
func (s *StreamSource) Close() error {
	if err := s.guard.release(s.r); err != nil {
		return s.fail("close", err)
	}
	return nil
}

// Checksum returns the checksum of the raw bytes read by a successful
// Retrieve, before filtering. After a failed Retrieve it covers no bytes.
func (s *StreamSource) Checksum() (string, error) {
	if s.hashErr != nil {
		return "", s.hashErr
	}
	return hexSum(s.hasher)
}

// abort discards the partial checksum of a failed retrieval.
func (s *StreamSource) abort(op string, err error) error {
	if s.hasher != nil {
		s.hasher.Reset()
	}
	return s.fail(op, err)
}

func (s *StreamSource) fail(op string, err error) error {
	return &ContentError{Op: op, Name: s.opts.Name, Err: err}
}
