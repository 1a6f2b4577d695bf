package contentkit

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

var errBoom = errors.New("boom")

// trackingReader serves data, then returns err (io.EOF when nil), and counts Close calls.
type trackingReader struct {
	data     []byte
	pos      int
	err      error
	closeErr error
	closes   atomic.Int32
}

func newTrackingReader(data []byte) *trackingReader {
	return &trackingReader{data: data}
}

func (t *trackingReader) Read(p []byte) (int, error) {
	if t.pos >= len(t.data) {
		if t.err != nil {
			return 0, t.err
		}
		return 0, io.EOF
	}
	n := copy(p, t.data[t.pos:])
	t.pos += n
	return n, nil
}

func (t *trackingReader) Close() error {
	t.closes.Add(1)
	return t.closeErr
}

// captureWriter records written bytes and the order of write, flush and close calls.
type captureWriter struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	events   []string
	writeErr error
	flushErr error
	closeErr error
	short    bool
	closes   atomic.Int32
	flushes  atomic.Int32
}

func (c *captureWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "write")
	if c.writeErr != nil {
		half := len(p) / 2
		c.buf.Write(p[:half])
		return half, c.writeErr
	}
	if c.short && len(p) > 0 {
		c.buf.Write(p[:len(p)-1])
		return len(p) - 1, nil
	}
	return c.buf.Write(p)
}

func (c *captureWriter) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "flush")
	c.flushes.Add(1)
	return c.flushErr
}

func (c *captureWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "close")
	c.closes.Add(1)
	return c.closeErr
}

func (c *captureWriter) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.buf.Bytes())
}

func (c *captureWriter) Events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// plainWriteCloser has no Flush method.
type plainWriteCloser struct {
	bytes.Buffer
	closed bool
}

func (p *plainWriteCloser) Close() error {
	p.closed = true
	return nil
}
