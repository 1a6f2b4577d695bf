package contentkit

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
)

// closeGuard makes releasing a stream a one-shot operation.
type closeGuard struct {
	closed atomic.Bool
}

func (g *closeGuard) isClosed() bool {
	return g.closed.Load()
}

// release closes c the first time it is called and reports ErrClosed afterwards.
func (g *closeGuard) release(c io.Closer) error {
	if !g.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return c.Close()
}

// withClose runs fn and closes c on every exit path, including a panic in fn.
// A close failure is joined with the error returned by fn.
func withClose(c io.Closer, fn func() error) (err error) {
	defer func() {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn()
}

// selfClosing is implemented by decorators whose Retrieve or Save already
// releases the wrapped instance.
type selfClosing interface {
	closesItself()
}

// RetrieveAndClose retrieves the content of src and releases it, whatever the
// outcome. On failure the returned string is always empty. A
// SynchronizedSource releases itself, so it is only retrieved.
func RetrieveAndClose(ctx context.Context, src Source) (string, error) {
	if _, ok := src.(selfClosing); ok {
		return src.Retrieve(ctx)
	}

	var content string
	err := withClose(src, func() (err error) {
		content, err = src.Retrieve(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// SaveAndClose saves content to dst and releases it, whatever the outcome.
// A SynchronizedSink releases itself, so it is only saved to.
func SaveAndClose(ctx context.Context, dst Sink, content string) error {
	if _, ok := dst.(selfClosing); ok {
		return dst.Save(ctx, content)
	}
	return withClose(dst, func() error {
		return dst.Save(ctx, content)
	})
}
