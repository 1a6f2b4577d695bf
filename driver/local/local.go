package local

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobeaver/contentkit"
)

// Adapter provides a local filesystem implementation of contentkit.Backend.
// Every name is resolved below root; names escaping it are rejected.
type Adapter struct {
	root string
}

// New creates a new local filesystem adapter
func New(root string) (*Adapter, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Ensure the root directory exists
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, err
	}

	return &Adapter{
		root: absRoot,
	}, nil
}

// Root returns the absolute directory names are resolved against
func (a *Adapter) Root() string {
	return a.root
}

// Open implements contentkit.Backend
func (a *Adapter) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("open", name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, openError("open", name, err)
	}

	return f, nil
}

// Create implements contentkit.Backend. The file is created or truncated,
// parent directories are created as needed.
func (a *Adapter) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("create", name)
	if err != nil {
		return nil, err
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, &contentkit.ContentError{
			Op:   "create",
			Name: name,
			Err:  err,
		}
	}

	return createFile("create", name, fullPath)
}

// OpenSource opens the file at path and hands it to a new StreamSource.
// Without options the source keeps every character.
func OpenSource(path string, opts ...contentkit.Option) (*contentkit.StreamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError("open", path, err)
	}

	opts = append([]contentkit.Option{contentkit.WithName(path)}, opts...)
	return contentkit.NewStreamSource(f, opts...), nil
}

// CreateSink creates or truncates the file at path and hands it to a new
// StreamSink. Writes are buffered and flushed by Save.
func CreateSink(path string, opts ...contentkit.Option) (*contentkit.StreamSink, error) {
	w, err := createFile("create", path, path)
	if err != nil {
		return nil, err
	}

	opts = append([]contentkit.Option{contentkit.WithName(path)}, opts...)
	return contentkit.NewStreamSink(w, opts...), nil
}

func (a *Adapter) resolve(op, name string) (string, error) {
	fullPath := filepath.Join(a.root, filepath.Clean("/"+name))

	// Check if the path is under the root
	if !isPathUnderRoot(a.root, fullPath) || fullPath == a.root {
		return "", &contentkit.ContentError{
			Op:   op,
			Name: name,
			Err:  contentkit.ErrNotAllowed,
		}
	}
	return fullPath, nil
}

func createFile(op, name, path string) (*fileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &contentkit.ContentError{
			Op:   op,
			Name: name,
			Err:  err,
		}
	}
	return &fileWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

func openError(op, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%w: %w", contentkit.ErrNotExist, err)
	}
	return &contentkit.ContentError{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

func isPathUnderRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// fileWriter buffers writes to a file; Flush pushes them to the file and
// Close flushes before closing.
type fileWriter struct {
	f  *os.File
	bw *bufio.Writer
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

func (w *fileWriter) Flush() error {
	return w.bw.Flush()
}

func (w *fileWriter) Close() error {
	return errors.Join(w.bw.Flush(), w.f.Close())
}
