package contentkit

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Job pairs a Source with the Sink its content is handed to.
type Job struct {
	Source Source
	Sink   Sink
}

// Pipe retrieves the content of src and saves it to dst. Both are closed
// before Pipe returns; dst is closed unused when the retrieval fails.
func Pipe(ctx context.Context, src Source, dst Sink) error {
	content, err := RetrieveAndClose(ctx, src)
	if err != nil {
		if cerr := dst.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return err
	}
	return SaveAndClose(ctx, dst, content)
}

// PipeAll runs Pipe for every job with at most limit jobs in flight
// (limit <= 0 means no limit). After the first failure the remaining jobs see
// a cancelled context, but every Source and Sink is still closed.
// The first error is returned.
func PipeAll(ctx context.Context, limit int, jobs ...Job) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, job := range jobs {
		g.Go(func() error {
			return Pipe(gctx, job.Source, job.Sink)
		})
	}

	return g.Wait()
}
