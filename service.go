package contentkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

// Global instance
var (
	defaultKit  *Kit
	defaultOnce sync.Once
	defaultErr  error
)

// Kit opens named content through a Backend and moves it with the configured
// filter, encoding and synchronization.
type Kit struct {
	backend      Backend
	filter       Filter
	charmap      *charmap.Charmap
	checksum     ChecksumAlgorithm
	synchronized bool
	concurrency  int
	logger       *slog.Logger
}

// KitOption customizes a Kit beyond what Config expresses
type KitOption func(*Kit)

// WithKitLogger replaces the logger built from Config.LogLevel
func WithKitLogger(logger *slog.Logger) KitOption {
	return func(k *Kit) {
		k.logger = logger
	}
}

// WithKitBackend uses backend instead of creating one from Config.Backend
func WithKitBackend(backend Backend) KitOption {
	return func(k *Kit) {
		k.backend = backend
	}
}

// Builder provides a way to create Kit instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Kit instance using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Kit instance using the builder's prefix
func (b *Builder) New(opts ...KitOption) (*Kit, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Init initializes the global Kit instance
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultKit, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a new Kit with given config
func New(cfg *Config, opts ...KitOption) (*Kit, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	filter, err := LookupFilter(cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cm := DefaultCharmap
	if cfg.Encoding != "" {
		if cm, err = LookupCharmap(cfg.Encoding); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	k := &Kit{
		filter:       filter,
		charmap:      cm,
		checksum:     ChecksumAlgorithm(cfg.ChecksumAlgorithm),
		synchronized: cfg.Synchronized,
		concurrency:  cfg.PipeConcurrency,
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.logger == nil {
		k.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}))
	}

	if k.backend == nil {
		backend, err := CreateBackend(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create backend: %w", err)
		}
		k.backend = backend
	}

	return k, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg.Backend == "" {
		return errors.New("backend is required")
	}

	if cfg.Backend == "local" && cfg.LocalBasePath == "" {
		return errors.New("local base path is required for local backend")
	}
	if cfg.MemoryMaxSize < 0 {
		return errors.New("memory max size must not be negative")
	}
	if cfg.PipeConcurrency < 0 {
		return errors.New("pipe concurrency must not be negative")
	}
	if cfg.ChecksumAlgorithm != "" {
		if _, err := NewHasher(ChecksumAlgorithm(cfg.ChecksumAlgorithm)); err != nil {
			return err
		}
	}

	return nil
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(lvl string) slog.Level {
	switch lvl {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (k *Kit) options(name string) []Option {
	opts := []Option{
		WithName(name),
		WithFilter(k.filter),
		WithCharmap(k.charmap),
		WithLogger(k.logger),
	}
	if k.checksum != "" {
		opts = append(opts, WithChecksum(k.checksum))
	}
	return opts
}

// Source opens the named content. The caller owns the returned Source and
// must close it, or let a synchronized Source close itself in Retrieve.
func (k *Kit) Source(ctx context.Context, name string) (Source, error) {
	r, err := k.backend.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	var src Source = NewStreamSource(r, k.options(name)...)
	if k.synchronized {
		src = NewSynchronizedSource(src)
	}
	return src, nil
}

// Sink creates or truncates the named content. The caller owns the returned Sink.
func (k *Kit) Sink(ctx context.Context, name string) (Sink, error) {
	w, err := k.backend.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	var dst Sink = NewStreamSink(w, k.options(name)...)
	if k.synchronized {
		dst = NewSynchronizedSink(dst)
	}
	return dst, nil
}

// Retrieve returns the filtered text of the named content.
func (k *Kit) Retrieve(ctx context.Context, name string) (string, error) {
	src, err := k.Source(ctx, name)
	if err != nil {
		return "", err
	}
	return RetrieveAndClose(ctx, src)
}

// Save replaces the named content with content.
func (k *Kit) Save(ctx context.Context, name, content string) error {
	dst, err := k.Sink(ctx, name)
	if err != nil {
		return err
	}
	if err := SaveAndClose(ctx, dst, content); err != nil {
		return err
	}

	if c, ok := dst.(Checksummer); ok && k.checksum != "" {
		if sum, err := c.Checksum(); err == nil {
			k.logger.DebugContext(ctx, "content checksum", "name", name, "algorithm", k.checksum, "sum", sum)
		}
	}
	return nil
}

// CopyRequest names the content to read and the content to replace with it.
type CopyRequest struct {
	From string
	To   string
}

// Copy pipes the filtered text of one named content into another.
func (k *Kit) Copy(ctx context.Context, from, to string) error {
	return k.copy(ctx, CopyRequest{From: from, To: to})
}

// CopyAll runs every copy with at most Config.PipeConcurrency in flight.
// Each copy opens its streams when it starts, so the limit also bounds the
// number of open streams. After the first failure, copies not yet started see
// a cancelled context and open nothing; the first error is returned.
func (k *Kit) CopyAll(ctx context.Context, copies ...CopyRequest) error {
	g, gctx := errgroup.WithContext(ctx)
	if k.concurrency > 0 {
		g.SetLimit(k.concurrency)
	}

	for _, c := range copies {
		g.Go(func() error {
			return k.copy(gctx, c)
		})
	}

	return g.Wait()
}

func (k *Kit) copy(ctx context.Context, c CopyRequest) error {
	src, err := k.Source(ctx, c.From)
	if err != nil {
		return err
	}
	dst, err := k.Sink(ctx, c.To)
	if err != nil {
		return errors.Join(err, src.Close())
	}
	return Pipe(ctx, src, dst)
}

// Default returns the global instance, initializing if needed with error handling
func Default() (*Kit, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return defaultKit, nil
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv(opts ...KitOption) (*Kit, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultKit = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
