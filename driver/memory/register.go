package memory

import "github.com/gobeaver/contentkit"

func init() {
	contentkit.RegisterBackend("memory", func(cfg *contentkit.Config) (contentkit.Backend, error) {
		return New(Config{MaxSize: cfg.MemoryMaxSize}), nil
	})
}
