package local

import "github.com/gobeaver/contentkit"

func init() {
	contentkit.RegisterBackend("local", func(cfg *contentkit.Config) (contentkit.Backend, error) {
		return New(cfg.LocalBasePath)
	})
}
