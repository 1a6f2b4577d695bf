package contentkit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Backend opens the byte streams a Source or Sink takes ownership of.
// Opening content is not part of the Source/Sink contract; backends are the
// collaborators that hand over already-open streams.
type Backend interface {
	// Open returns a stream positioned at the start of the named content.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create returns a stream that replaces the named content.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

// BackendFactory is a function that creates a Backend from a config
type BackendFactory func(cfg *Config) (Backend, error)

var (
	backendFactories = make(map[string]BackendFactory)
	factoryMutex     sync.RWMutex

	filters = map[string]Filter{
		"none":  NoFilter,
		"ascii": ASCIIOnly,
	}
	filterMutex sync.RWMutex
)

// RegisterBackend registers a backend factory function
func RegisterBackend(name string, factory BackendFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	backendFactories[name] = factory
}

// CreateBackend creates a backend instance from config
func CreateBackend(cfg *Config) (Backend, error) {
	factoryMutex.RLock()
	factory, exists := backendFactories[cfg.Backend]
	factoryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %s not registered", cfg.Backend)
	}

	return factory(cfg)
}

// RegisterFilter makes a filter available to configuration under name.
// Registering an existing name replaces it.
func RegisterFilter(name string, filter Filter) {
	filterMutex.Lock()
	defer filterMutex.Unlock()
	filters[strings.ToLower(name)] = filter
}

// LookupFilter returns the filter registered under name.
// The empty name resolves to NoFilter.
func LookupFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return NoFilter, nil
	}

	filterMutex.RLock()
	defer filterMutex.RUnlock()
	f, ok := filters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	return f, nil
}
