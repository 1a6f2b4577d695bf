package contentkit

import (
	"log/slog"

	"golang.org/x/text/encoding/charmap"
)

// Option represents a configuration option for sources and sinks
type Option func(*Options)

// Options contains all possible options for sources and sinks.
// Options that only apply to one side are ignored by the other.
type Options struct {
	// Filter decides which decoded characters a Source keeps
	Filter Filter

	// Charmap is the single-byte encoding used to decode and encode
	Charmap *charmap.Charmap

	// Checksum enables hashing of the bytes moved through the stream
	Checksum ChecksumAlgorithm

	// Name labels errors and log records
	Name string

	// Logger receives debug records about the stream lifecycle
	Logger *slog.Logger
}

// WithFilter sets the character filter of a Source
func WithFilter(filter Filter) Option {
	return func(o *Options) {
		o.Filter = filter
	}
}

// WithCharmap sets the single-byte encoding
func WithCharmap(cm *charmap.Charmap) Option {
	return func(o *Options) {
		o.Charmap = cm
	}
}

// WithChecksum hashes every byte read or written with the given algorithm
func WithChecksum(algorithm ChecksumAlgorithm) Option {
	return func(o *Options) {
		o.Checksum = algorithm
	}
}

// WithName labels the stream in errors and log records
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func processOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Filter == nil {
		o.Filter = NoFilter
	}
	if o.Charmap == nil {
		o.Charmap = DefaultCharmap
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
