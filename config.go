package contentkit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Backend that opens named content (local, memory)
	Backend string `env:"CONTENTKIT_BACKEND,default:local"`

	// Local backend configuration
	LocalBasePath string `env:"CONTENTKIT_LOCAL_BASE_PATH,default:./content"`

	// Memory backend configuration (0 = unlimited)
	MemoryMaxSize int64 `env:"CONTENTKIT_MEMORY_MAX_SIZE,default:0"`

	// Registered filter name applied when retrieving (none, ascii)
	Filter string `env:"CONTENTKIT_FILTER,default:none"`

	// Single-byte encoding used on both sides
	Encoding string `env:"CONTENTKIT_ENCODING,default:iso-8859-1"`

	// Wrap every source and sink in a synchronizing decorator
	Synchronized bool `env:"CONTENTKIT_SYNCHRONIZED,default:true"`

	// Optional checksum of the bytes moved (md5, sha1, sha256, sha512, crc32, xxhash)
	ChecksumAlgorithm string `env:"CONTENTKIT_CHECKSUM_ALGORITHM"`

	// Log level (debug, info, warn, error)
	LogLevel string `env:"CONTENTKIT_LOG_LEVEL,default:info"`

	// Maximum number of copies CopyAll runs at once (0 = unlimited)
	PipeConcurrency int `env:"CONTENTKIT_PIPE_CONCURRENCY,default:4"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
