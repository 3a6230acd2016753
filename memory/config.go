package memory

const defaultCacheSize = 256

// Config holds transcript cache parameters.
type Config struct {
	Path      string `json:"path,omitempty" yaml:"path,omitempty"` // FileStore root; empty disables the cache.
	CacheSize int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

// DefaultConfig returns a disabled cache with the default LRU size.
func DefaultConfig() Config {
	return Config{CacheSize: defaultCacheSize}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.CacheSize > 0 {
		c.CacheSize = source.CacheSize
	}
}

// Enabled reports whether a cache directory is configured.
func (c *Config) Enabled() bool {
	return c.Path != ""
}

// NewStore creates a Store from configuration. Returns nil Store when Path
// is empty.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	return NewFileStore(cfg.Path), nil
}

// Open creates a Cache over a FileStore at cfg.Path. Returns nil Cache when
// the cache is disabled.
func Open(cfg *Config) (*Cache, error) {
	store, err := NewStore(cfg)
	if err != nil || store == nil {
		return nil, err
	}
	return NewCache(store, cfg.CacheSize)
}
