package volume

import (
	"github.com/BurntSushi/toml"

	"github.com/seismic-io/govds/vds"
)

// Config holds caller-tunable settings for an open volume.
type Config struct {
	// ConcurrencyLimit bounds simultaneously in-flight brick fetches
	// during ReadSlice.  Zero means unbounded, the common case for local
	// or mock backends; set a bound to protect real network backends.
	ConcurrencyLimit int64 `toml:"concurrency_limit"`

	// CacheBytes, if positive, wraps the store in a read-through cache
	// with this byte budget.
	CacheBytes int `toml:"cache_bytes"`

	// Log optionally routes library logging to a rotated file.
	Log vds.LogConfig `toml:"log"`
}

// DefaultConfig returns the settings used when none are supplied.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads a Config from a TOML file.
func LoadConfig(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, vds.Configf("cannot load config %q: %v", path, err)
	}
	if c.ConcurrencyLimit < 0 {
		return Config{}, vds.Configf("concurrency_limit must be >= 0, got %d", c.ConcurrencyLimit)
	}
	return c, nil
}
