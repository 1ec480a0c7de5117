package volume

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/seismic-io/govds/vds"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "govds.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
concurrency_limit = 32
cache_bytes = 67108864

[log]
logfile = "/var/log/govds.log"
max_log_size = 500
max_log_age = 30
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ConcurrencyLimit != 32 {
		t.Errorf("expected concurrency limit 32, got %d", c.ConcurrencyLimit)
	}
	if c.CacheBytes != 64*1024*1024 {
		t.Errorf("expected cache bytes %d, got %d", 64*1024*1024, c.CacheBytes)
	}
	if c.Log.Logfile != "/var/log/govds.log" {
		t.Errorf("log settings not decoded: %+v", c.Log)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	var cfgErr *vds.ConfigError
	if _, err := LoadConfig("/no/such/config.toml"); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for missing file, got %v", err)
	}
	path := writeConfig(t, "concurrency_limit = -4\n")
	if _, err := LoadConfig(path); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for negative limit, got %v", err)
	}
}
