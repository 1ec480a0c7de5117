package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/seismic-io/govds/vds"
)

func TestKindFromLocator(t *testing.T) {
	cases := []struct {
		locator string
		kind    BackendKind
	}{
		{"/data/volumes/survey1", FileSystem},
		{"file:///data/volumes/survey1", FileSystem},
		{"s3://bucket/survey1", S3},
		{"azure://container/survey1", Azure},
		{"azureSAS://container/survey1?sig=abc", Azure},
		{"gs://bucket/survey1", GCS},
		{"sd://tenant/survey1", SeismicDMS},
	}
	for _, c := range cases {
		kind, err := KindFromLocator(c.locator)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.locator, err)
		}
		if kind != c.kind {
			t.Errorf("%s: expected kind %s, got %s", c.locator, c.kind, kind)
		}
	}

	var cfgErr *vds.ConfigError
	if _, err := KindFromLocator("ftp://host/survey1"); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for unknown scheme, got %v", err)
	}
}

func TestOpenRejectsCloudSchemes(t *testing.T) {
	var storeErr *vds.StorageError
	_, err := Open("s3://bucket/survey1")
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StorageError for s3 locator, got %v", err)
	}
	if !strings.Contains(storeErr.Err.Error(), "storage.Store") {
		t.Errorf("rejection should direct callers to the Store interface: %v", storeErr)
	}
}

func TestOpenUnknownScheme(t *testing.T) {
	var cfgErr *vds.ConfigError
	if _, err := Open("bogus://x"); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}
