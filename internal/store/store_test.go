package store

import (
	"path/filepath"
	"testing"

	"github.com/Cytla24/poemtok/internal/config"
)

func configFor(t *testing.T) config.StoreConfig {
	t.Helper()
	return config.StoreConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store.db"),
	}
}
