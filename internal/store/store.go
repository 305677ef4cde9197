// Package store opens the types.Store backend named by the configuration.
package store

import (
	"fmt"
	"io"

	"github.com/joshuapare/shellns/internal/config"
	"github.com/joshuapare/shellns/internal/store/memstore"
	"github.com/joshuapare/shellns/internal/store/regfile"
	"github.com/joshuapare/shellns/internal/store/sqlitestore"
	"github.com/joshuapare/shellns/pkg/types"
)

// defaultRegfileName is used when a regfile store has no explicit path.
const defaultRegfileName = "store.reg"

// Open returns the store for cfg. BackendAuto resolves to the live registry
// on Windows and to a regfile store at StorePath (or the per-user default)
// elsewhere. Close the result with Close.
func Open(cfg config.Config) (types.Store, error) {
	backend := Resolve(cfg.Backend)
	switch backend {
	case config.BackendMemory:
		return memstore.New(), nil
	case config.BackendWinreg:
		return openWinreg()
	case config.BackendRegfile:
		s, err := regfile.Open(storePath(cfg, defaultRegfileName))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		if cfg.StorePath == "" {
			return nil, fmt.Errorf("backend %s requires a store path", backend)
		}
		s, err := sqlitestore.Open(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Resolve maps BackendAuto to the concrete backend for this platform.
func Resolve(b config.Backend) config.Backend {
	if b == config.BackendAuto || b == "" {
		return autoBackend
	}
	return b
}

// Close releases s if its backend holds resources.
func Close(s types.Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func storePath(cfg config.Config, name string) string {
	if cfg.StorePath != "" {
		return cfg.StorePath
	}
	return config.DefaultStorePath(name)
}
