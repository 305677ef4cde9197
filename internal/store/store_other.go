//go:build !windows

package store

import (
	"errors"

	"github.com/joshuapare/shellns/internal/config"
	"github.com/joshuapare/shellns/pkg/types"
)

const autoBackend = config.BackendRegfile

func openWinreg() (types.Store, error) {
	return nil, errors.New("the winreg backend is only available on Windows")
}
