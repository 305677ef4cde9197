//go:build windows

package store

import (
	"github.com/joshuapare/shellns/internal/config"
	"github.com/joshuapare/shellns/internal/store/winreg"
	"github.com/joshuapare/shellns/pkg/types"
)

const autoBackend = config.BackendWinreg

func openWinreg() (types.Store, error) { return winreg.Open(), nil }
