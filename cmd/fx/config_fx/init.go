package config_fx

import (
	"go.uber.org/fx"

	"donations/internal/config"
)

var Module = fx.Provide(config.Load)
