package logger

import (
	"github.com/paybridgelabs/paybridge/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New builds the process logger. Production gets JSON output; everything else
// gets the development console encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

var Module = fx.Module("logger",
	fx.Provide(New),
)
