package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fernandezvara/membership"
)

// newLogger builds a development or production zap logger at the configured level.
func newLogger(cfg membership.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: log level %q", membership.ErrInvalidConfiguration, cfg.Level)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	// Command output goes to stdout; keep logs apart.
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}
