package config

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the application logger. APP_ENV=production selects the
// sampled JSON config, anything else gets the human-readable development one.
func NewLogger(lc fx.Lifecycle) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync flushes buffered entries; stderr sync errors are harmless.
			_ = logger.Sync()
			return nil
		},
	})
	return logger.Sugar(), nil
}
