package main

import (
	"github.com/sharnoff/dynet/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
