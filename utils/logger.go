package utils

import (
	"log"
	"sync"

	"tablebook/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. Use GetLogger.
var Logger *zap.Logger

var loggerOnce sync.Once

// InitializeLogger builds the logger from ENV and LOG_LEVEL. Later calls are no-ops.
func InitializeLogger() {
	loggerOnce.Do(func() {
		Logger = buildLogger()
		zap.ReplaceGlobals(Logger)
	})
}

func buildLogger() *zap.Logger {
	var cfg zap.Config
	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl, err := zapcore.ParseLevel(config.AppConfig.LogLevel); err == nil && config.AppConfig.LogLevel != "" {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build(zap.Fields(zap.String("service", "tablebook")))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}

// GetLogger returns the process logger, building it on first use.
func GetLogger() *zap.Logger {
	InitializeLogger()
	return Logger
}
