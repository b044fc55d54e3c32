// Package obslog wraps zap construction for the pipeline, grounded on the
// zap.NewProduction() / structured zap.Field call style used throughout
// arx-os-arxos's gateway package (e.g. gateway/connection_pool.go).
package obslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger for the given level and mode. development selects
// zap's human-readable console encoder; production (the default) selects
// the JSON encoder suited to log aggregation.
func New(level string, development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// Must panics if New fails, for call sites (cmd/ entrypoints) where a
// broken logger configuration is a startup-fatal condition.
func Must(level string, development bool) *zap.Logger {
	logger, err := New(level, development)
	if err != nil {
		panic(err)
	}
	return logger
}

// RunFields returns the common zap.Field set every orchestrator log line
// carries, so individual call sites don't repeat themselves.
func RunFields(runID string, workOrdersIn int) []zap.Field {
	return []zap.Field{
		zap.String("run_id", runID),
		zap.Int("work_orders_in", workOrdersIn),
	}
}
