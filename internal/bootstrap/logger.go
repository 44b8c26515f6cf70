package bootstrap

import "go.uber.org/zap"

// NewLogger builds the process logger and installs it as the zap global.
// The returned func flushes buffered entries.
func NewLogger(production bool) (*zap.Logger, func()) {
	build := zap.NewDevelopment
	if production {
		build = zap.NewProduction
	}

	logger, err := build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)

	return logger, func() { _ = logger.Sync() }
}
