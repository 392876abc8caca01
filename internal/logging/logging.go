package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable output in development,
// JSON everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == "development" || env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
