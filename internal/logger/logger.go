package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces the global zap logger. "prod" logs JSON at info level,
// anything else uses the development console encoder.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "prod" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
