package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a console logger at the given level. Debug takes
// precedence over the named level.
func SetupLogger(level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	if debug {
		logger.SetLevel(log.DebugLevel)
		return logger
	}

	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
