// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"

	logger "github.com/sirupsen/logrus"
)

// Setup points the logger at out and picks the level from the CLI flags.
// Verbose wins over quiet when both are set.
func Setup(out io.Writer, verbose, quiet bool) {
	logger.SetOutput(out)
	logger.SetFormatter(&logger.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(Level(verbose, quiet))
}

// Level maps the verbosity flags to a log level.
func Level(verbose, quiet bool) logger.Level {
	switch {
	case verbose:
		return logger.DebugLevel
	case quiet:
		return logger.ErrorLevel
	default:
		return logger.WarnLevel
	}
}
