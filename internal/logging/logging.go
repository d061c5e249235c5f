// Package logging builds the logrus logger used for status and diagnostics.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing plain text to w. Timestamps are left out since
// every run is a single short pass.
func New(w io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
