package cli

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the diagnostics logger. Only warnings are shown unless
// verbose is set.
func NewLogger(verbose bool, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})

	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
