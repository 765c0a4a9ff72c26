// Package log wraps logrus with the component-tagged entries used
// throughout the signer node.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.InfoLevel)
}

// SetLevel configures the global log level from the CLI's -l/--log flag.
// Recognized values: error, warn, info, debug, trace.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// Quiet silences all output below the error level, for -q/--quiet.
func Quiet() {
	base.SetLevel(logrus.ErrorLevel)
}

// For returns a component-tagged logger entry.
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
