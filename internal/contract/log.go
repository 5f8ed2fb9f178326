package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Logger returns the shared diagnostic logger.
func Logger() *logrus.Logger {
	return logger
}

// SetLogLevel changes the level of the shared logger.
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}
