// Package log provides the process-wide logger. It wraps logrus behind a
// small interface so packages never import logrus directly.
package log

import (
	"sync"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsDebugEnabled() bool
}

var (
	once   sync.Once
	logger Logger = newDefaultLogger()
)

// GetLogger returns the process logger. Before Init it falls back to a
// plain info-level console logger.
func GetLogger() Logger {
	return logger
}

// Init configures the process logger from config. Safe to call more than
// once; only the first call takes effect.
func Init(cfg *Config) error {
	var err error
	once.Do(func() {
		err = initByConfig(cfg)
	})
	return err
}
