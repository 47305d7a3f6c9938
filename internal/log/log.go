// Package log writes diagnostics to a file through logrus.
// Nothing is emitted until Setup enables it.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	logrus "github.com/sirupsen/logrus"

	"ytap/internal/filesystem"
)

var (
	enabled bool
	sink    io.Closer
)

// Options configures the log sink.
type Options struct {
	Enabled bool
	Path    string
	Level   string
}

// Setup opens the log file in append mode and sets the level.
func Setup(opts Options) error {
	enabled = opts.Enabled
	if !enabled {
		logrus.SetOutput(io.Discard)
		return nil
	}

	if err := filesystem.API().MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	f, err := filesystem.API().OpenFile(opts.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	sink = f
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	return nil
}

// Close releases the log file.
func Close() error {
	enabled = false
	logrus.SetOutput(io.Discard)
	if sink == nil {
		return nil
	}
	err := sink.Close()
	sink = nil
	return err
}

// WithField returns an entry carrying a structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return logrus.WithField(key, value)
}

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...interface{}) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
