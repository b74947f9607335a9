// Package logging is a small leveled wrapper over the standard logger.
package logging

import (
	"log"
	"os"
	"sync/atomic"
)

// Level represents the logging level
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	level  atomic.Int32
	logger = log.New(os.Stderr, "", log.LstdFlags)
)

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel sets the global log level
func SetLevel(l Level) {
	level.Store(int32(l))
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	return Level(level.Load()) >= l
}

func Errorf(format string, args ...interface{}) {
	if Enabled(LevelError) {
		logger.Printf("[ERROR] "+format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Enabled(LevelWarn) {
		logger.Printf("[WARN] "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Enabled(LevelInfo) {
		logger.Printf("[INFO] "+format, args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if Enabled(LevelDebug) {
		logger.Printf("[DEBUG] "+format, args...)
	}
}
