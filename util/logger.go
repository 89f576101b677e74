package util

import (
	"log"
	"os"
	"sync/atomic"
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LogLevelInfo))
}

func SetLevel(level LogLevel) {
	currentLevel.Store(int32(level))
}

// Enabled reports whether messages at level would be printed.
// Hot paths check it before building log arguments.
func Enabled(level LogLevel) bool {
	return LogLevel(currentLevel.Load()) <= level
}

func Debug(format string, v ...interface{}) {
	if Enabled(LogLevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Info(format string, v ...interface{}) {
	if Enabled(LogLevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if Enabled(LogLevelWarn) {
		log.Printf("[WARN] "+format, v...)
	}
}

func Error(format string, v ...interface{}) {
	if Enabled(LogLevelError) {
		log.Printf("[ERROR] "+format, v...)
	}
}

func Fatal(format string, v ...interface{}) {
	log.Printf("[FATAL] "+format, v...)
	os.Exit(1)
}
