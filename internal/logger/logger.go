package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log is the process-wide structured logger.
var Log *zap.Logger

// Init builds the logger. In release mode it emits production JSON; otherwise
// a human-readable development logger.
func Init(mode string) {
	var err error
	if mode == "release" {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Cannot create logger: %v", err)
	}
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
