// Package bwfslog is the thin logging wrapper every BWFS command uses, so
// that mkfsbwfs, fsckbwfs, and mountbwfs all prefix their output the same
// way regardless of which one is running.
package bwfslog

import (
	"log"
	"os"
)

var (
	errorLog = log.New(os.Stderr, "[BWFS ERROR] ", 0)
	infoLog  = log.New(os.Stdout, "[BWFS INFO] ", 0)
	debugLog = log.New(os.Stdout, "[BWFS DEBUG] ", 0)

	debugEnabled = os.Getenv("BWFS_DEBUG") != ""
)

func Errorf(format string, args ...any) {
	errorLog.Printf(format, args...)
}

func Infof(format string, args ...any) {
	infoLog.Printf(format, args...)
}

// EnableDebug turns on Debugf output, e.g. in response to a command's -v
// flag. Debug output is otherwise off by default.
func EnableDebug() {
	debugEnabled = true
}

// Debugf is a no-op unless debug output has been turned on via the
// BWFS_DEBUG environment variable or EnableDebug.
func Debugf(format string, args ...any) {
	if debugEnabled {
		debugLog.Printf(format, args...)
	}
}
