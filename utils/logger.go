package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger provides leveled logging for the daily run. Debug lines carry
// per-title fetch detail and stay off unless DEBUG is set, so the
// scheduler's captured output stays one screen long.
type Logger struct {
	info    *log.Logger
	warn    *log.Logger
	err     *log.Logger
	debug   *log.Logger
	debugOn bool
}

// NewLogger creates a Logger writing to stdout/stderr. Setting the
// DEBUG env var (any non-empty value) enables the debug level.
func NewLogger() *Logger {
	return newLogger(os.Stdout, os.Stderr, os.Getenv("DEBUG") != "")
}

func newLogger(out, errOut io.Writer, debugOn bool) *Logger {
	flags := 0
	return &Logger{
		info:    log.New(out, "", flags),
		warn:    log.New(out, "", flags),
		err:     log.New(errOut, "", flags),
		debug:   log.New(out, "", flags),
		debugOn: debugOn,
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugOn {
		return
	}
	l.debug.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}
