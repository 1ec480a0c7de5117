package vds

import (
	"log"

	"github.com/natefinch/lumberjack"
)

type stdLogger struct {
	rotator *lumberjack.Logger
}

var logger Logger = &stdLogger{}

// LogConfig describes an optional rotated log file.  A zero value sends
// messages through the standard log package.
type LogConfig struct {
	Logfile string `toml:"logfile"`
	MaxSize int    `toml:"max_log_size"` // megabytes
	MaxAge  int    `toml:"max_log_age"`  // days
}

// SetLogger routes package logging to a rotating log file.  With no
// log file configured, messages keep going to the standard logger.
func (c *LogConfig) SetLogger() {
	if c == nil || c.Logfile == "" {
		Infof("Sending log messages to stdout since no log file specified.")
		return
	}
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	log.SetOutput(l)
	logger = &stdLogger{rotator: l}
}

// --- Logger implementation ----

func (slog *stdLogger) Debugf(format string, args ...interface{}) {
	log.Printf("   DEBUG "+format, args...)
}

func (slog *stdLogger) Infof(format string, args ...interface{}) {
	log.Printf("    INFO "+format, args...)
}

func (slog *stdLogger) Warningf(format string, args ...interface{}) {
	log.Printf(" WARNING "+format, args...)
}

func (slog *stdLogger) Errorf(format string, args ...interface{}) {
	log.Printf("   ERROR "+format, args...)
}

func (slog *stdLogger) Criticalf(format string, args ...interface{}) {
	log.Printf("CRITICAL "+format, args...)
}

func (slog *stdLogger) Shutdown() {
	if slog.rotator != nil {
		slog.rotator.Close()
	}
}
