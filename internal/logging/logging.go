// ABOUTME: Process logger setup on logrus with optional rotating log file.
// ABOUTME: Logs go to stderr so stdout stays free for command output and MCP traffic.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures Setup.
type Params struct {
	Level      string
	JSONFormat bool
	// File, when set, receives logs through a size-rotated writer.
	File string
	// ToStderr keeps writing to stderr when File is set.
	ToStderr bool
}

// Setup configures the standard logrus logger and returns it.
func Setup(params Params) *logrus.Logger {
	logger := logrus.StandardLogger()
	Configure(logger, params)
	return logger
}

// Configure applies params to logger.
func Configure(logger *logrus.Logger, params Params) {
	if params.JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false, FullTimestamp: true})
	}
	logger.SetLevel(GetLevel(params.Level))

	if params.File == "" {
		logger.SetOutput(os.Stderr)
		return
	}

	if !strings.HasSuffix(params.File, ".log") {
		params.File += ".log"
	}
	_ = os.MkdirAll(filepath.Dir(params.File), 0750)

	rotated := &lumberjack.Logger{
		Filename:   params.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  false,
		Compress:   true,
	}

	if params.ToStderr {
		logger.SetOutput(io.MultiWriter(os.Stderr, rotated))
	} else {
		logger.SetOutput(rotated)
	}
}

// GetLevel maps a level name to a logrus level, defaulting to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
